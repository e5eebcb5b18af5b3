// Package group provides the JSON endpoints for groups.
package group

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
)

const (
	// Path is the base path of the group resource.
	Path = handler.RootPath + "groups"

	errRetrieveGroups = "An error occurred while retrieving groups"
	errRetrieveGroup  = "An error occurred while retrieving the group"
)

// Service serves the group endpoints.
type Service struct {
	handler.Service
	groups *service.GroupService
}

// Handler is the group API handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *handler.Services) {
	if app == nil || cfg == nil || svc == nil || svc.Groups == nil {
		log.Fatal().Msg(handler.ErrNilFatalLogMsg)
		return
	}

	s.groups = svc.Groups

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Get)
}

// List returns all groups with permissions.
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := s.groups.ListGroups(c.UserContext())
	if err != nil {
		return handler.InternalError(c, err, errRetrieveGroups)
	}

	return c.JSON(groups)
}

// Get returns one group.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.ErrorJSON(c, fiber.StatusBadRequest, handler.ErrInvalidID)
	}

	g, err := s.groups.GetGroup(c.UserContext(), id)
	if err != nil {
		return handler.InternalError(c, err, errRetrieveGroup)
	}

	if g == nil {
		return handler.ErrorJSON(c, fiber.StatusNotFound, fmt.Sprintf("Group with ID %d not found", id))
	}

	return c.JSON(g)
}
