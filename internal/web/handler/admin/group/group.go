// Package group provides the admin pages for browsing groups and their permissions.
package group

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/dashboard"
	"github.com/usermgmt-go/usermgmt/internal/web/navigation"
)

const (
	// Path is the base path for group pages.
	Path = handler.RootPath + "admin/groups"

	// TemplateList is the template for listing groups.
	TemplateList = "admin/group/list"
	// TemplateDetail is the template for a single group.
	TemplateDetail = "admin/group/detail"
	// TemplateNotFound is rendered for unknown group ids.
	TemplateNotFound = "errors/404"

	// ErrFailedLoadGroups indicates an unexpected error occurred while loading groups.
	ErrFailedLoadGroups = "Failed to load groups"
	// ErrFailedLoadGroup indicates an unexpected error occurred while loading a single group.
	ErrFailedLoadGroup = "Failed to load group"
)

// Row is one line of the group list.
type Row struct {
	Group       dto.GroupDto
	MemberCount int64
}

// Service provides the group admin pages.
type Service struct {
	handler.Service
	cfg    *config.Config
	users  *service.UserService
	groups *service.GroupService
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *handler.Services) {
	if app == nil || cfg == nil || svc == nil || svc.Users == nil || svc.Groups == nil {
		log.Fatal().Msg(handler.ErrNilFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.users = svc.Users
	s.groups = svc.Groups

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Detail)
}

func listNav() *navigation.Context {
	return navigation.Admin("Groups", navigation.PageGroups, dashboard.Path).
		Here("Groups", Path)
}

// List shows all groups with permissions and member counts.
func (s *Service) List(c *fiber.Ctx) error {
	var (
		groups []dto.GroupDto
		counts []dto.UserCountByGroupDto
	)

	g, ctx := errgroup.WithContext(c.UserContext())

	g.Go(func() (err error) {
		groups, err = s.groups.ListGroups(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.users.CountUsersByGroup(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("list groups")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      ErrFailedLoadGroups,
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Rows":       rows(groups, counts),
	}, handler.BaseLayout)
}

// Detail shows one group.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return s.notFound(c, c.Params("id"))
	}

	grp, err := s.groups.GetGroup(c.UserContext(), id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("get group")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      ErrFailedLoadGroup,
		}, handler.BaseLayout)
	}

	if grp == nil {
		return s.notFound(c, strconv.FormatUint(uint64(id), 10))
	}

	nav := navigation.Admin(grp.Name, navigation.PageGroups, dashboard.Path).
		Link("Groups", Path).
		Here(grp.Name, Path+"/"+strconv.FormatUint(uint64(id), 10))

	return c.Render(TemplateDetail, fiber.Map{
		"Navigation": nav,
		"Group":      grp,
	}, handler.BaseLayout)
}

func (s *Service) notFound(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).Render(TemplateNotFound, fiber.Map{
		"Navigation": listNav(),
		"Message":    fmt.Sprintf("Group with ID %s not found.", id),
	}, handler.BaseLayout)
}

// rows joins groups with their member counts. Groups missing from counts report zero.
func rows(groups []dto.GroupDto, counts []dto.UserCountByGroupDto) []Row {
	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.GroupID] = c.UserCount
	}

	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		out = append(out, Row{Group: g, MemberCount: byID[g.ID]})
	}

	return out
}
