// Package user provides the JSON endpoints for user management.
package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/validation"
)

const (
	// Path is the base path of the user resource.
	Path = handler.RootPath + "users"

	// ErrInvalidBody is returned for request bodies that are not valid JSON.
	ErrInvalidBody = "Invalid request body"
	// ErrValidationFailed is returned when the input fails field validation.
	ErrValidationFailed = "Validation failed"

	errRetrieveUsers   = "An error occurred while retrieving users"
	errRetrieveUser    = "An error occurred while retrieving the user"
	errCreateUser      = "An error occurred while creating the user"
	errUpdateUser      = "An error occurred while updating the user"
	errDeleteUser      = "An error occurred while deleting the user"
	errCount           = "An error occurred while retrieving the user count"
	errCountByGroup    = "An error occurred while retrieving the user count by group"
	userNotFoundFormat = "User with ID %d not found"
)

// Service serves the user endpoints.
type Service struct {
	handler.Service
	users *service.UserService
}

// Handler is the user API handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *handler.Services) {
	if app == nil || cfg == nil || svc == nil || svc.Users == nil {
		log.Fatal().Msg(handler.ErrNilFatalLogMsg)
		return
	}

	s.users = svc.Users

	app.Get(Path, s.List)
	app.Get(Path+"/count", s.Count)
	app.Get(Path+"/count-by-group", s.CountByGroup)
	app.Get(Path+"/:id", s.Get)
	app.Post(Path, s.Create)
	app.Put(Path+"/:id", s.Update)
	app.Delete(Path+"/:id", s.Delete)
}

// writeError maps the service error taxonomy onto status codes.
func writeError(c *fiber.Ctx, err error, msg string) error {
	var (
		conflict *service.ConflictError
		notFound *service.NotFoundError
	)

	switch {
	case errors.As(err, &conflict):
		log.Warn().Str("path", c.Path()).Msg(conflict.Message)
		return handler.ErrorJSON(c, fiber.StatusBadRequest, conflict.Message)
	case errors.As(err, &notFound):
		log.Warn().Str("path", c.Path()).Msg(notFound.Message)
		return handler.ErrorJSON(c, fiber.StatusNotFound, notFound.Message)
	default:
		return handler.InternalError(c, err, msg)
	}
}

// parseBody decodes and validates the JSON body. It writes the 400 response itself and returns false on failure.
func parseBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, handler.ErrorJSON(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := validation.Struct(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ErrValidationFailed,
			"fields": validation.Fields(err),
		})
	}

	return true, nil
}

// List returns all users.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.users.ListUsers(c.UserContext())
	if err != nil {
		return handler.InternalError(c, err, errRetrieveUsers)
	}

	return c.JSON(users)
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.ErrorJSON(c, fiber.StatusBadRequest, handler.ErrInvalidID)
	}

	u, err := s.users.GetUser(c.UserContext(), id)
	if err != nil {
		return handler.InternalError(c, err, errRetrieveUser)
	}

	if u == nil {
		return handler.ErrorJSON(c, fiber.StatusNotFound, fmt.Sprintf(userNotFoundFormat, id))
	}

	return c.JSON(u)
}

// Create adds a user and points Location at it.
func (s *Service) Create(c *fiber.Ctx) error {
	var in dto.CreateUserInput

	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	u, err := s.users.CreateUser(c.UserContext(), &in)
	if err != nil {
		return writeError(c, err, errCreateUser)
	}

	c.Location(Path + "/" + strconv.FormatUint(uint64(u.ID), 10))

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Update replaces a user's fields and groups.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.ErrorJSON(c, fiber.StatusBadRequest, handler.ErrInvalidID)
	}

	var in dto.UpdateUserInput

	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	u, err := s.users.UpdateUser(c.UserContext(), id, &in)
	if err != nil {
		return writeError(c, err, errUpdateUser)
	}

	return c.JSON(u)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.ErrorJSON(c, fiber.StatusBadRequest, handler.ErrInvalidID)
	}

	deleted, err := s.users.DeleteUser(c.UserContext(), id)
	if err != nil {
		return handler.InternalError(c, err, errDeleteUser)
	}

	if !deleted {
		return handler.ErrorJSON(c, fiber.StatusNotFound, fmt.Sprintf(userNotFoundFormat, id))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Count returns the number of users as a bare JSON number.
func (s *Service) Count(c *fiber.Ctx) error {
	n, err := s.users.CountUsers(c.UserContext())
	if err != nil {
		return handler.InternalError(c, err, errCount)
	}

	return c.JSON(n)
}

// CountByGroup returns the member count of every group.
func (s *Service) CountByGroup(c *fiber.Ctx) error {
	counts, err := s.users.CountUsersByGroup(c.UserContext())
	if err != nil {
		return handler.InternalError(c, err, errCountByGroup)
	}

	return c.JSON(counts)
}
