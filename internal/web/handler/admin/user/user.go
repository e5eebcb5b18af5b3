// Package user provides the admin pages for managing users.
package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/dashboard"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/validation"
	"github.com/usermgmt-go/usermgmt/internal/web/navigation"
	"github.com/usermgmt-go/usermgmt/internal/web/session"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/users"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"

	// ErrFailedLoadUsers indicates an unexpected error while loading the user list.
	ErrFailedLoadUsers = "Failed to load users"
	// ErrFailedLoadGroups indicates an unexpected error while loading the group choices.
	ErrFailedLoadGroups = "Failed to load groups"
	// ErrFailedSaveUser indicates an unexpected error while creating or updating a user.
	ErrFailedSaveUser = "Failed to save user"
	// ErrFailedDeleteUser indicates an unexpected error while deleting a user.
	ErrFailedDeleteUser = "Failed to delete user"
	// ErrInvalidForm is shown when the form could not be decoded.
	ErrInvalidForm = "Invalid form data"
	// ErrCorrectFields is shown when the form fails validation.
	ErrCorrectFields = "Please correct the highlighted errors"

	msgCreated = "User %s %s was created."
	msgUpdated = "User %s %s was updated."
	msgDeleted = "User was deleted."
)

// FormData is the state of the user form.
type FormData struct {
	ID          uint
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	IsActive    bool
	GroupIDs    map[uint]bool
}

// Service provides the user admin pages.
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
	app.Get(Path+"/new", s.New)
	app.Post(Path, s.Create)
	app.Get(Path+"/:id/edit", s.Edit)
	app.Post(Path+"/:id", s.Update)
	app.Post(Path+"/:id/delete", s.Delete)
}

func listNav() *navigation.Context {
	return navigation.Admin("Users", navigation.PageUsers, dashboard.Path).
		Here("Users", Path)
}

func formNav(title, url string) *navigation.Context {
	return navigation.Admin(title, navigation.PageUsers, dashboard.Path).
		Link("Users", Path).
		Here(title, url)
}

func editURL(id uint) string {
	return Path + "/" + strconv.FormatUint(uint64(id), 10) + "/edit"
}

// List shows all users with their groups.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.users.ListUsers(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("list users")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      ErrFailedLoadUsers,
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Flash":      session.PopFlash(c),
		"Users":      users,
	}, handler.BaseLayout)
}

// renderForm renders the form with the group choices. extra is merged into the binding.
func (s *Service) renderForm(c *fiber.Ctx, status int, nav *navigation.Context, form *FormData, extra fiber.Map) error {
	groups, err := s.groups.ListGroups(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("list groups")

		status = fiber.StatusInternalServerError
		extra = fiber.Map{"Error": ErrFailedLoadGroups}
	}

	binding := fiber.Map{
		"Navigation": nav,
		"Form":       form,
		"Groups":     groups,
		"IsCreate":   form.ID == 0,
	}

	for k, v := range extra {
		binding[k] = v
	}

	return c.Status(status).Render(TemplateForm, binding, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	form := &FormData{IsActive: true, GroupIDs: map[uint]bool{}}

	return s.renderForm(c, fiber.StatusOK, formNav("New User", Path+"/new"), form, nil)
}

// Edit shows the edit form for a user.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return c.Redirect(Path, fiber.StatusSeeOther)
	}

	u, err := s.users.GetUser(c.UserContext(), id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("get user")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      ErrFailedLoadUsers,
		}, handler.BaseLayout)
	}

	if u == nil {
		session.SetFlash(c, session.FlashError, fmt.Sprintf("User with ID %d not found.", id))
		return c.Redirect(Path, fiber.StatusSeeOther)
	}

	return s.renderForm(c, fiber.StatusOK, formNav("Edit User", editURL(id)), formFromUser(u), nil)
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	form, err := parseForm(c)
	nav := formNav("New User", Path+"/new")

	if err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fiber.Map{"Error": ErrInvalidForm})
	}

	in := form.createInput()
	if err = validation.Struct(in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fieldErrors(err))
	}

	u, err := s.users.CreateUser(c.UserContext(), in)
	if err != nil {
		return s.saveFailed(c, nav, form, err)
	}

	session.SetFlash(c, session.FlashSuccess, fmt.Sprintf(msgCreated, u.FirstName, u.LastName))

	return c.Redirect(Path, fiber.StatusSeeOther)
}

// Update updates a user.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return c.Redirect(Path, fiber.StatusSeeOther)
	}

	form, err := parseForm(c)
	form.ID = id
	nav := formNav("Edit User", editURL(id))

	if err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fiber.Map{"Error": ErrInvalidForm})
	}

	in := form.updateInput()
	if err = validation.Struct(in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fieldErrors(err))
	}

	u, err := s.users.UpdateUser(c.UserContext(), id, in)
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) && notFound.Entity == service.EntityUser {
			session.SetFlash(c, session.FlashError, notFound.Message)
			return c.Redirect(Path, fiber.StatusSeeOther)
		}

		return s.saveFailed(c, nav, form, err)
	}

	session.SetFlash(c, session.FlashSuccess, fmt.Sprintf(msgUpdated, u.FirstName, u.LastName))

	return c.Redirect(Path, fiber.StatusSeeOther)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return c.Redirect(Path, fiber.StatusSeeOther)
	}

	deleted, err := s.users.DeleteUser(c.UserContext(), id)

	switch {
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("delete user")
		session.SetFlash(c, session.FlashError, ErrFailedDeleteUser)
	case !deleted:
		session.SetFlash(c, session.FlashError, fmt.Sprintf("User with ID %d not found.", id))
	default:
		session.SetFlash(c, session.FlashSuccess, msgDeleted)
	}

	return c.Redirect(Path, fiber.StatusSeeOther)
}

// saveFailed re-renders the form after a rejected create or update.
func (s *Service) saveFailed(c *fiber.Ctx, nav *navigation.Context, form *FormData, err error) error {
	var (
		conflict *service.ConflictError
		notFound *service.NotFoundError
	)

	switch {
	case errors.As(err, &conflict):
		log.Warn().Str("email", form.Email).Msg(conflict.Message)
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fiber.Map{"Error": conflict.Message})
	case errors.As(err, &notFound):
		return s.renderForm(c, fiber.StatusBadRequest, nav, form, fiber.Map{"Error": notFound.Message})
	}

	log.Error().Err(err).Msg("save user")

	return s.renderForm(c, fiber.StatusInternalServerError, nav, form, fiber.Map{"Error": ErrFailedSaveUser})
}

func fieldErrors(err error) fiber.Map {
	fields := make(map[string]string)
	for _, fe := range validation.Fields(err) {
		fields[fe.Field] = fe.Message
	}

	return fiber.Map{"Error": ErrCorrectFields, "FieldErrors": fields}
}
