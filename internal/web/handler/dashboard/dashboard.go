// Package dashboard provides the landing page with user statistics.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/navigation"
	"github.com/usermgmt-go/usermgmt/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	errLoadStatistics = "Failed to load user statistics"
)

// Data is the dashboard view model.
type Data struct {
	TotalUsers   int64
	TotalGroups  int
	GroupsInUse  int
	GroupCounts  []dto.UserCountByGroupDto
	LargestGroup *dto.UserCountByGroupDto
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	users *service.UserService
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *handler.Services) {
	if app == nil || cfg == nil || svc == nil || svc.Users == nil {
		log.Fatal().Msg(handler.ErrNilFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.users = svc.Users

	app.Get(Path, s.Get)
}

// Get renders the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.Dashboard(Path)

	var data Data

	g, ctx := errgroup.WithContext(c.UserContext())

	g.Go(func() error {
		n, err := s.users.CountUsers(ctx)
		data.TotalUsers = n

		return err
	})
	g.Go(func() error {
		counts, err := s.users.CountUsersByGroup(ctx)
		data.GroupCounts = counts

		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("dashboard statistics")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Navigation": nav,
			"Title":      s.cfg.Title,
			"Error":      errLoadStatistics,
		}, handler.BaseLayout)
	}

	summarize(&data)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Title":      s.cfg.Title,
		"Flash":      session.PopFlash(c),
		"Data":       data,
	}, handler.BaseLayout)
}

func summarize(d *Data) {
	d.TotalGroups = len(d.GroupCounts)

	for i := range d.GroupCounts {
		gc := &d.GroupCounts[i]
		if gc.UserCount > 0 {
			d.GroupsInUse++
		}

		if gc.UserCount > 0 && (d.LargestGroup == nil || gc.UserCount > d.LargestGroup.UserCount) {
			d.LargestGroup = gc
		}
	}
}
