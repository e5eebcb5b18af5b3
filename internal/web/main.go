// Package web assembles the fiber application serving the JSON API and the admin pages.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/usermgmt-go/usermgmt/internal/config"
	fiberlog "github.com/usermgmt-go/usermgmt/internal/logger/adapter/fiber"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	admingroup "github.com/usermgmt-go/usermgmt/internal/web/handler/admin/group"
	adminuser "github.com/usermgmt-go/usermgmt/internal/web/handler/admin/user"
	apigroup "github.com/usermgmt-go/usermgmt/internal/web/handler/api/group"
	apiuser "github.com/usermgmt-go/usermgmt/internal/web/handler/api/user"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/dashboard"
	"github.com/usermgmt-go/usermgmt/internal/web/middleware/metrics"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	staticPath = "/static"

	// ErrUnexpected is the only detail a client sees for unhandled errors.
	ErrUnexpected = "An unexpected error occurred"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Option configures the web service.
type Option func(*options)

type options struct {
	views      fiber.Views
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// WithViews replaces the template engine.
func WithViews(v fiber.Views) Option {
	return func(o *options) {
		o.views = v
	}
}

// WithRegistry records and exposes metrics on reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown blocks until SIGINT or SIGTERM and then stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the check alive endpoint for ShutDownTime seconds and then stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service still accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(subFS(embeddedTemplates, "templates"))
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}

		return *s
	})
	templateEngine.AddFunc("fieldError", func(errs any, field string) string {
		m, _ := errs.(map[string]string)
		return m[field]
	})

	return templateEngine
}

// errorHandler answers fiber errors with their own status and everything else with a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return handler.ErrorJSON(c, fe.Code, fe.Message)
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("request_id", c.Locals("requestid")).
		Msg("unhandled error")

	return handler.ErrorJSON(c, fiber.StatusInternalServerError, ErrUnexpected)
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, svc *handler.Services, opts ...Option) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if svc == nil {
		panic("services cannot be nil")
	}

	o := options{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.views == nil {
		o.views = newTemplateEngine(cfg)
	}

	appName := cfg.Title
	if appName == "" {
		appName = "usermgmt"
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          o.views,
			ErrorHandler:   errorHandler,
			ReadTimeout:    cfg.Webserver.ReadTimeout,
			WriteTimeout:   cfg.Webserver.WriteTimeout,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode || cfg.Webserver.ShutDownTime <= 0,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New())

	if cfg.Webserver.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.Webserver.AllowOrigins}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Use(metrics.New(metrics.Config{
		Registerer:  o.registerer,
		ServiceName: cfg.Log.ServiceName,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == MetricsPath || c.Path() == CheckAlivePath || strings.HasPrefix(c.Path(), staticPath)
		},
	}))

	// serve embedded static files
	app.Use(staticPath,
		filesystem.New(
			filesystem.Config{
				Root:   http.FS(subFS(embeddedStatic, "static")),
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}

		return c.SendString("OK")
	})

	// init handlers, the api registers /users/count before /users/:id
	apiuser.Handler.Init(app, cfg, svc)
	apigroup.Handler.Init(app, cfg, svc)
	dashboard.Handler.Init(app, cfg, svc)
	adminuser.Handler.Init(app, cfg, svc)
	admingroup.Handler.Init(app, cfg, svc)

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
