// Package daemon wires configuration, storage, services and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/db/controller/group"
	"github.com/usermgmt-go/usermgmt/internal/db/controller/user"
	"github.com/usermgmt-go/usermgmt/internal/db/database"
	"github.com/usermgmt-go/usermgmt/internal/db/dsn"
	"github.com/usermgmt-go/usermgmt/internal/db/seed"
	"github.com/usermgmt-go/usermgmt/internal/logger"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	db             *gorm.DB
	sessionStorage fiber.Storage
	webService     *web.Service
}

// Start runs the web service until SIGINT or SIGTERM and releases all resources afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting http server")

	err := d.webService.Start(addr)

	if closeErr := d.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// Close releases the session storage and the database.
func (d *Daemon) Close() error {
	if d.sessionStorage != nil {
		if err := d.sessionStorage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}

		d.sessionStorage = nil
	}

	err := database.Close(d.db)
	d.db = nil

	return err //nolint:wrapcheck
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// openStore opens, migrates and seeds the database.
func openStore(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(ctx, &cfg.DB)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = database.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err //nolint:wrapcheck
	}

	if err = seed.Run(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, errors.Wrap(err, "failed to seed database")
	}

	return db, nil
}

// Migrate creates or updates the schema and installs the fixtures, then closes the database.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

	return database.Close(db) //nolint:wrapcheck
}

// newSessionStorage returns the session backend matching the database engine.
// SQLite keeps sessions in memory.
func newSessionStorage(cfg *config.DB) fiber.Storage {
	switch cfg.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessionStorage := newSessionStorage(&cfg.DB)
	session.Init(sessionStorage, cfg.Session.ExpiryTime)

	groups := group.New(db)
	svc := &handler.Services{
		Users:  service.NewUserService(user.New(db), groups),
		Groups: service.NewGroupService(groups),
	}

	return &Daemon{
		cfg:            cfg,
		db:             db,
		sessionStorage: sessionStorage,
		webService:     web.New(cfg, svc),
	}, nil
}
