// Package database opens and migrates the relational store.
package database

import (
	"context"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/db/dsn"
	"github.com/usermgmt-go/usermgmt/internal/db/models"
	gormlogger "github.com/usermgmt-go/usermgmt/internal/logger/adapter/gorm"
)

const memoryMarker = ":memory:"

func dialector(cfg *config.DB) (gorm.Dialector, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		return sqlite.Open(source), nil
	}
}

// Open connects to the configured database and sizes the connection pool.
func Open(ctx context.Context, cfg *config.DB) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         gormlogger.New(cfg.SlowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	isSQLite := cfg.GormEngine == config.EngineSQLite || cfg.GormEngine == ""

	switch {
	case isSQLite && strings.Contains(cfg.Path, memoryMarker):
		// every connection to :memory: is a fresh database
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	if isSQLite {
		if err = db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, errors.Wrap(err, "enable sqlite foreign keys")
		}
	}

	log.Info().Str("engine", db.Name()).Msg("database connected")

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "migrate database")
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}

	return sqlDB.Close() //nolint:wrapcheck
}
