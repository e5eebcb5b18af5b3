// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/usermgmt-go/usermgmt/internal/config"
)

const (
	sqliteForeignKeys   = "_pragma=foreign_keys(1)"
	// clientFoundRows makes an update that changes nothing still report its matched row.
	mysqlDefaultExtras  = "charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"
	postgresDefaultPort = 5432
	mysqlDefaultPort    = 3306
)

// Create builds the Data Source Name for the configured engine.
func Create(dbCfg *config.DB) (string, error) {
	switch dbCfg.GormEngine {
	case config.EngineSQLite, "":
		return SQLite(dbCfg), nil
	case config.EngineMySQL:
		return MySQL(dbCfg), nil
	case config.EnginePostgres:
		return Postgres(dbCfg), nil
	default:
		return "", fmt.Errorf("%w: %s", config.ErrUnsupportedEngine, dbCfg.GormEngine)
	}
}

// SQLite returns the file DSN with foreign key enforcement switched on.
func SQLite(dbCfg *config.DB) string {
	out := dbCfg.Path

	sep := "?"
	if strings.Contains(out, "?") {
		sep = "&"
	}

	out += sep + sqliteForeignKeys

	if dbCfg.Extras != "" {
		out += "&" + dbCfg.Extras
	}

	return out
}

// MySQL returns a go-sql-driver style DSN.
func MySQL(dbCfg *config.DB) string {
	port := dbCfg.Port
	if port == 0 {
		port = mysqlDefaultPort
	}

	extras := dbCfg.Extras
	if extras == "" {
		extras = mysqlDefaultExtras
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		port,
		dbCfg.Name,
		extras,
	)
}

// Postgres returns a libpq keyword/value DSN. Extras are appended verbatim, e.g. "sslmode=disable".
func Postgres(dbCfg *config.DB) string {
	port := dbCfg.Port
	if port == 0 {
		port = postgresDefaultPort
	}

	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if dbCfg.Extras != "" {
		out += " " + dbCfg.Extras
	}

	return out
}
