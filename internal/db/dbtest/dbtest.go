// Package dbtest opens seeded in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/db/database"
	"github.com/usermgmt-go/usermgmt/internal/db/seed"
)

// Now is a fixed timestamp for test fixtures.
var Now = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// New returns a migrated and seeded in-memory SQLite database closed at test cleanup.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db := Empty(t)
	require.NoError(t, seed.Run(context.Background(), db), "failed to seed test database")

	return db
}

// Empty returns a migrated in-memory SQLite database without fixture data.
func Empty(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	db, err := database.Open(ctx, &config.DB{GormEngine: config.EngineSQLite, Path: "file::memory:"})
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	require.NoError(t, database.Migrate(ctx, db), "failed to migrate test database")

	return db
}
