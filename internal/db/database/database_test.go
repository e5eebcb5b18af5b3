package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/db/models"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, &config.DB{
		GormEngine:    config.EngineSQLite,
		Path:          filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns:  2,
		SlowThreshold: time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, Close(db))
	})

	require.NoError(t, Migrate(ctx, db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}

	// migrating twice is a no-op
	require.NoError(t, Migrate(ctx, db))
}

func TestOpenUnsupportedEngine(t *testing.T) {
	_, err := Open(context.Background(), &config.DB{GormEngine: "oracle"})
	require.ErrorIs(t, err, config.ErrUnsupportedEngine)
}

func TestForeignKeysCascade(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, &config.DB{GormEngine: config.EngineSQLite, Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))

	now := time.Now()
	group := models.Group{Name: "Admin", CreatedDate: now}
	require.NoError(t, db.Create(&group).Error)

	user := models.User{FirstName: "John", LastName: "Doe", Email: "john@example.com", CreatedDate: now, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID, JoinedDate: now}).Error)

	// a membership pointing at a missing user is rejected
	err = db.Create(&models.UserGroup{UserID: 999, GroupID: group.ID, JoinedDate: now}).Error
	require.Error(t, err)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.UserGroup{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, &config.DB{GormEngine: config.EngineSQLite, Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))

	require.NoError(t, db.Create(&models.Group{Name: "Admin", CreatedDate: time.Now()}).Error)
	err = db.Create(&models.Group{Name: "Admin", CreatedDate: time.Now()}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCloseNil(t *testing.T) {
	require.NoError(t, Close(nil))
}
