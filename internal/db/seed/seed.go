// Package seed installs the default groups, permissions and grant matrix.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/usermgmt-go/usermgmt/internal/db/controller/setting"
	"github.com/usermgmt-go/usermgmt/internal/db/models"
)

const (
	// FixtureVersion is bumped whenever the fixture content changes.
	FixtureVersion = "1"
	// VersionSetting is the settings key holding the installed fixture version.
	VersionSetting = "fixture_version"
)

type fixture struct {
	id          uint
	name        string
	description string
}

var groups = []fixture{
	{1, "Admin", "System administrators with full access"},
	{2, "Level 1", "Basic access level users"},
	{3, "Level 2", "Intermediate access level users"},
	{4, "Manager", "Team managers with elevated privileges"},
}

var permissions = []fixture{
	{1, "Create", "Can create new records"},
	{2, "Read", "Can view records"},
	{3, "Update", "Can modify existing records"},
	{4, "Delete", "Can delete records"},
	{5, "ManageUsers", "Can manage user accounts"},
	{6, "ManageGroups", "Can manage groups"},
	{7, "ViewReports", "Can view reports"},
	{8, "ManageSystem", "Can manage system settings"},
}

// grants maps a group id to its permission ids.
var grants = map[uint][]uint{
	1: {1, 2, 3, 4, 5, 6, 7, 8},
	2: {2},
	3: {1, 2, 3},
	4: {1, 2, 3, 4, 7},
}

// Groups returns the default groups.
func Groups(now time.Time) []models.Group {
	out := make([]models.Group, 0, len(groups))

	for _, g := range groups {
		desc := g.description
		out = append(out, models.Group{ID: g.id, Name: g.name, Description: &desc, CreatedDate: now})
	}

	return out
}

// Permissions returns the default permissions.
func Permissions(now time.Time) []models.Permission {
	out := make([]models.Permission, 0, len(permissions))

	for _, p := range permissions {
		desc := p.description
		out = append(out, models.Permission{ID: p.id, Name: p.name, Description: &desc, CreatedDate: now})
	}

	return out
}

// GroupPermissions returns the default grant matrix, ordered by group and permission id.
func GroupPermissions(now time.Time) []models.GroupPermission {
	var out []models.GroupPermission

	for _, g := range groups {
		for _, pid := range grants[g.id] {
			out = append(out, models.GroupPermission{GroupID: g.id, PermissionID: pid, GrantedDate: now})
		}
	}

	return out
}

// Run installs the fixture data unless the current version is already recorded.
// Existing rows are left untouched.
func Run(ctx context.Context, db *gorm.DB) error {
	s, err := setting.Get(ctx, db, VersionSetting)

	switch {
	case err == nil && string(s.Value) == FixtureVersion:
		log.Debug().Str("version", FixtureVersion).Msg("fixture data is current")
		return nil
	case err != nil && !errors.Is(err, setting.ErrSettingNotFound):
		return err
	}

	now := time.Now().UTC()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a new session per Create keeps each insert's statement bound to its own model
		skip := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})

		g := Groups(now)
		if err := skip.Create(&g).Error; err != nil {
			return err
		}

		p := Permissions(now)
		if err := skip.Create(&p).Error; err != nil {
			return err
		}

		gp := GroupPermissions(now)
		if err := skip.Create(&gp).Error; err != nil {
			return err
		}

		_, err := setting.Set(ctx, tx, VersionSetting, []byte(FixtureVersion))

		return err
	})
	if err != nil {
		return err
	}

	log.Info().Str("version", FixtureVersion).Msg("fixture data installed")

	return nil
}
