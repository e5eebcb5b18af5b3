// Package user provides the storage operations for users and their group memberships.
package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/db/models"
)

// updatableColumns are written by Update. CreatedDate and the id never change.
var updatableColumns = []string{"first_name", "last_name", "email", "phone_number", "is_active", "modified_date"}

// Controller implements user storage on top of gorm.
type Controller struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the clock used for ModifiedDate.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New returns a user controller.
func New(db *gorm.DB, opts ...Option) *Controller {
	c := &Controller{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *Controller) withGroups(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Preload("UserGroups", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("group_id")
		}).
		Preload("UserGroups.Group").
		Preload("UserGroups.Group.GroupPermissions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("permission_id")
		}).
		Preload("UserGroups.Group.GroupPermissions.Permission")
}

// List returns every user with groups and permissions loaded, ordered by id.
func (c *Controller) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)

	if err := c.withGroups(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (c *Controller) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User

	err := c.withGroups(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // absence is not an error on reads
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetByID returns the user or nil if it does not exist.
func (c *Controller) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return c.first(ctx, "id = ?", id)
}

// GetByEmail returns the user owning email or nil.
func (c *Controller) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.first(ctx, "email = ?", email)
}

func insertMemberships(tx *gorm.DB, userID uint, memberships []models.UserGroup) error {
	if len(memberships) == 0 {
		return nil
	}

	rows := make([]models.UserGroup, 0, len(memberships))
	for _, m := range memberships {
		rows = append(rows, models.UserGroup{UserID: userID, GroupID: m.GroupID, JoinedDate: m.JoinedDate})
	}

	return tx.Omit("User", "Group").Create(&rows).Error
}

// Create stores the user and its memberships in one transaction.
func (c *Controller) Create(ctx context.Context, u *models.User) (*models.User, error) {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberships := u.UserGroups

		if err := tx.Omit("UserGroups").Create(u).Error; err != nil {
			return err
		}

		if err := insertMemberships(tx, u.ID, memberships); err != nil {
			return err
		}

		u.UserGroups = memberships
		for i := range u.UserGroups {
			u.UserGroups[i].UserID = u.ID
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Update writes the scalar columns and replaces the memberships of u in one transaction.
// Memberships of other users are never touched.
func (c *Controller) Update(ctx context.Context, u *models.User) (*models.User, error) {
	modified := c.now()
	u.ModifiedDate = &modified

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{ID: u.ID}).Select(updatableColumns).Updates(u)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return insertMemberships(tx, u.ID, u.UserGroups)
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Delete removes the user. Memberships go with it through the cascade.
// It reports whether a row existed.
func (c *Controller) Delete(ctx context.Context, id uint) (bool, error) {
	res := c.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Exists reports whether a user with id exists.
func (c *Controller) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64

	if err := c.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Count returns the number of users.
func (c *Controller) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := c.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}
