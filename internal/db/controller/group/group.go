// Package group provides read access to groups, their permissions and member counts.
package group

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/db/models"
)

// MemberCount is the number of users in one group.
type MemberCount struct {
	GroupID   uint
	GroupName string
	UserCount int64
}

// Controller implements group storage on top of gorm.
type Controller struct {
	db *gorm.DB
}

// New returns a group controller.
func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

func (c *Controller) withPermissions(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Preload("GroupPermissions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("permission_id")
		}).
		Preload("GroupPermissions.Permission")
}

// List returns all groups with permissions, ordered by id.
func (c *Controller) List(ctx context.Context) ([]models.Group, error) {
	groups := make([]models.Group, 0)

	if err := c.withPermissions(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

// GetByID returns the group or nil if it does not exist.
func (c *Controller) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var g models.Group

	err := c.withPermissions(ctx).Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // absence is not an error on reads
	}

	if err != nil {
		return nil, err
	}

	return &g, nil
}

// Exists reports whether a group with id exists.
func (c *Controller) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64

	if err := c.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Count returns the number of groups.
func (c *Controller) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := c.db.WithContext(ctx).Model(&models.Group{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}

// CountMembers returns one entry per group, including groups without members, ordered by group id.
func (c *Controller) CountMembers(ctx context.Context) ([]MemberCount, error) {
	// "groups" is reserved in MySQL 8, so the name is quoted by the dialect
	g := c.db.Statement.Quote("groups")

	counts := make([]MemberCount, 0)

	err := c.db.WithContext(ctx).
		Model(&models.Group{}).
		Select(g + ".id AS group_id, " + g + ".name AS group_name, COUNT(user_groups.user_id) AS user_count").
		Joins("LEFT JOIN user_groups ON user_groups.group_id = " + g + ".id").
		Group(g + ".id, " + g + ".name").
		Order(g + ".id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}
