package models

import "time"

// Permission represents a named access right that can be granted to groups.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the permission name (e.g. "ManageUsers").
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description *string `gorm:"size:500"`
	// CreatedDate is the timestamp when the permission was created.
	CreatedDate time.Time `gorm:"not null"`
	// GroupPermissions are the grants referencing this permission.
	// When the permission is deleted, all grants are removed (CASCADE).
	GroupPermissions []GroupPermission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
