package models

import "time"

// Group represents a named collection of users that is granted a set of permissions.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the group. It is globally unique.
	Name string `gorm:"size:100;not null;uniqueIndex"`
	// Description provides a human-readable explanation of the group's purpose.
	Description *string `gorm:"size:500"`
	// CreatedDate is the timestamp when the group was created.
	CreatedDate time.Time `gorm:"not null"`
	// UserGroups are the memberships of this group.
	// When the group is deleted, all memberships are removed (CASCADE).
	UserGroups []UserGroup `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// GroupPermissions are the permission grants of this group.
	// When the group is deleted, all grants are removed (CASCADE).
	GroupPermissions []GroupPermission `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
