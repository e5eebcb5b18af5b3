package models

import "time"

// GroupPermission represents the many-to-many relationship between groups and permissions.
// This junction table maps which permissions are granted to which groups.
type GroupPermission struct {
	// GroupID is the ID of the group in this grant.
	GroupID uint `gorm:"primaryKey;column:group_id;autoIncrement:false"`
	// PermissionID is the ID of the permission in this grant.
	PermissionID uint `gorm:"primaryKey;column:permission_id;autoIncrement:false;index"`
	// GrantedDate is the timestamp when the permission was granted.
	GrantedDate time.Time `gorm:"not null"`
	// Group is the associated group (loaded via foreign key).
	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the GroupPermission model.
func (GroupPermission) TableName() string {
	return "group_permissions"
}
