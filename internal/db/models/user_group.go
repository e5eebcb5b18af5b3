package models

import "time"

// UserGroup represents the many-to-many relationship between users and groups.
// Each row is one membership edge keyed by (UserID, GroupID).
type UserGroup struct {
	// UserID is the ID of the user in this membership.
	UserID uint `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	// GroupID is the ID of the group in this membership.
	GroupID uint `gorm:"primaryKey;column:group_id;autoIncrement:false;index"`
	// JoinedDate is the timestamp when the user was added to the group.
	JoinedDate time.Time `gorm:"not null"`
	// User is the associated user (loaded via foreign key).
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Group is the associated group (loaded via foreign key).
	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the UserGroup model.
func (UserGroup) TableName() string {
	return "user_groups"
}
