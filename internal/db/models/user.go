package models

import "time"

// User represents a managed user account.
// A user belongs to zero or more groups through UserGroup rows and receives
// the permissions granted to those groups.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100;not null"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100;not null"`
	// Email is the user's email address. It is globally unique.
	Email string `gorm:"size:256;not null;uniqueIndex"`
	// PhoneNumber is the optional phone number of the user.
	PhoneNumber *string `gorm:"size:20"`
	// CreatedDate is the timestamp when the user was created.
	CreatedDate time.Time `gorm:"not null"`
	// ModifiedDate is the timestamp of the last update (nil if never updated).
	ModifiedDate *time.Time
	// IsActive indicates whether the user account is active.
	IsActive bool `gorm:"not null;default:true"`
	// UserGroups are the group memberships of this user.
	// When the user is deleted, all memberships are removed (CASCADE).
	UserGroups []UserGroup `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// GroupIDs returns the ids of all groups the user is a member of.
func (u *User) GroupIDs() []uint {
	ids := make([]uint, 0, len(u.UserGroups))
	for i := range u.UserGroups {
		ids = append(ids, u.UserGroups[i].GroupID)
	}

	return ids
}
