// Package dto holds the request and response shapes of the HTTP API and
// the mapping from storage models.
package dto

import (
	"time"

	"github.com/usermgmt-go/usermgmt/internal/db/models"
)

// PermissionDto is a permission granted to a group.
type PermissionDto struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
}

// GroupDto is a group with its permissions.
type GroupDto struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	CreatedDate time.Time       `json:"createdDate"`
	Permissions []PermissionDto `json:"permissions"`
}

// UserDto is a user with its groups.
type UserDto struct {
	ID           uint       `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	PhoneNumber  *string    `json:"phoneNumber"`
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate *time.Time `json:"modifiedDate"`
	IsActive     bool       `json:"isActive"`
	Groups       []GroupDto `json:"groups"`
}

// UserCountByGroupDto is the number of members of one group.
type UserCountByGroupDto struct {
	GroupID   uint   `json:"groupId"`
	GroupName string `json:"groupName"`
	UserCount int64  `json:"userCount"`
}

// CreateUserInput is the body of a create request.
type CreateUserInput struct {
	FirstName   string  `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" form:"lastName" validate:"required,max=100"`
	Email       string  `json:"email" form:"email" validate:"required,email,max=256"`
	PhoneNumber *string `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,max=20"`
	GroupIDs    []int   `json:"groupIds" form:"groupIds" validate:"dive,gt=0"`
}

// UpdateUserInput is the body of an update request.
// An omitted IsActive keeps the user active.
type UpdateUserInput struct {
	FirstName   string  `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" form:"lastName" validate:"required,max=100"`
	Email       string  `json:"email" form:"email" validate:"required,email,max=256"`
	PhoneNumber *string `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,max=20"`
	IsActive    *bool   `json:"isActive" form:"isActive"`
	GroupIDs    []int   `json:"groupIds" form:"groupIds" validate:"dive,gt=0"`
}

// Active resolves the optional IsActive flag.
func (in *UpdateUserInput) Active() bool {
	return in.IsActive == nil || *in.IsActive
}

// FromPermission maps a permission.
func FromPermission(p *models.Permission) PermissionDto {
	return PermissionDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedDate: p.CreatedDate,
	}
}

// FromGroup maps a group. Grants whose permission was not loaded are skipped.
func FromGroup(g *models.Group) GroupDto {
	out := GroupDto{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedDate: g.CreatedDate,
		Permissions: make([]PermissionDto, 0, len(g.GroupPermissions)),
	}

	for i := range g.GroupPermissions {
		if p := g.GroupPermissions[i].Permission; p != nil {
			out.Permissions = append(out.Permissions, FromPermission(p))
		}
	}

	return out
}

// FromGroups maps a list of groups.
func FromGroups(groups []models.Group) []GroupDto {
	out := make([]GroupDto, 0, len(groups))
	for i := range groups {
		out = append(out, FromGroup(&groups[i]))
	}

	return out
}

// FromUser maps a user. Memberships whose group was not loaded are skipped.
func FromUser(u *models.User) UserDto {
	out := UserDto{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		CreatedDate:  u.CreatedDate,
		ModifiedDate: u.ModifiedDate,
		IsActive:     u.IsActive,
		Groups:       make([]GroupDto, 0, len(u.UserGroups)),
	}

	for i := range u.UserGroups {
		if g := u.UserGroups[i].Group; g != nil {
			out.Groups = append(out.Groups, FromGroup(g))
		}
	}

	return out
}

// FromUsers maps a list of users.
func FromUsers(users []models.User) []UserDto {
	out := make([]UserDto, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}

	return out
}
