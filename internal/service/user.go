// Package service implements the business rules on top of the storage controllers.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/usermgmt-go/usermgmt/internal/db/controller/group"
	"github.com/usermgmt-go/usermgmt/internal/db/models"
	"github.com/usermgmt-go/usermgmt/internal/dto"
)

// UserRepository is the user storage used by UserService.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// GroupRepository is the group storage used by the services.
type GroupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountMembers(ctx context.Context) ([]group.MemberCount, error)
}

// UserService manages users and their group memberships.
type UserService struct {
	users  UserRepository
	groups GroupRepository
	now    func() time.Time
}

// UserOption configures a UserService.
type UserOption func(*UserService)

// WithClock replaces the clock used for creation and join timestamps.
func WithClock(now func() time.Time) UserOption {
	return func(s *UserService) {
		s.now = now
	}
}

// NewUserService returns a UserService.
func NewUserService(users UserRepository, groups GroupRepository, opts ...UserOption) *UserService {
	s := &UserService{
		users:  users,
		groups: groups,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// ListUsers returns all users with their groups.
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserDto, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.FromUsers(users), nil
}

// GetUser returns the user or nil if it does not exist.
func (s *UserService) GetUser(ctx context.Context, id uint) (*dto.UserDto, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	out := dto.FromUser(u)

	return &out, nil
}

// CreateUser stores a new active user in the requested groups.
func (s *UserService) CreateUser(ctx context.Context, in *dto.CreateUserInput) (*dto.UserDto, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, emailConflict(in.Email)
	}

	groupIDs, err := s.checkGroups(ctx, in.GroupIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()

	u := &models.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: optionalPhone(in.PhoneNumber),
		CreatedDate: now,
		IsActive:    true,
		UserGroups:  memberships(groupIDs, now),
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailConflict(in.Email)
		}

		return nil, err
	}

	return s.reload(ctx, created.ID)
}

// UpdateUser overwrites the user's fields and replaces its group memberships.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in *dto.UpdateUserInput) (*dto.UserDto, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u == nil {
		return nil, userNotFound(id)
	}

	if in.Email != u.Email {
		owner, err := s.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}

		if owner != nil && owner.ID != id {
			return nil, emailConflict(in.Email)
		}
	}

	groupIDs, err := s.checkGroups(ctx, in.GroupIDs)
	if err != nil {
		return nil, err
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = in.Email
	u.PhoneNumber = optionalPhone(in.PhoneNumber)
	u.IsActive = in.Active()
	u.UserGroups = memberships(groupIDs, s.now())

	if _, err = s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, emailConflict(in.Email)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// deleted between the lookup and the update
			return nil, userNotFound(id)
		}

		return nil, err
	}

	return s.reload(ctx, id)
}

// DeleteUser removes the user and reports whether it existed.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (bool, error) {
	return s.users.Delete(ctx, id)
}

// CountUsers returns the number of users.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// CountUsersByGroup returns the member count of every group, zero for empty groups.
func (s *UserService) CountUsersByGroup(ctx context.Context) ([]dto.UserCountByGroupDto, error) {
	counts, err := s.groups.CountMembers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserCountByGroupDto, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.UserCountByGroupDto{GroupID: c.GroupID, GroupName: c.GroupName, UserCount: c.UserCount})
	}

	return out, nil
}

func (s *UserService) reload(ctx context.Context, id uint) (*dto.UserDto, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u == nil {
		return nil, userNotFound(id)
	}

	out := dto.FromUser(u)

	return &out, nil
}

// checkGroups collapses duplicates and fails on the first id without a group.
func (s *UserService) checkGroups(ctx context.Context, raw []int) ([]uint, error) {
	seen := make(map[uint]struct{}, len(raw))
	out := make([]uint, 0, len(raw))

	for _, n := range raw {
		if n <= 0 {
			return nil, invalidGroupID(n)
		}

		id := uint(n)
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		ok, err := s.groups.Exists(ctx, id)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, groupNotFound(id)
		}

		out = append(out, id)
	}

	return out, nil
}

// optionalPhone stores a blank phone number as absent.
func optionalPhone(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}

	return p
}

func memberships(groupIDs []uint, joined time.Time) []models.UserGroup {
	out := make([]models.UserGroup, 0, len(groupIDs))
	for _, id := range groupIDs {
		out = append(out, models.UserGroup{GroupID: id, JoinedDate: joined})
	}

	return out
}
