package service

import (
	"context"

	"github.com/usermgmt-go/usermgmt/internal/dto"
)

// GroupService exposes groups with their permissions.
type GroupService struct {
	groups GroupRepository
}

// NewGroupService returns a GroupService.
func NewGroupService(groups GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]dto.GroupDto, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.FromGroups(groups), nil
}

// GetGroup returns the group or nil if it does not exist.
func (s *GroupService) GetGroup(ctx context.Context, id uint) (*dto.GroupDto, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil || g == nil {
		return nil, err
	}

	out := dto.FromGroup(g)

	return &out, nil
}
