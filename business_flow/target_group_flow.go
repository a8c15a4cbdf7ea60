// Package businessflow contains the core business logic and use cases for target group workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/models"
	"github.com/ozvena/ozvena/repository"
	"github.com/ozvena/ozvena/utils"
)

// TargetGroupFlow handles the target group business logic
type TargetGroupFlow interface {
	CreateTargetGroup(ctx context.Context, req *dto.CreateTargetGroupRequest, metadata *ClientMetadata) (*dto.CreateTargetGroupResponse, error)
	ListTargetGroups(ctx context.Context, req *dto.ListTargetGroupsRequest, metadata *ClientMetadata) (*dto.ListTargetGroupsResponse, error)
	DeleteTargetGroup(ctx context.Context, req *dto.DeleteTargetGroupRequest, metadata *ClientMetadata) (*dto.DeleteTargetGroupResponse, error)
}

// TargetGroupFlowImpl implements the target group business flow
type TargetGroupFlowImpl struct {
	targetGroupRepo repository.TargetGroupRepository
}

// NewTargetGroupFlow creates a new target group flow instance
func NewTargetGroupFlow(targetGroupRepo repository.TargetGroupRepository) TargetGroupFlow {
	return &TargetGroupFlowImpl{
		targetGroupRepo: targetGroupRepo,
	}
}

// CreateTargetGroup handles the target group creation process
func (s *TargetGroupFlowImpl) CreateTargetGroup(ctx context.Context, req *dto.CreateTargetGroupRequest, metadata *ClientMetadata) (*dto.CreateTargetGroupResponse, error) {
	personaCount := utils.DefaultPersonaCount
	if req.PersonaCount != nil {
		personaCount = *req.PersonaCount
	}
	if personaCount < utils.MinPersonaCount || personaCount > utils.MaxPersonaCount {
		return nil, NewBusinessError("TARGET_GROUP_VALIDATION_FAILED", "Target group validation failed", ErrInvalidPersonaCount)
	}

	group := &models.TargetGroup{
		UUID:         uuid.New(),
		UserID:       req.UserID,
		Name:         req.Name,
		Description:  req.Description,
		PersonaCount: personaCount,
	}

	if err := s.targetGroupRepo.Save(ctx, group); err != nil {
		return nil, NewBusinessError("TARGET_GROUP_CREATION_FAILED", "Target group creation failed", err)
	}

	return &dto.CreateTargetGroupResponse{
		Message:     "Target group created successfully",
		TargetGroup: ToTargetGroupDTO(*group),
	}, nil
}

// ListTargetGroups returns the caller's target groups with pagination
func (s *TargetGroupFlowImpl) ListTargetGroups(ctx context.Context, req *dto.ListTargetGroupsRequest, metadata *ClientMetadata) (*dto.ListTargetGroupsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("TARGET_GROUP_LIST_VALIDATION_FAILED", "Invalid pagination", err)
	}

	offset := (page - 1) * pageSize
	groups, err := s.targetGroupRepo.ByUserID(ctx, req.UserID, pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("TARGET_GROUP_LIST_FAILED", "Failed to list target groups", err)
	}

	total, err := s.targetGroupRepo.Count(ctx, models.TargetGroupFilter{UserID: &req.UserID})
	if err != nil {
		return nil, NewBusinessError("TARGET_GROUP_COUNT_FAILED", "Failed to count target groups", err)
	}

	items := make([]dto.TargetGroupDTO, 0, len(groups))
	for _, g := range groups {
		items = append(items, ToTargetGroupDTO(*g))
	}

	return &dto.ListTargetGroupsResponse{
		TargetGroups: items,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// DeleteTargetGroup removes a target group owned by the caller
func (s *TargetGroupFlowImpl) DeleteTargetGroup(ctx context.Context, req *dto.DeleteTargetGroupRequest, metadata *ClientMetadata) (*dto.DeleteTargetGroupResponse, error) {
	group, err := s.targetGroupRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("TARGET_GROUP_LOOKUP_FAILED", "Failed to lookup target group", err)
	}
	if group == nil {
		return nil, NewBusinessError("TARGET_GROUP_NOT_FOUND", "Target group not found", ErrTargetGroupNotFound)
	}
	if group.UserID != req.UserID {
		return nil, NewBusinessError("TARGET_GROUP_ACCESS_DENIED", "Target group access denied", ErrTargetGroupAccessDenied)
	}

	if err := s.targetGroupRepo.Delete(ctx, group.ID); err != nil {
		return nil, NewBusinessError("TARGET_GROUP_DELETION_FAILED", fmt.Sprintf("Failed to delete target group %s", req.UUID), err)
	}

	return &dto.DeleteTargetGroupResponse{
		Message: "Target group deleted successfully",
	}, nil
}
