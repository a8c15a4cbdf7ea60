package dto

import (
	"github.com/google/uuid"
)

// CreateTargetGroupRequest represents the request to create a new target group
type CreateTargetGroupRequest struct {
	UserID       uuid.UUID `json:"-"`
	Name         string    `json:"name" validate:"required,min=3,max=255"`
	Description  string    `json:"description" validate:"required,min=10"`
	PersonaCount *int      `json:"persona_count,omitempty" validate:"omitempty,min=1,max=100"`
}

// CreateTargetGroupResponse represents the response to create a new target group
type CreateTargetGroupResponse struct {
	Message     string         `json:"message"`
	TargetGroup TargetGroupDTO `json:"target_group"`
}

// TargetGroupDTO represents a target group in responses
type TargetGroupDTO struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PersonaCount int    `json:"persona_count"`
	CreatedAt    string `json:"created_at"`
}

// ListTargetGroupsRequest represents the request to list target groups
type ListTargetGroupsRequest struct {
	UserID   uuid.UUID `json:"-"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListTargetGroupsResponse represents the response to list target groups
type ListTargetGroupsResponse struct {
	TargetGroups []TargetGroupDTO `json:"target_groups"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

// DeleteTargetGroupRequest represents the request to delete a target group
type DeleteTargetGroupRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}

// DeleteTargetGroupResponse represents the response to delete a target group
type DeleteTargetGroupResponse struct {
	Message string `json:"message"`
}
