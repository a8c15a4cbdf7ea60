package models

import (
	"time"

	"github.com/google/uuid"
)

// TargetGroup represents an audience definition used to seed persona generation.
// The description is a free-text brief the LLM expands into individual personas.
type TargetGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_target_groups_uuid" json:"uuid"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_target_groups_user_id" json:"user_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	PersonaCount int       `gorm:"not null;default:5" json:"persona_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the TargetGroup model
func (TargetGroup) TableName() string {
	return "target_groups"
}

// TargetGroupFilter represents filters for querying target groups
type TargetGroupFilter struct {
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
