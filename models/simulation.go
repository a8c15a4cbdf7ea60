package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SimulationStatus represents the lifecycle state of a simulation run
type SimulationStatus string

const (
	SimulationStatusPending   SimulationStatus = "pending"
	SimulationStatusRunning   SimulationStatus = "running"
	SimulationStatusCompleted SimulationStatus = "completed"
	SimulationStatusFailed    SimulationStatus = "failed"
)

// String returns the string representation of the status
func (s SimulationStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SimulationStatus) Valid() bool {
	switch s {
	case SimulationStatusPending, SimulationStatusRunning,
		SimulationStatusCompleted, SimulationStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transition.
// Once a simulation reaches a terminal status it is append-only.
func (s SimulationStatus) Terminal() bool {
	return s == SimulationStatusCompleted || s == SimulationStatusFailed
}

// CanTransitionTo checks the legality of a status transition. The lifecycle
// is strictly linear: pending -> running -> completed|failed.
func (s SimulationStatus) CanTransitionTo(next SimulationStatus) bool {
	switch s {
	case SimulationStatusPending:
		return next == SimulationStatusRunning
	case SimulationStatusRunning:
		return next == SimulationStatusCompleted || next == SimulationStatusFailed
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SimulationStatus
func (s *SimulationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SimulationStatus(v)
	case []byte:
		*s = SimulationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SimulationStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SimulationStatus
func (s SimulationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SimulationStatus: %s", s)
	}
	return string(s), nil
}

// CampaignSnapshot is the frozen copy of campaign fields embedded into a
// simulation at creation time. Later edits to the source campaign do not
// affect existing simulations.
type CampaignSnapshot struct {
	Name           string         `json:"name"`
	Content        string         `json:"content"`
	SocialPlatform SocialPlatform `json:"social_platform"`
}

// Value implements the driver.Valuer interface for CampaignSnapshot
func (s CampaignSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for CampaignSnapshot
func (s *CampaignSnapshot) Scan(value any) error {
	if value == nil {
		*s = CampaignSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CampaignSnapshot", value)
	}

	return json.Unmarshal(bytes, s)
}

// TargetGroupSnapshot is the frozen copy of target-group fields embedded
// into a simulation at creation time.
type TargetGroupSnapshot struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PersonaCount int    `json:"persona_count"`
}

// Value implements the driver.Valuer interface for TargetGroupSnapshot
func (s TargetGroupSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for TargetGroupSnapshot
func (s *TargetGroupSnapshot) Scan(value any) error {
	if value == nil {
		*s = TargetGroupSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TargetGroupSnapshot", value)
	}

	return json.Unmarshal(bytes, s)
}

// Simulation represents one persona-reaction simulation run in the database.
// The orchestrator is the only writer of Status, ErrorMessage and FinishedAt.
type Simulation struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	UUID                uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uk_simulations_uuid" json:"uuid"`
	UserID              uuid.UUID           `gorm:"type:uuid;not null;index:idx_simulations_user_id" json:"user_id"`
	Status              SimulationStatus    `gorm:"type:varchar(20);not null;default:'pending';index:idx_simulations_status" json:"status"`
	Model               *string             `gorm:"type:varchar(100)" json:"model,omitempty"`
	CampaignSnapshot    CampaignSnapshot    `gorm:"type:jsonb;not null" json:"campaign_snapshot"`
	TargetGroupSnapshot TargetGroupSnapshot `gorm:"type:jsonb;not null" json:"target_group_snapshot"`
	ErrorMessage        *string             `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
	FinishedAt          *time.Time          `json:"finished_at,omitempty"`

	Results []SimulationResult `gorm:"foreignKey:SimulationID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

// TableName returns the table name for the Simulation model
func (Simulation) TableName() string {
	return "simulations"
}

// SimulationFilter represents filters for querying simulations
type SimulationFilter struct {
	UUID          *uuid.UUID        `json:"uuid,omitempty"`
	UserID        *uuid.UUID        `json:"user_id,omitempty"`
	Status        *SimulationStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time        `json:"created_after,omitempty"`
	CreatedBefore *time.Time        `json:"created_before,omitempty"`
}
