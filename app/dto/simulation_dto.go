package dto

import (
	"github.com/google/uuid"
)

// CreateSimulationRequest represents the request to create and trigger a
// new simulation
type CreateSimulationRequest struct {
	UserID          uuid.UUID `json:"-"`
	CampaignUUID    string    `json:"campaign_uuid" validate:"required,uuid4"`
	TargetGroupUUID string    `json:"target_group_uuid" validate:"required,uuid4"`
	Model           *string   `json:"model,omitempty"`
}

// CreateSimulationResponse represents the response to create a new simulation
type CreateSimulationResponse struct {
	Message    string        `json:"message"`
	Simulation SimulationDTO `json:"simulation"`
}

// CampaignSnapshotDTO represents the frozen campaign fields on a simulation
type CampaignSnapshotDTO struct {
	Name           string `json:"name"`
	Content        string `json:"content"`
	SocialPlatform string `json:"social_platform"`
}

// TargetGroupSnapshotDTO represents the frozen target-group fields on a simulation
type TargetGroupSnapshotDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PersonaCount int    `json:"persona_count"`
}

// SimulationDTO represents a simulation in responses
type SimulationDTO struct {
	UUID                string                 `json:"uuid"`
	Status              string                 `json:"status"`
	Model               *string                `json:"model,omitempty"`
	CampaignSnapshot    CampaignSnapshotDTO    `json:"campaign_snapshot"`
	TargetGroupSnapshot TargetGroupSnapshotDTO `json:"target_group_snapshot"`
	ErrorMessage        *string                `json:"error_message,omitempty"`
	CreatedAt           string                 `json:"created_at"`
	FinishedAt          *string                `json:"finished_at,omitempty"`
}

// SimulationResultDTO represents one persona reaction in responses
type SimulationResultDTO struct {
	PersonaName    string  `json:"persona_name"`
	Content        string  `json:"content"`
	Sentiment      string  `json:"sentiment"`
	RelevanceScore float64 `json:"relevance_score"`
	ToxicityScore  float64 `json:"toxicity_score"`
	CreatedAt      string  `json:"created_at"`
}

// ListSimulationsRequest represents the request to list simulations
type ListSimulationsRequest struct {
	UserID   uuid.UUID `json:"-"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListSimulationsResponse represents the response to list simulations
type ListSimulationsResponse struct {
	Simulations []SimulationDTO `json:"simulations"`
	Total       int64           `json:"total"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
}

// GetSimulationRequest represents the request to fetch one simulation
type GetSimulationRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}

// GetSimulationResponse represents one simulation with its results
type GetSimulationResponse struct {
	Simulation SimulationDTO         `json:"simulation"`
	Results    []SimulationResultDTO `json:"results"`
}

// DeleteSimulationRequest represents the request to delete a simulation
type DeleteSimulationRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}

// DeleteSimulationResponse represents the response to delete a simulation
type DeleteSimulationResponse struct {
	Message string `json:"message"`
}

// RunSimulationRequest represents the request to re-trigger a pending simulation
type RunSimulationRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}

// RunSimulationResponse represents the outcome of a completed simulation run
type RunSimulationResponse struct {
	Message       string `json:"message"`
	SimulationID  string `json:"simulation_id"`
	ReactionCount int    `json:"reaction_count"`
}

// ExportSimulationRequest represents the request to export results as a spreadsheet
type ExportSimulationRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}
