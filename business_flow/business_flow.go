// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for request tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToCampaignDTO converts a campaign model to its response DTO
func ToCampaignDTO(campaign models.Campaign) dto.CampaignDTO {
	return dto.CampaignDTO{
		UUID:           campaign.UUID.String(),
		Name:           campaign.Name,
		Content:        campaign.Content,
		SocialPlatform: campaign.SocialPlatform.String(),
		CreatedAt:      campaign.CreatedAt.Format(time.RFC3339),
	}
}

// ToTargetGroupDTO converts a target group model to its response DTO
func ToTargetGroupDTO(group models.TargetGroup) dto.TargetGroupDTO {
	return dto.TargetGroupDTO{
		UUID:         group.UUID.String(),
		Name:         group.Name,
		Description:  group.Description,
		PersonaCount: group.PersonaCount,
		CreatedAt:    group.CreatedAt.Format(time.RFC3339),
	}
}

// ToSimulationDTO converts a simulation model to its response DTO
func ToSimulationDTO(sim models.Simulation) dto.SimulationDTO {
	d := dto.SimulationDTO{
		UUID:   sim.UUID.String(),
		Status: sim.Status.String(),
		Model:  sim.Model,
		CampaignSnapshot: dto.CampaignSnapshotDTO{
			Name:           sim.CampaignSnapshot.Name,
			Content:        sim.CampaignSnapshot.Content,
			SocialPlatform: sim.CampaignSnapshot.SocialPlatform.String(),
		},
		TargetGroupSnapshot: dto.TargetGroupSnapshotDTO{
			Name:         sim.TargetGroupSnapshot.Name,
			Description:  sim.TargetGroupSnapshot.Description,
			PersonaCount: sim.TargetGroupSnapshot.PersonaCount,
		},
		ErrorMessage: sim.ErrorMessage,
		CreatedAt:    sim.CreatedAt.Format(time.RFC3339),
	}
	if sim.FinishedAt != nil {
		finished := sim.FinishedAt.Format(time.RFC3339)
		d.FinishedAt = &finished
	}
	return d
}

// ToSimulationResultDTO converts a persona reaction row to its response DTO
func ToSimulationResultDTO(result models.SimulationResult) dto.SimulationResultDTO {
	return dto.SimulationResultDTO{
		PersonaName:    result.PersonaName,
		Content:        result.Content,
		Sentiment:      result.Sentiment.String(),
		RelevanceScore: result.RelevanceScore,
		ToxicityScore:  result.ToxicityScore,
		CreatedAt:      result.CreatedAt.Format(time.RFC3339),
	}
}
