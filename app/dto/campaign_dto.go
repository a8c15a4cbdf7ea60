package dto

import (
	"github.com/google/uuid"
)

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	UserID         uuid.UUID `json:"-"`
	Name           string    `json:"name" validate:"required,min=3,max=255"`
	Content        string    `json:"content" validate:"required,min=10"`
	SocialPlatform string    `json:"social_platform" validate:"required,oneof=twitter facebook instagram linkedin tiktok"`
}

// CreateCampaignResponse represents the response to create a new campaign
type CreateCampaignResponse struct {
	Message  string      `json:"message"`
	Campaign CampaignDTO `json:"campaign"`
}

// CampaignDTO represents a campaign in responses
type CampaignDTO struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Content        string `json:"content"`
	SocialPlatform string `json:"social_platform"`
	CreatedAt      string `json:"created_at"`
}

// ListCampaignsRequest represents the request to list campaigns
type ListCampaignsRequest struct {
	UserID   uuid.UUID `json:"-"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListCampaignsResponse represents the response to list campaigns
type ListCampaignsResponse struct {
	Campaigns []CampaignDTO `json:"campaigns"`
	Total     int64         `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"page_size"`
}

// DeleteCampaignRequest represents the request to delete a campaign
type DeleteCampaignRequest struct {
	UUID   string    `json:"-"`
	UserID uuid.UUID `json:"-"`
}

// DeleteCampaignResponse represents the response to delete a campaign
type DeleteCampaignResponse struct {
	Message string `json:"message"`
}
