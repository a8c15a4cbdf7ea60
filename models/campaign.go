package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SocialPlatform represents the social network a campaign targets
type SocialPlatform string

const (
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformLinkedIn  SocialPlatform = "linkedin"
	PlatformTikTok    SocialPlatform = "tiktok"
)

// String returns the string representation of the platform
func (p SocialPlatform) String() string {
	return string(p)
}

// Valid checks if the platform is one of the supported values
func (p SocialPlatform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformFacebook, PlatformInstagram,
		PlatformLinkedIn, PlatformTikTok:
		return true
	default:
		return false
	}
}

// DisplayName returns the user-facing name of the platform.
// Unknown values pass through verbatim so prompt generation never fails
// on an unrecognized platform string.
func (p SocialPlatform) DisplayName() string {
	switch p {
	case PlatformTwitter:
		return "Twitter/X"
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformTikTok:
		return "TikTok"
	default:
		return string(p)
	}
}

// Scan implements the sql.Scanner interface for SocialPlatform
func (p *SocialPlatform) Scan(value any) error {
	if value == nil {
		*p = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*p = SocialPlatform(v)
	case []byte:
		*p = SocialPlatform(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SocialPlatform", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SocialPlatform
func (p SocialPlatform) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid SocialPlatform: %s", p)
	}
	return string(p), nil
}

// Campaign represents a marketing campaign in the database
type Campaign struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_campaigns_user_id" json:"user_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	SocialPlatform SocialPlatform `gorm:"type:varchar(20);not null" json:"social_platform"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignFilter represents filters for querying campaigns
type CampaignFilter struct {
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	Platform      *SocialPlatform `json:"platform,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}
