// Package businessflow contains the core business logic and use cases for campaign workflows
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

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
	DeleteCampaign(ctx context.Context, req *dto.DeleteCampaignRequest, metadata *ClientMetadata) (*dto.DeleteCampaignResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(campaignRepo repository.CampaignRepository) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
	}
}

// CreateCampaign handles the campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	platform := models.SocialPlatform(req.SocialPlatform)
	if !platform.Valid() {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrInvalidPlatform)
	}

	campaign := &models.Campaign{
		UUID:           uuid.New(),
		UserID:         req.UserID,
		Name:           req.Name,
		Content:        req.Content,
		SocialPlatform: platform,
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	return &dto.CreateCampaignResponse{
		Message:  "Campaign created successfully",
		Campaign: ToCampaignDTO(*campaign),
	}, nil
}

// ListCampaigns returns the caller's campaigns with pagination
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_VALIDATION_FAILED", "Invalid pagination", err)
	}

	offset := (page - 1) * pageSize
	campaigns, err := s.campaignRepo.ByUserID(ctx, req.UserID, pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	total, err := s.campaignRepo.Count(ctx, models.CampaignFilter{UserID: &req.UserID})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_COUNT_FAILED", "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, ToCampaignDTO(*c))
	}

	return &dto.ListCampaignsResponse{
		Campaigns: items,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// DeleteCampaign removes a campaign owned by the caller
func (s *CampaignFlowImpl) DeleteCampaign(ctx context.Context, req *dto.DeleteCampaignRequest, metadata *ClientMetadata) (*dto.DeleteCampaignResponse, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.UserID != req.UserID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", ErrCampaignAccessDenied)
	}

	if err := s.campaignRepo.Delete(ctx, campaign.ID); err != nil {
		return nil, NewBusinessError("CAMPAIGN_DELETION_FAILED", fmt.Sprintf("Failed to delete campaign %s", req.UUID), err)
	}

	return &dto.DeleteCampaignResponse{
		Message: "Campaign deleted successfully",
	}, nil
}

// normalizePagination applies defaults and bounds to page parameters
func normalizePagination(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = utils.DefaultPageSize
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > utils.MaxPageSize {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}
