// Package businessflow contains the core business logic and use cases for simulation workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/config"
	"github.com/ozvena/ozvena/models"
	"github.com/ozvena/ozvena/repository"
	"github.com/ozvena/ozvena/utils"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// SimulationFlow handles the simulation business logic
type SimulationFlow interface {
	CreateSimulation(ctx context.Context, req *dto.CreateSimulationRequest, metadata *ClientMetadata) (*dto.CreateSimulationResponse, error)
	ListSimulations(ctx context.Context, req *dto.ListSimulationsRequest, metadata *ClientMetadata) (*dto.ListSimulationsResponse, error)
	GetSimulation(ctx context.Context, req *dto.GetSimulationRequest, metadata *ClientMetadata) (*dto.GetSimulationResponse, error)
	DeleteSimulation(ctx context.Context, req *dto.DeleteSimulationRequest, metadata *ClientMetadata) (*dto.DeleteSimulationResponse, error)
	RunSimulation(ctx context.Context, req *dto.RunSimulationRequest, metadata *ClientMetadata) (*dto.RunSimulationResponse, error)
	ExportResults(ctx context.Context, req *dto.ExportSimulationRequest, metadata *ClientMetadata) (string, []byte, error)
}

// SimulationFlowImpl implements the simulation business flow
type SimulationFlowImpl struct {
	simulationRepo  repository.SimulationRepository
	resultRepo      repository.SimulationResultRepository
	campaignRepo    repository.CampaignRepository
	targetGroupRepo repository.TargetGroupRepository
	runFlow         SimulationRunFlow
	rc              *redis.Client
	cacheConfig     *config.CacheConfig
}

// NewSimulationFlow creates a new simulation flow instance
func NewSimulationFlow(
	simulationRepo repository.SimulationRepository,
	resultRepo repository.SimulationResultRepository,
	campaignRepo repository.CampaignRepository,
	targetGroupRepo repository.TargetGroupRepository,
	runFlow SimulationRunFlow,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) SimulationFlow {
	return &SimulationFlowImpl{
		simulationRepo:  simulationRepo,
		resultRepo:      resultRepo,
		campaignRepo:    campaignRepo,
		targetGroupRepo: targetGroupRepo,
		runFlow:         runFlow,
		rc:              rc,
		cacheConfig:     cacheConfig,
	}
}

// CreateSimulation snapshots the referenced campaign and target group into a
// pending simulation and dispatches the run in the background. The snapshots
// decouple the run (and later reads) from subsequent edits or deletions of
// the source records.
func (s *SimulationFlowImpl) CreateSimulation(ctx context.Context, req *dto.CreateSimulationRequest, metadata *ClientMetadata) (*dto.CreateSimulationResponse, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, req.CampaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.UserID != req.UserID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", ErrCampaignAccessDenied)
	}

	targetGroup, err := s.targetGroupRepo.ByUUID(ctx, req.TargetGroupUUID)
	if err != nil {
		return nil, NewBusinessError("TARGET_GROUP_LOOKUP_FAILED", "Failed to lookup target group", err)
	}
	if targetGroup == nil {
		return nil, NewBusinessError("TARGET_GROUP_NOT_FOUND", "Target group not found", ErrTargetGroupNotFound)
	}
	if targetGroup.UserID != req.UserID {
		return nil, NewBusinessError("TARGET_GROUP_ACCESS_DENIED", "Target group access denied", ErrTargetGroupAccessDenied)
	}

	simulation := &models.Simulation{
		UUID:   uuid.New(),
		UserID: req.UserID,
		Status: models.SimulationStatusPending,
		Model:  req.Model,
		CampaignSnapshot: models.CampaignSnapshot{
			Name:           campaign.Name,
			Content:        campaign.Content,
			SocialPlatform: campaign.SocialPlatform,
		},
		TargetGroupSnapshot: models.TargetGroupSnapshot{
			Name:         targetGroup.Name,
			Description:  targetGroup.Description,
			PersonaCount: targetGroup.PersonaCount,
		},
	}

	if err := s.simulationRepo.Save(ctx, simulation); err != nil {
		return nil, NewBusinessError("SIMULATION_CREATION_FAILED", "Simulation creation failed", err)
	}

	s.invalidateListCache(ctx, req.UserID)
	s.dispatchRun(simulation.UUID.String(), req.UserID)

	return &dto.CreateSimulationResponse{
		Message:    "Simulation created and started",
		Simulation: ToSimulationDTO(*simulation),
	}, nil
}

// dispatchRun executes the simulation run in the background. The request
// context dies with the HTTP response, so the run gets a fresh one.
func (s *SimulationFlowImpl) dispatchRun(simulationUUID string, userID uuid.UUID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Simulation run panicked for %s: %v", simulationUUID, r)
			}
		}()
		ctx := context.Background()
		if _, err := s.runFlow.Run(ctx, simulationUUID); err != nil {
			log.Printf("Simulation run failed for %s: %v", simulationUUID, err)
		}
		s.invalidateListCache(ctx, userID)
	}()
}

// ListSimulations returns the caller's simulations with pagination. The
// first default-sized page is cached per user; any terminal transition or
// mutation invalidates it.
func (s *SimulationFlowImpl) ListSimulations(ctx context.Context, req *dto.ListSimulationsRequest, metadata *ClientMetadata) (*dto.ListSimulationsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("SIMULATION_LIST_VALIDATION_FAILED", "Invalid pagination", err)
	}

	cacheable := page == 1 && pageSize == utils.DefaultPageSize
	cacheKey := s.listCacheKey(req.UserID)
	if cacheable && s.rc != nil {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.ListSimulationsResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				return &out, nil
			}
		}
	}

	offset := (page - 1) * pageSize
	simulations, err := s.simulationRepo.ByUserID(ctx, req.UserID, pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("SIMULATION_LIST_FAILED", "Failed to list simulations", err)
	}

	total, err := s.simulationRepo.Count(ctx, models.SimulationFilter{UserID: &req.UserID})
	if err != nil {
		return nil, NewBusinessError("SIMULATION_COUNT_FAILED", "Failed to count simulations", err)
	}

	items := make([]dto.SimulationDTO, 0, len(simulations))
	for _, sim := range simulations {
		items = append(items, ToSimulationDTO(*sim))
	}

	out := &dto.ListSimulationsResponse{
		Simulations: items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}

	if cacheable && s.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.cacheTTL()).Err()
		}
	}

	return out, nil
}

// GetSimulation returns one simulation and its results, oldest result first
func (s *SimulationFlowImpl) GetSimulation(ctx context.Context, req *dto.GetSimulationRequest, metadata *ClientMetadata) (*dto.GetSimulationResponse, error) {
	simulation, err := s.ownedSimulation(ctx, req.UUID, req.UserID)
	if err != nil {
		return nil, err
	}

	results, err := s.resultRepo.BySimulationID(ctx, simulation.ID)
	if err != nil {
		return nil, NewBusinessError("SIMULATION_RESULTS_FAILED", "Failed to load simulation results", err)
	}

	items := make([]dto.SimulationResultDTO, 0, len(results))
	for _, r := range results {
		items = append(items, ToSimulationResultDTO(*r))
	}

	return &dto.GetSimulationResponse{
		Simulation: ToSimulationDTO(*simulation),
		Results:    items,
	}, nil
}

// DeleteSimulation removes a simulation and, via the FK cascade, its results
func (s *SimulationFlowImpl) DeleteSimulation(ctx context.Context, req *dto.DeleteSimulationRequest, metadata *ClientMetadata) (*dto.DeleteSimulationResponse, error) {
	simulation, err := s.ownedSimulation(ctx, req.UUID, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.simulationRepo.Delete(ctx, simulation.ID); err != nil {
		return nil, NewBusinessError("SIMULATION_DELETION_FAILED", fmt.Sprintf("Failed to delete simulation %s", req.UUID), err)
	}

	s.invalidateListCache(ctx, req.UserID)

	return &dto.DeleteSimulationResponse{
		Message: "Simulation deleted successfully",
	}, nil
}

// RunSimulation re-triggers a simulation that is still pending, for example
// after a crash left the background dispatch unexecuted. The run itself is
// synchronous here; the caller waits for the terminal status.
func (s *SimulationFlowImpl) RunSimulation(ctx context.Context, req *dto.RunSimulationRequest, metadata *ClientMetadata) (*dto.RunSimulationResponse, error) {
	simulation, err := s.ownedSimulation(ctx, req.UUID, req.UserID)
	if err != nil {
		return nil, err
	}

	out, err := s.runFlow.Run(ctx, simulation.UUID.String())
	s.invalidateListCache(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportResults renders the simulation's results as an xlsx workbook and
// returns the filename and file contents
func (s *SimulationFlowImpl) ExportResults(ctx context.Context, req *dto.ExportSimulationRequest, metadata *ClientMetadata) (string, []byte, error) {
	simulation, err := s.ownedSimulation(ctx, req.UUID, req.UserID)
	if err != nil {
		return "", nil, err
	}

	results, err := s.resultRepo.BySimulationID(ctx, simulation.ID)
	if err != nil {
		return "", nil, NewBusinessError("SIMULATION_RESULTS_FAILED", "Failed to load simulation results", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	header := []string{"persona_name", "reaction", "sentiment", "relevance_score", "toxicity_score", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range results {
		record := []string{
			r.PersonaName,
			r.Content,
			r.Sentiment.String(),
			strconv.FormatFloat(r.RelevanceScore, 'f', 2, 64),
			strconv.FormatFloat(r.ToxicityScore, 'f', 2, 64),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("simulation_%s_results.xlsx", simulation.UUID)
	return filename, buf.Bytes(), nil
}

// ownedSimulation loads a simulation by UUID and enforces ownership
func (s *SimulationFlowImpl) ownedSimulation(ctx context.Context, simulationUUID string, userID uuid.UUID) (*models.Simulation, error) {
	simulation, err := s.simulationRepo.ByUUID(ctx, simulationUUID)
	if err != nil {
		return nil, NewBusinessError("SIMULATION_LOOKUP_FAILED", "Failed to lookup simulation", err)
	}
	if simulation == nil {
		return nil, NewBusinessError("SIMULATION_NOT_FOUND", "Simulation not found", ErrSimulationNotFound)
	}
	if simulation.UserID != userID {
		return nil, NewBusinessError("SIMULATION_ACCESS_DENIED", "Simulation access denied", ErrSimulationAccessDenied)
	}
	return simulation, nil
}

func (s *SimulationFlowImpl) listCacheKey(userID uuid.UUID) string {
	prefix := ""
	if s.cacheConfig != nil && s.cacheConfig.RedisPrefix != "" {
		prefix = s.cacheConfig.RedisPrefix + ":"
	}
	return fmt.Sprintf("%ssimulations:%s", prefix, userID)
}

func (s *SimulationFlowImpl) cacheTTL() time.Duration {
	if s.cacheConfig != nil && s.cacheConfig.DefaultTTL > 0 {
		return s.cacheConfig.DefaultTTL
	}
	return time.Minute
}

func (s *SimulationFlowImpl) invalidateListCache(ctx context.Context, userID uuid.UUID) {
	if s.rc == nil {
		return
	}
	_ = s.rc.Del(ctx, s.listCacheKey(userID)).Err()
}
