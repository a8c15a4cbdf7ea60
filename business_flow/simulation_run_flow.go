// Package businessflow contains the core business logic and use cases for simulation workflows
package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/app/services"
	"github.com/ozvena/ozvena/config"
	"github.com/ozvena/ozvena/models"
	"github.com/ozvena/ozvena/repository"
	"github.com/ozvena/ozvena/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// Simulation runs by terminal outcome
	simulationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Total number of simulation runs by terminal outcome",
		},
		[]string{"outcome"},
	)
)

// SimulationRunFlow executes one simulation run end to end: it claims the
// pending record, builds prompts, calls the LLM provider, validates the
// reactions and persists them atomically with the terminal transition.
//
// The run is the only writer of status, error_message and finished_at.
// Every failure after the running transition is recorded durably on the
// simulation row; the triggering caller is typically fire-and-forget.
type SimulationRunFlow interface {
	Run(ctx context.Context, simulationUUID string) (*dto.RunSimulationResponse, error)
}

// SimulationRunFlowImpl implements the simulation orchestration state machine
type SimulationRunFlowImpl struct {
	simulationRepo repository.SimulationRepository
	resultRepo     repository.SimulationResultRepository
	llmService     services.LLMService
	llmConfig      config.LLMConfig
	db             *gorm.DB
}

// NewSimulationRunFlow creates a new simulation run flow instance
func NewSimulationRunFlow(
	simulationRepo repository.SimulationRepository,
	resultRepo repository.SimulationResultRepository,
	llmService services.LLMService,
	llmConfig config.LLMConfig,
	db *gorm.DB,
) SimulationRunFlow {
	return &SimulationRunFlowImpl{
		simulationRepo: simulationRepo,
		resultRepo:     resultRepo,
		llmService:     llmService,
		llmConfig:      llmConfig,
		db:             db,
	}
}

// Run drives a simulation from pending to a terminal status.
//
// Lifecycle: pending -> running happens first, before any external call, so
// a crash mid-run is observable as "stuck in running". The pending -> running
// transition doubles as an exclusive lease; a second concurrent invocation
// for the same simulation finds no pending row and aborts without side
// effects. Provider failures of any kind (unknown model, missing credential,
// non-2xx status, malformed payload, timeout) converge on the failed
// transition; there are no retries, recovery is a new simulation.
func (s *SimulationRunFlowImpl) Run(ctx context.Context, simulationUUID string) (*dto.RunSimulationResponse, error) {
	simulation, err := s.simulationRepo.ByUUID(ctx, simulationUUID)
	if err != nil {
		return nil, NewBusinessError("SIMULATION_LOOKUP_FAILED", "Failed to lookup simulation", err)
	}
	if simulation == nil {
		return nil, NewBusinessError("SIMULATION_NOT_FOUND", "Simulation not found", ErrSimulationNotFound)
	}

	claimed, err := s.simulationRepo.ClaimPending(ctx, simulation.ID)
	if err != nil {
		// Cannot proceed without confirmed state; no further action.
		return nil, NewBusinessError("SIMULATION_CLAIM_FAILED", "Failed to transition simulation to running", err)
	}
	if !claimed {
		return nil, NewBusinessError("SIMULATION_NOT_PENDING", "Simulation already claimed or finished", ErrSimulationNotPending)
	}

	modelID := s.llmConfig.DefaultModel
	if modelID == "" {
		modelID = services.DefaultModelID
	}
	if simulation.Model != nil && *simulation.Model != "" {
		modelID = *simulation.Model
	}

	prompts := services.BuildPrompts(
		simulation.CampaignSnapshot.Name,
		simulation.CampaignSnapshot.Content,
		simulation.CampaignSnapshot.SocialPlatform,
		simulation.TargetGroupSnapshot.Name,
		simulation.TargetGroupSnapshot.Description,
		simulation.TargetGroupSnapshot.PersonaCount,
	)

	timeout := s.llmConfig.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	llmResponse, err := s.llmService.Generate(callCtx, modelID, prompts.System, prompts.User)
	if err != nil {
		s.failRun(ctx, simulation.ID, err.Error())
		return nil, NewBusinessError("SIMULATION_LLM_FAILED", "LLM call failed", err)
	}

	results := normalizeReactions(simulation.ID, llmResponse.Reactions)

	// Batch insert and the completed transition commit together; a failed
	// insert leaves zero rows attributable to this run.
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.resultRepo.SaveBatch(txCtx, results); err != nil {
			return err
		}
		return s.simulationRepo.MarkCompleted(txCtx, simulation.ID)
	})
	if err != nil {
		s.failRun(ctx, simulation.ID, fmt.Sprintf("failed to save results: %v", err))
		return nil, NewBusinessError("SIMULATION_PERSIST_FAILED", "Failed to save simulation results", err)
	}

	simulationRunsTotal.WithLabelValues("completed").Inc()
	log.Printf("Simulation %s completed with %d reactions", simulationUUID, len(results))

	return &dto.RunSimulationResponse{
		Message:       "Simulation completed successfully",
		SimulationID:  simulationUUID,
		ReactionCount: len(results),
	}, nil
}

// failRun records a terminal failure on the simulation row. The error
// message is user-visible; upstream bodies are already truncated by the
// provider clients. The write is detached from the caller's context: a
// cancelled request or scheduler shutdown must not strand the row in
// running.
func (s *SimulationRunFlowImpl) failRun(ctx context.Context, simulationID uint, message string) {
	simulationRunsTotal.WithLabelValues("failed").Inc()
	ctx = context.WithoutCancel(ctx)
	if err := s.simulationRepo.MarkFailed(ctx, simulationID, message); err != nil {
		log.Printf("Failed to mark simulation %d as failed: %v", simulationID, err)
	}
}

// normalizeReactions maps provider reactions to result rows. The model
// occasionally returns out-of-contract values; scores are clamped into
// [0, 1] and unrecognized sentiments become neutral so that persisted rows
// always satisfy the data model.
func normalizeReactions(simulationID uint, reactions []services.PersonaReaction) []*models.SimulationResult {
	results := make([]*models.SimulationResult, 0, len(reactions))
	for _, r := range reactions {
		sentiment := models.Sentiment(r.Sentiment)
		if !sentiment.Valid() {
			sentiment = models.SentimentNeutral
		}
		results = append(results, &models.SimulationResult{
			SimulationID:   simulationID,
			PersonaName:    r.PersonaName,
			Content:        r.Content,
			Sentiment:      sentiment,
			RelevanceScore: utils.Clamp01(r.RelevanceScore),
			ToxicityScore:  utils.Clamp01(r.ToxicityScore),
		})
	}
	return results
}
