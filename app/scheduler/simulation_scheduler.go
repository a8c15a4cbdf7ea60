// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	businessflow "github.com/ozvena/ozvena/business_flow"
	"github.com/ozvena/ozvena/repository"
	"github.com/ozvena/ozvena/utils"
)

// SimulationScheduler periodically re-dispatches simulations that are still
// pending past a grace period. A simulation normally runs immediately after
// creation; one that stays pending lost its dispatch, usually because the
// process died between insert and execution. The run flow's claim step makes
// re-dispatch safe against races with a live dispatch.
type SimulationScheduler struct {
	simulationRepo repository.SimulationRepository
	runFlow        businessflow.SimulationRunFlow
	logger         *log.Logger
	interval       time.Duration
	pendingAge     time.Duration
	batchSize      int
}

// NewSimulationScheduler creates a new simulation scheduler
func NewSimulationScheduler(
	simulationRepo repository.SimulationRepository,
	runFlow businessflow.SimulationRunFlow,
	logger *log.Logger,
	interval time.Duration,
	pendingAge time.Duration,
) *SimulationScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if pendingAge <= 0 {
		pendingAge = 5 * time.Minute
	}
	return &SimulationScheduler{
		simulationRepo: simulationRepo,
		runFlow:        runFlow,
		logger:         logger,
		interval:       interval,
		pendingAge:     pendingAge,
		batchSize:      10,
	}
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *SimulationScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *SimulationScheduler) runOnce(ctx context.Context) {
	cutoff := utils.UTCNow().Add(-s.pendingAge)

	stale, err := s.simulationRepo.StalePending(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Printf("scheduler: list stale pending simulations failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d stale pending simulations found", len(stale))

	for _, sim := range stale {
		simulationUUID := sim.UUID.String()
		if _, err := s.runFlow.Run(ctx, simulationUUID); err != nil {
			// Not-pending means a live dispatch got there first; drop it.
			if businessflow.IsSimulationNotPending(err) {
				continue
			}
			s.logger.Printf("scheduler: run simulation %s failed: %v", simulationUUID, err)
		}
	}
}
