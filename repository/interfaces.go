// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Campaign, error)
	Delete(ctx context.Context, id uint) error
}

// TargetGroupRepository defines operations for target groups
type TargetGroupRepository interface {
	Repository[models.TargetGroup, models.TargetGroupFilter]
	ByUUID(ctx context.Context, uuid string) (*models.TargetGroup, error)
	ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TargetGroup, error)
	Delete(ctx context.Context, id uint) error
}

// SimulationRepository defines operations for simulations.
// ClaimPending and the Mark* methods are the only writers of the status
// lifecycle columns; everything else treats a simulation as read-only
// after creation.
type SimulationRepository interface {
	Repository[models.Simulation, models.SimulationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Simulation, error)
	ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Simulation, error)
	StalePending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Simulation, error)
	ClaimPending(ctx context.Context, id uint) (bool, error)
	MarkCompleted(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, errorMessage string) error
	Delete(ctx context.Context, id uint) error
}

// SimulationResultRepository defines operations for persona-reaction rows
type SimulationResultRepository interface {
	Repository[models.SimulationResult, models.SimulationResultFilter]
	BySimulationID(ctx context.Context, simulationID uint) ([]*models.SimulationResult, error)
	CountBySimulationID(ctx context.Context, simulationID uint) (int64, error)
}
