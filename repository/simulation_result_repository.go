package repository

import (
	"context"

	"github.com/ozvena/ozvena/models"
	"gorm.io/gorm"
)

// SimulationResultRepositoryImpl implements SimulationResultRepository
type SimulationResultRepositoryImpl struct {
	*BaseRepository[models.SimulationResult, models.SimulationResultFilter]
}

// NewSimulationResultRepository creates a new simulation result repository
func NewSimulationResultRepository(db *gorm.DB) SimulationResultRepository {
	return &SimulationResultRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SimulationResult, models.SimulationResultFilter](db),
	}
}

// BySimulationID retrieves all results for a simulation, oldest first.
// Row order within the insert batch carries no per-persona meaning; created_at
// ascending is the presentation order consumers should rely on.
func (r *SimulationResultRepositoryImpl) BySimulationID(ctx context.Context, simulationID uint) ([]*models.SimulationResult, error) {
	filter := models.SimulationResultFilter{SimulationID: &simulationID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// CountBySimulationID returns the number of persisted results for a simulation
func (r *SimulationResultRepositoryImpl) CountBySimulationID(ctx context.Context, simulationID uint) (int64, error) {
	filter := models.SimulationResultFilter{SimulationID: &simulationID}
	return r.Count(ctx, filter)
}

// ByFilter retrieves simulation results based on filter criteria
func (r *SimulationResultRepositoryImpl) ByFilter(ctx context.Context, filter models.SimulationResultFilter, orderBy string, limit, offset int) ([]*models.SimulationResult, error) {
	db := r.getDB(ctx)

	var results []*models.SimulationResult
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	} else {
		query = query.Order("id ASC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Count returns the number of simulation results matching the filter
func (r *SimulationResultRepositoryImpl) Count(ctx context.Context, filter models.SimulationResultFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.SimulationResult{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any simulation result matching the filter exists
func (r *SimulationResultRepositoryImpl) Exists(ctx context.Context, filter models.SimulationResultFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SimulationResultRepositoryImpl) applyFilter(db *gorm.DB, filter models.SimulationResultFilter) *gorm.DB {
	if filter.SimulationID != nil {
		db = db.Where("simulation_id = ?", *filter.SimulationID)
	}
	if filter.Sentiment != nil {
		db = db.Where("sentiment = ?", *filter.Sentiment)
	}

	return db
}
