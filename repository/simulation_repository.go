package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/models"
	"github.com/ozvena/ozvena/utils"
	"gorm.io/gorm"
)

// SimulationRepositoryImpl implements SimulationRepository
type SimulationRepositoryImpl struct {
	*BaseRepository[models.Simulation, models.SimulationFilter]
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *gorm.DB) SimulationRepository {
	return &SimulationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Simulation, models.SimulationFilter](db),
	}
}

// ByUUID retrieves a simulation by UUID
func (r *SimulationRepositoryImpl) ByUUID(ctx context.Context, id string) (*models.Simulation, error) {
	parsedUUID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, err
	}

	filter := models.SimulationFilter{UUID: &parsedUUID}
	simulations, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(simulations) == 0 {
		return nil, nil
	}

	return simulations[0], nil
}

// ByUserID retrieves simulations owned by a user with pagination
func (r *SimulationRepositoryImpl) ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Simulation, error) {
	filter := models.SimulationFilter{UserID: &userID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves simulations based on filter criteria
func (r *SimulationRepositoryImpl) ByFilter(ctx context.Context, filter models.SimulationFilter, orderBy string, limit, offset int) ([]*models.Simulation, error) {
	db := r.getDB(ctx)

	var simulations []*models.Simulation
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	} else {
		query = query.Order("id DESC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&simulations).Error
	if err != nil {
		return nil, err
	}

	return simulations, nil
}

// Count returns the number of simulations matching the filter
func (r *SimulationRepositoryImpl) Count(ctx context.Context, filter models.SimulationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Simulation{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any simulation matching the filter exists
func (r *SimulationRepositoryImpl) Exists(ctx context.Context, filter models.SimulationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// StalePending returns pending simulations created before the cutoff,
// oldest first. These are runs whose background dispatch never happened,
// typically because the process died between insert and execution.
func (r *SimulationRepositoryImpl) StalePending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Simulation, error) {
	db := r.getDB(ctx)

	var simulations []*models.Simulation
	query := db.Where("status = ? AND created_at < ?", models.SimulationStatusPending, olderThan).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&simulations).Error
	if err != nil {
		return nil, err
	}

	return simulations, nil
}

// ClaimPending atomically transitions a simulation from pending to running.
// The conditional update acts as an exclusive lease: if another run already
// claimed the simulation (or it reached a terminal status) no row matches
// and the claim is refused.
func (r *SimulationRepositoryImpl) ClaimPending(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	result := db.Model(&models.Simulation{}).
		Where("id = ? AND status = ?", id, models.SimulationStatusPending).
		Update("status", models.SimulationStatusRunning)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkCompleted transitions a running simulation to completed and stamps
// finished_at. The status guard keeps terminal states immutable.
func (r *SimulationRepositoryImpl) MarkCompleted(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Simulation{}).
		Where("id = ? AND status = ?", id, models.SimulationStatusRunning).
		Updates(map[string]any{
			"status":      models.SimulationStatusCompleted,
			"finished_at": utils.UTCNow(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("simulation is not running")
	}

	return nil
}

// MarkFailed transitions a running simulation to failed with a descriptive
// error message and stamps finished_at.
func (r *SimulationRepositoryImpl) MarkFailed(ctx context.Context, id uint, errorMessage string) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Simulation{}).
		Where("id = ? AND status = ?", id, models.SimulationStatusRunning).
		Updates(map[string]any{
			"status":        models.SimulationStatusFailed,
			"error_message": errorMessage,
			"finished_at":   utils.UTCNow(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("simulation is not running")
	}

	return nil
}

// Delete removes a simulation by ID. Result rows go with it via the
// ON DELETE CASCADE constraint.
func (r *SimulationRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Delete(&models.Simulation{}, id)
	if result.Error != nil {
		err = result.Error
		return err
	}
	if result.RowsAffected == 0 {
		err = errors.New("simulation not found")
		return err
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SimulationRepositoryImpl) applyFilter(db *gorm.DB, filter models.SimulationFilter) *gorm.DB {
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
