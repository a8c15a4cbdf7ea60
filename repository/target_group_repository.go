package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/models"
	"github.com/ozvena/ozvena/utils"
	"gorm.io/gorm"
)

// TargetGroupRepositoryImpl implements TargetGroupRepository
type TargetGroupRepositoryImpl struct {
	*BaseRepository[models.TargetGroup, models.TargetGroupFilter]
}

// NewTargetGroupRepository creates a new target group repository
func NewTargetGroupRepository(db *gorm.DB) TargetGroupRepository {
	return &TargetGroupRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TargetGroup, models.TargetGroupFilter](db),
	}
}

// ByUUID retrieves a target group by UUID
func (r *TargetGroupRepositoryImpl) ByUUID(ctx context.Context, id string) (*models.TargetGroup, error) {
	parsedUUID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, err
	}

	filter := models.TargetGroupFilter{UUID: &parsedUUID}
	groups, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return nil, nil
	}

	return groups[0], nil
}

// ByUserID retrieves target groups owned by a user with pagination
func (r *TargetGroupRepositoryImpl) ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TargetGroup, error) {
	filter := models.TargetGroupFilter{UserID: &userID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves target groups based on filter criteria
func (r *TargetGroupRepositoryImpl) ByFilter(ctx context.Context, filter models.TargetGroupFilter, orderBy string, limit, offset int) ([]*models.TargetGroup, error) {
	db := r.getDB(ctx)

	var groups []*models.TargetGroup
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

	err := query.Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Count returns the number of target groups matching the filter
func (r *TargetGroupRepositoryImpl) Count(ctx context.Context, filter models.TargetGroupFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.TargetGroup{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any target group matching the filter exists
func (r *TargetGroupRepositoryImpl) Exists(ctx context.Context, filter models.TargetGroupFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes a target group by ID
func (r *TargetGroupRepositoryImpl) Delete(ctx context.Context, id uint) error {
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

	result := db.Delete(&models.TargetGroup{}, id)
	if result.Error != nil {
		err = result.Error
		return err
	}
	if result.RowsAffected == 0 {
		err = errors.New("target group not found")
		return err
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *TargetGroupRepositoryImpl) applyFilter(db *gorm.DB, filter models.TargetGroupFilter) *gorm.DB {
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
