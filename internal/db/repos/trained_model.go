package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// TrainedModelRepository handles database operations for trained models
type TrainedModelRepository struct {
	db *gorm.DB
}

// NewTrainedModelRepository creates a new instance of TrainedModelRepository
func NewTrainedModelRepository(db *gorm.DB) *TrainedModelRepository {
	return &TrainedModelRepository{db: db}
}

// Create stores a new trained model record
func (r *TrainedModelRepository) Create(ctx context.Context, model *models.TrainedModel) error {
	if err := models.ValidateOwnerID(model.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// GetByID retrieves a model by ID. Access control is enforced by the service
// layer via TrainedModel.AccessibleBy since public models are readable by all.
func (r *TrainedModelRepository) GetByID(ctx context.Context, id uint) (*models.TrainedModel, error) {
	var model models.TrainedModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// GetByPath retrieves a model by its storage path
func (r *TrainedModelRepository) GetByPath(ctx context.Context, path string) (*models.TrainedModel, error) {
	var model models.TrainedModel
	if err := r.db.WithContext(ctx).Where("model_path = ?", path).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// ListByOwner retrieves models owned by a user with optional type/task filters
func (r *TrainedModelRepository) ListByOwner(ctx context.Context, ownerID uint, modelType models.ModelType, task models.TaskType, opts *models.ListOptions) ([]models.TrainedModel, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var list []models.TrainedModel
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id desc")
	if modelType != "" {
		query = query.Where("model_type = ?", modelType)
	}
	if task != "" {
		query = query.Where("task = ?", task)
	}
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&list).Error
	return list, err
}

// CountByOwner returns the number of models owned by a user with the filters applied
func (r *TrainedModelRepository) CountByOwner(ctx context.Context, ownerID uint, modelType models.ModelType, task models.TaskType) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TrainedModel{}).
		Where("owner_id = ?", ownerID)
	if modelType != "" {
		query = query.Where("model_type = ?", modelType)
	}
	if task != "" {
		query = query.Where("task = ?", task)
	}
	err := query.Count(&count).Error
	return count, err
}

// BumpUsage increments the usage counter and stamps last use
func (r *TrainedModelRepository) BumpUsage(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.TrainedModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": at,
		}).Error
}

// Delete soft-deletes a model record, scoped to its owner
func (r *TrainedModelRepository) Delete(ctx context.Context, ownerID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.TrainedModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
