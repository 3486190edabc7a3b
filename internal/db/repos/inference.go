package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// InferenceRepository handles database operations for the inference history
type InferenceRepository struct {
	db *gorm.DB
}

// NewInferenceRepository creates a new instance of InferenceRepository
func NewInferenceRepository(db *gorm.DB) *InferenceRepository {
	return &InferenceRepository{db: db}
}

// Create stores a new inference record
func (r *InferenceRepository) Create(ctx context.Context, record *models.InferenceRecord) error {
	if err := models.ValidateOwnerID(record.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByOwner retrieves the inference history for a user, optionally by model
func (r *InferenceRepository) ListByOwner(ctx context.Context, ownerID uint, modelID uint, opts *models.ListOptions) ([]models.InferenceRecord, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var records []models.InferenceRecord
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id desc")
	if modelID != 0 {
		query = query.Where("model_id = ?", modelID)
	}
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&records).Error
	return records, err
}

// CountByOwner returns the number of inference records for a user
func (r *InferenceRepository) CountByOwner(ctx context.Context, ownerID uint, modelID uint) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InferenceRecord{}).
		Where("owner_id = ?", ownerID)
	if modelID != 0 {
		query = query.Where("model_id = ?", modelID)
	}
	err := query.Count(&count).Error
	return count, err
}

// EvaluationRepository handles database operations for evaluations
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new instance of EvaluationRepository
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create stores a new evaluation result
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	if err := models.ValidateOwnerID(eval.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(eval).Error
}

// GetByID retrieves an evaluation by ID, scoped to its owner
func (r *EvaluationRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&eval).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// ListByModel retrieves evaluations of a model, scoped to their owner
func (r *EvaluationRepository) ListByModel(ctx context.Context, ownerID, modelID uint, opts *models.ListOptions) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND model_id = ?", ownerID, modelID).
		Order("id desc")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&evals).Error
	return evals, err
}
