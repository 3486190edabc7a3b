package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// DatasetRepository handles database operations for datasets
type DatasetRepository struct {
	db *gorm.DB
}

// NewDatasetRepository creates a new instance of DatasetRepository
func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Create stores a new dataset record
func (r *DatasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	if err := models.ValidateOwnerID(dataset.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(dataset).Error
}

// GetByID retrieves a dataset by ID. Access control is enforced by the
// service layer via Dataset.AccessibleBy since public and shared datasets
// are readable beyond their owner.
func (r *DatasetRepository) GetByID(ctx context.Context, id uint) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := r.db.WithContext(ctx).First(&dataset, id).Error; err != nil {
		return nil, err
	}
	return &dataset, nil
}

// ListByOwner retrieves all datasets owned by a user with pagination
func (r *DatasetRepository) ListByOwner(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.Dataset, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var datasets []models.Dataset
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id desc")
	query = applyListOptions(query, opts)
	err := query.Find(&datasets).Error
	return datasets, err
}

// ListPublic retrieves all public datasets with pagination
func (r *DatasetRepository) ListPublic(ctx context.Context, opts *models.ListOptions) ([]models.Dataset, error) {
	var datasets []models.Dataset
	query := r.db.WithContext(ctx).Where("is_public = ?", true).Order("id desc")
	query = applyListOptions(query, opts)
	err := query.Find(&datasets).Error
	return datasets, err
}

// CountByOwner returns the number of datasets owned by a user
func (r *DatasetRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dataset{}).
		Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// Update persists changes to an existing dataset, scoped to its owner
func (r *DatasetRepository) Update(ctx context.Context, ownerID uint, dataset *models.Dataset) error {
	return r.db.WithContext(ctx).Model(&models.Dataset{}).
		Where("id = ? AND owner_id = ?", dataset.ID, ownerID).
		Updates(dataset).Error
}

// Delete soft-deletes a dataset, scoped to its owner
func (r *DatasetRepository) Delete(ctx context.Context, ownerID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.Dataset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyListOptions(query *gorm.DB, opts *models.ListOptions) *gorm.DB {
	if opts == nil {
		return query
	}
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}
	return query.Limit(opts.Limit).Offset(opts.Offset)
}
