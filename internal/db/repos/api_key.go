package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// APIKeyRepository handles database operations for API keys
type APIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new instance of APIKeyRepository
func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a new API key
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if err := models.ValidateOwnerID(key.UserID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(key).Error
}

// GetByKey retrieves an API key by its public key string
func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

// GetByID retrieves an API key by ID, scoped to its owner
func (r *APIKeyRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&apiKey).Error
	if err != nil {
		return nil, err
	}
	return &apiKey, nil
}

// ListByOwner retrieves all API keys belonging to a user
func (r *APIKeyRepository) ListByOwner(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.APIKey, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var keys []models.APIKey
	query := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id asc")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&keys).Error
	return keys, err
}

// Revoke deactivates an API key, scoped to its owner
func (r *APIKeyRepository) Revoke(ctx context.Context, ownerID, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastUsed stamps the key's last successful authentication time
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}
