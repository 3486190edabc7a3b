package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// DocumentRepository handles database operations for processed documents
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create stores a new processed document record
func (r *DocumentRepository) Create(ctx context.Context, doc *models.ProcessedDocument) error {
	if err := models.ValidateOwnerID(doc.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByProcessID retrieves a processed document by its public id, scoped to its owner
func (r *DocumentRepository) GetByProcessID(ctx context.Context, ownerID uint, processID string) (*models.ProcessedDocument, error) {
	var doc models.ProcessedDocument
	err := r.db.WithContext(ctx).
		Where("process_id = ? AND owner_id = ?", processID, ownerID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByOwner retrieves the processing history for a user
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.ProcessedDocument, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var docs []models.ProcessedDocument
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id desc")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&docs).Error
	return docs, err
}
