package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/pdfext"
)

// Document service errors
var (
	ErrDocumentNotFound = errors.New("processed document not found")
)

// Document provides PDF text extraction with persisted results
type Document struct {
	repo *repos.DocumentRepository
	cfg  *config.Config
}

// NewDocumentService creates a new document service instance
func NewDocumentService(repo *repos.DocumentRepository, cfg *config.Config) *Document {
	return &Document{repo: repo, cfg: cfg}
}

// Process extracts text from an uploaded PDF, stores it on disk and records
// the extraction. Extraction failures are recorded too so the history shows
// what went wrong.
func (s *Document) Process(ctx context.Context, ownerID uint, filename string, content []byte) (*models.ProcessedDocument, string, error) {
	doc := &models.ProcessedDocument{
		OwnerID:          ownerID,
		ProcessID:        uuid.NewString(),
		OriginalFilename: filename,
	}

	result, err := pdfext.Extract(content)
	if err != nil {
		doc.Status = models.DocumentStatusFailed
		doc.ErrorMsg = err.Error()
		if createErr := s.repo.Create(ctx, doc); createErr != nil {
			logger.Errorf("failed to record failed extraction: %v", createErr)
		}
		return nil, "", err
	}

	dir := filepath.Join(s.cfg.DataDir, "texts", fmt.Sprintf("%d", ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create text directory: %w", err)
	}
	path := filepath.Join(dir, doc.ProcessID+".txt")
	if err := os.WriteFile(path, []byte(result.Text), 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to store extracted text: %w", err)
	}

	doc.Status = models.DocumentStatusCompleted
	doc.PageCount = result.PageCount
	doc.CharCount = result.CharCount
	doc.TextPath = path
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, "", fmt.Errorf("failed to record extraction: %w", err)
	}

	logger.InfoWithFields("processed pdf document", map[string]interface{}{
		"process_id": doc.ProcessID,
		"pages":      result.PageCount,
		"chars":      result.CharCount,
	})
	return doc, result.Text, nil
}

// Get returns a processed document and its extracted text
func (s *Document) Get(ctx context.Context, ownerID uint, processID string) (*models.ProcessedDocument, string, error) {
	doc, err := s.repo.GetByProcessID(ctx, ownerID, processID)
	if err != nil {
		return nil, "", errors.Join(ErrDocumentNotFound, err)
	}
	if doc.TextPath == "" {
		return doc, "", nil
	}
	text, err := os.ReadFile(doc.TextPath)
	if err != nil {
		logger.Warnf("extracted text for %s is missing: %v", processID, err)
		return doc, "", nil
	}
	return doc, string(text), nil
}

// History returns the user's past extractions
func (s *Document) History(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.ProcessedDocument, error) {
	return s.repo.ListByOwner(ctx, ownerID, opts)
}
