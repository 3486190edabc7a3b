package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/runner"
)

// Model service errors
var (
	ErrModelNotFound     = errors.New("model not found")
	ErrModelAccessDenied = errors.New("model is not accessible")
)

// Model provides business logic for trained model registry operations
type Model struct {
	repo   *repos.TrainedModelRepository
	runner runner.Client
}

// NewModelService creates a new model service instance
func NewModelService(repo *repos.TrainedModelRepository, runnerClient runner.Client) *Model {
	return &Model{repo: repo, runner: runnerClient}
}

// Get returns a model if the user may use it
func (s *Model) Get(ctx context.Context, userID, id uint) (*models.TrainedModel, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrModelNotFound, err)
	}
	if !model.AccessibleBy(userID) {
		return nil, ErrModelAccessDenied
	}
	return model, nil
}

// List returns the user's models with optional type and task filters
func (s *Model) List(ctx context.Context, userID uint, modelType models.ModelType, task models.TaskType, opts *models.ListOptions) ([]models.TrainedModel, int64, error) {
	rows, err := s.repo.ListByOwner(ctx, userID, modelType, task, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByOwner(ctx, userID, modelType, task)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes a model from the registry. The checkpoint on disk belongs
// to the runner and is left in place.
func (s *Model) Delete(ctx context.Context, userID, id uint) error {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.Join(ErrModelNotFound, err)
	}
	if model.OwnerID != userID && userID != models.AdminID {
		return ErrModelAccessDenied
	}
	return s.repo.Delete(ctx, model.OwnerID, id)
}

// RecordUsage bumps the usage counters after a successful inference
func (s *Model) RecordUsage(ctx context.Context, id uint) {
	if err := s.repo.BumpUsage(ctx, id, time.Now()); err != nil {
		logger.Warnf("failed to bump usage for model %d: %v", id, err)
	}
}

// Import pulls a pretrained checkpoint from the hub through the runner and
// registers it, so teams can serve stock models without fine-tuning first.
func (s *Model) Import(ctx context.Context, userID uint, name, hubID string, modelType models.ModelType, task models.TaskType) (*models.TrainedModel, error) {
	resp, err := s.runner.ImportFromHub(ctx, runner.ImportRequest{
		HubID:     hubID,
		ModelType: string(modelType),
		OutputDir: "models/imported",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s from hub: %w", hubID, err)
	}

	model := &models.TrainedModel{
		OwnerID:   userID,
		Name:      name,
		ModelType: modelType,
		Task:      task,
		BaseModel: hubID,
		ModelPath: resp.ModelPath,
		Metadata: models.JSONMap{
			"imported":   true,
			"hub_id":     hubID,
			"size_bytes": resp.SizeBytes,
		},
	}
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to register imported model: %w", err)
	}
	logger.Infof("imported hub model %s as model %d", hubID, model.ID)
	return model, nil
}
