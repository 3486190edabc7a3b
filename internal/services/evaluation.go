package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/runner"
)

// Evaluation service errors
var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrEvaluationFailed   = errors.New("evaluation failed")
)

// maxStoredPredictions caps how many example predictions are kept with an
// evaluation record
const maxStoredPredictions = 5

// Evaluation provides business logic for scoring models against datasets
type Evaluation struct {
	repo     *repos.EvaluationRepository
	models   *Model
	datasets *Dataset
	runner   runner.Client
}

// NewEvaluationService creates a new evaluation service instance
func NewEvaluationService(repo *repos.EvaluationRepository, modelService *Model, datasetService *Dataset, runnerClient runner.Client) *Evaluation {
	return &Evaluation{
		repo:     repo,
		models:   modelService,
		datasets: datasetService,
		runner:   runnerClient,
	}
}

// Run scores one model against one dataset and stores the result
func (s *Evaluation) Run(ctx context.Context, userID, modelID, datasetID uint) (*models.Evaluation, error) {
	model, err := s.models.Get(ctx, userID, modelID)
	if err != nil {
		return nil, err
	}
	dataset, err := s.datasets.Get(ctx, userID, datasetID)
	if err != nil {
		return nil, err
	}

	resp, err := s.runner.Evaluate(ctx, runner.EvaluateRequest{
		ModelPath:   model.ModelPath,
		ModelType:   string(model.ModelType),
		Task:        string(model.Task),
		DatasetPath: dataset.FilePath,
	})
	if err != nil {
		return nil, errors.Join(ErrEvaluationFailed, err)
	}

	predictions := resp.Predictions
	if len(predictions) > maxStoredPredictions {
		predictions = predictions[:maxStoredPredictions]
	}
	results, err := json.Marshal(map[string]interface{}{
		"rouge1":      resp.Rouge1,
		"rouge2":      resp.Rouge2,
		"rougeL":      resp.RougeL,
		"bleu":        resp.Bleu,
		"predictions": predictions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation results: %w", err)
	}

	eval := &models.Evaluation{
		OwnerID:     userID,
		ModelID:     model.ID,
		DatasetID:   dataset.ID,
		Task:        model.Task,
		Results:     results,
		SampleCount: resp.SampleCount,
	}
	if err := s.repo.Create(ctx, eval); err != nil {
		return nil, fmt.Errorf("failed to store evaluation: %w", err)
	}

	logger.InfoWithFields("evaluation completed", map[string]interface{}{
		"model_id":   model.ID,
		"dataset_id": dataset.ID,
		"samples":    resp.SampleCount,
	})
	return eval, nil
}

// Get returns a stored evaluation
func (s *Evaluation) Get(ctx context.Context, userID, id uint) (*models.Evaluation, error) {
	eval, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.Join(ErrEvaluationNotFound, err)
	}
	return eval, nil
}

// ListByModel returns past evaluations of one model
func (s *Evaluation) ListByModel(ctx context.Context, userID, modelID uint, opts *models.ListOptions) ([]models.Evaluation, error) {
	return s.repo.ListByModel(ctx, userID, modelID, opts)
}

// Compare evaluates several models against the same dataset so their scores
// can be read side by side. A model failing to evaluate fails the compare.
func (s *Evaluation) Compare(ctx context.Context, userID uint, modelIDs []uint, datasetID uint) ([]models.Evaluation, error) {
	results := make([]models.Evaluation, 0, len(modelIDs))
	for _, modelID := range modelIDs {
		eval, err := s.Run(ctx, userID, modelID, datasetID)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", modelID, err)
		}
		results = append(results, *eval)
	}
	return results, nil
}
