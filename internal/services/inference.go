package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/runner"
	"github.com/legaltext/finetuner/pkg/types"
)

// Inference service errors
var (
	ErrGenerationFailed = errors.New("text generation failed")
	ErrEmptyBatch       = errors.New("batch contains no texts")
)

// MaxBatchSize caps how many texts one batch request may carry
const MaxBatchSize = 50

// GenerateParams are the decoding options for one generation request
type GenerateParams struct {
	ModelID     uint
	Text        string
	MaxLength   int
	NumBeams    int
	Temperature float64
	DoSample    bool
	Language    string
}

func (p *GenerateParams) applyDefaults() {
	if p.MaxLength <= 0 {
		p.MaxLength = 256
	}
	if p.NumBeams <= 0 {
		p.NumBeams = 4
	}
}

// Inference provides business logic for text generation requests
type Inference struct {
	records *repos.InferenceRepository
	models  *Model
	runner  runner.Client
}

// NewInferenceService creates a new inference service instance
func NewInferenceService(records *repos.InferenceRepository, modelService *Model, runnerClient runner.Client) *Inference {
	return &Inference{
		records: records,
		models:  modelService,
		runner:  runnerClient,
	}
}

// Generate runs one text through a model and records the request in the
// user's history, including failures.
func (s *Inference) Generate(ctx context.Context, userID uint, params GenerateParams) (*types.GenerateResponse, error) {
	model, err := s.models.Get(ctx, userID, params.ModelID)
	if err != nil {
		return nil, err
	}
	params.applyDefaults()

	requestID := uuid.NewString()
	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"max_length":  params.MaxLength,
		"num_beams":   params.NumBeams,
		"temperature": params.Temperature,
		"do_sample":   params.DoSample,
	})

	start := time.Now()
	resp, err := s.runner.Generate(ctx, runner.GenerateRequest{
		ModelPath:   model.ModelPath,
		ModelType:   string(model.ModelType),
		Task:        string(model.Task),
		Text:        params.Text,
		MaxLength:   params.MaxLength,
		NumBeams:    params.NumBeams,
		Temperature: params.Temperature,
		DoSample:    params.DoSample,
		Language:    params.Language,
	})
	elapsed := time.Since(start).Seconds()

	record := &models.InferenceRecord{
		OwnerID:        userID,
		RequestID:      requestID,
		ModelID:        model.ID,
		InputText:      params.Text,
		Parameters:     paramsJSON,
		ProcessingTime: elapsed,
	}
	if err != nil {
		record.Status = models.InferenceStatusFailed
		record.ErrorMsg = err.Error()
		s.saveRecord(ctx, record)
		return nil, errors.Join(ErrGenerationFailed, err)
	}

	record.Status = models.InferenceStatusCompleted
	record.OutputText = resp.Output
	if resp.ProcessingTime > 0 {
		record.ProcessingTime = resp.ProcessingTime
	}
	s.saveRecord(ctx, record)
	s.models.RecordUsage(ctx, model.ID)

	return &types.GenerateResponse{
		RequestID:      requestID,
		OutputText:     resp.Output,
		ModelName:      model.Name,
		ProcessingTime: record.ProcessingTime,
	}, nil
}

// GenerateBatch runs several texts through the same model. Items fail
// independently; one bad text does not sink the batch.
func (s *Inference) GenerateBatch(ctx context.Context, userID uint, params GenerateParams, texts []string) (*types.BatchGenerateResponse, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d texts exceeds the limit of %d", len(texts), MaxBatchSize)
	}

	start := time.Now()
	out := &types.BatchGenerateResponse{
		RequestID: uuid.NewString(),
		Results:   make([]types.BatchItemResponse, 0, len(texts)),
	}

	for i, text := range texts {
		itemParams := params
		itemParams.Text = text
		resp, err := s.Generate(ctx, userID, itemParams)
		if err != nil {
			out.Results = append(out.Results, types.BatchItemResponse{Index: i, Error: err.Error()})
			out.Failed++
			continue
		}
		out.Results = append(out.Results, types.BatchItemResponse{Index: i, OutputText: resp.OutputText})
		out.Succeeded++
	}

	out.ProcessingTime = time.Since(start).Seconds()
	return out, nil
}

// History returns the user's past inference requests
func (s *Inference) History(ctx context.Context, userID uint, modelID uint, opts *models.ListOptions) ([]models.InferenceRecord, int64, error) {
	rows, err := s.records.ListByOwner(ctx, userID, modelID, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.records.CountByOwner(ctx, userID, modelID)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Inference) saveRecord(ctx context.Context, record *models.InferenceRecord) {
	if err := s.records.Create(ctx, record); err != nil {
		logger.Warnf("failed to record inference request %s: %v", record.RequestID, err)
	}
}
