package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/runner"
)

// Training service errors
var (
	ErrJobNotFound      = errors.New("training job not found")
	ErrJobNotCancelable = errors.New("training job is already finished")
)

// TrainConfig are the hyperparameters sent to the model runner. Zero fields
// are filled with defaults before the job is stored.
type TrainConfig struct {
	Epochs          int     `json:"epochs"`
	BatchSize       int     `json:"batch_size"`
	LearningRate    float64 `json:"learning_rate"`
	MaxLength       int     `json:"max_length"`
	TargetMaxLength int     `json:"target_max_length"`
	WarmupSteps     int     `json:"warmup_steps,omitempty"`
	WeightDecay     float64 `json:"weight_decay,omitempty"`
}

func (c *TrainConfig) applyDefaults() {
	if c.Epochs <= 0 {
		c.Epochs = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 4
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 5e-5
	}
	if c.MaxLength <= 0 {
		c.MaxLength = 1024
	}
	if c.TargetMaxLength <= 0 {
		c.TargetMaxLength = 256
	}
}

// BaseModelFor returns the hub checkpoint a fine-tuning run starts from
func BaseModelFor(modelType models.ModelType) string {
	switch modelType {
	case models.ModelTypeBART:
		return "facebook/bart-large-cnn"
	case models.ModelTypePEGASUS:
		return "google/pegasus-xsum"
	case models.ModelTypeMultilingual:
		return "google/mt5-base"
	default:
		return ""
	}
}

// Training provides business logic for fine-tuning jobs
type Training struct {
	jobs     *repos.TrainingJobRepository
	datasets *Dataset
	runner   runner.Client
	cfg      *config.Config
}

// NewTrainingService creates a new training service instance
func NewTrainingService(jobs *repos.TrainingJobRepository, datasets *Dataset, runnerClient runner.Client, cfg *config.Config) *Training {
	return &Training{
		jobs:     jobs,
		datasets: datasets,
		runner:   runnerClient,
		cfg:      cfg,
	}
}

// StartParams describe a new fine-tuning run
type StartParams struct {
	Name        string
	Description string
	ModelType   models.ModelType
	Task        models.TaskType
	DatasetID   uint
	Config      TrainConfig
	Languages   []string
}

// Start registers a pending job for the worker to pick up. The dataset must
// be readable by the caller; the job itself runs asynchronously.
func (s *Training) Start(ctx context.Context, ownerID uint, params StartParams) (*models.TrainingJob, error) {
	if _, err := s.datasets.Get(ctx, ownerID, params.DatasetID); err != nil {
		return nil, err
	}

	params.Config.applyDefaults()
	configJSON, err := json.Marshal(params.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode training config: %w", err)
	}

	job := &models.TrainingJob{
		OwnerID:     ownerID,
		JobID:       uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		ModelType:   params.ModelType,
		Task:        params.Task,
		DatasetID:   params.DatasetID,
		Languages:   models.StringSlice(params.Languages),
		Config:      configJSON,
		Status:      models.JobStatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create training job: %w", err)
	}

	logger.InfoWithFields("training job queued", map[string]interface{}{
		"job_id":     job.JobID,
		"owner_id":   ownerID,
		"model_type": job.ModelType,
		"task":       job.Task,
	})
	return job, nil
}

// Get returns a job visible to the user
func (s *Training) Get(ctx context.Context, userID uint, jobID string) (*models.TrainingJob, error) {
	job, err := s.jobs.GetByJobID(ctx, userID, jobID)
	if err != nil {
		return nil, errors.Join(ErrJobNotFound, err)
	}
	return job, nil
}

// List returns the user's jobs, optionally filtered by status
func (s *Training) List(ctx context.Context, userID uint, status models.JobStatus, opts *models.ListOptions) ([]models.TrainingJob, int64, error) {
	rows, err := s.jobs.ListByOwner(ctx, userID, status, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.jobs.CountByOwner(ctx, userID, status)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Cancel stops a pending or running job. The DB transition is the source of
// truth; if the runner already started the run it is told to abort as well.
func (s *Training) Cancel(ctx context.Context, userID uint, jobID string) error {
	job, err := s.jobs.GetByJobID(ctx, userID, jobID)
	if err != nil {
		return errors.Join(ErrJobNotFound, err)
	}

	wasRunning := job.Status == models.JobStatusRunning
	cancelled, err := s.jobs.Cancel(ctx, userID, jobID)
	if err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	if !cancelled {
		return ErrJobNotCancelable
	}

	if wasRunning {
		if err := s.runner.AbortTrain(ctx, jobID); err != nil {
			logger.Warnf("failed to abort run %s on model runner: %v", jobID, err)
		}
	}
	logger.Infof("training job %s cancelled by user %d", jobID, userID)
	return nil
}

// OutputDir returns the checkpoint directory for a job
func (s *Training) OutputDir(jobID string) string {
	return filepath.Join(s.cfg.DataDir, "models", jobID)
}
