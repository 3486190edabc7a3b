package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/mail"
	"github.com/legaltext/finetuner/internal/runner"
)

// Worker drives queued training jobs to completion against the model runner.
type Worker struct {
	jobs     *repos.TrainingJobRepository
	trained  *repos.TrainedModelRepository
	datasets *repos.DatasetRepository
	users    *repos.UserRepository
	tokens   *repos.TokenRepository
	runner   runner.Client
	mailer   mail.Mailer

	// PollInterval is how often running jobs are polled on the runner and
	// the queue is checked for new jobs. Tests shrink it.
	PollInterval time.Duration

	// StaleAfter is how long a job may sit in running state without the
	// worker touching it before startup requeues it.
	StaleAfter time.Duration
}

// NewWorker creates a worker instance
func NewWorker(jobs *repos.TrainingJobRepository, trained *repos.TrainedModelRepository, datasets *repos.DatasetRepository, users *repos.UserRepository, tokens *repos.TokenRepository, runnerClient runner.Client, mailer mail.Mailer) *Worker {
	return &Worker{
		jobs:         jobs,
		trained:      trained,
		datasets:     datasets,
		users:        users,
		tokens:       tokens,
		runner:       runnerClient,
		mailer:       mailer,
		PollInterval: 5 * time.Second,
		StaleAfter:   time.Hour,
	}
}

// LaunchWorker launches a goroutine that claims queued training jobs and
// shepherds them through the model runner until they reach a terminal state.
func LaunchWorker(ctx context.Context, wg *sync.WaitGroup, w *Worker) {
	defer wg.Done()
	const jobLimit = 10

	logger.Info("Worker started")

	// Jobs left in running state by a previous crash go back in the queue
	if n, err := w.jobs.RequeueStale(ctx, time.Now().Add(-w.StaleAfter)); err != nil {
		logger.Errorf("Worker failed to requeue stale jobs: %v", err)
	} else if n > 0 {
		logger.Infof("Worker requeued %d stale jobs", n)
	}

	lastPurge := time.Now()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker received shutdown signal, stopping...")
			return
		default:
		}

		if time.Since(lastPurge) > time.Hour {
			if err := w.tokens.DeleteExpiredRefreshTokens(ctx, time.Now()); err != nil {
				logger.Errorf("Worker failed to purge expired refresh tokens: %v", err)
			}
			lastPurge = time.Now()
		}

		jobs, err := w.jobs.GetSchedulable(ctx, jobLimit)
		if err != nil {
			logger.Errorf("Worker error fetching jobs: %v", err)
			// Wait before retrying to avoid spamming logs on persistent DB errors
			time.Sleep(w.PollInterval)
			continue
		}

		if len(jobs) == 0 {
			logger.Debug("Worker: no jobs to process")
			time.Sleep(w.PollInterval)
			continue
		}

		for i := range jobs {
			select {
			case <-ctx.Done():
				return
			default:
			}
			w.ProcessJob(ctx, &jobs[i])
		}
	}
}

// ProcessJob claims one pending job and runs it to a terminal state. Exported
// so tests can drive a single job without the poll loop.
func (w *Worker) ProcessJob(ctx context.Context, job *models.TrainingJob) {
	claimed, err := w.jobs.Claim(ctx, job.ID, time.Now())
	if err != nil {
		logger.Errorf("Worker failed to claim job %s: %v", job.JobID, err)
		return
	}
	if !claimed {
		// Another worker instance got there first, or the owner cancelled
		logger.Debugf("Worker: job %s no longer claimable", job.JobID)
		return
	}

	logger.InfoWithFields("Worker picked up training job", map[string]interface{}{
		"job_id":     job.JobID,
		"model_type": job.ModelType,
		"task":       job.Task,
	})

	dataset, err := w.datasets.GetByID(ctx, job.DatasetID)
	if err != nil {
		w.failJob(ctx, job, "dataset no longer exists")
		return
	}

	outputDir := "models/" + job.JobID
	_, err = w.runner.StartTrain(ctx, runner.TrainRequest{
		JobID:       job.JobID,
		ModelType:   string(job.ModelType),
		Task:        string(job.Task),
		DatasetPath: dataset.FilePath,
		OutputDir:   outputDir,
		Languages:   job.Languages,
		Config:      job.Config,
	})
	if err != nil {
		w.failJob(ctx, job, "model runner rejected the job: "+err.Error())
		return
	}

	w.pollUntilDone(ctx, job)
}

// pollUntilDone watches one running job on the runner, mirroring its
// progress into the DB, until the run completes, fails or is cancelled.
func (w *Worker) pollUntilDone(ctx context.Context, job *models.TrainingJob) {
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Leave the job in running state; startup requeue will recover it
			return
		case <-ticker.C:
		}

		// The owner may have cancelled the job between polls
		current, err := w.jobs.GetByJobID(ctx, models.AdminID, job.JobID)
		if err != nil {
			logger.Errorf("Worker lost track of job %s: %v", job.JobID, err)
			return
		}
		if current.Status == models.JobStatusCancelled {
			if err := w.runner.AbortTrain(ctx, job.JobID); err != nil {
				logger.Warnf("Worker failed to abort cancelled run %s: %v", job.JobID, err)
			}
			logger.Infof("Worker: job %s cancelled", job.JobID)
			return
		}

		status, err := w.runner.TrainStatus(ctx, job.JobID)
		if err != nil {
			logger.Warnf("Worker failed to poll run %s: %v", job.JobID, err)
			continue
		}

		switch status.State {
		case runner.TrainStateQueued, runner.TrainStateTraining:
			if status.Progress > current.Progress {
				if err := w.jobs.UpdateProgress(ctx, job.ID, status.Progress); err != nil {
					logger.Warnf("Worker failed to update progress for job %s: %v", job.JobID, err)
				}
			}
		case runner.TrainStateCompleted:
			w.completeJob(ctx, current, status)
			return
		case runner.TrainStateFailed:
			w.failJob(ctx, current, status.Error)
			return
		default:
			logger.Warnf("Worker: runner reported unknown state %q for job %s", status.State, job.JobID)
		}
	}
}

func (w *Worker) completeJob(ctx context.Context, job *models.TrainingJob, status runner.TrainStatus) {
	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.Progress = 100
	job.Metrics = status.Metrics
	job.ModelPath = status.ModelPath
	job.CompletedAt = &now
	if err := w.jobs.Update(ctx, job); err != nil {
		logger.Errorf("Worker failed to mark job %s completed: %v", job.JobID, err)
		return
	}

	trained := &models.TrainedModel{
		OwnerID:       job.OwnerID,
		Name:          job.Name,
		Description:   job.Description,
		ModelType:     job.ModelType,
		Task:          job.Task,
		BaseModel:     BaseModelFor(job.ModelType),
		ModelPath:     status.ModelPath,
		TrainingJobID: &job.ID,
		DatasetID:     &job.DatasetID,
		Metadata:      metricsToMap(status.Metrics),
	}
	if err := w.trained.Create(ctx, trained); err != nil {
		logger.Errorf("Worker failed to register model for job %s: %v", job.JobID, err)
	}

	logger.InfoWithFields("Worker completed training job", map[string]interface{}{
		"job_id":     job.JobID,
		"model_path": status.ModelPath,
	})
	w.notify(ctx, job, "completed", "Your fine-tuned model is ready for inference.")
}

func (w *Worker) failJob(ctx context.Context, job *models.TrainingJob, reason string) {
	now := time.Now()
	job.Status = models.JobStatusFailed
	job.ErrorMsg = reason
	job.CompletedAt = &now
	if err := w.jobs.Update(ctx, job); err != nil {
		logger.Errorf("Worker failed to mark job %s failed: %v", job.JobID, err)
		return
	}
	logger.ErrorWithFields("Worker failed training job", map[string]interface{}{
		"job_id": job.JobID,
		"reason": reason,
	})
	w.notify(ctx, job, "failed", reason)
}

func (w *Worker) notify(ctx context.Context, job *models.TrainingJob, status, detail string) {
	owner, err := w.users.GetUserByID(ctx, job.OwnerID)
	if err != nil {
		logger.Warnf("Worker could not load owner of job %s for notification: %v", job.JobID, err)
		return
	}
	if err := w.mailer.SendJobNotification(owner.Email, owner.Username, job.JobID, status, detail); err != nil {
		logger.Warnf("Worker failed to send notification for job %s: %v", job.JobID, err)
	}
}

func metricsToMap(metrics json.RawMessage) models.JSONMap {
	if len(metrics) == 0 {
		return nil
	}
	out := models.JSONMap{}
	if err := json.Unmarshal(metrics, &out); err != nil {
		return nil
	}
	return out
}
