package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// TrainingJobRepository handles database operations for training jobs
type TrainingJobRepository struct {
	db *gorm.DB
}

// NewTrainingJobRepository creates a new instance of TrainingJobRepository
func NewTrainingJobRepository(db *gorm.DB) *TrainingJobRepository {
	return &TrainingJobRepository{db: db}
}

// Create stores a new training job
func (r *TrainingJobRepository) Create(ctx context.Context, job *models.TrainingJob) error {
	if err := models.ValidateOwnerID(job.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByJobID retrieves a job by its public uuid, scoped to its owner
func (r *TrainingJobRepository) GetByJobID(ctx context.Context, ownerID uint, jobID string) (*models.TrainingJob, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var job models.TrainingJob
	query := r.db.WithContext(ctx).Where("job_id = ?", jobID)
	if ownerID != models.AdminID {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListByOwner retrieves jobs owned by a user, optionally filtered by status
func (r *TrainingJobRepository) ListByOwner(ctx context.Context, ownerID uint, status models.JobStatus, opts *models.ListOptions) ([]models.TrainingJob, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var jobs []models.TrainingJob
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&jobs).Error
	return jobs, err
}

// CountByOwner returns the number of jobs owned by a user, optionally by status
func (r *TrainingJobRepository) CountByOwner(ctx context.Context, ownerID uint, status models.JobStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// GetSchedulable fetches pending jobs in creation order, up to limit
func (r *TrainingJobRepository) GetSchedulable(ctx context.Context, limit int) ([]models.TrainingJob, error) {
	var jobs []models.TrainingJob
	err := r.db.WithContext(ctx).
		Where("status = ?", models.JobStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// Claim transitions a pending job to running. The guarded update makes the
// claim exclusive: a second claimer, or a cancel that raced the worker, sees
// zero rows affected.
func (r *TrainingJobRepository) Claim(ctx context.Context, id uint, startedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("id = ? AND status = ?", id, models.JobStatusPending).
		Updates(map[string]interface{}{
			models.JobStatusField: models.JobStatusRunning,
			"started_at":          startedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatus updates the status of a job
func (r *TrainingJobRepository) UpdateStatus(ctx context.Context, id uint, status models.JobStatus) error {
	return r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("id = ?", id).
		Update(models.JobStatusField, status).Error
}

// UpdateProgress updates the progress percentage of a running job
func (r *TrainingJobRepository) UpdateProgress(ctx context.Context, id uint, progress int) error {
	return r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("id = ?", id).
		Update(models.JobProgressField, progress).Error
}

// Update persists changes to an existing job
func (r *TrainingJobRepository) Update(ctx context.Context, job *models.TrainingJob) error {
	return r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("id = ?", job.ID).
		Updates(job).Error
}

// Cancel transitions a pending or running job to cancelled. Terminal jobs are
// left untouched and reported via the boolean result.
func (r *TrainingJobRepository) Cancel(ctx context.Context, ownerID uint, jobID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("job_id = ? AND owner_id = ? AND status IN ?", jobID, ownerID,
			[]models.JobStatus{models.JobStatusPending, models.JobStatusRunning}).
		Update(models.JobStatusField, models.JobStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RequeueStale returns running jobs started before the threshold back to
// pending. Called at startup so jobs orphaned by a crashed worker get retried.
func (r *TrainingJobRepository) RequeueStale(ctx context.Context, threshold time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("status = ? AND started_at < ?", models.JobStatusRunning, threshold).
		Updates(map[string]interface{}{
			models.JobStatusField:   models.JobStatusPending,
			models.JobProgressField: 0,
		})
	return result.RowsAffected, result.Error
}
