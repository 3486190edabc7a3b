package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
)

func TestWorkerProcessJobCompletes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)
	job := env.startJob(t, owner.ID, dataset.ID)

	env.mock.PollsUntilDone = 2
	env.worker.ProcessJob(env.ctx, job)

	done, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.NotEmpty(t, done.Metrics)
	assert.Equal(t, "models/"+job.JobID, done.ModelPath)

	// A trained model record was registered for inference
	trained, err := env.modelRepo.GetByPath(env.ctx, done.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, trained.OwnerID)
	assert.Equal(t, models.ModelTypeBART, trained.ModelType)
	assert.Equal(t, "facebook/bart-large-cnn", trained.BaseModel)
	require.NotNil(t, trained.TrainingJobID)
	assert.Equal(t, done.ID, *trained.TrainingJobID)
}

func TestWorkerForwardsJobLanguages(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)

	job, err := env.training.Start(env.ctx, owner.ID, StartParams{
		Name:      "hindi-summarizer",
		ModelType: models.ModelTypeMultilingual,
		Task:      models.TaskSummarization,
		DatasetID: dataset.ID,
		Languages: []string{"hi", "ta"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringSlice{"hi", "ta"}, job.Languages)

	env.worker.ProcessJob(env.ctx, job)

	req, ok := env.mock.TrainRequestFor(job.JobID)
	require.True(t, ok)
	assert.Equal(t, []string{"hi", "ta"}, req.Languages)
}

func TestWorkerProcessJobRunnerFailure(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)
	job := env.startJob(t, owner.ID, dataset.ID)

	env.mock.TrainErr = "CUDA out of memory"
	env.worker.ProcessJob(env.ctx, job)

	failed, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMsg, "CUDA out of memory")

	// No model record for a failed run
	_, err = env.modelRepo.GetByPath(env.ctx, "models/"+job.JobID)
	assert.Error(t, err)
}

func TestWorkerProcessJobMissingDataset(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)
	job := env.startJob(t, owner.ID, dataset.ID)

	require.NoError(t, env.datasets.Delete(env.ctx, owner.ID, dataset.ID))

	env.worker.ProcessJob(env.ctx, job)

	failed, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMsg, "dataset")
}

func TestWorkerDetectsOwnerCancellation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)
	job := env.startJob(t, owner.ID, dataset.ID)

	// Keep the run in training state long enough for the cancel to land
	env.mock.PollsUntilDone = 1000

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.worker.ProcessJob(env.ctx, job)
	}()

	// Wait for the worker to claim the job, then cancel as the owner
	require.Eventually(t, func() bool {
		current, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
		return err == nil && current.Status == models.JobStatusRunning
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, env.training.Cancel(env.ctx, owner.ID, job.JobID))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	cancelled, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, cancelled.Status)
}

func TestWorkerSkipsAlreadyClaimedJob(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)
	job := env.startJob(t, owner.ID, dataset.ID)

	claimed, err := env.jobRepo.Claim(env.ctx, job.ID, time.Now())
	require.NoError(t, err)
	require.True(t, claimed)

	// ProcessJob must not touch a job another worker owns
	env.worker.ProcessJob(env.ctx, job)

	current, err := env.jobRepo.GetByJobID(env.ctx, owner.ID, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, current.Status)
}
