package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModelType(t *testing.T) {
	for _, valid := range []string{"bart", "pegasus", "multilingual"} {
		mt, err := ParseModelType(valid)
		assert.NoError(t, err)
		assert.Equal(t, ModelType(valid), mt)
	}

	_, err := ParseModelType("gpt")
	assert.Error(t, err)
	_, err = ParseModelType("")
	assert.Error(t, err)
}

func TestParseTaskType(t *testing.T) {
	for _, valid := range []string{"summarization", "simplification", "translation"} {
		task, err := ParseTaskType(valid)
		assert.NoError(t, err)
		assert.Equal(t, TaskType(valid), task)
	}

	_, err := ParseTaskType("classification")
	assert.Error(t, err)
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusRunning.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.True(t, JobStatusCancelled.Terminal())
}

func TestParseJobStatus(t *testing.T) {
	status, err := ParseJobStatus("running")
	assert.NoError(t, err)
	assert.Equal(t, JobStatusRunning, status)

	_, err = ParseJobStatus("paused")
	assert.Error(t, err)
}

func TestTrainingJobValidate(t *testing.T) {
	job := &TrainingJob{
		OwnerID:   1,
		JobID:     "abc",
		Name:      "summarizer",
		ModelType: ModelTypeBART,
		Task:      TaskSummarization,
		DatasetID: 1,
		Status:    JobStatusPending,
	}
	assert.NoError(t, job.Validate())

	job.Name = ""
	assert.Error(t, job.Validate())
}
