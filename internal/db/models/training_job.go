package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field names for the training job model
const (
	// JobStatusField is the field name for job status
	JobStatusField = "status"
	// JobProgressField is the field name for job progress
	JobProgressField = "progress"
)

// ModelType identifies the pretrained architecture a job fine-tunes
type ModelType string

// Model type constants
const (
	// ModelTypeBART is the BART summarization architecture
	ModelTypeBART ModelType = "bart"
	// ModelTypePEGASUS is the PEGASUS summarization architecture
	ModelTypePEGASUS ModelType = "pegasus"
	// ModelTypeMultilingual is the multilingual T5 architecture
	ModelTypeMultilingual ModelType = "multilingual"
)

// ParseModelType converts a string to a ModelType
func ParseModelType(str string) (ModelType, error) {
	switch ModelType(str) {
	case ModelTypeBART, ModelTypePEGASUS, ModelTypeMultilingual:
		return ModelType(str), nil
	default:
		return "", fmt.Errorf("invalid model type: %s", str)
	}
}

// TaskType identifies the text-generation task a model is tuned for
type TaskType string

// Task type constants
const (
	// TaskSummarization condenses a legal document
	TaskSummarization TaskType = "summarization"
	// TaskSimplification rewrites legal text in plain language
	TaskSimplification TaskType = "simplification"
	// TaskTranslation translates legal text between languages
	TaskTranslation TaskType = "translation"
)

// ParseTaskType converts a string to a TaskType
func ParseTaskType(str string) (TaskType, error) {
	switch TaskType(str) {
	case TaskSummarization, TaskSimplification, TaskTranslation:
		return TaskType(str), nil
	default:
		return "", fmt.Errorf("invalid task type: %s", str)
	}
}

// JobStatus represents the current state of a training job
type JobStatus string

// Job status constants
const (
	// JobStatusPending indicates the job is waiting to be scheduled
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently training
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job finished successfully
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job errored out
	JobStatusFailed JobStatus = "failed"
	// JobStatusCancelled indicates the job was cancelled by its owner
	JobStatusCancelled JobStatus = "cancelled"
)

// String returns the string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are allowed
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// ParseJobStatus converts a string to a JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch JobStatus(str) {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return JobStatus(str), nil
	default:
		return "", fmt.Errorf("invalid job status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// TrainingJob represents an asynchronous fine-tuning run that can be tracked.
type TrainingJob struct {
	gorm.Model
	OwnerID     uint            `json:"-" gorm:"not null;index"`
	JobID       string          `json:"job_id" gorm:"not null;uniqueIndex;size:64"`
	Name        string          `json:"name" gorm:"not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	ModelType   ModelType       `json:"model_type" gorm:"not null"`
	Task        TaskType        `json:"task" gorm:"not null"`
	DatasetID   uint            `json:"dataset_id" gorm:"not null;index"`
	Languages   StringSlice     `json:"languages,omitempty" gorm:"type:jsonb"`
	Config      json.RawMessage `json:"config,omitempty" gorm:"type:jsonb"`
	Status      JobStatus       `json:"status" gorm:"not null;index"`
	Progress    int             `json:"progress" gorm:"not null;default:0"`
	ErrorMsg    string          `json:"error,omitempty" gorm:"type:text"`
	Metrics     json.RawMessage `json:"metrics,omitempty" gorm:"type:jsonb"`
	ModelPath   string          `json:"model_path,omitempty"`
	Logs        string          `json:"logs,omitempty" gorm:"type:text"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for TrainingJob
func (j TrainingJob) MarshalJSON() ([]byte, error) {
	type Alias TrainingJob // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(j))
}

// Validate ensures that the job data is valid
func (j *TrainingJob) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if _, err := ParseModelType(string(j.ModelType)); err != nil {
		return err
	}
	if _, err := ParseTaskType(string(j.Task)); err != nil {
		return err
	}
	if j.DatasetID == 0 {
		return fmt.Errorf("job dataset_id cannot be 0")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new training job
func (j *TrainingJob) BeforeCreate(_ *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobStatusPending
	}
	return j.Validate()
}
