package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// InferenceStatus represents the state of an inference request
type InferenceStatus string

// Inference status constants
const (
	// InferenceStatusCompleted indicates generation succeeded
	InferenceStatusCompleted InferenceStatus = "completed"
	// InferenceStatusFailed indicates generation errored
	InferenceStatusFailed InferenceStatus = "failed"
)

// InferenceRecord is one row of the per-user inference history.
type InferenceRecord struct {
	gorm.Model
	OwnerID        uint            `json:"-" gorm:"not null;index"`
	RequestID      string          `json:"request_id" gorm:"not null;uniqueIndex;size:64"`
	ModelID        uint            `json:"model_id" gorm:"not null;index"`
	InputText      string          `json:"input_text" gorm:"type:text;not null"`
	Parameters     json.RawMessage `json:"parameters,omitempty" gorm:"type:jsonb"`
	OutputText     string          `json:"output_text,omitempty" gorm:"type:text"`
	ProcessingTime float64         `json:"processing_time"` // seconds
	Status         InferenceStatus `json:"status" gorm:"not null;index"`
	ErrorMsg       string          `json:"error,omitempty" gorm:"type:text"`
}

// Evaluation stores the metric results of scoring a model against a dataset.
type Evaluation struct {
	gorm.Model
	OwnerID     uint            `json:"-" gorm:"not null;index"`
	ModelID     uint            `json:"model_id" gorm:"not null;index"`
	DatasetID   uint            `json:"dataset_id" gorm:"not null;index"`
	Task        TaskType        `json:"task" gorm:"not null"`
	Results     json.RawMessage `json:"results,omitempty" gorm:"type:jsonb"`
	SampleCount int             `json:"sample_count"`
}
