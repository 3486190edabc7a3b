package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TrainedModel is a fine-tuned checkpoint registered for inference.
type TrainedModel struct {
	gorm.Model
	OwnerID       uint       `json:"-" gorm:"not null;index"`
	Name          string     `json:"name" gorm:"not null;index"`
	Description   string     `json:"description,omitempty" gorm:"type:text"`
	ModelType     ModelType  `json:"model_type" gorm:"not null;index"`
	Task          TaskType   `json:"task" gorm:"not null;index"`
	BaseModel     string     `json:"base_model,omitempty"`
	ModelPath     string     `json:"model_path" gorm:"not null;uniqueIndex"`
	TrainingJobID *uint      `json:"training_job_id,omitempty" gorm:"index"`
	DatasetID     *uint      `json:"dataset_id,omitempty" gorm:"index"`
	Metadata      JSONMap    `json:"metadata,omitempty" gorm:"type:jsonb"`
	IsPublic      bool       `json:"is_public" gorm:"not null;default:false;index"`
	UsageCount    int64      `json:"usage_count" gorm:"not null;default:0"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for TrainedModel
func (m TrainedModel) MarshalJSON() ([]byte, error) {
	type Alias TrainedModel // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(m))
}

// Validate ensures that the model record is valid
func (m *TrainedModel) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if m.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if _, err := ParseModelType(string(m.ModelType)); err != nil {
		return err
	}
	if _, err := ParseTaskType(string(m.Task)); err != nil {
		return err
	}
	return nil
}

// AccessibleBy reports whether the given user may run inference on this model.
func (m *TrainedModel) AccessibleBy(userID uint) bool {
	return m.IsPublic || m.OwnerID == userID || userID == AdminID
}

// BeforeCreate is a GORM hook that runs before creating a new model record
func (m *TrainedModel) BeforeCreate(_ *gorm.DB) error {
	return m.Validate()
}
