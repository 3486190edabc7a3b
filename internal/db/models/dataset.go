package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// Dataset file format constants
const (
	// DatasetFormatJSON is a JSON array of samples
	DatasetFormatJSON = "json"
	// DatasetFormatPDF is a processed PDF extraction
	DatasetFormatPDF = "pdf"
)

// Dataset represents an uploaded corpus owned by a user.
type Dataset struct {
	gorm.Model
	OwnerID          uint      `json:"-" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"not null;index"`
	Description      string    `json:"description,omitempty" gorm:"type:text"`
	FilePath         string    `json:"file_path" gorm:"not null"`
	FileSize         int64     `json:"file_size"`
	FileFormat       string    `json:"file_format" gorm:"default:json"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	Metadata         JSONMap   `json:"metadata,omitempty" gorm:"type:jsonb"`
	Statistics       JSONMap   `json:"statistics,omitempty" gorm:"type:jsonb"`
	IsPublic         bool      `json:"is_public" gorm:"not null;default:false;index"`
	IsShared         bool      `json:"is_shared" gorm:"not null;default:false"`
	SharedWith       UintSlice `json:"shared_with,omitempty" gorm:"type:jsonb"`
}

// MarshalJSON implements the json.Marshaler interface for Dataset
func (d Dataset) MarshalJSON() ([]byte, error) {
	type Alias Dataset // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(d))
}

// Validate ensures that the dataset data is valid
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}
	if d.FilePath == "" {
		return fmt.Errorf("dataset file path cannot be empty")
	}
	return nil
}

// AccessibleBy reports whether the given user may read this dataset.
func (d *Dataset) AccessibleBy(userID uint) bool {
	if d.IsPublic || d.OwnerID == userID || userID == AdminID {
		return true
	}
	return d.IsShared && d.SharedWith.Contains(userID)
}

// BeforeCreate is a GORM hook that runs before creating a new dataset
func (d *Dataset) BeforeCreate(_ *gorm.DB) error {
	if d.FileFormat == "" {
		d.FileFormat = DatasetFormatJSON
	}
	return d.Validate()
}
