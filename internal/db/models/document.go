package models

import (
	"gorm.io/gorm"
)

// DocumentStatus represents the state of a PDF extraction
type DocumentStatus string

// Document status constants
const (
	// DocumentStatusCompleted indicates extraction succeeded
	DocumentStatusCompleted DocumentStatus = "completed"
	// DocumentStatusFailed indicates extraction errored
	DocumentStatusFailed DocumentStatus = "failed"
)

// ProcessedDocument records a PDF upload and its extracted text so the result
// can be fetched later or turned into a dataset.
type ProcessedDocument struct {
	gorm.Model
	OwnerID          uint           `json:"-" gorm:"not null;index"`
	ProcessID        string         `json:"process_id" gorm:"not null;uniqueIndex;size:64"`
	OriginalFilename string         `json:"original_filename" gorm:"not null"`
	PageCount        int            `json:"page_count"`
	CharCount        int            `json:"char_count"`
	TextPath         string         `json:"text_path,omitempty"`
	Status           DocumentStatus `json:"status" gorm:"not null;index"`
	ErrorMsg         string         `json:"error,omitempty" gorm:"type:text"`
}
