package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// APIKey grants programmatic access to the API on behalf of its owner.
// The secret is stored hashed; the plaintext is returned exactly once at
// creation time.
type APIKey struct {
	gorm.Model
	UserID     uint        `json:"-" gorm:"not null;index"`
	Name       string      `json:"name" gorm:"not null"`
	Key        string      `json:"key" gorm:"not null;uniqueIndex;size:64"`
	SecretHash string      `json:"-" gorm:"not null"`
	Scopes     StringSlice `json:"scopes" gorm:"type:jsonb"`
	RateLimit  int         `json:"rate_limit" gorm:"not null;default:100"`
	IsActive   bool        `json:"is_active" gorm:"not null;default:true;index"`
	LastUsedAt *time.Time  `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time  `json:"expires_at,omitempty"`
}

// Validate ensures the API key record is well formed
func (k *APIKey) Validate() error {
	if k.Name == "" {
		return fmt.Errorf("api key name cannot be empty")
	}
	if k.Key == "" {
		return fmt.Errorf("api key value cannot be empty")
	}
	return nil
}

// Usable reports whether the key may authenticate requests now
func (k *APIKey) Usable(now time.Time) bool {
	if !k.IsActive {
		return false
	}
	if k.ExpiresAt != nil && now.After(*k.ExpiresAt) {
		return false
	}
	return true
}

// BeforeCreate is a GORM hook that runs before inserting a new API key
func (k *APIKey) BeforeCreate(_ *gorm.DB) error {
	if len(k.Scopes) == 0 {
		k.Scopes = StringSlice{"read", "write"}
	}
	return k.Validate()
}
