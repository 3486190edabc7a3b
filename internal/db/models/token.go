package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken is a persisted refresh token. The JWT itself is the token
// column; revocation is tracked here so stolen tokens can be invalidated.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `json:"-" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"not null;uniqueIndex;size:512"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	IsRevoked bool      `json:"is_revoked" gorm:"not null;default:false;index"`
}

// Valid reports whether the token can still be used to mint access tokens
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

// PasswordResetToken is a single-use opaque token mailed to a user.
type PasswordResetToken struct {
	gorm.Model
	UserID    uint      `json:"-" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"not null;uniqueIndex;size:128"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	IsUsed    bool      `json:"is_used" gorm:"not null;default:false"`
}

// Valid reports whether the token may still reset a password
func (t *PasswordResetToken) Valid(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}
