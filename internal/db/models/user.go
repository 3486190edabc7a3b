package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user in the system
type UserRole string

// User role constants
const (
	// UserRoleUser represents a standard user
	UserRoleUser UserRole = "user"
	// UserRoleAdmin represents an administrator user
	UserRoleAdmin UserRole = "admin"
	// UserRoleResearcher represents a user allowed to run training experiments
	UserRoleResearcher UserRole = "researcher"
	// UserRoleLegalProfessional represents a legal-domain user with batch access
	UserRoleLegalProfessional UserRole = "legal_professional"
)

// UserStatus represents the account state of a user
type UserStatus string

// User status constants
const (
	// UserStatusActive indicates a usable account
	UserStatusActive UserStatus = "active"
	// UserStatusInactive indicates a deactivated account
	UserStatusInactive UserStatus = "inactive"
	// UserStatusSuspended indicates an account locked by an administrator
	UserStatusSuspended UserStatus = "suspended"
	// UserStatusPending indicates an account awaiting email verification
	UserStatusPending UserStatus = "pending"
)

// AdminID represents the special ID for admin-level access
const AdminID uint = math.MaxUint32

// User represents a user in the system
type User struct {
	gorm.Model
	Username       string     `json:"username" gorm:"not null;unique"`
	Email          string     `json:"email" gorm:"not null;unique"`
	FullName       string     `json:"full_name" gorm:""`
	HashedPassword string     `json:"-" gorm:"not null"`
	Role           UserRole   `json:"role" gorm:"index;default:user"`
	Status         UserStatus `json:"status" gorm:"index;default:active"`
	Organization   string     `json:"organization,omitempty" gorm:""`
	Preferences    JSONMap    `json:"preferences,omitempty" gorm:"type:jsonb"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for User
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(u))
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	switch UserRole(str) {
	case UserRoleUser, UserRoleAdmin, UserRoleResearcher, UserRoleLegalProfessional:
		return UserRole(str), nil
	default:
		return UserRoleUser, fmt.Errorf("invalid user role: %s", str)
	}
}

// Scopes returns the API scopes granted by the user's role
func (u *User) Scopes() []string {
	scopes := []string{"read", "write"}
	switch u.Role {
	case UserRoleAdmin:
		scopes = append(scopes, "admin", "manage_users", "manage_system")
	case UserRoleResearcher:
		scopes = append(scopes, "train_models", "manage_datasets")
	case UserRoleLegalProfessional:
		scopes = append(scopes, "legal_access", "batch_processing")
	}
	return scopes
}

// ValidateOwnerID ensures the ownerID is valid
func ValidateOwnerID(ownerID uint) error {
	if ownerID == 0 {
		return fmt.Errorf("owner_id cannot be 0")
	}
	return nil
}
