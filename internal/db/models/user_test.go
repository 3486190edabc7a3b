package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRole(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		role        UserRole
		expectError bool
	}{
		{name: "user", input: "user", role: UserRoleUser},
		{name: "admin", input: "admin", role: UserRoleAdmin},
		{name: "researcher", input: "researcher", role: UserRoleResearcher},
		{name: "legal_professional", input: "legal_professional", role: UserRoleLegalProfessional},
		{name: "invalid", input: "superuser", role: UserRoleUser, expectError: true},
		{name: "empty", input: "", role: UserRoleUser, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseUserRole(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.role, role)
		})
	}
}

func TestUserScopes(t *testing.T) {
	tests := []struct {
		role     UserRole
		contains []string
		excludes []string
	}{
		{UserRoleUser, []string{"read", "write"}, []string{"admin", "train_models", "batch_processing"}},
		{UserRoleAdmin, []string{"read", "write", "admin", "manage_users"}, []string{"train_models"}},
		{UserRoleResearcher, []string{"train_models", "manage_datasets"}, []string{"admin"}},
		{UserRoleLegalProfessional, []string{"legal_access", "batch_processing"}, []string{"admin"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := &User{Role: tt.role}
			scopes := user.Scopes()
			for _, s := range tt.contains {
				assert.Contains(t, scopes, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, scopes, s)
			}
		})
	}
}

func TestUserIsActive(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusSuspended}).IsActive())
	assert.False(t, (&User{Status: UserStatusInactive}).IsActive())
	assert.False(t, (&User{Status: UserStatusPending}).IsActive())
}
