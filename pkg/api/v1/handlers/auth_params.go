package handlers

import (
	"fmt"
	"time"
)

// RegisterParams defines the parameters for creating an account
type RegisterParams struct {
	Username     string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	FullName     string `json:"full_name" validate:"max=128"`
	Organization string `json:"organization" validate:"max=128"`
}

// LoginParams defines the parameters for logging in
type LoginParams struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshParams defines the parameters for rotating a refresh token
type RefreshParams struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordParams defines the parameters for changing a password
type ChangePasswordParams struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// ForgotPasswordParams defines the parameters for requesting a reset mail
type ForgotPasswordParams struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordParams defines the parameters for consuming a reset token
type ResetPasswordParams struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// CreateAPIKeyParams defines the parameters for minting an API key
type CreateAPIKeyParams struct {
	Name      string   `json:"name" validate:"required,max=64"`
	Scopes    []string `json:"scopes" validate:"dive,oneof=read write train_models manage_datasets legal_access batch_processing"`
	RateLimit int      `json:"rate_limit" validate:"min=0,max=10000"`
	ExpiresIn string   `json:"expires_in,omitempty"`
}

// ExpiryTime resolves the optional expires_in duration against now
func (p *CreateAPIKeyParams) ExpiryTime(now time.Time) (*time.Time, error) {
	if p.ExpiresIn == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(p.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid expires_in: %w", err)
	}
	at := now.Add(d)
	return &at, nil
}
