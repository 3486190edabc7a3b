package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

// TokenRepository handles database operations for refresh and reset tokens
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new instance of TokenRepository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateRefreshToken stores a newly issued refresh token
func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetRefreshToken retrieves a refresh token row by its token string
func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks a single refresh token as revoked
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("is_revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAllUserRefreshTokens revokes every live refresh token for a user
func (r *TokenRepository) RevokeAllUserRefreshTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// DeleteExpiredRefreshTokens removes refresh tokens past their expiry
func (r *TokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.RefreshToken{}).Error
}

// CreatePasswordResetToken stores a newly issued password reset token
func (r *TokenRepository) CreatePasswordResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetPasswordResetToken retrieves a reset token row by its token string
func (r *TokenRepository) GetPasswordResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var prt models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&prt).Error; err != nil {
		return nil, err
	}
	return &prt, nil
}

// MarkPasswordResetTokenUsed consumes a reset token so it cannot be replayed
func (r *TokenRepository) MarkPasswordResetTokenUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}
