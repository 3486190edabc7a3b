package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

type TokenRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestTokenRepository(t *testing.T) {
	suite.Run(t, new(TokenRepositoryTestSuite))
}

func (s *TokenRepositoryTestSuite) createRefreshToken(userID uint, token string, expiresAt time.Time) *models.RefreshToken {
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	s.Require().NoError(s.tokenRepo.CreateRefreshToken(s.ctx, rt))
	return rt
}

func (s *TokenRepositoryTestSuite) TestRefreshTokenLifecycle() {
	userID := s.randomOwnerID()
	s.createRefreshToken(userID, "token-a", time.Now().Add(time.Hour))

	found, err := s.tokenRepo.GetRefreshToken(s.ctx, "token-a")
	s.NoError(err)
	s.Equal(userID, found.UserID)
	s.True(found.Valid(time.Now()))

	err = s.tokenRepo.RevokeRefreshToken(s.ctx, "token-a")
	s.NoError(err)

	found, err = s.tokenRepo.GetRefreshToken(s.ctx, "token-a")
	s.NoError(err)
	s.True(found.IsRevoked)
	s.False(found.Valid(time.Now()))
}

func (s *TokenRepositoryTestSuite) TestRevokeAllUserRefreshTokens() {
	userID := s.randomOwnerID()
	s.createRefreshToken(userID, "token-1", time.Now().Add(time.Hour))
	s.createRefreshToken(userID, "token-2", time.Now().Add(time.Hour))
	other := s.createRefreshToken(userID+1, "token-3", time.Now().Add(time.Hour))

	err := s.tokenRepo.RevokeAllUserRefreshTokens(s.ctx, userID)
	s.NoError(err)

	for _, token := range []string{"token-1", "token-2"} {
		found, err := s.tokenRepo.GetRefreshToken(s.ctx, token)
		s.NoError(err)
		s.True(found.IsRevoked)
	}

	found, err := s.tokenRepo.GetRefreshToken(s.ctx, other.Token)
	s.NoError(err)
	s.False(found.IsRevoked)
}

func (s *TokenRepositoryTestSuite) TestDeleteExpiredRefreshTokens() {
	userID := s.randomOwnerID()
	s.createRefreshToken(userID, "expired", time.Now().Add(-time.Hour))
	s.createRefreshToken(userID, "current", time.Now().Add(time.Hour))

	err := s.tokenRepo.DeleteExpiredRefreshTokens(s.ctx, time.Now())
	s.NoError(err)

	_, err = s.tokenRepo.GetRefreshToken(s.ctx, "expired")
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = s.tokenRepo.GetRefreshToken(s.ctx, "current")
	s.NoError(err)
}

func (s *TokenRepositoryTestSuite) TestPasswordResetToken() {
	userID := s.randomOwnerID()
	reset := &models.PasswordResetToken{
		UserID:    userID,
		Token:     "reset-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.NoError(s.tokenRepo.CreatePasswordResetToken(s.ctx, reset))

	found, err := s.tokenRepo.GetPasswordResetToken(s.ctx, "reset-token")
	s.NoError(err)
	s.Equal(userID, found.UserID)
	s.True(found.Valid(time.Now()))

	err = s.tokenRepo.MarkPasswordResetTokenUsed(s.ctx, found.ID)
	s.NoError(err)

	found, err = s.tokenRepo.GetPasswordResetToken(s.ctx, "reset-token")
	s.NoError(err)
	s.True(found.IsUsed)
	s.False(found.Valid(time.Now()))
}
