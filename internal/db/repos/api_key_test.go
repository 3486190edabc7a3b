package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

type APIKeyRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestAPIKeyRepository(t *testing.T) {
	suite.Run(t, new(APIKeyRepositoryTestSuite))
}

func (s *APIKeyRepositoryTestSuite) createKey(userID uint, key string) *models.APIKey {
	apiKey := &models.APIKey{
		UserID:     userID,
		Name:       "test-key",
		Key:        key,
		SecretHash: "bcrypt-hash",
		Scopes:     models.StringSlice{"read", "write"},
		RateLimit:  100,
		IsActive:   true,
	}
	s.Require().NoError(s.apiKeyRepo.Create(s.ctx, apiKey))
	return apiKey
}

func (s *APIKeyRepositoryTestSuite) TestCreateAndGetByKey() {
	userID := s.randomOwnerID()
	created := s.createKey(userID, "ltk_abc123")

	found, err := s.apiKeyRepo.GetByKey(s.ctx, "ltk_abc123")
	s.NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal(models.StringSlice{"read", "write"}, found.Scopes)
	s.True(found.Usable(time.Now()))

	_, err = s.apiKeyRepo.GetByKey(s.ctx, "ltk_missing")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *APIKeyRepositoryTestSuite) TestListByOwner() {
	userID := s.randomOwnerID()
	s.createKey(userID, "ltk_one")
	s.createKey(userID, "ltk_two")
	s.createKey(userID+1, "ltk_other")

	keys, err := s.apiKeyRepo.ListByOwner(s.ctx, userID, nil)
	s.NoError(err)
	s.Len(keys, 2)
}

func (s *APIKeyRepositoryTestSuite) TestRevoke() {
	userID := s.randomOwnerID()
	key := s.createKey(userID, "ltk_revoke")

	// A different owner cannot revoke the key
	err := s.apiKeyRepo.Revoke(s.ctx, userID+1, key.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	err = s.apiKeyRepo.Revoke(s.ctx, userID, key.ID)
	s.NoError(err)

	found, err := s.apiKeyRepo.GetByKey(s.ctx, "ltk_revoke")
	s.NoError(err)
	s.False(found.IsActive)
	s.False(found.Usable(time.Now()))
}

func (s *APIKeyRepositoryTestSuite) TestExpiredKeyNotUsable() {
	userID := s.randomOwnerID()
	expired := time.Now().Add(-time.Minute)
	key := &models.APIKey{
		UserID:     userID,
		Name:       "expired-key",
		Key:        "ltk_expired",
		SecretHash: "bcrypt-hash",
		IsActive:   true,
		ExpiresAt:  &expired,
	}
	s.NoError(s.apiKeyRepo.Create(s.ctx, key))
	s.False(key.Usable(time.Now()))
}

func (s *APIKeyRepositoryTestSuite) TestTouchLastUsed() {
	userID := s.randomOwnerID()
	key := s.createKey(userID, "ltk_touch")
	s.Nil(key.LastUsedAt)

	at := time.Now().UTC()
	err := s.apiKeyRepo.TouchLastUsed(s.ctx, key.ID, at)
	s.NoError(err)

	found, err := s.apiKeyRepo.GetByID(s.ctx, userID, key.ID)
	s.NoError(err)
	s.NotNil(found.LastUsedAt)
	s.WithinDuration(at, *found.LastUsedAt, time.Second)
}
