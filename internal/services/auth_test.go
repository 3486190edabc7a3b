package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	// The stored password is hashed
	stored, err := env.userRepo.GetUserByID(env.ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "correct horse battery", stored.HashedPassword)

	loggedIn, pair, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotNil(t, loggedIn.LastLogin)

	// Wrong password
	_, _, err = env.auth.Login(env.ctx, user.Username, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user
	_, _, err = env.auth.Login(env.ctx, "nobody", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Duplicate registration
	dup := &models.User{Username: user.Username, Email: "other@example.com"}
	err = env.auth.Register(env.ctx, dup, "pw123456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthDisabledAccountCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	status := models.UserStatusSuspended
	_, err := env.users.SetRoleAndStatus(env.ctx, user.ID, nil, &status)
	require.NoError(t, err)

	_, _, err = env.auth.Login(env.ctx, user.Username, "correct horse battery")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthAccessTokenClaims(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleResearcher)

	_, pair, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)

	claims, err := env.auth.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, string(models.UserRoleResearcher), claims.Role)
	assert.Contains(t, claims.Scopes, "train_models")

	// A refresh token is not an access token
	_, err = env.auth.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	// Garbage is rejected
	_, err = env.auth.VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	_, pair, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)

	next, err := env.auth.Refresh(env.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old refresh token was revoked by the rotation
	_, err = env.auth.Refresh(env.ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshRevoked)

	// The new one still works
	_, err = env.auth.Refresh(env.ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	_, first, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)
	_, second, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(env.ctx, user.ID))

	_, err = env.auth.Refresh(env.ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshRevoked)
	_, err = env.auth.Refresh(env.ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshRevoked)
}

func TestAuthChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	_, pair, err := env.auth.Login(env.ctx, user.Username, "correct horse battery")
	require.NoError(t, err)

	err = env.auth.ChangePassword(env.ctx, user.ID, "wrong current", "new password 1")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = env.auth.ChangePassword(env.ctx, user.ID, "correct horse battery", "new password 1")
	require.NoError(t, err)

	// Existing sessions are revoked
	_, err = env.auth.Refresh(env.ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshRevoked)

	_, _, err = env.auth.Login(env.ctx, user.Username, "new password 1")
	assert.NoError(t, err)
}

func TestAuthPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	// Unknown addresses are silently accepted
	assert.NoError(t, env.auth.ForgotPassword(env.ctx, "nobody@example.com"))

	require.NoError(t, env.auth.ForgotPassword(env.ctx, user.Email))

	// Fish the token out of the DB the way the mail would carry it
	var reset models.PasswordResetToken
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&reset).Error)

	require.NoError(t, env.auth.ResetPassword(env.ctx, reset.Token, "reset password 1"))

	// Single use
	err := env.auth.ResetPassword(env.ctx, reset.Token, "another password")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = env.auth.Login(env.ctx, user.Username, "reset password 1")
	assert.NoError(t, err)
}

func TestAuthAPIKeys(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleLegalProfessional)

	key, secret, err := env.auth.CreateAPIKey(env.ctx, user.ID, "pipeline", []string{"read", "batch_processing"}, 200, nil)
	require.NoError(t, err)
	assert.Contains(t, key.Key, "ltk_")
	assert.NotEmpty(t, secret)
	assert.NotEqual(t, secret, key.SecretHash)

	authedUser, authedKey, err := env.auth.AuthenticateAPIKey(env.ctx, key.Key, secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authedUser.ID)
	assert.Equal(t, key.ID, authedKey.ID)
	assert.NotNil(t, authedKey.LastUsedAt)

	// Wrong secret
	_, _, err = env.auth.AuthenticateAPIKey(env.ctx, key.Key, "bad-secret")
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)

	// Revoked keys stop authenticating
	require.NoError(t, env.auth.RevokeAPIKey(env.ctx, user.ID, key.ID))
	_, _, err = env.auth.AuthenticateAPIKey(env.ctx, key.Key, secret)
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)
}

func TestAuthExpiredAPIKey(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	expires := time.Now().Add(-time.Minute)
	key, secret, err := env.auth.CreateAPIKey(env.ctx, user.ID, "expired", []string{"read"}, 0, &expires)
	require.NoError(t, err)

	_, _, err = env.auth.AuthenticateAPIKey(env.ctx, key.Key, secret)
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)
}
