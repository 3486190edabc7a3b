package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/mail"
)

// Auth service errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrRefreshRevoked     = errors.New("refresh token revoked or expired")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrUserExists         = errors.New("username or email already registered")
	ErrAPIKeyInvalid      = errors.New("invalid api key")
)

// Token type claims, carried in the "typ" claim
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims are the JWT claims minted for access and refresh tokens.
type Claims struct {
	UserID    uint     `json:"user_id"`
	Username  string   `json:"username"`
	Role      string   `json:"role"`
	Scopes    []string `json:"scopes,omitempty"`
	TokenType string   `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Auth provides authentication and credential management.
type Auth struct {
	users  *repos.UserRepository
	tokens *repos.TokenRepository
	keys   *repos.APIKeyRepository
	mailer mail.Mailer
	cfg    *config.Config
}

// NewAuthService creates a new auth service instance
func NewAuthService(users *repos.UserRepository, tokens *repos.TokenRepository, keys *repos.APIKeyRepository, mailer mail.Mailer, cfg *config.Config) *Auth {
	return &Auth{
		users:  users,
		tokens: tokens,
		keys:   keys,
		mailer: mailer,
		cfg:    cfg,
	}
}

// Register creates a user account with a bcrypt-hashed password. The role
// defaults to the standard user role; elevated roles are assigned by admins.
func (s *Auth) Register(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hash)
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return errors.Join(ErrUserExists, err)
	}
	return nil
}

// Login verifies credentials and mints a token pair. The refresh token is
// persisted so it can be revoked later.
func (s *Auth) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		// Burn a hash comparison so missing users take as long as bad passwords
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$000000000000000000000uGyyC0GZ9DpUqYLRsptOQ3u3Z0Zs1pDe"), []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warnf("failed to record last login for user %d: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A revoked or expired token is rejected.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrWrongTokenType
	}

	stored, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if err != nil || !stored.Valid(time.Now()) {
		return nil, ErrRefreshRevoked
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}

	if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return s.issueTokenPair(ctx, user)
}

// Logout revokes a single refresh token
func (s *Auth) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.RevokeRefreshToken(ctx, refreshToken)
}

// LogoutAll revokes every refresh token belonging to a user
func (s *Auth) LogoutAll(ctx context.Context, userID uint) error {
	return s.tokens.RevokeAllUserRefreshTokens(ctx, userID)
}

// VerifyAccessToken parses and validates a bearer token and returns its claims
func (s *Auth) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// AuthenticateClaims resolves verified access token claims to a live user
func (s *Auth) AuthenticateClaims(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// ChangePassword replaces a user's password after verifying the current one.
// All refresh tokens are revoked so other sessions must log in again.
func (s *Auth) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(current)); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hash)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return s.tokens.RevokeAllUserRefreshTokens(ctx, userID)
}

// ForgotPassword creates a single-use reset token and mails it to the user.
// A missing email is not reported to the caller.
func (s *Auth) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Debugf("password reset requested for unknown email %q", email)
		return nil
	}

	token := uuid.NewString()
	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := s.tokens.CreatePasswordResetToken(ctx, reset); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, user.Username, token); err != nil {
		logger.Errorf("failed to send password reset mail to user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password
func (s *Auth) ResetPassword(ctx context.Context, token, next string) error {
	reset, err := s.tokens.GetPasswordResetToken(ctx, token)
	if err != nil || !reset.Valid(time.Now()) {
		return ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, reset.UserID)
	if err != nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hash)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.tokens.MarkPasswordResetTokenUsed(ctx, reset.ID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	return s.tokens.RevokeAllUserRefreshTokens(ctx, user.ID)
}

// CreateAPIKey mints an API key for a user. The returned secret is shown to
// the caller once; only its hash is persisted.
func (s *Auth) CreateAPIKey(ctx context.Context, userID uint, name string, scopes []string, rateLimit int, expiresAt *time.Time) (*models.APIKey, string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate api key secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cfg.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash api key secret: %w", err)
	}

	key := &models.APIKey{
		UserID:     userID,
		Name:       name,
		Key:        "ltk_" + uuid.NewString(),
		SecretHash: string(hash),
		Scopes:     models.StringSlice(scopes),
		IsActive:   true,
		ExpiresAt:  expiresAt,
	}
	if rateLimit > 0 {
		key.RateLimit = rateLimit
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to create api key: %w", err)
	}
	return key, secret, nil
}

// AuthenticateAPIKey validates a key/secret pair and returns the owning user
func (s *Auth) AuthenticateAPIKey(ctx context.Context, key, secret string) (*models.User, *models.APIKey, error) {
	apiKey, err := s.keys.GetByKey(ctx, key)
	if err != nil || !apiKey.Usable(time.Now()) {
		return nil, nil, ErrAPIKeyInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(apiKey.SecretHash), []byte(secret)); err != nil {
		return nil, nil, ErrAPIKeyInvalid
	}

	user, err := s.users.GetUserByID(ctx, apiKey.UserID)
	if err != nil || !user.IsActive() {
		return nil, nil, ErrAPIKeyInvalid
	}

	now := time.Now()
	if err := s.keys.TouchLastUsed(ctx, apiKey.ID, now); err != nil {
		logger.Warnf("failed to touch api key %d: %v", apiKey.ID, err)
	} else {
		apiKey.LastUsedAt = &now
	}
	return user, apiKey, nil
}

// ListAPIKeys returns a user's API keys
func (s *Auth) ListAPIKeys(ctx context.Context, userID uint, opts *models.ListOptions) ([]models.APIKey, error) {
	return s.keys.ListByOwner(ctx, userID, opts)
}

// RevokeAPIKey deactivates one of the user's API keys
func (s *Auth) RevokeAPIKey(ctx context.Context, userID, keyID uint) error {
	return s.keys.Revoke(ctx, userID, keyID)
}

// PurgeExpiredTokens deletes refresh tokens past their expiry. Called
// periodically by the worker.
func (s *Auth) PurgeExpiredTokens(ctx context.Context) error {
	return s.tokens.DeleteExpiredRefreshTokens(ctx, time.Now())
}

func (s *Auth) issueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.signToken(user, tokenTypeAccess, now, now.Add(s.cfg.AccessTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, now, now.Add(s.cfg.RefreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.tokens.CreateRefreshToken(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *Auth) signToken(user *models.User, typ string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if typ == tokenTypeAccess {
		claims.Scopes = user.Scopes()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Auth) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
