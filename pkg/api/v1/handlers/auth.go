package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// AuthHandler handles HTTP requests for authentication and credentials
type AuthHandler struct {
	*APIHandler
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(api *APIHandler) *AuthHandler {
	return &AuthHandler{APIHandler: api}
}

// Register creates a new account
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	params, err := parseBody[RegisterParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := &models.User{
		Username:     params.Username,
		Email:        params.Email,
		FullName:     params.FullName,
		Organization: params.Organization,
	}
	if err := h.auth.Register(c.Context(), user, params.Password); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return respondWithError(c, fiber.StatusConflict, ErrMsgRegisterFailed, "username or email already registered")
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgRegisterFailed, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifies credentials and returns a token pair
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	params, err := parseBody[LoginParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	_, pair, err := h.auth.Login(c.Context(), params.Username, params.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountDisabled) {
			return respondWithError(c, fiber.StatusForbidden, ErrMsgAccountDisabled, nil)
		}
		return respondWithError(c, fiber.StatusUnauthorized, ErrMsgInvalidCredentials, nil)
	}
	return c.JSON(tokenResponse(pair))
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	params, err := parseBody[RefreshParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	pair, err := h.auth.Refresh(c.Context(), params.RefreshToken)
	if err != nil {
		return respondWithError(c, fiber.StatusUnauthorized, ErrMsgRefreshFailed, nil)
	}
	return c.JSON(tokenResponse(pair))
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	params, err := parseBody[RefreshParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	if err := h.auth.Logout(c.Context(), params.RefreshToken); err != nil {
		return respondWithError(c, fiber.StatusUnauthorized, ErrMsgRefreshFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

// LogoutAll revokes every refresh token of the authenticated user
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.auth.LogoutAll(c.Context(), user.ID); err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgRefreshFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// Stats returns the authenticated user's activity counters
func (h *AuthHandler) Stats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	stats, err := h.user.Stats(c.Context(), user.ID)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgGetUsersFailed, nil)
	}
	return c.JSON(stats)
}

// ChangePassword replaces the authenticated user's password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	params, err := parseBody[ChangePasswordParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(c.Context(), user.ID, params.CurrentPassword, params.NewPassword); err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgPasswordMismatch, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgUpdateUserFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

// ForgotPassword mails a reset token. Always answers 200 so email addresses
// cannot be probed.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	params, err := parseBody[ForgotPasswordParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	if err := h.auth.ForgotPassword(c.Context(), params.Email); err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgResetFailed, nil)
	}
	return c.JSON(types.SuccessResponse{Data: "If the address is registered, a reset mail has been sent"})
}

// ResetPassword consumes a reset token and sets the new password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	params, err := parseBody[ResetPasswordParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	if err := h.auth.ResetPassword(c.Context(), params.Token, params.NewPassword); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgResetFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

// CreateAPIKey mints an API key for the authenticated user
func (h *AuthHandler) CreateAPIKey(c *fiber.Ctx) error {
	params, err := parseBody[CreateAPIKeyParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	expiresAt, err := params.ExpiryTime(time.Now())
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	key, secret, err := h.auth.CreateAPIKey(c.Context(), user.ID, params.Name, params.Scopes, params.RateLimit, expiresAt)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgAPIKeyCreateFailed, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(types.APIKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       key.Key,
		Secret:    secret,
		Scopes:    []string(key.Scopes),
		RateLimit: key.RateLimit,
	})
}

// ListAPIKeys returns the authenticated user's API keys
func (h *AuthHandler) ListAPIKeys(c *fiber.Ctx) error {
	opts, _ := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	keys, err := h.auth.ListAPIKeys(c.Context(), user.ID, opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgGetUsersFailed, nil)
	}
	return c.JSON(keys)
}

// RevokeAPIKey deactivates one of the user's API keys
func (h *AuthHandler) RevokeAPIKey(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	user := middleware.CurrentUser(c)
	if err := h.auth.RevokeAPIKey(c.Context(), user.ID, uint(id)); err != nil {
		return respondWithError(c, fiber.StatusNotFound, ErrMsgAPIKeyRevokeFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

func tokenResponse(pair *services.TokenPair) types.TokenResponse {
	return types.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn,
	}
}
