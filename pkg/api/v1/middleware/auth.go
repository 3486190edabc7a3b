// Package middleware provides request authentication and throttling for the
// v1 API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/types"
)

// Context local keys
const (
	// UserKey holds the authenticated *models.User
	UserKey = "currentUser"
	// ClaimsKey holds the *services.Claims of a bearer token, nil for API keys
	ClaimsKey = "authClaims"
	// APIKeyKey holds the *models.APIKey used, nil for bearer tokens
	APIKeyKey = "authAPIKey"
)

// Header names for API key authentication
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderAPISecret = "X-API-Secret"
)

// RequireAuth authenticates a request with either a bearer access token or
// an API key/secret header pair and stores the user in the request context.
func RequireAuth(auth *services.Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key := c.Get(HeaderAPIKey); key != "" {
			user, apiKey, err := auth.AuthenticateAPIKey(c.Context(), key, c.Get(HeaderAPISecret))
			if err != nil {
				return unauthorized(c, "invalid API key")
			}
			c.Locals(UserKey, user)
			c.Locals(APIKeyKey, apiKey)
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "missing credentials")
		}

		claims, err := auth.VerifyAccessToken(token)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		user, err := auth.AuthenticateClaims(c.Context(), claims)
		if err != nil {
			return unauthorized(c, "account is not active")
		}

		c.Locals(UserKey, user)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireRole rejects authenticated requests whose user lacks the role.
// Must run after RequireAuth.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || user.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
				Error: "insufficient permissions",
			})
		}
		return c.Next()
	}
}

// RequireScope rejects requests whose credentials do not carry the scope.
// Bearer tokens carry the scopes of the user's role; API keys carry their
// own scope list.
func RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hasScope(c, scope) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Error: "missing required scope: " + scope,
		})
	}
}

// CurrentUser returns the authenticated user, or nil outside RequireAuth
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

// CurrentAPIKey returns the API key used for this request, or nil for
// bearer-token requests
func CurrentAPIKey(c *fiber.Ctx) *models.APIKey {
	key, _ := c.Locals(APIKeyKey).(*models.APIKey)
	return key
}

func hasScope(c *fiber.Ctx, scope string) bool {
	if key := CurrentAPIKey(c); key != nil {
		for _, s := range key.Scopes {
			if s == scope {
				return true
			}
		}
		return false
	}
	user := CurrentUser(c)
	if user == nil {
		return false
	}
	for _, s := range user.Scopes() {
		if s == scope {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{Error: message})
}
