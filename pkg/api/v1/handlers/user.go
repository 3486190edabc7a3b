package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	*APIHandler
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(api *APIHandler) *UserHandler {
	return &UserHandler{APIHandler: api}
}

// UpdateProfileParams defines the caller-editable profile fields
type UpdateProfileParams struct {
	FullName     *string        `json:"full_name,omitempty" validate:"omitempty,max=128"`
	Organization *string        `json:"organization,omitempty" validate:"omitempty,max=128"`
	Preferences  models.JSONMap `json:"preferences,omitempty"`
}

// AdminUpdateUserParams defines the admin-editable account fields
type AdminUpdateUserParams struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=user admin researcher legal_professional"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended pending"`
}

// GetUsers returns all users. Admin only.
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	opts, page := getPaginationOptions(c)
	users, total, err := h.user.GetAllUsers(c.Context(), opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgGetUsersFailed, nil)
	}
	return c.JSON(types.ListResponse[models.User]{
		Rows:       users,
		Pagination: buildPagination(total, page, opts),
	})
}

// GetUserByID returns one user. Admin only.
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	user, err := h.user.GetUserByID(c.Context(), uint(id))
	if err != nil {
		return respondWithError(c, fiber.StatusNotFound, ErrMsgUserNotFound, nil)
	}
	return c.JSON(user)
}

// UpdateProfile updates the authenticated user's own profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	params, err := parseBody[UpdateProfileParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	user := middleware.CurrentUser(c)
	updated, err := h.user.UpdateProfile(c.Context(), user.ID, params.FullName, params.Organization, params.Preferences)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgUpdateUserFailed, nil)
	}
	return c.JSON(updated)
}

// UpdateUser changes a user's role or status. Admin only.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	params, err := parseBody[AdminUpdateUserParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	var role *models.UserRole
	if params.Role != nil {
		r, err := models.ParseUserRole(*params.Role)
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
		}
		role = &r
	}
	var status *models.UserStatus
	if params.Status != nil {
		s := models.UserStatus(*params.Status)
		status = &s
	}

	user, err := h.user.SetRoleAndStatus(c.Context(), uint(id), role, status)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return respondWithError(c, fiber.StatusNotFound, ErrMsgUserNotFound, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgUpdateUserFailed, nil)
	}
	return c.JSON(user)
}

// DeleteUser removes a user account. Admin only.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	if err := h.user.DeleteUser(c.Context(), uint(id)); err != nil {
		return respondWithError(c, fiber.StatusNotFound, ErrMsgDeleteUserFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}
