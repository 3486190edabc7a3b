package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
)

// EvaluationHandler handles HTTP requests for model evaluation
type EvaluationHandler struct {
	*APIHandler
}

// NewEvaluationHandler creates a new EvaluationHandler instance
func NewEvaluationHandler(api *APIHandler) *EvaluationHandler {
	return &EvaluationHandler{APIHandler: api}
}

// EvaluateParams defines the parameters for scoring a model
type EvaluateParams struct {
	ModelID   uint `json:"model_id" validate:"required,min=1"`
	DatasetID uint `json:"dataset_id" validate:"required,min=1"`
}

// CompareParams defines the parameters for comparing models on one dataset
type CompareParams struct {
	ModelIDs  []uint `json:"model_ids" validate:"required,min=2,max=5,dive,min=1"`
	DatasetID uint   `json:"dataset_id" validate:"required,min=1"`
}

// Evaluate scores one model against one dataset
func (h *EvaluationHandler) Evaluate(c *fiber.Ctx) error {
	params, err := parseBody[EvaluateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	eval, err := h.evaluation.Run(c.Context(), user.ID, params.ModelID, params.DatasetID)
	if err != nil {
		return h.evaluationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(eval)
}

// Compare scores several models against the same dataset
func (h *EvaluationHandler) Compare(c *fiber.Ctx) error {
	params, err := parseBody[CompareParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	evals, err := h.evaluation.Compare(c.Context(), user.ID, params.ModelIDs, params.DatasetID)
	if err != nil {
		return h.evaluationError(c, err)
	}
	return c.JSON(evals)
}

func (h *EvaluationHandler) evaluationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrModelNotFound), errors.Is(err, services.ErrModelAccessDenied):
		return respondWithError(c, fiber.StatusNotFound, ErrMsgModelNotFound, nil)
	case errors.Is(err, services.ErrDatasetNotFound), errors.Is(err, services.ErrDatasetAccessDenied):
		return respondWithError(c, fiber.StatusNotFound, ErrMsgDatasetNotFound, nil)
	case errors.Is(err, services.ErrEvaluationFailed):
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgEvaluateFailed, nil)
	default:
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgEvaluateFailed, nil)
	}
}
