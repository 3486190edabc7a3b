package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/runner"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/types"
)

// validate is the shared request validator
var validate = validator.New()

// APIHandler is a handler for the API
type APIHandler struct {
	auth        *services.Auth
	user        *services.User
	dataset     *services.Dataset
	document    *services.Document
	training    *services.Training
	model       *services.Model
	inference   *services.Inference
	evaluation  *services.Evaluation
	translation *services.Translation
	runner      runner.Client
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	auth *services.Auth,
	user *services.User,
	dataset *services.Dataset,
	document *services.Document,
	training *services.Training,
	model *services.Model,
	inference *services.Inference,
	evaluation *services.Evaluation,
	translation *services.Translation,
	runnerClient runner.Client,
) *APIHandler {
	return &APIHandler{
		auth:        auth,
		user:        user,
		dataset:     dataset,
		document:    document,
		training:    training,
		model:       model,
		inference:   inference,
		evaluation:  evaluation,
		translation: translation,
		runner:      runnerClient,
	}
}

// respondWithError writes a JSON error response with the given status
func respondWithError(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(types.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// parseBody decodes and validates a JSON request body
func parseBody[T any](c *fiber.Ctx) (*T, error) {
	var params T
	if err := c.BodyParser(&params); err != nil {
		return nil, err
	}
	if err := validate.Struct(&params); err != nil {
		return nil, err
	}
	return &params, nil
}
