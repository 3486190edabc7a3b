package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// InferenceHandler handles HTTP requests for text generation
type InferenceHandler struct {
	*APIHandler
}

// NewInferenceHandler creates a new InferenceHandler instance
func NewInferenceHandler(api *APIHandler) *InferenceHandler {
	return &InferenceHandler{APIHandler: api}
}

// GenerateParams defines the parameters for one generation request
type GenerateParams struct {
	ModelID     uint    `json:"model_id" validate:"required,min=1"`
	Text        string  `json:"text" validate:"required,min=1"`
	MaxLength   int     `json:"max_length" validate:"min=0,max=2048"`
	NumBeams    int     `json:"num_beams" validate:"min=0,max=16"`
	Temperature float64 `json:"temperature" validate:"min=0,max=2"`
	DoSample    bool    `json:"do_sample"`
	Language    string  `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// BatchGenerateParams defines the parameters for a batch generation request
type BatchGenerateParams struct {
	ModelID     uint     `json:"model_id" validate:"required,min=1"`
	Texts       []string `json:"texts" validate:"required,min=1,max=50,dive,min=1"`
	MaxLength   int      `json:"max_length" validate:"min=0,max=2048"`
	NumBeams    int      `json:"num_beams" validate:"min=0,max=16"`
	Temperature float64  `json:"temperature" validate:"min=0,max=2"`
	DoSample    bool     `json:"do_sample"`
}

// Generate runs one text through a model
func (h *InferenceHandler) Generate(c *fiber.Ctx) error {
	params, err := parseBody[GenerateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	resp, err := h.inference.Generate(c.Context(), user.ID, services.GenerateParams{
		ModelID:     params.ModelID,
		Text:        params.Text,
		MaxLength:   params.MaxLength,
		NumBeams:    params.NumBeams,
		Temperature: params.Temperature,
		DoSample:    params.DoSample,
		Language:    params.Language,
	})
	if err != nil {
		return h.generateError(c, err)
	}
	return c.JSON(resp)
}

// GenerateBatch runs several texts through the same model. Requires the
// batch_processing scope.
func (h *InferenceHandler) GenerateBatch(c *fiber.Ctx) error {
	params, err := parseBody[BatchGenerateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	resp, err := h.inference.GenerateBatch(c.Context(), user.ID, services.GenerateParams{
		ModelID:     params.ModelID,
		MaxLength:   params.MaxLength,
		NumBeams:    params.NumBeams,
		Temperature: params.Temperature,
		DoSample:    params.DoSample,
	}, params.Texts)
	if err != nil {
		return h.generateError(c, err)
	}
	return c.JSON(resp)
}

// ListModels returns the models the user may run inference on. Alias of the
// training models listing, exposed here so inference clients need only one
// endpoint group.
func (h *InferenceHandler) ListModels(c *fiber.Ctx) error {
	opts, page := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	rows, total, err := h.model.List(c.Context(), user.ID, "", "", opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgModelListFailed, nil)
	}
	return c.JSON(types.ListResponse[models.TrainedModel]{
		Rows:       rows,
		Pagination: buildPagination(total, page, opts),
	})
}

// History returns the user's past inference requests, with ?model_id= filter
func (h *InferenceHandler) History(c *fiber.Ctx) error {
	modelID := c.QueryInt("model_id", 0)
	if modelID < 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, nil)
	}

	opts, page := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	rows, total, err := h.inference.History(c.Context(), user.ID, uint(modelID), opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgHistoryFailed, nil)
	}
	return c.JSON(types.ListResponse[models.InferenceRecord]{
		Rows:       rows,
		Pagination: buildPagination(total, page, opts),
	})
}

func (h *InferenceHandler) generateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrModelNotFound):
		return respondWithError(c, fiber.StatusNotFound, ErrMsgModelNotFound, nil)
	case errors.Is(err, services.ErrModelAccessDenied):
		return respondWithError(c, fiber.StatusForbidden, ErrMsgModelNotFound, nil)
	case errors.Is(err, services.ErrGenerationFailed):
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgGenerateFailed, nil)
	default:
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgGenerateFailed, nil)
	}
}
