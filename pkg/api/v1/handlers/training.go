package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// TrainingHandler handles HTTP requests for fine-tuning jobs and the
// trained model registry
type TrainingHandler struct {
	*APIHandler
}

// NewTrainingHandler creates a new TrainingHandler instance
func NewTrainingHandler(api *APIHandler) *TrainingHandler {
	return &TrainingHandler{APIHandler: api}
}

// StartTrainingParams defines the parameters for starting a fine-tuning run
type StartTrainingParams struct {
	Name        string               `json:"name" validate:"required,max=128"`
	Description string               `json:"description" validate:"max=1024"`
	ModelType   string               `json:"model_type" validate:"required,oneof=bart pegasus multilingual"`
	Task        string               `json:"task" validate:"required,oneof=summarization simplification translation"`
	DatasetID   uint                 `json:"dataset_id" validate:"required,min=1"`
	Config      services.TrainConfig `json:"config"`
	Languages   []string             `json:"languages" validate:"dive,bcp47_language_tag"`
}

// ImportModelParams defines the parameters for importing a hub checkpoint
type ImportModelParams struct {
	Name      string `json:"name" validate:"required,max=128"`
	HubID     string `json:"hub_id" validate:"required,max=256"`
	ModelType string `json:"model_type" validate:"required,oneof=bart pegasus multilingual"`
	Task      string `json:"task" validate:"required,oneof=summarization simplification translation"`
}

// Start queues a new fine-tuning job
func (h *TrainingHandler) Start(c *fiber.Ctx) error {
	params, err := parseBody[StartTrainingParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	modelType, err := models.ParseModelType(params.ModelType)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	task, err := models.ParseTaskType(params.Task)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	job, err := h.training.Start(c.Context(), user.ID, services.StartParams{
		Name:        params.Name,
		Description: params.Description,
		ModelType:   modelType,
		Task:        task,
		DatasetID:   params.DatasetID,
		Config:      params.Config,
		Languages:   params.Languages,
	})
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) || errors.Is(err, services.ErrDatasetAccessDenied) {
			return respondWithError(c, fiber.StatusNotFound, ErrMsgDatasetNotFound, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgJobStartFailed, nil)
	}
	return c.Status(fiber.StatusAccepted).JSON(job)
}

// ListJobs returns the user's jobs, optionally filtered by ?status=
func (h *TrainingHandler) ListJobs(c *fiber.Ctx) error {
	var status models.JobStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseJobStatus(raw)
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
		}
		status = parsed
	}

	opts, page := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	rows, total, err := h.training.List(c.Context(), user.ID, status, opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgJobListFailed, nil)
	}
	return c.JSON(types.ListResponse[models.TrainingJob]{
		Rows:       rows,
		Pagination: buildPagination(total, page, opts),
	})
}

// GetJob returns one job by its public job id
func (h *TrainingHandler) GetJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	job, err := h.training.Get(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return respondWithError(c, fiber.StatusNotFound, ErrMsgJobNotFound, nil)
	}
	return c.JSON(job)
}

// CancelJob stops a pending or running job
func (h *TrainingHandler) CancelJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	err := h.training.Cancel(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return respondWithError(c, fiber.StatusNotFound, ErrMsgJobNotFound, nil)
		}
		if errors.Is(err, services.ErrJobNotCancelable) {
			return respondWithError(c, fiber.StatusConflict, ErrMsgJobNotCancelable, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgJobCancelFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

// ListModels returns the user's trained models, with ?model_type= and
// ?task= filters
func (h *TrainingHandler) ListModels(c *fiber.Ctx) error {
	var modelType models.ModelType
	if raw := c.Query("model_type"); raw != "" {
		parsed, err := models.ParseModelType(raw)
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
		}
		modelType = parsed
	}
	var task models.TaskType
	if raw := c.Query("task"); raw != "" {
		parsed, err := models.ParseTaskType(raw)
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
		}
		task = parsed
	}

	opts, page := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	rows, total, err := h.model.List(c.Context(), user.ID, modelType, task, opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgModelListFailed, nil)
	}
	return c.JSON(types.ListResponse[models.TrainedModel]{
		Rows:       rows,
		Pagination: buildPagination(total, page, opts),
	})
}

// ImportModel registers a pretrained hub checkpoint for inference
func (h *TrainingHandler) ImportModel(c *fiber.Ctx) error {
	params, err := parseBody[ImportModelParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	modelType, err := models.ParseModelType(params.ModelType)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	task, err := models.ParseTaskType(params.Task)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	model, err := h.model.Import(c.Context(), user.ID, params.Name, params.HubID, modelType, task)
	if err != nil {
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgModelImportFailed, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(model)
}

// DeleteModel removes a trained model from the registry
func (h *TrainingHandler) DeleteModel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	user := middleware.CurrentUser(c)
	if err := h.model.Delete(c.Context(), user.ID, uint(id)); err != nil {
		if errors.Is(err, services.ErrModelAccessDenied) {
			return respondWithError(c, fiber.StatusForbidden, ErrMsgModelDeleteFailed, nil)
		}
		return respondWithError(c, fiber.StatusNotFound, ErrMsgModelNotFound, nil)
	}
	return c.JSON(types.SuccessResponse{})
}
