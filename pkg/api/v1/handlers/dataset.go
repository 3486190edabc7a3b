package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// DatasetHandler handles HTTP requests for dataset operations
type DatasetHandler struct {
	*APIHandler
}

// NewDatasetHandler creates a new DatasetHandler instance
func NewDatasetHandler(api *APIHandler) *DatasetHandler {
	return &DatasetHandler{APIHandler: api}
}

// ShareDatasetParams defines the parameters for sharing a dataset
type ShareDatasetParams struct {
	UserIDs    []uint `json:"user_ids" validate:"dive,min=1"`
	MakePublic bool   `json:"make_public"`
}

// Upload accepts a multipart corpus upload. Form fields: file (required,
// repeatable; samples of all files are merged), name (required), description,
// is_public.
func (h *DatasetHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) == 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgFileRequired, nil)
	}

	name := c.FormValue("name")
	if name == "" {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, "name is required")
	}

	var total int64
	files := make([]types.DatasetFile, 0, len(form.File["file"]))
	for _, fileHeader := range form.File["file"] {
		total += fileHeader.Size
		if fileHeader.Size > services.MaxDatasetSize || total > services.MaxDatasetSize {
			return respondWithError(c, fiber.StatusRequestEntityTooLarge, ErrMsgDatasetUploadFailed, "upload exceeds the size limit")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgDatasetUploadFailed, nil)
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgDatasetUploadFailed, nil)
		}
		files = append(files, types.DatasetFile{Filename: fileHeader.Filename, Content: content})
	}

	user := middleware.CurrentUser(c)
	dataset, err := h.dataset.UploadMerged(
		c.Context(),
		user.ID,
		name,
		c.FormValue("description"),
		files,
		c.FormValue("is_public") == "true",
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDatasetFormat),
			errors.Is(err, services.ErrDatasetEmpty),
			errors.Is(err, services.ErrDatasetInvalidSample):
			return respondWithError(c, fiber.StatusUnprocessableEntity, ErrMsgDatasetUploadFailed, err.Error())
		default:
			return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDatasetUploadFailed, nil)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dataset)
}

// List returns the authenticated user's datasets
func (h *DatasetHandler) List(c *fiber.Ctx) error {
	opts, page := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	rows, total, err := h.dataset.List(c.Context(), user.ID, opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDatasetListFailed, nil)
	}
	return c.JSON(types.ListResponse[models.Dataset]{
		Rows:       rows,
		Pagination: buildPagination(total, page, opts),
	})
}

// ListPublic returns datasets shared with everyone
func (h *DatasetHandler) ListPublic(c *fiber.Ctx) error {
	opts, _ := getPaginationOptions(c)
	rows, err := h.dataset.ListPublic(c.Context(), opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDatasetListFailed, nil)
	}
	return c.JSON(rows)
}

// datasetPreviewLimit caps the number of samples returned with a dataset
const datasetPreviewLimit = 10

// DatasetDetail is a dataset record together with a preview of its first
// samples
type DatasetDetail struct {
	models.Dataset
	Preview []services.Sample `json:"preview"`
}

// Get returns one dataset with a content preview
func (h *DatasetHandler) Get(c *fiber.Ctx) error {
	dataset, err := h.loadDataset(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	samples, err := h.dataset.Samples(c.Context(), user.ID, dataset.ID)
	if err != nil {
		logger.Warnf("failed to load samples of dataset %d: %v", dataset.ID, err)
	}
	if len(samples) > datasetPreviewLimit {
		samples = samples[:datasetPreviewLimit]
	}
	return c.JSON(DatasetDetail{Dataset: *dataset, Preview: samples})
}

// Stats returns the stored statistics of a dataset
func (h *DatasetHandler) Stats(c *fiber.Ctx) error {
	dataset, err := h.loadDataset(c)
	if err != nil {
		return err
	}
	return c.JSON(dataset.Statistics)
}

// Share grants access on a dataset to other users or makes it public
func (h *DatasetHandler) Share(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	params, err := parseBody[ShareDatasetParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	user := middleware.CurrentUser(c)
	dataset, err := h.dataset.Share(c.Context(), user.ID, uint(id), params.UserIDs, params.MakePublic)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) || errors.Is(err, services.ErrDatasetAccessDenied) {
			return respondWithError(c, fiber.StatusNotFound, ErrMsgDatasetNotFound, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDatasetShareFailed, nil)
	}
	return c.JSON(dataset)
}

// Delete removes a dataset and its file
func (h *DatasetHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	user := middleware.CurrentUser(c)
	if err := h.dataset.Delete(c.Context(), user.ID, uint(id)); err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) || errors.Is(err, services.ErrDatasetAccessDenied) {
			return respondWithError(c, fiber.StatusNotFound, ErrMsgDatasetNotFound, nil)
		}
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDatasetDeleteFailed, nil)
	}
	return c.JSON(types.SuccessResponse{})
}

func (h *DatasetHandler) loadDataset(c *fiber.Ctx) (*models.Dataset, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}
	user := middleware.CurrentUser(c)
	dataset, err := h.dataset.Get(c.Context(), user.ID, uint(id))
	if err != nil {
		// Access-denied reads report not-found so dataset ids cannot be probed
		return nil, respondWithError(c, fiber.StatusNotFound, ErrMsgDatasetNotFound, nil)
	}
	return dataset, nil
}
