package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/types"
)

// DocumentHandler handles HTTP requests for PDF processing
type DocumentHandler struct {
	*APIHandler
}

// NewDocumentHandler creates a new DocumentHandler instance
func NewDocumentHandler(api *APIHandler) *DocumentHandler {
	return &DocumentHandler{APIHandler: api}
}

// Process accepts a multipart PDF upload and returns the extracted text
func (h *DocumentHandler) Process(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgFileRequired, nil)
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgPDFProcessFailed, "only .pdf files are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgPDFProcessFailed, nil)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgPDFProcessFailed, nil)
	}

	user := middleware.CurrentUser(c)
	doc, text, err := h.document.Process(c.Context(), user.ID, fileHeader.Filename, content)
	if err != nil {
		return respondWithError(c, fiber.StatusUnprocessableEntity, ErrMsgPDFProcessFailed, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(types.ProcessedDocumentResponse{
		ProcessID:        doc.ProcessID,
		OriginalFilename: doc.OriginalFilename,
		PageCount:        doc.PageCount,
		CharCount:        doc.CharCount,
		Status:           string(doc.Status),
		Text:             text,
	})
}

// GetResult returns a previously processed document with its text
func (h *DocumentHandler) GetResult(c *fiber.Ctx) error {
	processID := c.Params("id")
	if processID == "" {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidID, nil)
	}

	user := middleware.CurrentUser(c)
	doc, text, err := h.document.Get(c.Context(), user.ID, processID)
	if err != nil {
		return respondWithError(c, fiber.StatusNotFound, ErrMsgDocumentNotFound, nil)
	}
	return c.JSON(types.ProcessedDocumentResponse{
		ProcessID:        doc.ProcessID,
		OriginalFilename: doc.OriginalFilename,
		PageCount:        doc.PageCount,
		CharCount:        doc.CharCount,
		Status:           string(doc.Status),
		Text:             text,
	})
}

// History returns the user's past PDF extractions
func (h *DocumentHandler) History(c *fiber.Ctx) error {
	opts, _ := getPaginationOptions(c)
	user := middleware.CurrentUser(c)
	docs, err := h.document.History(c.Context(), user.ID, opts)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, ErrMsgDocumentNotFound, nil)
	}
	return c.JSON(docs)
}
