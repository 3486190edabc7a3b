package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/services"
)

// TranslationHandler handles HTTP requests for translation and
// transliteration
type TranslationHandler struct {
	*APIHandler
}

// NewTranslationHandler creates a new TranslationHandler instance
func NewTranslationHandler(api *APIHandler) *TranslationHandler {
	return &TranslationHandler{APIHandler: api}
}

// TranslateParams defines the parameters for a translation request
type TranslateParams struct {
	Text           string `json:"text" validate:"required,min=1"`
	SourceLanguage string `json:"source_language" validate:"omitempty"`
	TargetLanguage string `json:"target_language" validate:"required"`
	MaxLength      int    `json:"max_length" validate:"min=0,max=2048"`
}

// BatchTranslateParams defines the parameters for a batch translation request
type BatchTranslateParams struct {
	Texts          []string `json:"texts" validate:"required,min=1,max=50,dive,min=1"`
	SourceLanguage string   `json:"source_language" validate:"omitempty"`
	TargetLanguage string   `json:"target_language" validate:"required"`
	MaxLength      int      `json:"max_length" validate:"min=0,max=2048"`
}

// TransliterateParams defines the parameters for a transliteration request
type TransliterateParams struct {
	Text         string `json:"text" validate:"required,min=1"`
	SourceScript string `json:"source_script" validate:"omitempty"`
	TargetScript string `json:"target_script" validate:"required"`
}

// BatchTransliterateParams defines the parameters for a batch
// transliteration request
type BatchTransliterateParams struct {
	Texts        []string `json:"texts" validate:"required,min=1,max=50,dive,min=1"`
	SourceScript string   `json:"source_script" validate:"omitempty"`
	TargetScript string   `json:"target_script" validate:"required"`
}

// DetectParams defines the parameters for language and script detection
type DetectParams struct {
	Text string `json:"text" validate:"required,min=1"`
}

// Translate converts text between supported languages
func (h *TranslationHandler) Translate(c *fiber.Ctx) error {
	params, err := parseBody[TranslateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	resp, err := h.translation.Translate(c.Context(), params.Text, params.SourceLanguage, params.TargetLanguage, params.MaxLength)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedLanguage) {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgTranslateFailed, err.Error())
		}
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgTranslateFailed, nil)
	}
	return c.JSON(resp)
}

// TranslateBatch converts several texts into one target language
func (h *TranslationHandler) TranslateBatch(c *fiber.Ctx) error {
	params, err := parseBody[BatchTranslateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	resp, err := h.translation.TranslateBatch(c.Context(), params.Texts, params.SourceLanguage, params.TargetLanguage, params.MaxLength)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedLanguage) {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgTranslateFailed, err.Error())
		}
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgTranslateFailed, nil)
	}
	return c.JSON(resp)
}

// DetectLanguage reports the language of a text
func (h *TranslationHandler) DetectLanguage(c *fiber.Ctx) error {
	params, err := parseBody[DetectParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	return c.JSON(h.translation.DetectLanguage(params.Text))
}

// Transliterate rewrites text from one script to another
func (h *TranslationHandler) Transliterate(c *fiber.Ctx) error {
	params, err := parseBody[TransliterateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	resp, err := h.translation.Transliterate(c.Context(), params.Text, params.SourceScript, params.TargetScript)
	if err != nil {
		if errors.Is(err, services.ErrUnknownSourceScript) {
			return respondWithError(c, fiber.StatusBadRequest, ErrMsgTranslateFailed, err.Error())
		}
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgTranslateFailed, nil)
	}
	return c.JSON(resp)
}

// TransliterateBatch rewrites several texts into one target script
func (h *TranslationHandler) TransliterateBatch(c *fiber.Ctx) error {
	params, err := parseBody[BatchTransliterateParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}

	resp, err := h.translation.TransliterateBatch(c.Context(), params.Texts, params.SourceScript, params.TargetScript)
	if err != nil {
		return respondWithError(c, fiber.StatusBadGateway, ErrMsgTranslateFailed, nil)
	}
	return c.JSON(resp)
}

// DetectScript reports the script of a text
func (h *TranslationHandler) DetectScript(c *fiber.Ctx) error {
	params, err := parseBody[DetectParams](c)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgInvalidParams, err.Error())
	}
	resp, err := h.translation.DetectScript(params.Text)
	if err != nil {
		return respondWithError(c, fiber.StatusBadRequest, ErrMsgTranslateFailed, err.Error())
	}
	return c.JSON(resp)
}

// Languages lists the languages translation accepts
func (h *TranslationHandler) Languages(c *fiber.Ctx) error {
	return c.JSON(h.translation.SupportedLanguages())
}

// Scripts lists the scripts transliteration accepts
func (h *TranslationHandler) Scripts(c *fiber.Ctx) error {
	return c.JSON(h.translation.SupportedScripts())
}
