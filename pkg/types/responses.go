// Package types contains the public request/response structures shared
// between the API handlers and the API client.
package types

// ErrorResponse represents an error response
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error"`

	// Optional additional details about the error, may include field-specific validation errors
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	// Optional data returned by the operation
	Data interface{} `json:"data,omitempty"`
}

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	// Total number of items available across all pages
	Total int `json:"total"`

	// Current page number (1-based)
	Page int `json:"page"`

	// Maximum number of items per page
	Limit int `json:"limit"`

	// Number of items skipped from the beginning of the result set
	Offset int `json:"offset"`
}

// ListResponse defines a generic response structure for listing resources
type ListResponse[T any] struct {
	// Array of resource items
	Rows []T `json:"rows"`

	// Pagination information for the result set
	Pagination PaginationResponse `json:"pagination"`
}

// TokenResponse is returned by login and refresh operations
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`

	// Lifetime of the access token in seconds
	ExpiresIn int `json:"expires_in"`
}

// APIKeyResponse is returned when an API key is created. The secret is
// only ever included in this response; afterwards only its hash is kept.
type APIKeyResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Key       string   `json:"key"`
	Secret    string   `json:"secret,omitempty"`
	Scopes    []string `json:"scopes"`
	RateLimit int      `json:"rate_limit"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`

	// Reachability of the model runner backing inference and training
	Runner string `json:"runner"`
}

// UserStatsResponse summarises a user's activity counters
type UserStatsResponse struct {
	Datasets   int64 `json:"datasets"`
	Jobs       int64 `json:"training_jobs"`
	Models     int64 `json:"trained_models"`
	Inferences int64 `json:"inference_requests"`
}

// GenerateResponse is the result of a single inference request
type GenerateResponse struct {
	RequestID      string  `json:"request_id"`
	OutputText     string  `json:"output_text"`
	ModelName      string  `json:"model_name"`
	ProcessingTime float64 `json:"processing_time"`
}

// BatchItemResponse is the per-item result of a batch inference request.
// Failed items carry an error message instead of output text.
type BatchItemResponse struct {
	Index      int    `json:"index"`
	OutputText string `json:"output_text,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchGenerateResponse is the result of a batch inference request
type BatchGenerateResponse struct {
	RequestID      string              `json:"request_id"`
	Results        []BatchItemResponse `json:"results"`
	Succeeded      int                 `json:"succeeded"`
	Failed         int                 `json:"failed"`
	ProcessingTime float64             `json:"processing_time"`
}

// TranslateResponse is the result of a translation request
type TranslateResponse struct {
	TranslatedText string  `json:"translated_text"`
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
	ProcessingTime float64 `json:"processing_time"`
}

// BatchTranslateItemResponse is the per-item result of a batch translation.
// Failed items carry an error message instead of translated text.
type BatchTranslateItemResponse struct {
	Index          int    `json:"index"`
	TranslatedText string `json:"translated_text,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	Error          string `json:"error,omitempty"`
}

// BatchTranslateResponse is the result of a batch translation request
type BatchTranslateResponse struct {
	Results        []BatchTranslateItemResponse `json:"results"`
	Count          int                          `json:"count"`
	TargetLanguage string                       `json:"target_language"`
	ProcessingTime float64                      `json:"processing_time"`
}

// DetectLanguageResponse is the result of a language detection request
type DetectLanguageResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	LanguageName string `json:"language_name,omitempty"`
	Script       string `json:"script,omitempty"`
}

// TransliterateResponse is the result of a transliteration request
type TransliterateResponse struct {
	Text           string  `json:"text"`
	SourceScript   string  `json:"source_script"`
	TargetScript   string  `json:"target_script"`
	ProcessingTime float64 `json:"processing_time"`
}

// BatchTransliterateItemResponse is the per-item result of a batch
// transliteration
type BatchTransliterateItemResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchTransliterateResponse is the result of a batch transliteration request
type BatchTransliterateResponse struct {
	Results        []BatchTransliterateItemResponse `json:"results"`
	Count          int                              `json:"count"`
	TargetScript   string                           `json:"target_script"`
	ProcessingTime float64                          `json:"processing_time"`
}

// DetectScriptResponse is the result of a script detection request
type DetectScriptResponse struct {
	Text         string `json:"text"`
	Script       string `json:"script"`
	LanguageCode string `json:"language_code,omitempty"`
	LanguageName string `json:"language_name,omitempty"`
}

// ScriptInfo describes one supported script and its primary language
type ScriptInfo struct {
	Script       string `json:"script"`
	LanguageCode string `json:"language_code"`
	LanguageName string `json:"language_name"`
}

// ProcessedDocumentResponse is returned after a PDF has been processed
type ProcessedDocumentResponse struct {
	ProcessID        string `json:"process_id"`
	OriginalFilename string `json:"original_filename"`
	PageCount        int    `json:"page_count"`
	CharCount        int    `json:"char_count"`
	Status           string `json:"status"`
	Text             string `json:"text,omitempty"`
}

// LanguageInfo describes one supported language
type LanguageInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Script string `json:"script,omitempty"`
}
