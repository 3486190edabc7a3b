// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidParams    = "Invalid parameters"
	ErrMsgInvalidReqFormat = "Invalid request format"
	ErrMsgInvalidID        = "Invalid id"
)

// Auth error messages
const (
	ErrMsgInvalidCredentials = "Invalid username or password"
	ErrMsgAccountDisabled    = "Account is not active"
	ErrMsgRegisterFailed     = "Failed to register user"
	ErrMsgRefreshFailed      = "Invalid or expired refresh token"
	ErrMsgPasswordMismatch   = "Current password is incorrect"
	ErrMsgResetFailed        = "Invalid or expired reset token"
	ErrMsgAPIKeyCreateFailed = "Failed to create API key"
	ErrMsgAPIKeyRevokeFailed = "Failed to revoke API key"
)

// User error messages
const (
	ErrMsgUserNotFound     = "User not found"
	ErrMsgGetUsersFailed   = "Failed to get users"
	ErrMsgUpdateUserFailed = "Failed to update user"
	ErrMsgDeleteUserFailed = "Failed to delete user"
)

// Dataset error messages
const (
	ErrMsgDatasetNotFound     = "Dataset not found"
	ErrMsgDatasetUploadFailed = "Failed to upload dataset"
	ErrMsgDatasetListFailed   = "Failed to list datasets"
	ErrMsgDatasetShareFailed  = "Failed to share dataset"
	ErrMsgDatasetDeleteFailed = "Failed to delete dataset"
	ErrMsgFileRequired        = "A file upload is required"
)

// Document error messages
const (
	ErrMsgDocumentNotFound = "Processed document not found"
	ErrMsgPDFProcessFailed = "Failed to process PDF document"
)

// Training error messages
const (
	ErrMsgJobNotFound      = "Training job not found"
	ErrMsgJobStartFailed   = "Failed to start training job"
	ErrMsgJobListFailed    = "Failed to list training jobs"
	ErrMsgJobCancelFailed  = "Failed to cancel training job"
	ErrMsgJobNotCancelable = "Training job is already finished"
)

// Model error messages
const (
	ErrMsgModelNotFound     = "Model not found"
	ErrMsgModelListFailed   = "Failed to list models"
	ErrMsgModelImportFailed = "Failed to import model"
	ErrMsgModelDeleteFailed = "Failed to delete model"
)

// Inference error messages
const (
	ErrMsgGenerateFailed  = "Text generation failed"
	ErrMsgBatchFailed     = "Batch generation failed"
	ErrMsgHistoryFailed   = "Failed to load inference history"
	ErrMsgEvaluateFailed  = "Evaluation failed"
	ErrMsgTranslateFailed = "Translation failed"
)

// Pagination error messages
const (
	ErrMsgNegativePagination = "Page must be a positive number from 1"
)
