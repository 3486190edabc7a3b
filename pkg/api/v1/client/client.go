// Package client provides the API client for the legal text platform
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
	"github.com/legaltext/finetuner/pkg/api/v1/routes"
	"github.com/legaltext/finetuner/pkg/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (types.HealthResponse, error)

	// Auth Endpoints
	Register(ctx context.Context, params handlers.RegisterParams) (models.User, error)
	Login(ctx context.Context, params handlers.LoginParams) (types.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (types.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context) error
	ChangePassword(ctx context.Context, params handlers.ChangePasswordParams) error
	Me(ctx context.Context) (models.User, error)
	UserStats(ctx context.Context) (types.UserStatsResponse, error)
	CreateAPIKey(ctx context.Context, params handlers.CreateAPIKeyParams) (types.APIKeyResponse, error)
	ListAPIKeys(ctx context.Context) ([]models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uint) error

	// User Admin Endpoints
	GetUsers(ctx context.Context, queryParams url.Values) (types.ListResponse[models.User], error)
	GetUserByID(ctx context.Context, id uint) (models.User, error)
	UpdateUser(ctx context.Context, id uint, params handlers.AdminUpdateUserParams) (models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	// Dataset Endpoints
	ListDatasets(ctx context.Context, queryParams url.Values) (types.ListResponse[models.Dataset], error)
	ListPublicDatasets(ctx context.Context) ([]models.Dataset, error)
	GetDataset(ctx context.Context, id uint) (models.Dataset, error)
	GetDatasetDetail(ctx context.Context, id uint) (handlers.DatasetDetail, error)
	GetDatasetStats(ctx context.Context, id uint) (models.JSONMap, error)
	UploadDataset(ctx context.Context, name, description, filename string, content []byte, isPublic bool) (models.Dataset, error)
	UploadDatasetFiles(ctx context.Context, name, description string, files []types.DatasetFile, isPublic bool) (models.Dataset, error)
	ShareDataset(ctx context.Context, id uint, params handlers.ShareDatasetParams) (models.Dataset, error)
	DeleteDataset(ctx context.Context, id uint) error

	// Training Endpoints
	StartTraining(ctx context.Context, params handlers.StartTrainingParams) (models.TrainingJob, error)
	ListJobs(ctx context.Context, queryParams url.Values) (types.ListResponse[models.TrainingJob], error)
	GetJob(ctx context.Context, jobID string) (models.TrainingJob, error)
	CancelJob(ctx context.Context, jobID string) error
	ListModels(ctx context.Context, queryParams url.Values) (types.ListResponse[models.TrainedModel], error)
	ImportModel(ctx context.Context, params handlers.ImportModelParams) (models.TrainedModel, error)
	DeleteModel(ctx context.Context, id uint) error

	// Inference Endpoints
	Generate(ctx context.Context, params handlers.GenerateParams) (types.GenerateResponse, error)
	GenerateBatch(ctx context.Context, params handlers.BatchGenerateParams) (types.BatchGenerateResponse, error)
	InferenceHistory(ctx context.Context, queryParams url.Values) (types.ListResponse[models.InferenceRecord], error)

	// Evaluation Endpoints
	Evaluate(ctx context.Context, params handlers.EvaluateParams) (models.Evaluation, error)
	CompareModels(ctx context.Context, params handlers.CompareParams) ([]models.Evaluation, error)

	// Translation Endpoints
	Translate(ctx context.Context, params handlers.TranslateParams) (types.TranslateResponse, error)
	TranslateBatch(ctx context.Context, params handlers.BatchTranslateParams) (types.BatchTranslateResponse, error)
	DetectLanguage(ctx context.Context, text string) (types.DetectLanguageResponse, error)
	ListLanguages(ctx context.Context) ([]types.LanguageInfo, error)

	// Transliteration Endpoints
	Transliterate(ctx context.Context, params handlers.TransliterateParams) (types.TransliterateResponse, error)
	TransliterateBatch(ctx context.Context, params handlers.BatchTransliterateParams) (types.BatchTransliterateResponse, error)
	DetectScript(ctx context.Context, text string) (types.DetectScriptResponse, error)
	ListScripts(ctx context.Context) ([]types.ScriptInfo, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration

	// AuthToken is the bearer access token sent with requests when set
	AuthToken string

	// APIKey and APISecret authenticate requests when AuthToken is empty
	APIKey    string
	APISecret string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	c.setAuthHeaders(agent)

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

func (c *APIClient) setAuthHeaders(agent *fiber.Agent) {
	if c.AuthToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.AuthToken)
		return
	}
	if c.APIKey != "" {
		agent.Set("X-API-Key", c.APIKey)
		agent.Set("X-API-Secret", c.APISecret)
	}
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		// If we can't decode the error response, return an error with the raw body as the message
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
