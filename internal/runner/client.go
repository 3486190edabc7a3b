package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	fiber "github.com/gofiber/fiber/v2"
)

// DefaultTimeout is the default timeout for runner requests. Generation can
// be slow on CPU-only hosts, so this is deliberately generous.
const DefaultTimeout = 5 * time.Minute

// Runner endpoints
const (
	endpointGenerate      = "/v1/generate"
	endpointTrain         = "/v1/train"
	endpointTrainStatus   = "/v1/train/%s"
	endpointTrainAbort    = "/v1/train/%s/abort"
	endpointEvaluate      = "/v1/evaluate"
	endpointTranslate     = "/v1/translate"
	endpointTransliterate = "/v1/transliterate"
	endpointImport        = "/v1/import"
	endpointHealth        = "/health"
)

// Client is the interface to the model-runner service
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	StartTrain(ctx context.Context, req TrainRequest) (TrainStatus, error)
	TrainStatus(ctx context.Context, jobID string) (TrainStatus, error)
	AbortTrain(ctx context.Context, jobID string) error
	Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error)
	Translate(ctx context.Context, req TranslateRequest) (TranslateResponse, error)
	Transliterate(ctx context.Context, req TransliterateRequest) (TransliterateResponse, error)
	ImportFromHub(ctx context.Context, req ImportRequest) (ImportResponse, error)
	Health(ctx context.Context) (HealthResponse, error)
}

var _ Client = &HTTPClient{}

// Options contains configuration options for the runner client
type Options struct {
	// BaseURL is the base URL of the runner service
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// HTTPClient implements the Client interface over HTTP
type HTTPClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new runner client with the given options
func NewClient(opts Options) (*HTTPClient, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("runner base URL is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *HTTPClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// executeRequest creates an agent, sends the request, and decodes the response
func (c *HTTPClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending runner request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(respBody),
		}
	}

	if response != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, response); err != nil {
			return fmt.Errorf("error decoding runner response: %w", err)
		}
	}

	return nil
}

// Generate produces one output text for the given input
func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var resp GenerateResponse
	err := c.executeRequest(ctx, http.MethodPost, endpointGenerate, req, &resp)
	return resp, err
}

// StartTrain submits a fine-tuning run to the runner
func (c *HTTPClient) StartTrain(ctx context.Context, req TrainRequest) (TrainStatus, error) {
	var status TrainStatus
	err := c.executeRequest(ctx, http.MethodPost, endpointTrain, req, &status)
	return status, err
}

// TrainStatus fetches the current state of a runner-side training run
func (c *HTTPClient) TrainStatus(ctx context.Context, jobID string) (TrainStatus, error) {
	var status TrainStatus
	endpoint := fmt.Sprintf(endpointTrainStatus, jobID)
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &status)
	return status, err
}

// AbortTrain asks the runner to stop a training run
func (c *HTTPClient) AbortTrain(ctx context.Context, jobID string) error {
	endpoint := fmt.Sprintf(endpointTrainAbort, jobID)
	return c.executeRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// Evaluate scores a checkpoint against a dataset
func (c *HTTPClient) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error) {
	var resp EvaluateResponse
	err := c.executeRequest(ctx, http.MethodPost, endpointEvaluate, req, &resp)
	return resp, err
}

// Translate translates text via the multilingual model
func (c *HTTPClient) Translate(ctx context.Context, req TranslateRequest) (TranslateResponse, error) {
	var resp TranslateResponse
	err := c.executeRequest(ctx, http.MethodPost, endpointTranslate, req, &resp)
	return resp, err
}

// Transliterate converts text between scripts
func (c *HTTPClient) Transliterate(ctx context.Context, req TransliterateRequest) (TransliterateResponse, error) {
	var resp TransliterateResponse
	err := c.executeRequest(ctx, http.MethodPost, endpointTransliterate, req, &resp)
	return resp, err
}

// ImportFromHub pulls a pretrained checkpoint from the model hub
func (c *HTTPClient) ImportFromHub(ctx context.Context, req ImportRequest) (ImportResponse, error) {
	var resp ImportResponse
	err := c.executeRequest(ctx, http.MethodPost, endpointImport, req, &resp)
	return resp, err
}

// Health checks runner availability
func (c *HTTPClient) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.executeRequest(ctx, http.MethodGet, endpointHealth, nil, &resp)
	return resp, err
}
