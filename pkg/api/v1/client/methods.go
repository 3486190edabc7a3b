package client

import (
	"context"
	"net/http"
	"net/url"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
	"github.com/legaltext/finetuner/pkg/api/v1/routes"
	"github.com/legaltext/finetuner/pkg/types"
)

// HealthCheck checks API and runner health
func (c *APIClient) HealthCheck(ctx context.Context) (types.HealthResponse, error) {
	var resp types.HealthResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.HealthCheckURL(), nil, &resp)
	return resp, err
}

// Register creates a new account
func (c *APIClient) Register(ctx context.Context, params handlers.RegisterParams) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodPost, routes.RegisterURL(), params, &user)
	return user, err
}

// Login exchanges credentials for a token pair and stores the access token
// on the client for subsequent requests
func (c *APIClient) Login(ctx context.Context, params handlers.LoginParams) (types.TokenResponse, error) {
	var resp types.TokenResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.LoginURL(), params, &resp); err != nil {
		return resp, err
	}
	c.AuthToken = resp.AccessToken
	return resp, nil
}

// Refresh rotates a refresh token and stores the new access token
func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (types.TokenResponse, error) {
	var resp types.TokenResponse
	params := handlers.RefreshParams{RefreshToken: refreshToken}
	if err := c.executeRequest(ctx, http.MethodPost, routes.RefreshURL(), params, &resp); err != nil {
		return resp, err
	}
	c.AuthToken = resp.AccessToken
	return resp, nil
}

// Logout revokes a refresh token
func (c *APIClient) Logout(ctx context.Context, refreshToken string) error {
	params := handlers.RefreshParams{RefreshToken: refreshToken}
	return c.executeRequest(ctx, http.MethodPost, routes.LogoutURL(), params, nil)
}

// LogoutAll revokes every refresh token of the authenticated user
func (c *APIClient) LogoutAll(ctx context.Context) error {
	return c.executeRequest(ctx, http.MethodPost, routes.LogoutAllURL(), nil, nil)
}

// ChangePassword replaces the authenticated user's password
func (c *APIClient) ChangePassword(ctx context.Context, params handlers.ChangePasswordParams) error {
	return c.executeRequest(ctx, http.MethodPost, routes.ChangePasswordURL(), params, nil)
}

// Me returns the authenticated user's profile
func (c *APIClient) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodGet, routes.MeURL(), nil, &user)
	return user, err
}

// UserStats returns the authenticated user's activity counters
func (c *APIClient) UserStats(ctx context.Context) (types.UserStatsResponse, error) {
	var resp types.UserStatsResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.UserStatsURL(), nil, &resp)
	return resp, err
}

// CreateAPIKey mints an API key. The secret in the response is shown once.
func (c *APIClient) CreateAPIKey(ctx context.Context, params handlers.CreateAPIKeyParams) (types.APIKeyResponse, error) {
	var resp types.APIKeyResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.APIKeysURL(), params, &resp)
	return resp, err
}

// ListAPIKeys returns the authenticated user's API keys
func (c *APIClient) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := c.executeRequest(ctx, http.MethodGet, routes.APIKeysURL(), nil, &keys)
	return keys, err
}

// RevokeAPIKey deactivates an API key
func (c *APIClient) RevokeAPIKey(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.APIKeyURL(formatID(id)), nil, nil)
}

// GetUsers returns all users. Admin only.
func (c *APIClient) GetUsers(ctx context.Context, queryParams url.Values) (types.ListResponse[models.User], error) {
	var resp types.ListResponse[models.User]
	err := c.executeRequest(ctx, http.MethodGet, routes.UsersURL(queryParams), nil, &resp)
	return resp, err
}

// GetUserByID returns one user. Admin only.
func (c *APIClient) GetUserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodGet, routes.UserByIDURL(formatID(id)), nil, &user)
	return user, err
}

// UpdateUser changes a user's role or status. Admin only.
func (c *APIClient) UpdateUser(ctx context.Context, id uint, params handlers.AdminUpdateUserParams) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodPut, routes.UserByIDURL(formatID(id)), params, &user)
	return user, err
}

// DeleteUser removes a user account. Admin only.
func (c *APIClient) DeleteUser(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.UserByIDURL(formatID(id)), nil, nil)
}

// ListDatasets returns the authenticated user's datasets
func (c *APIClient) ListDatasets(ctx context.Context, queryParams url.Values) (types.ListResponse[models.Dataset], error) {
	var resp types.ListResponse[models.Dataset]
	err := c.executeRequest(ctx, http.MethodGet, routes.DatasetsURL(queryParams), nil, &resp)
	return resp, err
}

// ListPublicDatasets returns datasets shared with everyone
func (c *APIClient) ListPublicDatasets(ctx context.Context) ([]models.Dataset, error) {
	var rows []models.Dataset
	err := c.executeRequest(ctx, http.MethodGet, routes.PublicDatasetsURL(), nil, &rows)
	return rows, err
}

// GetDataset returns one dataset
func (c *APIClient) GetDataset(ctx context.Context, id uint) (models.Dataset, error) {
	var dataset models.Dataset
	err := c.executeRequest(ctx, http.MethodGet, routes.DatasetURL(formatID(id)), nil, &dataset)
	return dataset, err
}

// GetDatasetStats returns the stored statistics of a dataset
func (c *APIClient) GetDatasetStats(ctx context.Context, id uint) (models.JSONMap, error) {
	var stats models.JSONMap
	err := c.executeRequest(ctx, http.MethodGet, routes.DatasetStatsURL(formatID(id)), nil, &stats)
	return stats, err
}

// UploadDataset uploads a corpus file as a multipart form
func (c *APIClient) UploadDataset(ctx context.Context, name, description, filename string, content []byte, isPublic bool) (models.Dataset, error) {
	return c.UploadDatasetFiles(ctx, name, description, []types.DatasetFile{{Filename: filename, Content: content}}, isPublic)
}

// UploadDatasetFiles uploads several corpus files to be merged into one
// dataset
func (c *APIClient) UploadDatasetFiles(ctx context.Context, name, description string, files []types.DatasetFile, isPublic bool) (models.Dataset, error) {
	var dataset models.Dataset

	agent := fiber.Post(c.baseURL + routes.UploadDatasetURL())
	agent.Timeout(c.timeout)
	c.setAuthHeaders(agent)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("name", name)
	args.Set("description", description)
	if isPublic {
		args.Set("is_public", "true")
	}
	for i := range files {
		agent.FileData(&fiber.FormFile{
			Fieldname: "file",
			Name:      files[i].Filename,
			Content:   files[i].Content,
		})
	}
	agent.MultipartForm(args)

	return dataset, c.doRequest(agent, &dataset)
}

// GetDatasetDetail returns one dataset with its content preview
func (c *APIClient) GetDatasetDetail(ctx context.Context, id uint) (handlers.DatasetDetail, error) {
	var detail handlers.DatasetDetail
	err := c.executeRequest(ctx, http.MethodGet, routes.DatasetURL(formatID(id)), nil, &detail)
	return detail, err
}

// ShareDataset grants access on a dataset
func (c *APIClient) ShareDataset(ctx context.Context, id uint, params handlers.ShareDatasetParams) (models.Dataset, error) {
	var dataset models.Dataset
	err := c.executeRequest(ctx, http.MethodPost, routes.ShareDatasetURL(formatID(id)), params, &dataset)
	return dataset, err
}

// DeleteDataset removes a dataset
func (c *APIClient) DeleteDataset(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.DatasetURL(formatID(id)), nil, nil)
}

// StartTraining queues a fine-tuning job
func (c *APIClient) StartTraining(ctx context.Context, params handlers.StartTrainingParams) (models.TrainingJob, error) {
	var job models.TrainingJob
	err := c.executeRequest(ctx, http.MethodPost, routes.StartTrainingURL(), params, &job)
	return job, err
}

// ListJobs returns the user's training jobs
func (c *APIClient) ListJobs(ctx context.Context, queryParams url.Values) (types.ListResponse[models.TrainingJob], error) {
	var resp types.ListResponse[models.TrainingJob]
	err := c.executeRequest(ctx, http.MethodGet, routes.JobsURL(queryParams), nil, &resp)
	return resp, err
}

// GetJob returns one training job
func (c *APIClient) GetJob(ctx context.Context, jobID string) (models.TrainingJob, error) {
	var job models.TrainingJob
	err := c.executeRequest(ctx, http.MethodGet, routes.JobURL(jobID), nil, &job)
	return job, err
}

// CancelJob stops a pending or running job
func (c *APIClient) CancelJob(ctx context.Context, jobID string) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.JobURL(jobID), nil, nil)
}

// ListModels returns the user's trained models
func (c *APIClient) ListModels(ctx context.Context, queryParams url.Values) (types.ListResponse[models.TrainedModel], error) {
	var resp types.ListResponse[models.TrainedModel]
	err := c.executeRequest(ctx, http.MethodGet, routes.ModelsURL(queryParams), nil, &resp)
	return resp, err
}

// ImportModel registers a pretrained hub checkpoint
func (c *APIClient) ImportModel(ctx context.Context, params handlers.ImportModelParams) (models.TrainedModel, error) {
	var model models.TrainedModel
	err := c.executeRequest(ctx, http.MethodPost, routes.ImportModelURL(), params, &model)
	return model, err
}

// DeleteModel removes a trained model from the registry
func (c *APIClient) DeleteModel(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.ModelURL(formatID(id)), nil, nil)
}

// Generate runs one text through a model
func (c *APIClient) Generate(ctx context.Context, params handlers.GenerateParams) (types.GenerateResponse, error) {
	var resp types.GenerateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.GenerateURL(), params, &resp)
	return resp, err
}

// GenerateBatch runs several texts through the same model
func (c *APIClient) GenerateBatch(ctx context.Context, params handlers.BatchGenerateParams) (types.BatchGenerateResponse, error) {
	var resp types.BatchGenerateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.GenerateBatchURL(), params, &resp)
	return resp, err
}

// InferenceHistory returns the user's past inference requests
func (c *APIClient) InferenceHistory(ctx context.Context, queryParams url.Values) (types.ListResponse[models.InferenceRecord], error) {
	var resp types.ListResponse[models.InferenceRecord]
	err := c.executeRequest(ctx, http.MethodGet, routes.InferenceHistoryURL(queryParams), nil, &resp)
	return resp, err
}

// Evaluate scores a model against a dataset
func (c *APIClient) Evaluate(ctx context.Context, params handlers.EvaluateParams) (models.Evaluation, error) {
	var eval models.Evaluation
	err := c.executeRequest(ctx, http.MethodPost, routes.EvaluateURL(), params, &eval)
	return eval, err
}

// CompareModels scores several models against the same dataset
func (c *APIClient) CompareModels(ctx context.Context, params handlers.CompareParams) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := c.executeRequest(ctx, http.MethodPost, routes.CompareModelsURL(), params, &evals)
	return evals, err
}

// Translate converts text between supported languages
func (c *APIClient) Translate(ctx context.Context, params handlers.TranslateParams) (types.TranslateResponse, error) {
	var resp types.TranslateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.TranslateURL(), params, &resp)
	return resp, err
}

// TranslateBatch converts several texts into one target language
func (c *APIClient) TranslateBatch(ctx context.Context, params handlers.BatchTranslateParams) (types.BatchTranslateResponse, error) {
	var resp types.BatchTranslateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.TranslateBatchURL(), params, &resp)
	return resp, err
}

// DetectLanguage reports the language of a text
func (c *APIClient) DetectLanguage(ctx context.Context, text string) (types.DetectLanguageResponse, error) {
	var resp types.DetectLanguageResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.DetectLanguageURL(), handlers.DetectParams{Text: text}, &resp)
	return resp, err
}

// ListLanguages returns the languages translation accepts
func (c *APIClient) ListLanguages(ctx context.Context) ([]types.LanguageInfo, error) {
	var langs []types.LanguageInfo
	err := c.executeRequest(ctx, http.MethodGet, routes.LanguagesURL(), nil, &langs)
	return langs, err
}

// Transliterate rewrites text from one script to another
func (c *APIClient) Transliterate(ctx context.Context, params handlers.TransliterateParams) (types.TransliterateResponse, error) {
	var resp types.TransliterateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.TransliterateURL(), params, &resp)
	return resp, err
}

// TransliterateBatch rewrites several texts into one target script
func (c *APIClient) TransliterateBatch(ctx context.Context, params handlers.BatchTransliterateParams) (types.BatchTransliterateResponse, error) {
	var resp types.BatchTransliterateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.TransliterateBatchURL(), params, &resp)
	return resp, err
}

// DetectScript reports the script of a text
func (c *APIClient) DetectScript(ctx context.Context, text string) (types.DetectScriptResponse, error) {
	var resp types.DetectScriptResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.DetectScriptURL(), handlers.DetectParams{Text: text}, &resp)
	return resp, err
}

// ListScripts returns the scripts transliteration accepts
func (c *APIClient) ListScripts(ctx context.Context) ([]types.ScriptInfo, error) {
	var scripts []types.ScriptInfo
	err := c.executeRequest(ctx, http.MethodGet, routes.ScriptsURL(), nil, &scripts)
	return scripts, err
}
