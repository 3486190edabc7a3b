// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Endpoint groups in the order they appear under /api/v1.
2. Within a group, order routes in GET, POST, PUT, DELETE order.
	a. Param urls (ie /:id) go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
3. For clarity, naming should match the action (i.e. GetJob, CancelJob)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Auth routes
	Register       = "Register"
	Login          = "Login"
	RefreshToken   = "RefreshToken"
	Logout         = "Logout"
	LogoutAll      = "LogoutAll"
	ChangePassword = "ChangePassword"
	ForgotPassword = "ForgotPassword"
	ResetPassword  = "ResetPassword"
	Me             = "Me"
	UpdateProfile  = "UpdateProfile"
	UserStats      = "UserStats"
	ListAPIKeys    = "ListAPIKeys"
	CreateAPIKey   = "CreateAPIKey"
	RevokeAPIKey   = "RevokeAPIKey"

	// User admin routes
	GetUsers    = "GetUsers"
	GetUserByID = "GetUserByID"
	UpdateUser  = "UpdateUser"
	DeleteUser  = "DeleteUser"

	// Dataset routes
	ListDatasets       = "ListDatasets"
	ListPublicDatasets = "ListPublicDatasets"
	GetDataset         = "GetDataset"
	GetDatasetStats    = "GetDatasetStats"
	UploadDataset      = "UploadDataset"
	ShareDataset       = "ShareDataset"
	DeleteDataset      = "DeleteDataset"

	// PDF routes
	ProcessPDF    = "ProcessPDF"
	GetPDFResult  = "GetPDFResult"
	GetPDFHistory = "GetPDFHistory"

	// Training routes
	StartTraining = "StartTraining"
	ListJobs      = "ListJobs"
	GetJob        = "GetJob"
	CancelJob     = "CancelJob"
	ListModels    = "ListModels"
	ImportModel   = "ImportModel"
	DeleteModel   = "DeleteModel"

	// Inference routes
	Generate            = "Generate"
	GenerateBatch       = "GenerateBatch"
	ListInferenceModels = "ListInferenceModels"
	InferenceHistory    = "InferenceHistory"

	// Evaluation routes
	Evaluate      = "Evaluate"
	CompareModels = "CompareModels"

	// Translation routes
	Translate      = "Translate"
	TranslateBatch = "TranslateBatch"
	DetectLanguage = "DetectLanguage"
	ListLanguages  = "ListLanguages"

	// Transliteration routes
	Transliterate      = "Transliterate"
	TransliterateBatch = "TransliterateBatch"
	DetectScript       = "DetectScript"
	ListScripts        = "ListScripts"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered.
func RegisterRoutes(
	app *fiber.App,
	authService *services.Auth,
	limiter *middleware.RateLimiter,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	datasetHandler *handlers.DatasetHandler,
	documentHandler *handlers.DocumentHandler,
	trainingHandler *handlers.TrainingHandler,
	inferenceHandler *handlers.InferenceHandler,
	evaluationHandler *handlers.EvaluationHandler,
	translationHandler *handlers.TranslationHandler,
) {
	requireAuth := middleware.RequireAuth(authService)
	requireAdmin := middleware.RequireRole(models.UserRoleAdmin)
	throttle := limiter.Handler()

	// Health check
	app.Get("/health", healthHandler.Check).Name(HealthCheck)

	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Auth endpoints
	auth := v1.Group("/auth")
	auth.Post("/register", throttle, authHandler.Register).Name(Register)
	auth.Post("/login", throttle, authHandler.Login).Name(Login)
	auth.Post("/refresh", throttle, authHandler.Refresh).Name(RefreshToken)
	auth.Post("/logout", authHandler.Logout).Name(Logout)
	auth.Post("/forgot-password", throttle, authHandler.ForgotPassword).Name(ForgotPassword)
	auth.Post("/reset-password", throttle, authHandler.ResetPassword).Name(ResetPassword)
	auth.Get("/me", requireAuth, authHandler.Me).Name(Me)
	auth.Put("/me", requireAuth, userHandler.UpdateProfile).Name(UpdateProfile)
	auth.Get("/stats", requireAuth, authHandler.Stats).Name(UserStats)
	auth.Post("/logout-all", requireAuth, authHandler.LogoutAll).Name(LogoutAll)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword).Name(ChangePassword)
	auth.Get("/api-keys", requireAuth, authHandler.ListAPIKeys).Name(ListAPIKeys)
	auth.Post("/api-keys", requireAuth, authHandler.CreateAPIKey).Name(CreateAPIKey)
	auth.Delete("/api-keys/:id", requireAuth, authHandler.RevokeAPIKey).Name(RevokeAPIKey)

	// User admin endpoints
	users := v1.Group("/users", requireAuth, requireAdmin)
	users.Get("/", userHandler.GetUsers).Name(GetUsers)
	users.Get("/:id", userHandler.GetUserByID).Name(GetUserByID)
	users.Put("/:id", userHandler.UpdateUser).Name(UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser).Name(DeleteUser)

	// Dataset endpoints
	datasets := v1.Group("/datasets", requireAuth, throttle)
	datasets.Get("/", datasetHandler.List).Name(ListDatasets)
	datasets.Get("/public", datasetHandler.ListPublic).Name(ListPublicDatasets)
	datasets.Get("/:id", datasetHandler.Get).Name(GetDataset)
	datasets.Get("/:id/stats", datasetHandler.Stats).Name(GetDatasetStats)
	datasets.Post("/upload", datasetHandler.Upload).Name(UploadDataset)
	datasets.Post("/:id/share", datasetHandler.Share).Name(ShareDataset)
	datasets.Delete("/:id", datasetHandler.Delete).Name(DeleteDataset)

	// PDF endpoints
	pdf := v1.Group("/pdf", requireAuth, throttle)
	pdf.Get("/history", documentHandler.History).Name(GetPDFHistory)
	pdf.Get("/results/:id", documentHandler.GetResult).Name(GetPDFResult)
	pdf.Post("/process", documentHandler.Process).Name(ProcessPDF)

	// Training endpoints
	training := v1.Group("/training", requireAuth, throttle)
	training.Get("/jobs", trainingHandler.ListJobs).Name(ListJobs)
	training.Get("/jobs/:id", trainingHandler.GetJob).Name(GetJob)
	training.Get("/models", trainingHandler.ListModels).Name(ListModels)
	training.Post("/start", trainingHandler.Start).Name(StartTraining)
	training.Post("/models/import", trainingHandler.ImportModel).Name(ImportModel)
	training.Delete("/jobs/:id", trainingHandler.CancelJob).Name(CancelJob)
	training.Delete("/models/:id", trainingHandler.DeleteModel).Name(DeleteModel)

	// Inference endpoints
	inference := v1.Group("/inference", requireAuth, throttle)
	inference.Get("/history", inferenceHandler.History).Name(InferenceHistory)
	inference.Get("/models", inferenceHandler.ListModels).Name(ListInferenceModels)
	inference.Post("/generate", inferenceHandler.Generate).Name(Generate)
	inference.Post("/batch", inferenceHandler.GenerateBatch).Name(GenerateBatch)

	// Evaluation endpoints
	evaluation := v1.Group("/evaluation", requireAuth, throttle)
	evaluation.Post("/", evaluationHandler.Evaluate).Name(Evaluate)
	evaluation.Post("/compare", evaluationHandler.Compare).Name(CompareModels)

	// Translation endpoints
	translation := v1.Group("/translation", requireAuth, throttle)
	translation.Get("/languages", translationHandler.Languages).Name(ListLanguages)
	translation.Post("/", translationHandler.Translate).Name(Translate)
	translation.Post("/batch", translationHandler.TranslateBatch).Name(TranslateBatch)
	translation.Post("/detect", translationHandler.DetectLanguage).Name(DetectLanguage)

	// Transliteration endpoints
	transliteration := v1.Group("/transliteration", requireAuth, throttle)
	transliteration.Get("/scripts", translationHandler.Scripts).Name(ListScripts)
	transliteration.Post("/", translationHandler.Transliterate).Name(Transliterate)
	transliteration.Post("/batch", translationHandler.TransliterateBatch).Name(TransliterateBatch)
	transliteration.Post("/detect", translationHandler.DetectScript).Name(DetectScript)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Create empty handlers for route registration
		api := &handlers.APIHandler{}
		RegisterRoutes(
			app,
			nil,
			middleware.NewRateLimiter(),
			handlers.NewHealthHandler(api),
			handlers.NewAuthHandler(api),
			handlers.NewUserHandler(api),
			handlers.NewDatasetHandler(api),
			handlers.NewDocumentHandler(api),
			handlers.NewTrainingHandler(api),
			handlers.NewInferenceHandler(api),
			handlers.NewEvaluationHandler(api),
			handlers.NewTranslationHandler(api),
		)

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	initRouteCache()

	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()
	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Auth route helpers

// RegisterURL returns the URL for creating an account
func RegisterURL() string {
	return BuildURL(Register, nil, nil)
}

// LoginURL returns the URL for logging in
func LoginURL() string {
	return BuildURL(Login, nil, nil)
}

// RefreshURL returns the URL for rotating a refresh token
func RefreshURL() string {
	return BuildURL(RefreshToken, nil, nil)
}

// LogoutURL returns the URL for revoking a refresh token
func LogoutURL() string {
	return BuildURL(Logout, nil, nil)
}

// LogoutAllURL returns the URL for revoking all refresh tokens
func LogoutAllURL() string {
	return BuildURL(LogoutAll, nil, nil)
}

// ChangePasswordURL returns the URL for changing the password
func ChangePasswordURL() string {
	return BuildURL(ChangePassword, nil, nil)
}

// MeURL returns the URL for the authenticated profile
func MeURL() string {
	return BuildURL(Me, nil, nil)
}

// UserStatsURL returns the URL for the activity counters
func UserStatsURL() string {
	return BuildURL(UserStats, nil, nil)
}

// APIKeysURL returns the URL for listing and creating API keys
func APIKeysURL() string {
	return BuildURL(ListAPIKeys, nil, nil)
}

// APIKeyURL returns the URL for revoking one API key
func APIKeyURL(id string) string {
	return BuildURL(RevokeAPIKey, map[string]string{"id": id}, nil)
}

// User admin route helpers

// UsersURL returns the URL for listing users
func UsersURL(queryParams url.Values) string {
	return BuildURL(GetUsers, nil, queryParams)
}

// UserByIDURL returns the URL for one user
func UserByIDURL(id string) string {
	return BuildURL(GetUserByID, map[string]string{"id": id}, nil)
}

// Dataset route helpers

// DatasetsURL returns the URL for listing datasets
func DatasetsURL(queryParams url.Values) string {
	return BuildURL(ListDatasets, nil, queryParams)
}

// PublicDatasetsURL returns the URL for listing public datasets
func PublicDatasetsURL() string {
	return BuildURL(ListPublicDatasets, nil, nil)
}

// UploadDatasetURL returns the URL for uploading a dataset
func UploadDatasetURL() string {
	return BuildURL(UploadDataset, nil, nil)
}

// DatasetURL returns the URL for one dataset
func DatasetURL(id string) string {
	return BuildURL(GetDataset, map[string]string{"id": id}, nil)
}

// DatasetStatsURL returns the URL for a dataset's statistics
func DatasetStatsURL(id string) string {
	return BuildURL(GetDatasetStats, map[string]string{"id": id}, nil)
}

// ShareDatasetURL returns the URL for sharing a dataset
func ShareDatasetURL(id string) string {
	return BuildURL(ShareDataset, map[string]string{"id": id}, nil)
}

// PDF route helpers

// ProcessPDFURL returns the URL for processing a PDF
func ProcessPDFURL() string {
	return BuildURL(ProcessPDF, nil, nil)
}

// PDFResultURL returns the URL for one extraction result
func PDFResultURL(id string) string {
	return BuildURL(GetPDFResult, map[string]string{"id": id}, nil)
}

// PDFHistoryURL returns the URL for the extraction history
func PDFHistoryURL() string {
	return BuildURL(GetPDFHistory, nil, nil)
}

// Training route helpers

// StartTrainingURL returns the URL for starting a job
func StartTrainingURL() string {
	return BuildURL(StartTraining, nil, nil)
}

// JobsURL returns the URL for listing jobs
func JobsURL(queryParams url.Values) string {
	return BuildURL(ListJobs, nil, queryParams)
}

// JobURL returns the URL for one job
func JobURL(id string) string {
	return BuildURL(GetJob, map[string]string{"id": id}, nil)
}

// ModelsURL returns the URL for listing trained models
func ModelsURL(queryParams url.Values) string {
	return BuildURL(ListModels, nil, queryParams)
}

// ImportModelURL returns the URL for importing a hub checkpoint
func ImportModelURL() string {
	return BuildURL(ImportModel, nil, nil)
}

// ModelURL returns the URL for deleting one model
func ModelURL(id string) string {
	return BuildURL(DeleteModel, map[string]string{"id": id}, nil)
}

// Inference route helpers

// GenerateURL returns the URL for single generation
func GenerateURL() string {
	return BuildURL(Generate, nil, nil)
}

// GenerateBatchURL returns the URL for batch generation
func GenerateBatchURL() string {
	return BuildURL(GenerateBatch, nil, nil)
}

// InferenceModelsURL returns the URL for listing usable models
func InferenceModelsURL() string {
	return BuildURL(ListInferenceModels, nil, nil)
}

// InferenceHistoryURL returns the URL for the inference history
func InferenceHistoryURL(queryParams url.Values) string {
	return BuildURL(InferenceHistory, nil, queryParams)
}

// Evaluation route helpers

// EvaluateURL returns the URL for evaluating a model
func EvaluateURL() string {
	return BuildURL(Evaluate, nil, nil)
}

// CompareModelsURL returns the URL for comparing models
func CompareModelsURL() string {
	return BuildURL(CompareModels, nil, nil)
}

// Translation route helpers

// TranslateURL returns the URL for translation
func TranslateURL() string {
	return BuildURL(Translate, nil, nil)
}

// TranslateBatchURL returns the URL for batch translation
func TranslateBatchURL() string {
	return BuildURL(TranslateBatch, nil, nil)
}

// DetectLanguageURL returns the URL for language detection
func DetectLanguageURL() string {
	return BuildURL(DetectLanguage, nil, nil)
}

// LanguagesURL returns the URL for the supported languages
func LanguagesURL() string {
	return BuildURL(ListLanguages, nil, nil)
}

// TransliterateURL returns the URL for transliteration
func TransliterateURL() string {
	return BuildURL(Transliterate, nil, nil)
}

// TransliterateBatchURL returns the URL for batch transliteration
func TransliterateBatchURL() string {
	return BuildURL(TransliterateBatch, nil, nil)
}

// DetectScriptURL returns the URL for script detection
func DetectScriptURL() string {
	return BuildURL(DetectScript, nil, nil)
}

// ScriptsURL returns the URL for the supported scripts
func ScriptsURL() string {
	return BuildURL(ListScripts, nil, nil)
}
