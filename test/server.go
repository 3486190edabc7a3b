package test

import (
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/mail"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/client"
	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/api/v1/routes"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// SetupServer configures the test environment with a real API server
func SetupServer(env *TestEnvironment) {
	// Create Fiber app with default config
	env.App = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	// Add logger
	env.App.Use(logger.APILogger())

	mailer := &mail.NopMailer{}

	// Create services
	authService := services.NewAuthService(env.UserRepo, env.TokenRepo, env.APIKeyRepo, mailer, env.Config)
	userService := services.NewUserService(env.UserRepo, env.DatasetRepo, env.JobRepo, env.ModelRepo, env.InferenceRepo)
	datasetService := services.NewDatasetService(env.DatasetRepo, env.Config)
	trainingService := services.NewTrainingService(env.JobRepo, datasetService, env.MockRunner, env.Config)
	modelService := services.NewModelService(env.ModelRepo, env.MockRunner)
	inferenceService := services.NewInferenceService(env.InferenceRepo, modelService, env.MockRunner)
	evaluationService := services.NewEvaluationService(env.EvaluationRepo, modelService, datasetService, env.MockRunner)
	translationService := services.NewTranslationService(env.MockRunner)
	documentService := services.NewDocumentService(env.DocumentRepo, env.Config)

	// Worker for driving queued jobs from tests
	env.Worker = services.NewWorker(env.JobRepo, env.ModelRepo, env.DatasetRepo, env.UserRepo, env.TokenRepo, env.MockRunner, mailer)
	env.Worker.PollInterval = 5 * time.Millisecond

	// Create handlers
	api := handlers.NewAPIHandler(
		authService,
		userService,
		datasetService,
		documentService,
		trainingService,
		modelService,
		inferenceService,
		evaluationService,
		translationService,
		env.MockRunner,
	)

	// Register routes
	routes.RegisterRoutes(
		env.App,
		authService,
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

	// Create test server using adaptor to convert Fiber app to http.Handler
	env.Server = httptest.NewServer(adaptor.FiberApp(env.App))

	// Create API client with test configuration
	apiClient, err := client.NewClient(&client.Options{
		BaseURL: env.Server.URL,
		Timeout: testClientTimeout,
	})
	env.Require().NoError(err, "Failed to create API client")
	env.APIClient = apiClient
}
