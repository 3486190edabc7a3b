// Command server runs the legal text platform API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/internal/mail"
	"github.com/legaltext/finetuner/internal/runner"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
	"github.com/legaltext/finetuner/pkg/api/v1/middleware"
	"github.com/legaltext/finetuner/pkg/api/v1/routes"
	"github.com/legaltext/finetuner/pkg/types"
)

func main() {
	logger.InitializeAndConfigure()
	cfg := config.Load()

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", "localhost"),
		User:     config.GetEnv("DB_USER", "postgres"),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     config.GetEnvInt("DB_PORT", 5432),
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	runnerClient, err := runner.NewClient(runner.Options{
		BaseURL: cfg.RunnerURL,
		Timeout: cfg.RunnerTimeout,
	})
	if err != nil {
		logger.Fatalf("failed to create model runner client: %v", err)
	}

	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.Options{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.MailFrom,
		})
	}

	// Repositories
	userRepo := repos.NewUserRepository(database)
	tokenRepo := repos.NewTokenRepository(database)
	apiKeyRepo := repos.NewAPIKeyRepository(database)
	datasetRepo := repos.NewDatasetRepository(database)
	documentRepo := repos.NewDocumentRepository(database)
	jobRepo := repos.NewTrainingJobRepository(database)
	modelRepo := repos.NewTrainedModelRepository(database)
	inferenceRepo := repos.NewInferenceRepository(database)
	evaluationRepo := repos.NewEvaluationRepository(database)

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo, apiKeyRepo, mailer, cfg)
	userService := services.NewUserService(userRepo, datasetRepo, jobRepo, modelRepo, inferenceRepo)
	datasetService := services.NewDatasetService(datasetRepo, cfg)
	documentService := services.NewDocumentService(documentRepo, cfg)
	trainingService := services.NewTrainingService(jobRepo, datasetService, runnerClient, cfg)
	modelService := services.NewModelService(modelRepo, runnerClient)
	inferenceService := services.NewInferenceService(inferenceRepo, modelService, runnerClient)
	evaluationService := services.NewEvaluationService(evaluationRepo, modelService, datasetService, runnerClient)
	translationService := services.NewTranslationService(runnerClient)

	// Background worker for training jobs
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	worker := services.NewWorker(jobRepo, modelRepo, datasetRepo, userRepo, tokenRepo, runnerClient, mailer)
	go services.LaunchWorker(ctx, &wg, worker)

	// HTTP server
	app := fiber.New(fiber.Config{
		BodyLimit:             services.MaxDatasetSize,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(types.ErrorResponse{Error: err.Error()})
		},
	})
	app.Use(logger.APILogger())

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
		runnerClient,
	)
	routes.RegisterRoutes(
		app,
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

	go func() {
		addr := cfg.Host + ":" + cfg.Port
		logger.Infof("API listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	if err := app.Shutdown(); err != nil {
		logger.Errorf("error during shutdown: %v", err)
	}
	wg.Wait()
	logger.Info("Shutdown complete")
	os.Exit(0)
}
