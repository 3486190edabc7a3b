package test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/runner"
	"github.com/legaltext/finetuner/internal/services"
	"github.com/legaltext/finetuner/pkg/api/v1/client"
)

// DefaultTestTimeout is the default timeout for integration tests.
const DefaultTestTimeout = 30 * time.Second

// TestEnvironment encapsulates all components needed for integration testing.
// It provides a complete test setup with:
//   - File-based SQLite database
//   - Real API server
//   - Real API client
//   - Mocked model runner
type TestEnvironment struct {
	t *testing.T // The testing.T instance for this environment

	// Server components
	App    *fiber.App
	Server *httptest.Server

	// Client components
	APIClient *client.APIClient

	// Database components
	DB             *gorm.DB
	UserRepo       *repos.UserRepository
	TokenRepo      *repos.TokenRepository
	APIKeyRepo     *repos.APIKeyRepository
	DatasetRepo    *repos.DatasetRepository
	JobRepo        *repos.TrainingJobRepository
	ModelRepo      *repos.TrainedModelRepository
	InferenceRepo  *repos.InferenceRepository
	EvaluationRepo *repos.EvaluationRepository
	DocumentRepo   *repos.DocumentRepository

	// Mock model runner backing training, inference and translation
	MockRunner *runner.MockClient

	// Worker drives queued training jobs; tests call ProcessJob directly
	// instead of running the poll loop
	Worker *services.Worker

	// Config used by the server under test
	Config *config.Config

	// Context management
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Cleanup function
	cleanup func()
}

// NewTestEnvironment creates a new test environment. The environment must be
// cleaned up after use by calling Cleanup.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)

	env := &TestEnvironment{
		t:          t,
		ctx:        ctx,
		cancelFunc: cancel,
	}

	db, tmpDir, err := NewFileBasedTestDB()
	require.NoError(t, err, "Failed to create file-based database")
	require.NoError(t, RunMigrations(db), "Failed to run database migrations")
	env.DB = db

	env.cleanup = func() {
		if env.Server != nil {
			env.Server.Close()
		}
		if env.cancelFunc != nil {
			env.cancelFunc()
		}
		CleanupTestDB(db, tmpDir)
	}

	env.Config = &config.Config{
		JWTSecret:       "integration-test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      4, // bcrypt.MinCost
		DataDir:         filepath.Join(tmpDir, "data"),
	}

	env.UserRepo = repos.NewUserRepository(db)
	env.TokenRepo = repos.NewTokenRepository(db)
	env.APIKeyRepo = repos.NewAPIKeyRepository(db)
	env.DatasetRepo = repos.NewDatasetRepository(db)
	env.JobRepo = repos.NewTrainingJobRepository(db)
	env.ModelRepo = repos.NewTrainedModelRepository(db)
	env.InferenceRepo = repos.NewInferenceRepository(db)
	env.EvaluationRepo = repos.NewEvaluationRepository(db)
	env.DocumentRepo = repos.NewDocumentRepository(db)

	env.MockRunner = runner.NewMockClient()

	SetupServer(env)

	return env
}

// Context returns the environment's context, which is automatically
// canceled when the environment is cleaned up.
func (e *TestEnvironment) Context() context.Context {
	return e.ctx
}

// Cleanup tears down the test environment, releasing all resources.
// This should be deferred immediately after creating the environment.
func (e *TestEnvironment) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// Require returns a require.Assertions instance for this environment.
// This is a convenience method to avoid passing t around.
func (e *TestEnvironment) Require() *require.Assertions {
	return require.New(e.t)
}

// WithTimeout returns a new context with the specified timeout.
// The returned context is a child of the environment's context.
func (e *TestEnvironment) WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(e.ctx, timeout)
}

// T returns the testing.T instance for this environment.
func (e *TestEnvironment) T() *testing.T {
	return e.t
}
