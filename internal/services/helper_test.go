package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/mail"
	"github.com/legaltext/finetuner/internal/runner"
)

// testEnv wires the full service stack against an in-memory database and a
// mock model runner.
type testEnv struct {
	ctx context.Context
	db  *gorm.DB
	cfg *config.Config

	userRepo    *repos.UserRepository
	tokenRepo   *repos.TokenRepository
	apiKeyRepo  *repos.APIKeyRepository
	datasetRepo *repos.DatasetRepository
	jobRepo     *repos.TrainingJobRepository
	modelRepo   *repos.TrainedModelRepository
	infRepo     *repos.InferenceRepository
	evalRepo    *repos.EvaluationRepository
	docRepo     *repos.DocumentRepository

	mock *runner.MockClient

	auth        *Auth
	users       *User
	datasets    *Dataset
	training    *Training
	modelSvc    *Model
	inference   *Inference
	evaluation  *Evaluation
	translation *Translation
	documents   *Document
	worker      *Worker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.APIKey{},
		&models.Dataset{},
		&models.TrainingJob{},
		&models.TrainedModel{},
		&models.InferenceRecord{},
		&models.Evaluation{},
		&models.ProcessedDocument{},
	)
	require.NoError(t, err, "Failed to run database migrations")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      4, // bcrypt.MinCost, keeps tests fast
		DataDir:         t.TempDir(),
	}

	env := &testEnv{
		ctx:  context.Background(),
		db:   db,
		cfg:  cfg,
		mock: runner.NewMockClient(),
	}

	env.userRepo = repos.NewUserRepository(db)
	env.tokenRepo = repos.NewTokenRepository(db)
	env.apiKeyRepo = repos.NewAPIKeyRepository(db)
	env.datasetRepo = repos.NewDatasetRepository(db)
	env.jobRepo = repos.NewTrainingJobRepository(db)
	env.modelRepo = repos.NewTrainedModelRepository(db)
	env.infRepo = repos.NewInferenceRepository(db)
	env.evalRepo = repos.NewEvaluationRepository(db)
	env.docRepo = repos.NewDocumentRepository(db)

	env.auth = NewAuthService(env.userRepo, env.tokenRepo, env.apiKeyRepo, &mail.NopMailer{}, cfg)
	env.users = NewUserService(env.userRepo, env.datasetRepo, env.jobRepo, env.modelRepo, env.infRepo)
	env.datasets = NewDatasetService(env.datasetRepo, cfg)
	env.training = NewTrainingService(env.jobRepo, env.datasets, env.mock, cfg)
	env.modelSvc = NewModelService(env.modelRepo, env.mock)
	env.inference = NewInferenceService(env.infRepo, env.modelSvc, env.mock)
	env.evaluation = NewEvaluationService(env.evalRepo, env.modelSvc, env.datasets, env.mock)
	env.translation = NewTranslationService(env.mock)
	env.documents = NewDocumentService(env.docRepo, cfg)
	env.worker = NewWorker(env.jobRepo, env.modelRepo, env.datasetRepo, env.userRepo, env.tokenRepo, env.mock, &mail.NopMailer{})
	env.worker.PollInterval = 5 * time.Millisecond

	return env
}

var testUserSeq uint

// registerUser creates an active account through the auth service
func (e *testEnv) registerUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Username: fmt.Sprintf("user-%d", testUserSeq),
		Email:    fmt.Sprintf("user-%d@example.com", testUserSeq),
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, e.auth.Register(e.ctx, user, "correct horse battery"))
	require.NotZero(t, user.ID)
	return user
}

// uploadDataset stores a small JSON dataset owned by the given user
func (e *testEnv) uploadDataset(t *testing.T, ownerID uint) *models.Dataset {
	t.Helper()
	content := []byte(`[
		{"input": "The plaintiff filed a suit for specific performance.", "target": "Suit for specific performance."},
		{"input": "The court dismissed the appeal with costs.", "target": "Appeal dismissed with costs."}
	]`)
	dataset, err := e.datasets.Upload(e.ctx, ownerID, "judgments", "", "judgments.json", content, false)
	require.NoError(t, err)
	return dataset
}

// startJob queues a training job for the given user and dataset
func (e *testEnv) startJob(t *testing.T, ownerID, datasetID uint) *models.TrainingJob {
	t.Helper()
	job, err := e.training.Start(e.ctx, ownerID, StartParams{
		Name:      "summarizer",
		ModelType: models.ModelTypeBART,
		Task:      models.TaskSummarization,
		DatasetID: datasetID,
	})
	require.NoError(t, err)
	return job
}
