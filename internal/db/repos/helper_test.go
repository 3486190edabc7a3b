package repos

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/legaltext/finetuner/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db            *gorm.DB
	ctx           context.Context
	userRepo      *UserRepository
	tokenRepo     *TokenRepository
	apiKeyRepo    *APIKeyRepository
	datasetRepo   *DatasetRepository
	jobRepo       *TrainingJobRepository
	modelRepo     *TrainedModelRepository
	inferenceRepo *InferenceRepository
	evalRepo      *EvaluationRepository
	documentRepo  *DocumentRepository
}

// randomOwnerID creates a random owner ID using crypto/rand
func (s *DBRepositoryTestSuite) randomOwnerID() uint {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	s.Require().NoError(err, "Failed to generate random owner ID")
	return uint(n.Uint64() + 1) // +1 to avoid 0
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		DryRun:                                   false,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
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
	require.NoError(s.T(), err, "Failed to run database migrations")

	// Initialize repositories
	s.db = db
	s.userRepo = NewUserRepository(s.db)
	s.tokenRepo = NewTokenRepository(s.db)
	s.apiKeyRepo = NewAPIKeyRepository(s.db)
	s.datasetRepo = NewDatasetRepository(s.db)
	s.jobRepo = NewTrainingJobRepository(s.db)
	s.modelRepo = NewTrainedModelRepository(s.db)
	s.inferenceRepo = NewInferenceRepository(s.db)
	s.evalRepo = NewEvaluationRepository(s.db)
	s.documentRepo = NewDocumentRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) randomUser() *models.User {
	id := s.randomOwnerID()
	return &models.User{
		Username:       fmt.Sprintf("test-user-%d", id),
		Email:          fmt.Sprintf("test-%d@example.com", id),
		HashedPassword: "not-a-real-hash",
		Role:           models.UserRoleUser,
		Status:         models.UserStatusActive,
	}
}

func (s *DBRepositoryTestSuite) createTestUser() *models.User {
	user := s.randomUser()
	err := s.userRepo.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	s.Require().NotZero(user.ID)
	return user
}

func (s *DBRepositoryTestSuite) createTestDataset(ownerID uint) *models.Dataset {
	dataset := &models.Dataset{
		OwnerID:    ownerID,
		Name:       "test-dataset",
		FilePath:   fmt.Sprintf("uploads/%d/test.json", ownerID),
		FileSize:   1024,
		FileFormat: "json",
	}
	err := s.datasetRepo.Create(s.ctx, dataset)
	s.Require().NoError(err)
	s.Require().NotZero(dataset.ID)
	return dataset
}

func (s *DBRepositoryTestSuite) createTestJob(ownerID uint) *models.TrainingJob {
	job := &models.TrainingJob{
		OwnerID:   ownerID,
		JobID:     fmt.Sprintf("job-%d-%d", ownerID, time.Now().UnixNano()),
		Name:      "test-job",
		ModelType: models.ModelTypeBART,
		Task:      models.TaskSummarization,
		DatasetID: 1,
		Status:    models.JobStatusPending,
	}
	err := s.jobRepo.Create(s.ctx, job)
	s.Require().NoError(err)
	s.Require().NotZero(job.ID)
	return job
}

func (s *DBRepositoryTestSuite) createTestModel(ownerID uint) *models.TrainedModel {
	model := &models.TrainedModel{
		OwnerID:   ownerID,
		Name:      "test-model",
		ModelType: models.ModelTypeBART,
		Task:      models.TaskSummarization,
		BaseModel: "facebook/bart-large-cnn",
		ModelPath: fmt.Sprintf("models/%d-%d", ownerID, time.Now().UnixNano()),
	}
	err := s.modelRepo.Create(s.ctx, model)
	s.Require().NoError(err)
	s.Require().NotZero(model.ID)
	return model
}
