package services

import (
	"context"
	"errors"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/pkg/types"
)

// User service errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserCreateFailed = errors.New("failed to create user")
)

// User provides business logic for user operations
type User struct {
	repo       *repos.UserRepository
	datasets   *repos.DatasetRepository
	jobs       *repos.TrainingJobRepository
	models     *repos.TrainedModelRepository
	inferences *repos.InferenceRepository
}

// NewUserService creates a new user service instance
func NewUserService(repo *repos.UserRepository, datasets *repos.DatasetRepository, jobs *repos.TrainingJobRepository, trained *repos.TrainedModelRepository, inferences *repos.InferenceRepository) *User {
	return &User{
		repo:       repo,
		datasets:   datasets,
		jobs:       jobs,
		models:     trained,
		inferences: inferences,
	}
}

// GetUserByID retrieves a user by id
func (s *User) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (s *User) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	return user, nil
}

// GetAllUsers retrieves users with pagination and optional search
func (s *User) GetAllUsers(ctx context.Context, opts *models.ListOptions) ([]models.User, int64, error) {
	users, err := s.repo.GetUsers(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile updates the caller-editable fields of a user
func (s *User) UpdateProfile(ctx context.Context, userID uint, fullName, organization *string, preferences models.JSONMap) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if organization != nil {
		user.Organization = *organization
	}
	if preferences != nil {
		user.Preferences = preferences
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRoleAndStatus updates a user's role and account status. Admin only,
// enforced at the handler layer.
func (s *User) SetRoleAndStatus(ctx context.Context, userID uint, role *models.UserRole, status *models.UserStatus) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	if role != nil {
		user.Role = *role
	}
	if status != nil {
		user.Status = *status
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user account
func (s *User) DeleteUser(ctx context.Context, userID uint) error {
	return s.repo.DeleteUser(ctx, userID)
}

// Stats aggregates a user's activity counters for the dashboard endpoint
func (s *User) Stats(ctx context.Context, userID uint) (*types.UserStatsResponse, error) {
	datasets, err := s.datasets.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.CountByOwner(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	trained, err := s.models.CountByOwner(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	inferences, err := s.inferences.CountByOwner(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return &types.UserStatsResponse{
		Datasets:   datasets,
		Jobs:       jobs,
		Models:     trained,
		Inferences: inferences,
	}, nil
}
