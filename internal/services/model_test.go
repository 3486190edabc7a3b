package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
)

func TestModelGetAccessControl(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleUser)
	stranger := env.registerUser(t, models.UserRoleUser)
	model := env.createTrainedModel(t, owner.ID)

	found, err := env.modelSvc.Get(env.ctx, owner.ID, model.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ID, found.ID)

	_, err = env.modelSvc.Get(env.ctx, stranger.ID, model.ID)
	assert.ErrorIs(t, err, ErrModelAccessDenied)

	_, err = env.modelSvc.Get(env.ctx, owner.ID, model.ID+99)
	assert.ErrorIs(t, err, ErrModelNotFound)

	// Public models are readable by anyone
	model.IsPublic = true
	require.NoError(t, env.db.Save(model).Error)
	_, err = env.modelSvc.Get(env.ctx, stranger.ID, model.ID)
	assert.NoError(t, err)
}

func TestModelListFilters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleUser)
	env.createTrainedModel(t, owner.ID)

	mt5 := &models.TrainedModel{
		OwnerID:   owner.ID,
		Name:      "translator",
		ModelType: models.ModelTypeMultilingual,
		Task:      models.TaskTranslation,
		ModelPath: "models/list-filter-mt5",
	}
	require.NoError(t, env.modelRepo.Create(env.ctx, mt5))

	all, total, err := env.modelSvc.List(env.ctx, owner.ID, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)

	translation, total, err := env.modelSvc.List(env.ctx, owner.ID, "", models.TaskTranslation, nil)
	require.NoError(t, err)
	require.Len(t, translation, 1)
	assert.Equal(t, mt5.ID, translation[0].ID)
	assert.Equal(t, int64(1), total)
}

func TestModelDelete(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleUser)
	stranger := env.registerUser(t, models.UserRoleUser)
	model := env.createTrainedModel(t, owner.ID)

	err := env.modelSvc.Delete(env.ctx, stranger.ID, model.ID)
	assert.ErrorIs(t, err, ErrModelAccessDenied)

	require.NoError(t, env.modelSvc.Delete(env.ctx, owner.ID, model.ID))

	_, err = env.modelSvc.Get(env.ctx, owner.ID, model.ID)
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestModelImport(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)

	model, err := env.modelSvc.Import(env.ctx, owner.ID, "stock-pegasus", "google/pegasus-xsum",
		models.ModelTypePEGASUS, models.TaskSummarization)
	require.NoError(t, err)
	assert.Equal(t, "google/pegasus-xsum", model.BaseModel)
	assert.Equal(t, "models/imported", model.ModelPath)
	assert.Equal(t, true, model.Metadata["imported"])
	assert.Equal(t, "google/pegasus-xsum", model.Metadata["hub_id"])
}
