package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/runner"
)

func TestEvaluationRun(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleResearcher)
	model := env.createTrainedModel(t, user.ID)
	dataset := env.uploadDataset(t, user.ID)

	eval, err := env.evaluation.Run(env.ctx, user.ID, model.ID, dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ID, eval.ModelID)
	assert.Equal(t, dataset.ID, eval.DatasetID)
	assert.Equal(t, models.TaskSummarization, eval.Task)
	assert.Equal(t, 10, eval.SampleCount)

	var results map[string]interface{}
	require.NoError(t, json.Unmarshal(eval.Results, &results))
	assert.Equal(t, 0.41, results["rouge1"])
	assert.Equal(t, 0.22, results["bleu"])

	// Example predictions are stored alongside the scores
	predictions, ok := results["predictions"].([]interface{})
	require.True(t, ok)
	require.Len(t, predictions, 2)
	assert.Equal(t, "mock prediction one", predictions[0])

	found, err := env.evaluation.Get(env.ctx, user.ID, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, eval.ID, found.ID)

	_, err = env.evaluation.Get(env.ctx, user.ID, eval.ID+99)
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestEvaluationCapsStoredPredictions(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleResearcher)
	model := env.createTrainedModel(t, user.ID)
	dataset := env.uploadDataset(t, user.ID)

	env.mock.EvaluateFunc = func(_ context.Context, _ runner.EvaluateRequest) (runner.EvaluateResponse, error) {
		preds := make([]string, 12)
		for i := range preds {
			preds[i] = fmt.Sprintf("prediction %d", i)
		}
		return runner.EvaluateResponse{Rouge1: 0.3, SampleCount: 12, Predictions: preds}, nil
	}

	eval, err := env.evaluation.Run(env.ctx, user.ID, model.ID, dataset.ID)
	require.NoError(t, err)

	var results map[string]interface{}
	require.NoError(t, json.Unmarshal(eval.Results, &results))
	predictions, ok := results["predictions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, predictions, maxStoredPredictions)
}

func TestEvaluationRunRequiresAccess(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	stranger := env.registerUser(t, models.UserRoleResearcher)
	model := env.createTrainedModel(t, owner.ID)
	dataset := env.uploadDataset(t, owner.ID)

	_, err := env.evaluation.Run(env.ctx, stranger.ID, model.ID, dataset.ID)
	assert.ErrorIs(t, err, ErrModelAccessDenied)
}

func TestEvaluationRunnerFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleResearcher)
	model := env.createTrainedModel(t, user.ID)
	dataset := env.uploadDataset(t, user.ID)

	env.mock.EvaluateFunc = func(_ context.Context, _ runner.EvaluateRequest) (runner.EvaluateResponse, error) {
		return runner.EvaluateResponse{}, errors.New("runner crashed")
	}

	_, err := env.evaluation.Run(env.ctx, user.ID, model.ID, dataset.ID)
	assert.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestEvaluationCompare(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleResearcher)
	first := env.createTrainedModel(t, user.ID)

	second := &models.TrainedModel{
		OwnerID:   user.ID,
		Name:      "pegasus-summarizer",
		ModelType: models.ModelTypePEGASUS,
		Task:      models.TaskSummarization,
		ModelPath: "models/pegasus-compare",
	}
	require.NoError(t, env.modelRepo.Create(env.ctx, second))

	dataset := env.uploadDataset(t, user.ID)

	evals, err := env.evaluation.Compare(env.ctx, user.ID, []uint{first.ID, second.ID}, dataset.ID)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, first.ID, evals[0].ModelID)
	assert.Equal(t, second.ID, evals[1].ModelID)

	// One inaccessible model fails the whole compare
	_, err = env.evaluation.Compare(env.ctx, user.ID, []uint{first.ID, second.ID + 99}, dataset.ID)
	assert.ErrorIs(t, err, ErrModelNotFound)
}
