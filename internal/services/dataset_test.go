package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/pkg/types"
)

func TestParseSamplesJSON(t *testing.T) {
	content := []byte(`[
		{"input": "long judgment text", "target": "short summary"},
		{"text": "uses the text field", "summary": "uses the summary field"},
		{"source": "no target here"}
	]`)
	samples, err := parseSamples("json", content)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, "long judgment text", samples[0].Input)
	assert.Equal(t, "short summary", samples[0].Target)
	assert.Equal(t, "uses the text field", samples[1].Input)
	assert.Equal(t, "uses the summary field", samples[1].Target)
	assert.Empty(t, samples[2].Target)

	// A sample with no recognizable input field is rejected
	_, err = parseSamples("json", []byte(`[{"target": "orphan summary"}]`))
	assert.ErrorIs(t, err, ErrDatasetInvalidSample)

	// Not a JSON array
	_, err = parseSamples("json", []byte(`{"input": "x"}`))
	assert.ErrorIs(t, err, ErrDatasetFormat)
}

func TestParseSamplesJSONL(t *testing.T) {
	content := []byte(`{"input": "first", "target": "one"}

{"input": "second", "target": "two"}
`)
	samples, err := parseSamples("jsonl", content)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "second", samples[1].Input)

	_, err = parseSamples("jsonl", []byte("{\"input\": \"ok\"}\nnot json\n"))
	assert.ErrorIs(t, err, ErrDatasetFormat)
}

func TestParseSamplesCSV(t *testing.T) {
	content := []byte("input,target\n\"the full text\",\"the summary\"\nsecond text,second summary\n")
	samples, err := parseSamples("csv", content)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "the full text", samples[0].Input)
	assert.Equal(t, "second summary", samples[1].Target)

	// No header row
	samples, err = parseSamples("csv", []byte("just text,just summary\n"))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "just text", samples[0].Input)
}

func TestParseSamplesTXT(t *testing.T) {
	content := []byte("first line\n\nsecond line\n")
	samples, err := parseSamples("txt", content)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Empty(t, samples[0].Target)
}

func TestFormatFromFilename(t *testing.T) {
	assert.Equal(t, "json", formatFromFilename("corpus.JSON"))
	assert.Equal(t, "jsonl", formatFromFilename("corpus.jsonl"))
	assert.Equal(t, "csv", formatFromFilename("corpus.csv"))
	assert.Equal(t, "txt", formatFromFilename("corpus.txt"))
	assert.Empty(t, formatFromFilename("corpus.pdf"))
	assert.Empty(t, formatFromFilename("corpus"))
}

func TestComputeStatistics(t *testing.T) {
	samples := []Sample{
		{Input: "abcd", Target: "ab"},
		{Input: "abcdef"},
		{Input: "न्यायालय ने अपील खारिज की", Target: "अपील खारिज"},
	}
	stats := computeStatistics(samples)
	assert.Equal(t, 3, stats["sample_count"])
	assert.Equal(t, 2, stats["with_target"])
	assert.Equal(t, 6, stats["avg_target_chars"])

	languages, ok := stats["languages"].(models.JSONMap)
	require.True(t, ok)
	assert.Equal(t, 2, languages["en"])
	assert.Equal(t, 1, languages["hi"])
}

func TestDatasetUploadStoresNormalizedFile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)

	content := []byte("input,target\nfull judgment,short summary\n")
	dataset, err := env.datasets.Upload(env.ctx, owner.ID, "csv-corpus", "", "corpus.csv", content, false)
	require.NoError(t, err)

	// The original format is recorded but the stored file is normalized JSON
	assert.Equal(t, models.DatasetFormatJSON, dataset.FileFormat)
	assert.Equal(t, "corpus.csv", dataset.OriginalFilename)
	assert.FileExists(t, dataset.FilePath)

	samples, err := env.datasets.Samples(env.ctx, owner.ID, dataset.ID)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "full judgment", samples[0].Input)
}

func TestDatasetUploadMergesFiles(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)

	files := []types.DatasetFile{
		{Filename: "part1.csv", Content: []byte("input,target\nfirst judgment,first summary\n")},
		{Filename: "part2.json", Content: []byte(`[{"input": "second judgment", "target": "second summary"}]`)},
	}
	dataset, err := env.datasets.UploadMerged(env.ctx, owner.ID, "merged", "", files, false)
	require.NoError(t, err)
	assert.Equal(t, "part1.csv,part2.json", dataset.OriginalFilename)

	// Samples keep their upload order across files
	samples, err := env.datasets.Samples(env.ctx, owner.ID, dataset.ID)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "first judgment", samples[0].Input)
	assert.Equal(t, "second judgment", samples[1].Input)

	// One bad file fails the whole upload
	files = append(files, types.DatasetFile{Filename: "part3.xml", Content: []byte("<xml/>")})
	_, err = env.datasets.UploadMerged(env.ctx, owner.ID, "broken", "", files, false)
	assert.ErrorIs(t, err, ErrDatasetFormat)

	_, err = env.datasets.UploadMerged(env.ctx, owner.ID, "empty", "", nil, false)
	assert.ErrorIs(t, err, ErrDatasetEmpty)
}

func TestDatasetUploadRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)

	_, err := env.datasets.Upload(env.ctx, owner.ID, "bad", "", "corpus.xml", []byte("<xml/>"), false)
	assert.ErrorIs(t, err, ErrDatasetFormat)

	_, err = env.datasets.Upload(env.ctx, owner.ID, "empty", "", "corpus.json", []byte("[]"), false)
	assert.ErrorIs(t, err, ErrDatasetEmpty)
}

func TestDatasetAccessControl(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	stranger := env.registerUser(t, models.UserRoleUser)

	dataset := env.uploadDataset(t, owner.ID)

	_, err := env.datasets.Get(env.ctx, stranger.ID, dataset.ID)
	assert.ErrorIs(t, err, ErrDatasetAccessDenied)

	// Sharing with the user grants read access
	_, err = env.datasets.Share(env.ctx, owner.ID, dataset.ID, []uint{stranger.ID}, false)
	require.NoError(t, err)

	shared, err := env.datasets.Get(env.ctx, stranger.ID, dataset.ID)
	require.NoError(t, err)
	assert.True(t, shared.IsShared)

	// Only the owner may share
	_, err = env.datasets.Share(env.ctx, stranger.ID, dataset.ID, []uint{stranger.ID}, true)
	assert.ErrorIs(t, err, ErrDatasetAccessDenied)
}

func TestDatasetDeleteRemovesFile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, models.UserRoleResearcher)
	dataset := env.uploadDataset(t, owner.ID)

	require.NoError(t, env.datasets.Delete(env.ctx, owner.ID, dataset.ID))

	_, err := os.Stat(dataset.FilePath)
	assert.True(t, os.IsNotExist(err))

	_, err = env.datasets.Get(env.ctx, owner.ID, dataset.ID)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
