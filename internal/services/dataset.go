package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/db/repos"
	"github.com/legaltext/finetuner/internal/language"
	"github.com/legaltext/finetuner/internal/logger"
	"github.com/legaltext/finetuner/pkg/types"
)

// Dataset service errors
var (
	ErrDatasetNotFound      = errors.New("dataset not found")
	ErrDatasetAccessDenied  = errors.New("dataset is not accessible")
	ErrDatasetEmpty         = errors.New("dataset contains no samples")
	ErrDatasetFormat        = errors.New("unsupported dataset format")
	ErrDatasetInvalidSample = errors.New("dataset sample is missing required fields")
)

// MaxDatasetSize caps uploads at 50 MiB, matching the API body limit
const MaxDatasetSize = 50 << 20

// Sample is one input/target pair of a fine-tuning corpus
type Sample struct {
	Input  string `json:"input"`
	Target string `json:"target"`
}

// Dataset provides business logic for dataset operations
type Dataset struct {
	repo *repos.DatasetRepository
	cfg  *config.Config
}

// NewDatasetService creates a new dataset service instance
func NewDatasetService(repo *repos.DatasetRepository, cfg *config.Config) *Dataset {
	return &Dataset{repo: repo, cfg: cfg}
}

// Upload validates, stores and registers a single uploaded corpus file
func (s *Dataset) Upload(ctx context.Context, ownerID uint, name, description, filename string, content []byte, isPublic bool) (*models.Dataset, error) {
	return s.UploadMerged(ctx, ownerID, name, description, []types.DatasetFile{{Filename: filename, Content: content}}, isPublic)
}

// UploadMerged validates, stores and registers an uploaded corpus. Samples
// from all files are merged in upload order, and the result is normalized to
// a JSON array so training and evaluation never have to care about the
// original formats.
func (s *Dataset) UploadMerged(ctx context.Context, ownerID uint, name, description string, files []types.DatasetFile, isPublic bool) (*models.Dataset, error) {
	if len(files) == 0 {
		return nil, ErrDatasetEmpty
	}

	var samples []Sample
	filenames := make([]string, 0, len(files))
	for _, file := range files {
		format := formatFromFilename(file.Filename)
		if format == "" {
			return nil, fmt.Errorf("%w: %s", ErrDatasetFormat, filepath.Ext(file.Filename))
		}
		parsed, err := parseSamples(format, file.Content)
		if err != nil {
			return nil, err
		}
		samples = append(samples, parsed...)
		filenames = append(filenames, file.Filename)
	}
	if len(samples) == 0 {
		return nil, ErrDatasetEmpty
	}

	normalized, err := json.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}

	dir := filepath.Join(s.cfg.DataDir, "uploads", fmt.Sprintf("%d", ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".json")
	if err := os.WriteFile(path, normalized, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store dataset file: %w", err)
	}

	dataset := &models.Dataset{
		OwnerID:          ownerID,
		Name:             name,
		Description:      description,
		FilePath:         path,
		FileSize:         int64(len(normalized)),
		FileFormat:       models.DatasetFormatJSON,
		OriginalFilename: strings.Join(filenames, ","),
		Statistics:       computeStatistics(samples),
		IsPublic:         isPublic,
	}
	if err := s.repo.Create(ctx, dataset); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warnf("failed to remove orphaned dataset file %s: %v", path, rmErr)
		}
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}
	return dataset, nil
}

// Get returns a dataset if the user may read it
func (s *Dataset) Get(ctx context.Context, userID, id uint) (*models.Dataset, error) {
	dataset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrDatasetNotFound, err)
	}
	if !dataset.AccessibleBy(userID) {
		return nil, ErrDatasetAccessDenied
	}
	return dataset, nil
}

// List returns the user's datasets with a total for pagination
func (s *Dataset) List(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.Dataset, int64, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListPublic returns datasets shared with everyone
func (s *Dataset) ListPublic(ctx context.Context, opts *models.ListOptions) ([]models.Dataset, error) {
	return s.repo.ListPublic(ctx, opts)
}

// Share grants read access on a dataset to specific users or marks it public
func (s *Dataset) Share(ctx context.Context, ownerID, id uint, userIDs []uint, makePublic bool) (*models.Dataset, error) {
	dataset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrDatasetNotFound, err)
	}
	if dataset.OwnerID != ownerID && ownerID != models.AdminID {
		return nil, ErrDatasetAccessDenied
	}

	if makePublic {
		dataset.IsPublic = true
	}
	for _, uid := range userIDs {
		if !dataset.SharedWith.Contains(uid) {
			dataset.SharedWith = append(dataset.SharedWith, uid)
		}
	}
	dataset.IsShared = len(dataset.SharedWith) > 0

	if err := s.repo.Update(ctx, dataset.OwnerID, dataset); err != nil {
		return nil, err
	}
	return dataset, nil
}

// Delete removes a dataset record and its stored file
func (s *Dataset) Delete(ctx context.Context, ownerID, id uint) error {
	dataset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.Join(ErrDatasetNotFound, err)
	}
	if dataset.OwnerID != ownerID && ownerID != models.AdminID {
		return ErrDatasetAccessDenied
	}
	if err := s.repo.Delete(ctx, dataset.OwnerID, id); err != nil {
		return err
	}
	if err := os.Remove(dataset.FilePath); err != nil && !os.IsNotExist(err) {
		logger.Warnf("failed to remove dataset file %s: %v", dataset.FilePath, err)
	}
	return nil
}

// Samples loads the normalized samples of a stored dataset
func (s *Dataset) Samples(ctx context.Context, userID, id uint) ([]Sample, error) {
	dataset, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(dataset.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	var samples []Sample
	if err := json.Unmarshal(content, &samples); err != nil {
		return nil, fmt.Errorf("failed to decode dataset file: %w", err)
	}
	return samples, nil
}

func formatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".jsonl":
		return "jsonl"
	case ".csv":
		return "csv"
	case ".txt":
		return "txt"
	default:
		return ""
	}
}

// parseSamples decodes an uploaded file into input/target pairs. JSON and
// JSONL objects may use input/text/source and target/summary/output as field
// names; CSV expects the first two columns to be input and target; TXT treats
// each line as an input with no target.
func parseSamples(format string, content []byte) ([]Sample, error) {
	switch format {
	case "json":
		var raw []map[string]interface{}
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetFormat, err)
		}
		return samplesFromMaps(raw)
	case "jsonl":
		var raw []map[string]interface{}
		for i, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrDatasetFormat, i+1, err)
			}
			raw = append(raw, obj)
		}
		return samplesFromMaps(raw)
	case "csv":
		reader := csv.NewReader(strings.NewReader(string(content)))
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetFormat, err)
		}
		var samples []Sample
		for i, record := range records {
			if i == 0 && looksLikeHeader(record) {
				continue
			}
			if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
				continue
			}
			sample := Sample{Input: record[0]}
			if len(record) > 1 {
				sample.Target = record[1]
			}
			samples = append(samples, sample)
		}
		return samples, nil
	case "txt":
		var samples []Sample
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			samples = append(samples, Sample{Input: line})
		}
		return samples, nil
	default:
		return nil, ErrDatasetFormat
	}
}

var (
	inputFieldNames  = []string{"input", "text", "source", "document"}
	targetFieldNames = []string{"target", "summary", "output", "simplified", "translation"}
)

func samplesFromMaps(raw []map[string]interface{}) ([]Sample, error) {
	samples := make([]Sample, 0, len(raw))
	for i, obj := range raw {
		input := firstStringField(obj, inputFieldNames)
		if input == "" {
			return nil, fmt.Errorf("%w: sample %d", ErrDatasetInvalidSample, i)
		}
		samples = append(samples, Sample{
			Input:  input,
			Target: firstStringField(obj, targetFieldNames),
		})
	}
	return samples, nil
}

func firstStringField(obj map[string]interface{}, names []string) string {
	for _, name := range names {
		if v, ok := obj[name].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	for _, name := range inputFieldNames {
		if first == name {
			return true
		}
	}
	return false
}

// computeStatistics summarises a corpus: counts, average lengths in runes,
// and the distribution of detected languages across a sample of inputs.
func computeStatistics(samples []Sample) models.JSONMap {
	var inputTotal, targetTotal, withTarget int
	langCounts := map[string]int{}

	// Language detection on every sample is wasteful for large corpora
	const detectLimit = 200

	for i, sample := range samples {
		inputTotal += len([]rune(sample.Input))
		if sample.Target != "" {
			withTarget++
			targetTotal += len([]rune(sample.Target))
		}
		if i < detectLimit {
			langCounts[language.DetectLanguage(sample.Input)]++
		}
	}

	stats := models.JSONMap{
		"sample_count":     len(samples),
		"with_target":      withTarget,
		"avg_input_chars":  inputTotal / len(samples),
		"avg_target_chars": 0,
	}
	if withTarget > 0 {
		stats["avg_target_chars"] = targetTotal / withTarget
	}

	languages := models.JSONMap{}
	for code, count := range langCounts {
		languages[code] = count
	}
	stats["languages"] = languages
	return stats
}
