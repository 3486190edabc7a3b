package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient implements a mock model runner for testing. Training runs
// advance to completion after a configurable number of status polls so worker
// behavior can be exercised without a live runner.
type MockClient struct {
	mu sync.RWMutex

	// PollsUntilDone is how many TrainStatus calls a run stays in the
	// training state before completing. Zero completes immediately.
	PollsUntilDone int

	// GenerateFunc overrides Generate when set
	GenerateFunc func(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// EvaluateFunc overrides Evaluate when set
	EvaluateFunc func(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error)

	// TrainErr makes every training run fail with this message when non-empty
	TrainErr string

	runs     map[string]*mockRun
	aborted  map[string]bool
	genCalls int
}

type mockRun struct {
	req   TrainRequest
	polls int
}

var _ Client = &MockClient{}

// NewMockClient creates a new mock runner client
func NewMockClient() *MockClient {
	return &MockClient{
		runs:    make(map[string]*mockRun),
		aborted: make(map[string]bool),
	}
}

// TrainRequestFor returns the request a training run was started with
func (m *MockClient) TrainRequestFor(jobID string) (TrainRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[jobID]
	if !ok {
		return TrainRequest{}, false
	}
	return run.req, true
}

// GenerateCalls returns how many generation requests the mock has served
func (m *MockClient) GenerateCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.genCalls
}

// Generate returns a canned summary unless GenerateFunc is set
func (m *MockClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	m.mu.Lock()
	m.genCalls++
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return GenerateResponse{
		Output:         "mock summary of: " + truncate(req.Text, 40),
		ProcessingTime: 0.01,
	}, nil
}

// StartTrain registers a mock training run
func (m *MockClient) StartTrain(_ context.Context, req TrainRequest) (TrainStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[req.JobID]; exists {
		return TrainStatus{}, fmt.Errorf("run %s already exists", req.JobID)
	}
	m.runs[req.JobID] = &mockRun{req: req}
	return TrainStatus{JobID: req.JobID, State: TrainStateQueued}, nil
}

// TrainStatus advances and reports a mock training run
func (m *MockClient) TrainStatus(_ context.Context, jobID string) (TrainStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[jobID]
	if !ok {
		return TrainStatus{}, fmt.Errorf("unknown run: %s", jobID)
	}

	if m.TrainErr != "" {
		return TrainStatus{JobID: jobID, State: TrainStateFailed, Error: m.TrainErr}, nil
	}
	if m.aborted[jobID] {
		return TrainStatus{JobID: jobID, State: TrainStateFailed, Error: "aborted"}, nil
	}

	run.polls++
	if run.polls <= m.PollsUntilDone {
		progress := run.polls * 100 / (m.PollsUntilDone + 1)
		return TrainStatus{JobID: jobID, State: TrainStateTraining, Progress: progress}, nil
	}

	metrics, _ := json.Marshal(map[string]float64{
		"train_loss": 0.42,
		"eval_loss":  0.57,
		"rouge1":     0.38,
	})
	return TrainStatus{
		JobID:     jobID,
		State:     TrainStateCompleted,
		Progress:  100,
		Metrics:   metrics,
		ModelPath: run.req.OutputDir,
	}, nil
}

// AbortTrain flags a mock training run as aborted
func (m *MockClient) AbortTrain(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[jobID]; !ok {
		return fmt.Errorf("unknown run: %s", jobID)
	}
	m.aborted[jobID] = true
	return nil
}

// Evaluate returns canned metrics unless EvaluateFunc is set
func (m *MockClient) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, req)
	}
	return EvaluateResponse{
		Rouge1:      0.41,
		Rouge2:      0.19,
		RougeL:      0.37,
		Bleu:        0.22,
		SampleCount: 10,
		Predictions: []string{"mock prediction one", "mock prediction two"},
		References:  []string{"reference one", "reference two"},
	}, nil
}

// Translate echoes the text with a language marker
func (m *MockClient) Translate(_ context.Context, req TranslateRequest) (TranslateResponse, error) {
	return TranslateResponse{
		TranslatedText: "[" + req.TargetLanguage + "] " + req.Text,
		ProcessingTime: 0.01,
	}, nil
}

// Transliterate echoes the text with a script marker
func (m *MockClient) Transliterate(_ context.Context, req TransliterateRequest) (TransliterateResponse, error) {
	return TransliterateResponse{
		TransliteratedText: "[" + req.TargetScript + "] " + req.Text,
	}, nil
}

// ImportFromHub pretends to pull a checkpoint
func (m *MockClient) ImportFromHub(_ context.Context, req ImportRequest) (ImportResponse, error) {
	return ImportResponse{
		ModelPath: req.OutputDir,
		SizeBytes: 1 << 20,
	}, nil
}

// Health always reports healthy
func (m *MockClient) Health(_ context.Context) (HealthResponse, error) {
	return HealthResponse{Status: "healthy", Device: "cpu"}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
