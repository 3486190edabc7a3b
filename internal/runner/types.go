// Package runner is the client for the external model-runner service that
// hosts the pretrained BART / PEGASUS / multilingual T5 checkpoints. All
// sequence-to-sequence work happens there; this package only speaks JSON over
// HTTP to it.
package runner

import "encoding/json"

// GenerateRequest asks the runner to produce a summary / simplification for
// one input text with the given decoding parameters.
type GenerateRequest struct {
	ModelPath   string  `json:"model_path"`
	ModelType   string  `json:"model_type"`
	Task        string  `json:"task"`
	Text        string  `json:"text"`
	MaxLength   int     `json:"max_length,omitempty"`
	NumBeams    int     `json:"num_beams,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	DoSample    bool    `json:"do_sample,omitempty"`
	Language    string  `json:"language,omitempty"`
}

// GenerateResponse is the runner's answer to a generation request.
type GenerateResponse struct {
	Output         string  `json:"output"`
	ProcessingTime float64 `json:"processing_time"`
}

// TrainRequest asks the runner to fine-tune a base checkpoint on a dataset.
type TrainRequest struct {
	JobID       string          `json:"job_id"`
	ModelType   string          `json:"model_type"`
	Task        string          `json:"task"`
	DatasetPath string          `json:"dataset_path"`
	OutputDir   string          `json:"output_dir"`
	Config      json.RawMessage `json:"config,omitempty"`
	Languages   []string        `json:"languages,omitempty"`
}

// TrainStatus reports the runner-side progress of a training run.
type TrainStatus struct {
	JobID     string          `json:"job_id"`
	State     string          `json:"state"` // queued, training, completed, failed
	Progress  int             `json:"progress"`
	Epoch     int             `json:"epoch,omitempty"`
	Metrics   json.RawMessage `json:"metrics,omitempty"`
	ModelPath string          `json:"model_path,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Runner train states
const (
	// TrainStateQueued means the runner accepted but has not started the run
	TrainStateQueued = "queued"
	// TrainStateTraining means the run is in progress
	TrainStateTraining = "training"
	// TrainStateCompleted means the run finished and the checkpoint is saved
	TrainStateCompleted = "completed"
	// TrainStateFailed means the run errored
	TrainStateFailed = "failed"
)

// EvaluateRequest asks the runner to score a checkpoint against a dataset.
type EvaluateRequest struct {
	ModelPath   string `json:"model_path"`
	ModelType   string `json:"model_type"`
	Task        string `json:"task"`
	DatasetPath string `json:"dataset_path"`
}

// EvaluateResponse carries ROUGE/BLEU metrics computed by the runner.
type EvaluateResponse struct {
	Rouge1      float64  `json:"rouge1"`
	Rouge2      float64  `json:"rouge2"`
	RougeL      float64  `json:"rougeL"`
	Bleu        float64  `json:"bleu"`
	SampleCount int      `json:"sample_count"`
	Predictions []string `json:"predictions,omitempty"`
	References  []string `json:"references,omitempty"`
}

// TranslateRequest asks the runner's multilingual model for a translation.
type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	MaxLength      int    `json:"max_length,omitempty"`
}

// TranslateResponse is the runner's answer to a translation request.
type TranslateResponse struct {
	TranslatedText string  `json:"translated_text"`
	ProcessingTime float64 `json:"processing_time"`
}

// TransliterateRequest asks the runner to transliterate text between scripts.
type TransliterateRequest struct {
	Text         string `json:"text"`
	SourceScript string `json:"source_script"`
	TargetScript string `json:"target_script"`
}

// TransliterateResponse is the runner's answer to a transliteration request.
type TransliterateResponse struct {
	TransliteratedText string `json:"transliterated_text"`
}

// ImportRequest asks the runner to pull a pretrained checkpoint from the
// model hub into local storage.
type ImportRequest struct {
	HubID     string `json:"hub_id"`
	ModelType string `json:"model_type"`
	OutputDir string `json:"output_dir"`
}

// ImportResponse reports the imported checkpoint location.
type ImportResponse struct {
	ModelPath string `json:"model_path"`
	SizeBytes int64  `json:"size_bytes"`
}

// HealthResponse is the runner's health report.
type HealthResponse struct {
	Status       string `json:"status"`
	Device       string `json:"device,omitempty"`
	LoadedModels int    `json:"loaded_models,omitempty"`
}
