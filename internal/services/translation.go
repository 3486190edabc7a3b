package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/legaltext/finetuner/internal/language"
	"github.com/legaltext/finetuner/internal/runner"
	"github.com/legaltext/finetuner/pkg/types"
)

// Translation service errors
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnknownSourceScript = errors.New("could not detect the source script")
)

// Translation provides translation and transliteration via the runner's
// multilingual models.
type Translation struct {
	runner runner.Client
}

// NewTranslationService creates a new translation service instance
func NewTranslationService(runnerClient runner.Client) *Translation {
	return &Translation{runner: runnerClient}
}

// Translate converts text between two supported languages. A source of
// "auto" is resolved by script detection before the runner is called.
func (s *Translation) Translate(ctx context.Context, text, source, target string, maxLength int) (*types.TranslateResponse, error) {
	if source == "" || source == "auto" {
		source = language.DetectLanguage(text)
	}
	if !language.IsSupported(source) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, source)
	}
	if !language.IsSupported(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}

	start := time.Now()
	resp, err := s.runner.Translate(ctx, runner.TranslateRequest{
		Text:           text,
		SourceLanguage: source,
		TargetLanguage: target,
		MaxLength:      maxLength,
	})
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	elapsed := resp.ProcessingTime
	if elapsed == 0 {
		elapsed = time.Since(start).Seconds()
	}
	return &types.TranslateResponse{
		TranslatedText: resp.TranslatedText,
		SourceLanguage: source,
		TargetLanguage: target,
		ProcessingTime: elapsed,
	}, nil
}

// TranslateBatch translates several texts into one target language. A
// failing text is reported on its item; the rest of the batch still runs.
func (s *Translation) TranslateBatch(ctx context.Context, texts []string, source, target string, maxLength int) (*types.BatchTranslateResponse, error) {
	if !language.IsSupported(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}

	start := time.Now()
	out := &types.BatchTranslateResponse{
		TargetLanguage: target,
		Results:        make([]types.BatchTranslateItemResponse, 0, len(texts)),
	}
	for i, text := range texts {
		resp, err := s.Translate(ctx, text, source, target, maxLength)
		if err != nil {
			out.Results = append(out.Results, types.BatchTranslateItemResponse{Index: i, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, types.BatchTranslateItemResponse{
			Index:          i,
			TranslatedText: resp.TranslatedText,
			SourceLanguage: resp.SourceLanguage,
		})
	}
	out.Count = len(out.Results)
	out.ProcessingTime = time.Since(start).Seconds()
	return out, nil
}

// DetectLanguage identifies the language of text by its dominant script
func (s *Translation) DetectLanguage(text string) types.DetectLanguageResponse {
	code := language.DetectLanguage(text)
	resp := types.DetectLanguageResponse{Text: text, LanguageCode: code}
	for _, l := range language.Supported() {
		if l.Code == code {
			resp.LanguageName = l.Name
			resp.Script = l.Script
			break
		}
	}
	return resp
}

// DetectScript identifies the script of text and the language it implies
func (s *Translation) DetectScript(text string) (*types.DetectScriptResponse, error) {
	script := language.DetectScript(text)
	if script == language.ScriptUnknown {
		return nil, ErrUnknownSourceScript
	}
	resp := &types.DetectScriptResponse{Text: text, Script: script}
	for _, l := range language.Supported() {
		if l.Script == script {
			resp.LanguageCode = l.Code
			resp.LanguageName = l.Name
			break
		}
	}
	return resp, nil
}

// Transliterate rewrites text from one script into another. An empty source
// script is resolved by detection.
func (s *Translation) Transliterate(ctx context.Context, text, sourceScript, targetScript string) (*types.TransliterateResponse, error) {
	if sourceScript == "" || sourceScript == "auto" {
		sourceScript = language.DetectScript(text)
		if sourceScript == language.ScriptUnknown {
			return nil, ErrUnknownSourceScript
		}
	}

	start := time.Now()
	resp, err := s.runner.Transliterate(ctx, runner.TransliterateRequest{
		Text:         text,
		SourceScript: sourceScript,
		TargetScript: targetScript,
	})
	if err != nil {
		return nil, fmt.Errorf("transliteration failed: %w", err)
	}

	return &types.TransliterateResponse{
		Text:           resp.TransliteratedText,
		SourceScript:   sourceScript,
		TargetScript:   targetScript,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// TransliterateBatch rewrites several texts into one target script. A
// failing text is reported on its item; the rest of the batch still runs.
func (s *Translation) TransliterateBatch(ctx context.Context, texts []string, sourceScript, targetScript string) (*types.BatchTransliterateResponse, error) {
	start := time.Now()
	out := &types.BatchTransliterateResponse{
		TargetScript: targetScript,
		Results:      make([]types.BatchTransliterateItemResponse, 0, len(texts)),
	}
	for i, text := range texts {
		resp, err := s.Transliterate(ctx, text, sourceScript, targetScript)
		if err != nil {
			out.Results = append(out.Results, types.BatchTransliterateItemResponse{Index: i, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, types.BatchTransliterateItemResponse{Index: i, Text: resp.Text})
	}
	out.Count = len(out.Results)
	out.ProcessingTime = time.Since(start).Seconds()
	return out, nil
}

// SupportedScripts lists the scripts transliteration accepts
func (s *Translation) SupportedScripts() []types.ScriptInfo {
	supported := language.Supported()
	out := make([]types.ScriptInfo, 0, len(supported))
	for _, l := range supported {
		out = append(out, types.ScriptInfo{Script: l.Script, LanguageCode: l.Code, LanguageName: l.Name})
	}
	return out
}

// SupportedLanguages lists the languages the translation endpoints accept
func (s *Translation) SupportedLanguages() []types.LanguageInfo {
	supported := language.Supported()
	out := make([]types.LanguageInfo, 0, len(supported))
	for _, l := range supported {
		out = append(out, types.LanguageInfo{Code: l.Code, Name: l.Name, Script: l.Script})
	}
	return out
}
