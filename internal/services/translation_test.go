package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/language"
)

func TestTranslateAutoDetectsSource(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.translation.Translate(env.ctx, "न्यायालय ने अपील खारिज कर दी", "auto", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.SourceLanguage)
	assert.Equal(t, "en", resp.TargetLanguage)
	assert.Contains(t, resp.TranslatedText, "[en]")

	// Explicit source skips detection
	resp, err = env.translation.Translate(env.ctx, "The appeal is dismissed.", "en", "ta", 0)
	require.NoError(t, err)
	assert.Equal(t, "en", resp.SourceLanguage)
}

func TestTranslateRejectsUnsupportedLanguage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.translation.Translate(env.ctx, "bonjour", "fr", "en", 0)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = env.translation.Translate(env.ctx, "hello", "en", "fr", 0)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	// Undetectable text cannot be auto-routed
	_, err = env.translation.Translate(env.ctx, "12345", "auto", "en", 0)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestTranslateBatch(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.translation.TranslateBatch(env.ctx, []string{
		"The appeal is dismissed.",
		"12345",
		"न्यायालय ने अपील खारिज कर दी",
	}, "auto", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, "en", resp.TargetLanguage)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "[en] The appeal is dismissed.", resp.Results[0].TranslatedText)
	assert.Equal(t, "en", resp.Results[0].SourceLanguage)

	// An undetectable item fails alone without failing the batch
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, 1, resp.Results[1].Index)

	assert.Equal(t, "hi", resp.Results[2].SourceLanguage)

	_, err = env.translation.TranslateBatch(env.ctx, []string{"hello"}, "en", "fr", 0)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestDetectLanguage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.translation.DetectLanguage("न्यायालय ने अपील खारिज कर दी")
	assert.Equal(t, "hi", resp.LanguageCode)
	assert.Equal(t, language.ScriptDevanagari, resp.Script)
	assert.NotEmpty(t, resp.LanguageName)
}

func TestDetectScript(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.translation.DetectScript("न्यायालय")
	require.NoError(t, err)
	assert.Equal(t, language.ScriptDevanagari, resp.Script)
	assert.Equal(t, "hi", resp.LanguageCode)

	_, err = env.translation.DetectScript("12345")
	assert.ErrorIs(t, err, ErrUnknownSourceScript)
}

func TestTransliterate(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.translation.Transliterate(env.ctx, "न्यायालय", "", language.ScriptLatin)
	require.NoError(t, err)
	assert.Equal(t, language.ScriptDevanagari, resp.SourceScript)
	assert.Equal(t, language.ScriptLatin, resp.TargetScript)
	assert.Contains(t, resp.Text, "[latin]")

	_, err = env.translation.Transliterate(env.ctx, "12345", "", language.ScriptLatin)
	assert.ErrorIs(t, err, ErrUnknownSourceScript)
}

func TestTransliterateBatch(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.translation.TransliterateBatch(env.ctx, []string{"न्यायालय", "12345"}, "", language.ScriptLatin)
	require.NoError(t, err)
	assert.Equal(t, language.ScriptLatin, resp.TargetScript)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Contains(t, resp.Results[0].Text, "[latin]")
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestSupportedScripts(t *testing.T) {
	env := newTestEnv(t)

	scripts := env.translation.SupportedScripts()
	require.NotEmpty(t, scripts)

	seen := map[string]bool{}
	for _, s := range scripts {
		assert.NotEmpty(t, s.Script)
		assert.NotEmpty(t, s.LanguageCode)
		seen[s.Script] = true
	}
	assert.True(t, seen[language.ScriptDevanagari])
	assert.True(t, seen[language.ScriptLatin])
}

func TestSupportedLanguages(t *testing.T) {
	env := newTestEnv(t)

	langs := env.translation.SupportedLanguages()
	require.NotEmpty(t, langs)

	seen := map[string]bool{}
	for _, l := range langs {
		assert.NotEmpty(t, l.Code)
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Script)
		seen[l.Code] = true
	}
	assert.True(t, seen["en"])
	assert.True(t, seen["hi"])
	assert.True(t, seen["ta"])
}
