// Package language provides script and language detection for the Indic
// scripts and Latin text handled by the translation and transliteration
// endpoints. Detection is based on Unicode script ranges and is intended
// for routing requests, not for linguistic analysis.
package language

import (
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Script names as used in transliteration requests
const (
	ScriptLatin      = "latin"
	ScriptDevanagari = "devanagari"
	ScriptBengali    = "bengali"
	ScriptGurmukhi   = "gurmukhi"
	ScriptGujarati   = "gujarati"
	ScriptOriya      = "oriya"
	ScriptTamil      = "tamil"
	ScriptTelugu     = "telugu"
	ScriptKannada    = "kannada"
	ScriptMalayalam  = "malayalam"
	ScriptUnknown    = "unknown"
)

var scriptTables = []struct {
	name  string
	table *unicode.RangeTable
}{
	{ScriptDevanagari, unicode.Devanagari},
	{ScriptBengali, unicode.Bengali},
	{ScriptGurmukhi, unicode.Gurmukhi},
	{ScriptGujarati, unicode.Gujarati},
	{ScriptOriya, unicode.Oriya},
	{ScriptTamil, unicode.Tamil},
	{ScriptTelugu, unicode.Telugu},
	{ScriptKannada, unicode.Kannada},
	{ScriptMalayalam, unicode.Malayalam},
	{ScriptLatin, unicode.Latin},
}

// scriptToLang maps a detected script to the most common language tag
// written in it. Devanagari is ambiguous (Hindi, Marathi, Nepali); Hindi
// is by far the most frequent in the legal corpora this service targets.
var scriptToLang = map[string]language.Tag{
	ScriptLatin:      language.English,
	ScriptDevanagari: language.Hindi,
	ScriptBengali:    language.Bengali,
	ScriptGurmukhi:   language.Punjabi,
	ScriptGujarati:   language.Gujarati,
	ScriptTamil:      language.Tamil,
	ScriptTelugu:     language.Telugu,
	ScriptKannada:    language.Kannada,
	ScriptMalayalam:  language.Malayalam,
	ScriptOriya:      language.MustParse("or"),
}

// DetectScript returns the dominant script of text. Characters outside
// the known tables (digits, punctuation, whitespace) are ignored. Returns
// ScriptUnknown when no scored character is found.
func DetectScript(text string) string {
	counts := make(map[string]int, len(scriptTables))
	for _, r := range text {
		for _, s := range scriptTables {
			if unicode.Is(s.table, r) {
				counts[s.name]++
				break
			}
		}
	}

	best := ScriptUnknown
	bestCount := 0
	for name, count := range counts {
		if count > bestCount {
			best = name
			bestCount = count
		}
	}
	return best
}

// DetectLanguage returns the BCP 47 code of the most likely language of
// text, based on its dominant script. Returns "und" when the script is
// not recognized.
func DetectLanguage(text string) string {
	tag, ok := scriptToLang[DetectScript(text)]
	if !ok {
		return "und"
	}
	return tag.String()
}

// Supported returns the languages the translation endpoints accept, with
// English display names.
func Supported() []Language {
	out := make([]Language, 0, len(scriptToLang))
	for _, s := range scriptTables {
		tag, ok := scriptToLang[s.name]
		if !ok {
			continue
		}
		out = append(out, Language{
			Code:   tag.String(),
			Name:   display.English.Tags().Name(tag),
			Script: s.name,
		})
	}
	return out
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	for _, tag := range scriptToLang {
		if tag.String() == code {
			return true
		}
	}
	return false
}

// Language describes one supported language
type Language struct {
	Code   string
	Name   string
	Script string
}
