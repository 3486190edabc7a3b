package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		script string
	}{
		{"latin", "The appeal is dismissed with costs.", ScriptLatin},
		{"devanagari", "न्यायालय ने अपील खारिज कर दी", ScriptDevanagari},
		{"bengali", "আদালত আপিল খারিজ করেছে", ScriptBengali},
		{"gurmukhi", "ਅਦਾਲਤ ਨੇ ਅਪੀਲ ਖਾਰਜ ਕੀਤੀ", ScriptGurmukhi},
		{"gujarati", "અદાલતે અપીલ ફગાવી", ScriptGujarati},
		{"tamil", "மேல்முறையீடு தள்ளுபடி", ScriptTamil},
		{"telugu", "అప్పీలు కొట్టివేయబడింది", ScriptTelugu},
		{"kannada", "ಮೇಲ್ಮನವಿ ವಜಾಗೊಂಡಿದೆ", ScriptKannada},
		{"malayalam", "അപ്പീൽ തള്ളി", ScriptMalayalam},
		{"mixed_dominant_devanagari", "Section 138 न्यायालय ने अपील खारिज कर दी", ScriptDevanagari},
		{"digits_and_punctuation", "12345 !?", ScriptUnknown},
		{"empty", "", ScriptUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.script, DetectScript(tt.text))
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("The court held that the contract was void."))
	assert.Equal(t, "hi", DetectLanguage("अनुबंध शून्य घोषित किया गया"))
	assert.Equal(t, "bn", DetectLanguage("চুক্তি বাতিল ঘোষণা করা হয়েছে"))
	assert.Equal(t, "ta", DetectLanguage("ஒப்பந்தம் செல்லாதது"))
	assert.Equal(t, "und", DetectLanguage("123"))
}

func TestSupported(t *testing.T) {
	langs := Supported()
	assert.Len(t, langs, len(scriptToLang))

	codes := make(map[string]string, len(langs))
	for _, l := range langs {
		codes[l.Code] = l.Name
	}
	assert.Equal(t, "English", codes["en"])
	assert.Equal(t, "Hindi", codes["hi"])
	assert.Contains(t, codes, "or")
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("hi"))
	assert.True(t, IsSupported("ml"))
	assert.False(t, IsSupported("fr"))
	assert.False(t, IsSupported(""))
}
