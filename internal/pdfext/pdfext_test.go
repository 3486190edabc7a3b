package pdfext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := Extract([]byte("this is plain text, not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = Extract(nil)
	assert.ErrorIs(t, err, ErrNotPDF)

	// A PDF header alone is not a parseable document
	_, err = Extract([]byte("%PDF-1.7\n"))
	assert.ErrorIs(t, err, ErrNotPDF)
}
