// Package pdfext extracts plain text from PDF documents.
package pdfext

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extraction errors
var (
	ErrNotPDF  = errors.New("file is not a valid PDF document")
	ErrNoPages = errors.New("document contains no pages")
)

// Result holds the extracted text and basic document statistics
type Result struct {
	Text      string
	PageCount int
	CharCount int
}

// Extract reads text from a PDF held in memory. Pages that cannot be
// decoded are skipped rather than failing the whole document, which is
// common with scanned legal filings that mix text and image pages.
func Extract(content []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, errors.Join(ErrNotPDF, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	return &Result{
		Text:      text,
		PageCount: numPages,
		CharCount: len([]rune(text)),
	}, nil
}
