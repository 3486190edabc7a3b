package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/internal/pdfext"
)

func TestDocumentProcessRecordsFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	_, _, err := env.documents.Process(env.ctx, user.ID, "scan.pdf", []byte("not a pdf"))
	assert.ErrorIs(t, err, pdfext.ErrNotPDF)

	// The failed extraction is still visible in the history
	docs, err := env.documents.History(env.ctx, user.ID, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentStatusFailed, docs[0].Status)
	assert.Equal(t, "scan.pdf", docs[0].OriginalFilename)
	assert.NotEmpty(t, docs[0].ErrorMsg)
}

func TestDocumentGet(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, models.UserRoleUser)

	// Seed a completed extraction with its text on disk
	dir := filepath.Join(env.cfg.DataDir, "texts")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	textPath := filepath.Join(dir, "seeded.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("extracted judgment text"), 0o644))

	doc := &models.ProcessedDocument{
		OwnerID:          user.ID,
		ProcessID:        "seeded-process",
		OriginalFilename: "judgment.pdf",
		PageCount:        3,
		CharCount:        23,
		TextPath:         textPath,
		Status:           models.DocumentStatusCompleted,
	}
	require.NoError(t, env.docRepo.Create(env.ctx, doc))

	found, text, err := env.documents.Get(env.ctx, user.ID, "seeded-process")
	require.NoError(t, err)
	assert.Equal(t, 3, found.PageCount)
	assert.Equal(t, "extracted judgment text", text)

	// A missing text file degrades to an empty string, not an error
	require.NoError(t, os.Remove(textPath))
	found, text, err = env.documents.Get(env.ctx, user.ID, "seeded-process")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, models.DocumentStatusCompleted, found.Status)

	_, _, err = env.documents.Get(env.ctx, user.ID, "no-such-process")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
