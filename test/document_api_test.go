package test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postPDF uploads a file to the PDF processing endpoint with the client's
// bearer token. The API client does not wrap this endpoint, so the test
// speaks multipart HTTP directly.
func postPDF(t *testing.T, env *TestEnvironment, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequestWithContext(env.Context(), http.MethodPost, env.Server.URL+"/api/v1/pdf/process", &body)
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+env.APIClient.AuthToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestPDFProcessRejectsNonPDF(t *testing.T) {
	env := NewTestEnvironment(t)
	defer env.Cleanup()

	registerAndLogin(t, env, "clerk1")

	// Wrong extension is rejected before the extractor runs
	resp := postPDF(t, env, "judgment.txt", []byte("plain text"))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// A .pdf name with a non-PDF payload fails extraction
	resp = postPDF(t, env, "judgment.pdf", []byte("not really a pdf"))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPDFProcessRequiresAuth(t *testing.T) {
	env := NewTestEnvironment(t)
	defer env.Cleanup()

	req, err := http.NewRequestWithContext(env.Context(), http.MethodPost, env.Server.URL+"/api/v1/pdf/process", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
