package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// uploadApp mounts the upload handler behind a stub auth layer. The rejection
// paths under test never reach the document service.
func uploadApp(userID string) *fiber.App {
	h := NewDocumentHandler(nil, nil, zap.NewNop())
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("userID", userID)
		}
		return h.Upload(c)
	})
	return app
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUpload_RejectsUnauthenticated(t *testing.T) {
	app := uploadApp("")

	body, contentType := multipartBody(t, "file", "doc.pdf", "application/pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpload_RejectsMissingFile(t *testing.T) {
	app := uploadApp(uuid.NewString())

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_RejectsUnsupportedContentType(t *testing.T) {
	app := uploadApp(uuid.NewString())

	body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_AcceptedContentTypes(t *testing.T) {
	for contentType, allowed := range allowedContentTypes {
		assert.True(t, allowed, contentType)
	}
	assert.Len(t, allowedContentTypes, 4)
	assert.False(t, allowedContentTypes["text/plain"])
	assert.False(t, allowedContentTypes["application/zip"])
}

func TestGet_RejectsMalformedID(t *testing.T) {
	h := NewDocumentHandler(nil, nil, zap.NewNop())
	app := fiber.New()
	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		c.Locals("userID", uuid.NewString())
		return h.Get(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatus_RejectsMalformedID(t *testing.T) {
	h := NewDocumentHandler(nil, nil, zap.NewNop())
	app := fiber.New()
	app.Get("/documents/:id/status", func(c *fiber.Ctx) error {
		c.Locals("userID", uuid.NewString())
		return h.Status(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/nope/status", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
