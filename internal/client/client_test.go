package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
)

const helloJSON = `[{"original_text":"Hello","detected_language":"en","detected_language_score":0.99,` +
	`"translated_text":"Hello","summary":"Greeting.","description":null}]`

func pdf() domain.Document {
	return domain.Document{ContentType: domain.ContentTypePDF, Content: []byte("%PDF-1.7")}
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()

	c, err := New(Config{Endpoint: endpoint}, nil)
	require.NoError(t, err)

	return c
}

func TestClient_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "%PDF-1.7", string(raw))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, helloJSON)
	}))
	defer server.Close()

	res, err := newTestClient(t, server.URL).Translate(context.Background(), pdf())
	require.NoError(t, err)

	assert.Equal(t, "Hello", res.OriginalText)
	assert.Equal(t, "en", res.DetectedLanguage)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "Greeting.", *res.Summary)
	assert.Nil(t, res.Description)
}

func TestClient_TranslateNoResult(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "empty array", status: http.StatusOK, body: `[]`},
		{name: "null body", status: http.StatusOK, body: `null`},
		{name: "object instead of array", status: http.StatusOK, body: `{"original_text":"Hello"}`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"Could not extract text"}`, wantMessage: "Could not extract text"},
		{name: "bad request", status: http.StatusBadRequest, body: `Unsupported file type`, wantMessage: "Unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Translate(context.Background(), pdf())
			require.ErrorIs(t, err, apperrors.ErrNoResult)

			if tt.wantMessage != "" {
				assert.Contains(t, err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestClient_TranslateValidatesLocally(t *testing.T) {
	called := false

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Translate(context.Background(), domain.Document{ContentType: domain.ContentTypePDF})
	require.ErrorIs(t, err, apperrors.ErrEmptyDocument)
	assert.False(t, called)
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestEndpointURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8080":                         "http://localhost:8080/translate",
		"http://localhost:8080/":                        "http://localhost:8080/translate",
		"https://fn.azurewebsites.net/api/translate":    "https://fn.azurewebsites.net/api/translate",
		"https://fn.azurewebsites.net/api/translate?x=": "https://fn.azurewebsites.net/api/translate?x=",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, endpointURL(in))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TRANSLATE_API_URL", "")
	t.Setenv("AZURE_FUNCTION_ENDPOINT", "https://fn.example/api/translate")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://fn.example/api/translate", cfg.Endpoint)
	assert.Equal(t, defaultTimeout, cfg.Timeout)

	t.Setenv("TRANSLATE_API_URL", "http://localhost:8080")

	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Endpoint)
}

func TestDocumentFromFile(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), 0o600))

	doc, err := DocumentFromFile(pdfPath, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypePDF, doc.ContentType)

	doc, err = DocumentFromFile(pdfPath, "image/png")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypePNG, doc.ContentType)

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("plain words"), 0o600))

	_, err = DocumentFromFile(txtPath, "")
	require.ErrorIs(t, err, apperrors.ErrUnsupportedContentType)

	emptyPath := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))

	_, err = DocumentFromFile(emptyPath, "application/pdf")
	require.ErrorIs(t, err, apperrors.ErrEmptyDocument)

	_, err = DocumentFromFile(filepath.Join(dir, "missing.pdf"), "")
	require.Error(t, err)
}
