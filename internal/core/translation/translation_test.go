package translation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/core/llm"
	"github.com/lueurxax/document-translator/internal/platform/config"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Name() llm.ProviderName {
	return llm.ProviderMock
}

func (m *mockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)

	return args.String(0), args.Error(1)
}

func newAzureServer(t *testing.T, status int, body string) (*httptest.Server, *[]azureTextItem) {
	t.Helper()

	var captured []azureTextItem

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, azureTranslatePath, r.URL.Path)
		assert.Equal(t, "3.0", r.URL.Query().Get("api-version"))
		assert.Equal(t, "fr", r.URL.Query().Get("to"))
		assert.Equal(t, "tr-key", r.Header.Get(headerSubscriptionKey))
		assert.Equal(t, "westeurope", r.Header.Get(headerRegion))
		assert.NotEmpty(t, r.Header.Get(headerTraceID))

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server, &captured
}

func newAzure(endpoint string) *AzureTranslator {
	logger := zerolog.Nop()

	return NewAzureTranslator(AzureConfig{
		Endpoint:       endpoint,
		Key:            "tr-key",
		Region:         "westeurope",
		TargetLanguage: "fr",
	}, &logger)
}

func TestAzureTranslator_Translate(t *testing.T) {
	server, captured := newAzureServer(t, http.StatusOK, `[
		{
			"detectedLanguage": {"language": "en", "score": 0.99},
			"translations": [{"text": "Bonjour", "to": "fr"}, {"text": "ignored", "to": "fr"}]
		}
	]`)

	out, err := newAzure(server.URL).Translate(context.Background(), "Hello")
	require.NoError(t, err)

	assert.Equal(t, "en", out.DetectedLanguage)
	assert.InDelta(t, 0.99, out.DetectedLanguageScore, 1e-9)
	assert.Equal(t, "Bonjour", out.TranslatedText)
	assert.Equal(t, []azureTextItem{{Text: "Hello"}}, *captured)
}

func TestAzureTranslator_TranslateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "empty document list", status: http.StatusOK, body: `[]`, wantErr: errNoDocuments},
		{
			name:    "empty translations",
			status:  http.StatusOK,
			body:    `[{"detectedLanguage":{"language":"de","score":1},"translations":[]}]`,
			wantErr: errNoTranslations,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"code":401000,"message":"invalid key"}}`,
			wantErr: apperrors.ErrUnexpectedStatus,
		},
		{name: "malformed body", status: http.StatusOK, body: `{"not":"an array"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newAzureServer(t, tt.status, tt.body)

			_, err := newAzure(server.URL).Translate(context.Background(), "Hallo")
			require.ErrorIs(t, err, apperrors.ErrTranslationFailed)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAzureTranslator_EmptyInputMakesNoCall(t *testing.T) {
	called := false

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newAzure(server.URL).Translate(context.Background(), "  \n ")
	require.ErrorIs(t, err, apperrors.ErrTranslationFailed)
	assert.False(t, called)
}

func TestLLMTranslator_Translate(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, "translate it to French")
	}), "Hallo Welt").
		Return("Sure! ```json\n{\"detected_language\":\"de-DE\",\"detected_language_score\":1.7,\"translated_text\":\"Bonjour le monde\"}\n```", nil).
		Once()

	logger := zerolog.Nop()
	tr := NewLLMTranslator(gen, "fr", &logger)

	out, err := tr.Translate(context.Background(), "Hallo Welt")
	require.NoError(t, err)

	assert.Equal(t, "de", out.DetectedLanguage)
	assert.InDelta(t, 1.0, out.DetectedLanguageScore, 1e-9)
	assert.Equal(t, "Bonjour le monde", out.TranslatedText)
	gen.AssertExpectations(t)
}

func TestLLMTranslator_TranslateFailures(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
	}{
		{name: "generator error", err: errors.New("rate limited")},
		{name: "not json", output: "I cannot translate this."},
		{name: "empty translation", output: `{"detected_language":"en","detected_language_score":0.5,"translated_text":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(tt.output, tt.err)

			_, err := NewLLMTranslator(gen, "en", nil).Translate(context.Background(), "text")
			assert.ErrorIs(t, err, apperrors.ErrTranslationFailed)
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	gen := &mockGenerator{}

	tr, err := New(&config.Config{TranslatorProvider: config.TranslatorAzure, TranslateTargetLanguage: "en"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &AzureTranslator{}, tr)

	tr, err = New(&config.Config{TranslatorProvider: config.TranslatorLLM, TranslateTargetLanguage: "en"}, gen, nil)
	require.NoError(t, err)
	assert.IsType(t, &LLMTranslator{}, tr)

	_, err = New(&config.Config{TranslatorProvider: config.TranslatorLLM}, nil, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	_, err = New(&config.Config{TranslatorProvider: "deepl"}, nil, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"en":       "en",
		"pt-BR":    "pt",
		" zh-Hans": "zh",
		"???":      "???",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, normalizeLanguage(in))
		})
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "French", languageName("fr"))
	assert.Equal(t, "not a tag!", languageName("not a tag!"))
}
