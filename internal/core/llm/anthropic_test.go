package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/document-translator/internal/platform/config"
)

func TestAnthropicProvider_Generate(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Greeting."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 3}
		}`)
	}))
	defer server.Close()

	logger := zerolog.Nop()
	p := NewAnthropicProvider(&config.Config{AnthropicAPIKey: "key", LLMMaxTokens: 256}, &logger,
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))

	got, err := p.Generate(context.Background(), testSystemPrompt, testUserText)
	require.NoError(t, err)
	assert.Equal(t, "Greeting.", got)

	assert.Equal(t, defaultAnthropicModel, captured["model"])
	assert.EqualValues(t, 256, captured["max_tokens"])
}

func TestAnthropicProvider_GenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	}))
	defer server.Close()

	logger := zerolog.Nop()
	p := NewAnthropicProvider(&config.Config{AnthropicAPIKey: "key"}, &logger,
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))

	_, err := p.Generate(context.Background(), testSystemPrompt, testUserText)
	assert.Error(t, err)
}

func TestExtractGoogleResponseText(t *testing.T) {
	assert.Empty(t, extractGoogleResponseText(nil))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}}},
			{Content: nil},
		},
	}

	assert.Equal(t, "Hello world", extractGoogleResponseText(resp))
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "valid", sanitizeUTF8("valid"))
	assert.Equal(t, "a�b", sanitizeUTF8("a\xffb"))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "pure_object", input: `{"key":"value"}`, want: `{"key":"value"}`},
		{name: "object_with_preamble", input: "Here: {\"key\":\"value\"} done.", want: `{"key":"value"}`},
		{name: "fenced", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "no_json", input: "just some text", want: "just some text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}
