package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/lueurxax/document-translator/internal/platform/config"
)

// googleProvider implements Generator for Google Gemini.
type googleProvider struct {
	client    *genai.Client
	model     string
	maxTokens int
	logger    *zerolog.Logger
}

// NewGoogleProvider creates a new Google Gemini generator.
func NewGoogleProvider(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, opts ...option.ClientOption) (*googleProvider, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.GoogleAPIKey)}, opts...)

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating google genai client: %w", err)
	}

	model := cfg.GoogleModel
	if model == "" {
		model = defaultGoogleModel
	}

	return &googleProvider{
		client:    client,
		model:     model,
		maxTokens: resolveMaxTokens(cfg.LLMMaxTokens),
		logger:    logger,
	}, nil
}

// Close closes the Google client.
func (p *googleProvider) Close() error {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			return fmt.Errorf("closing google genai client: %w", err)
		}
	}

	return nil
}

// Name returns the provider identifier.
func (p *googleProvider) Name() ProviderName {
	return ProviderGoogle
}

// Generate implements Generator. A model handle is built per call because the
// system instruction lives on the handle and calls may run concurrently.
func (p *googleProvider) Generate(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer observe(ProviderGoogle, p.model, start)

	genModel := p.client.GenerativeModel(p.model)
	genModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sanitizeUTF8(system))}}
	genModel.SetMaxOutputTokens(int32(p.maxTokens)) //nolint:gosec // bounded by config

	resp, err := genModel.GenerateContent(ctx, genai.Text(sanitizeUTF8(user)))
	if err != nil {
		return "", fmt.Errorf("google genai completion: %w", err)
	}

	p.logger.Debug().
		Str(logKeyProvider, string(ProviderGoogle)).
		Str(logKeyModel, p.model).
		Int64(logKeyElapsedMS, time.Since(start).Milliseconds()).
		Msg("generate content ok")

	return finalize(ProviderGoogle, extractGoogleResponseText(resp))
}

// sanitizeUTF8 replaces invalid UTF-8 sequences; the protobuf API rejects them
// and extracted document text may contain stray bytes.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// extractGoogleResponseText extracts text content from Google Gemini response.
func extractGoogleResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var result strings.Builder

	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}

	return result.String()
}

// Ensure googleProvider implements Generator interface.
var _ Generator = (*googleProvider)(nil)
