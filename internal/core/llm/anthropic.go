package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/platform/config"
)

const contentTypeText = "text"

// anthropicProvider implements Generator for Anthropic Claude.
type anthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *zerolog.Logger
}

// NewAnthropicProvider creates a new Anthropic generator.
func NewAnthropicProvider(cfg *config.Config, logger *zerolog.Logger, opts ...option.RequestOption) *anthropicProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}, opts...)

	model := cfg.AnthropicModel
	if model == "" {
		model = defaultAnthropicModel
	}

	return &anthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: resolveMaxTokens(cfg.LLMMaxTokens),
		logger:    logger,
	}
}

// Name returns the provider identifier.
func (p *anthropicProvider) Name() ProviderName {
	return ProviderAnthropic
}

// Generate implements Generator.
func (p *anthropicProvider) Generate(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer observe(ProviderAnthropic, p.model, start)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	p.logger.Debug().
		Str(logKeyProvider, string(ProviderAnthropic)).
		Str(logKeyModel, p.model).
		Int64("output_tokens", resp.Usage.OutputTokens).
		Int64(logKeyElapsedMS, time.Since(start).Milliseconds()).
		Msg("messages ok")

	return finalize(ProviderAnthropic, extractTextFromResponse(resp))
}

func extractTextFromResponse(resp *anthropic.Message) string {
	var result strings.Builder

	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			result.WriteString(block.Text)
		}
	}

	return result.String()
}

// Ensure anthropicProvider implements Generator interface.
var _ Generator = (*anthropicProvider)(nil)
