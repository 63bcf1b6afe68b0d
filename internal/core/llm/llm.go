// Package llm wraps the text-generation providers behind a single Generator interface.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/config"
	"github.com/lueurxax/document-translator/internal/platform/observability"
)

// Generator produces text for a system instruction and a user message.
type Generator interface {
	Name() ProviderName
	Generate(ctx context.Context, system, user string) (string, error)
}

// New creates the generator selected by LLM_PROVIDER.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (Generator, error) {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		return NewOpenAIProvider(cfg, logger), nil
	case config.LLMProviderAzureOpenAI:
		return NewAzureOpenAIProvider(cfg, logger), nil
	case config.LLMProviderAnthropic:
		return NewAnthropicProvider(cfg, logger), nil
	case config.LLMProviderGoogle:
		return NewGoogleProvider(ctx, cfg, logger)
	case config.LLMProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q", apperrors.ErrInvalidConfig, cfg.LLMProvider)
	}
}

// observe records the duration of a provider call.
func observe(provider ProviderName, model string, start time.Time) {
	observability.LLMRequestDuration.WithLabelValues(string(provider), model).Observe(time.Since(start).Seconds())
}

// finalize trims provider output and turns blank output into ErrEmptyResponse.
func finalize(provider ProviderName, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", provider, apperrors.ErrEmptyResponse)
	}

	return text, nil
}

// ExtractJSON returns the outermost JSON object in text, or text unchanged when none is found.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
