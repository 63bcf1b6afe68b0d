// Package translation detects the source language of extracted text and
// translates it to the configured target language.
package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/core/llm"
	"github.com/lueurxax/document-translator/internal/platform/config"
)

// Translator translates a block of text to the target language.
type Translator interface {
	Translate(ctx context.Context, text string) (domain.TranslationOutcome, error)
}

// New creates the translator selected by TRANSLATOR_PROVIDER.
// The generator is only used by the llm backend.
func New(cfg *config.Config, gen llm.Generator, logger *zerolog.Logger) (Translator, error) {
	switch cfg.TranslatorProvider {
	case config.TranslatorAzure:
		return NewAzureTranslator(AzureConfig{
			Endpoint:       cfg.TranslatorEndpoint,
			Key:            cfg.TranslatorKey,
			Region:         cfg.TranslatorRegion,
			TargetLanguage: cfg.TranslateTargetLanguage,
		}, logger), nil
	case config.TranslatorLLM:
		if gen == nil {
			return nil, fmt.Errorf("%w: llm translator needs a generator", apperrors.ErrInvalidConfig)
		}

		return NewLLMTranslator(gen, cfg.TranslateTargetLanguage, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown translator provider %q", apperrors.ErrInvalidConfig, cfg.TranslatorProvider)
	}
}

func checkInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: nothing to translate", apperrors.ErrTranslationFailed)
	}

	return nil
}

// normalizeLanguage reduces a detected tag to its base language code.
// Unparseable values are returned lowercased as-is.
func normalizeLanguage(code string) string {
	code = strings.TrimSpace(code)

	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}

	base, _ := tag.Base()

	return base.String()
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

func nopIfNil(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}

	nopLogger := zerolog.Nop()

	return &nopLogger
}
