package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/core/llm"
)

const translateSystemPromptFmt = `You are a professional translator. Detect the language of the user's text and translate it to %s.
Respond with a single JSON object and nothing else:
{"detected_language": "<ISO 639-1 code of the source language>", "detected_language_score": <confidence between 0 and 1>, "translated_text": "<the translation>"}
If the text is already in %s, return it unchanged as translated_text.`

var errEmptyTranslation = errors.New("model returned an empty translation")

// LLMTranslator asks a text generator for language detection and translation in one call.
type LLMTranslator struct {
	gen        llm.Generator
	target     string
	targetName string
	logger     *zerolog.Logger
}

type llmTranslation struct {
	DetectedLanguage      string  `json:"detected_language"`
	DetectedLanguageScore float64 `json:"detected_language_score"`
	TranslatedText        string  `json:"translated_text"`
}

// NewLLMTranslator creates a translator backed by the given generator.
func NewLLMTranslator(gen llm.Generator, target string, logger *zerolog.Logger) *LLMTranslator {
	if target == "" {
		target = defaultTargetLanguage
	}

	return &LLMTranslator{
		gen:        gen,
		target:     target,
		targetName: languageName(target),
		logger:     nopIfNil(logger),
	}
}

// Translate implements Translator.
func (t *LLMTranslator) Translate(ctx context.Context, text string) (domain.TranslationOutcome, error) {
	if err := checkInput(text); err != nil {
		return domain.TranslationOutcome{}, err
	}

	system := fmt.Sprintf(translateSystemPromptFmt, t.targetName, t.targetName)

	raw, err := t.gen.Generate(ctx, system, text)
	if err != nil {
		return domain.TranslationOutcome{}, fmt.Errorf("%w: %w", apperrors.ErrTranslationFailed, err)
	}

	var parsed llmTranslation
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &parsed); err != nil {
		t.logger.Warn().Err(err).Str("provider", string(t.gen.Name())).Msg("unparseable translation response")

		return domain.TranslationOutcome{}, fmt.Errorf("%w: decode model response: %w", apperrors.ErrTranslationFailed, err)
	}

	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return domain.TranslationOutcome{}, fmt.Errorf("%w: %w", apperrors.ErrTranslationFailed, errEmptyTranslation)
	}

	return domain.TranslationOutcome{
		DetectedLanguage:      normalizeLanguage(parsed.DetectedLanguage),
		DetectedLanguageScore: clampScore(parsed.DetectedLanguageScore),
		TranslatedText:        parsed.TranslatedText,
	}, nil
}

// languageName renders a BCP 47 tag as an English language name for prompts.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}

	return code
}

var _ Translator = (*LLMTranslator)(nil)
