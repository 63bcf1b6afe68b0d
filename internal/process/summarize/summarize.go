// Package summarize produces the summary and description of a translated document.
package summarize

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/core/llm"
	"github.com/lueurxax/document-translator/internal/platform/observability"
)

const (
	// SummaryPrompt is the system instruction for the short summary.
	SummaryPrompt = "You are a professional summarizer. Summarize the following text."

	// DescriptionPrompt is the system instruction for the document description.
	DescriptionPrompt = "Read the following document and provide a concise summary that captures its main topic, " +
		"purpose, intended audience, and any key points or recommendations it presents."

	FieldSummary     = "summary"
	FieldDescription = "description"
)

// Result holds both generated texts. A nil field means its generation failed.
type Result struct {
	Summary     *string
	Description *string
}

// Summarizer runs the summary and description generations.
type Summarizer struct {
	gen    llm.Generator
	logger *zerolog.Logger
}

// New creates a summarizer backed by the given generator.
func New(gen llm.Generator, logger *zerolog.Logger) *Summarizer {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Summarizer{gen: gen, logger: logger}
}

// Summarize generates the summary and description concurrently. It never fails:
// each field is nil when its own call errors or yields no text.
func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	var (
		res Result
		wg  sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()

		res.Summary = s.generate(ctx, FieldSummary, SummaryPrompt, text)
	}()

	go func() {
		defer wg.Done()

		res.Description = s.generate(ctx, FieldDescription, DescriptionPrompt, text)
	}()

	wg.Wait()

	return res
}

func (s *Summarizer) generate(ctx context.Context, field, system, text string) *string {
	start := time.Now()

	out, err := s.gen.Generate(ctx, system, text)
	if err != nil {
		observability.GenerationFailures.WithLabelValues(field).Inc()

		s.logger.Error().
			Err(apperrors.Join(apperrors.ErrGenerationFailed, err)).
			Str("field", field).
			Str("provider", string(s.gen.Name())).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("generation failed")

		return nil
	}

	if strings.TrimSpace(out) == "" {
		observability.GenerationFailures.WithLabelValues(field).Inc()

		s.logger.Warn().Str("field", field).Msg("generation returned no text")

		return nil
	}

	return &out
}
