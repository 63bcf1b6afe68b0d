// Package pipeline runs one document through extraction, translation and
// summarization and assembles the enriched result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/config"
	"github.com/lueurxax/document-translator/internal/platform/observability"
	"github.com/lueurxax/document-translator/internal/process/summarize"
)

// Extractor turns document bytes into text and key-value pairs.
type Extractor interface {
	Extract(ctx context.Context, doc domain.Document) (domain.ExtractionResult, error)
}

// Translator detects the source language and translates text.
type Translator interface {
	Translate(ctx context.Context, text string) (domain.TranslationOutcome, error)
}

// Summarizer generates the summary and description. It does not fail.
type Summarizer interface {
	Summarize(ctx context.Context, text string) summarize.Result
}

// Timeouts bounds each stage. Zero means the stage only inherits the parent deadline.
type Timeouts struct {
	Extraction  time.Duration
	Translation time.Duration
	Generation  time.Duration
}

// TimeoutsFromConfig reads the stage timeouts from configuration.
func TimeoutsFromConfig(cfg *config.Config) Timeouts {
	return Timeouts{
		Extraction:  cfg.ExtractionTimeout,
		Translation: cfg.TranslationTimeout,
		Generation:  cfg.GenerationTimeout,
	}
}

type Pipeline struct {
	extractor  Extractor
	translator Translator
	summarizer Summarizer
	timeouts   Timeouts
	logger     *zerolog.Logger
}

func New(extractor Extractor, translator Translator, summarizer Summarizer, timeouts Timeouts, logger *zerolog.Logger) *Pipeline {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Pipeline{
		extractor:  extractor,
		translator: translator,
		summarizer: summarizer,
		timeouts:   timeouts,
		logger:     logger,
	}
}

// Run processes a single document. Validation, extraction and translation
// failures abort the run; generation failures only leave fields nil.
func (p *Pipeline) Run(ctx context.Context, doc domain.Document) (domain.EnrichedResult, error) {
	logger := p.logger.With().
		Str(LogFieldRequestID, RequestID(ctx)).
		Str(LogFieldContentType, doc.ContentType.String()).
		Int(LogFieldBytes, len(doc.Content)).
		Logger()

	if err := doc.Validate(); err != nil {
		logger.Info().Err(err).Msg("document rejected")

		return domain.EnrichedResult{}, err
	}

	observability.DocumentBytes.WithLabelValues(doc.ContentType.String()).Observe(float64(len(doc.Content)))

	var extraction domain.ExtractionResult

	err := p.stage(ctx, &logger, StageExtracting, p.timeouts.Extraction, apperrors.ErrExtractionFailed, func(stageCtx context.Context) error {
		var err error

		extraction, err = p.extractor.Extract(stageCtx, doc)

		return err
	})
	if err != nil {
		return domain.EnrichedResult{}, err
	}

	var translation domain.TranslationOutcome

	err = p.stage(ctx, &logger, StageTranslating, p.timeouts.Translation, apperrors.ErrTranslationFailed, func(stageCtx context.Context) error {
		var err error

		translation, err = p.translator.Translate(stageCtx, extraction.TextContent)

		return err
	})
	if err != nil {
		return domain.EnrichedResult{}, err
	}

	var generated summarize.Result

	_ = p.stage(ctx, &logger, StageSummarizing, p.timeouts.Generation, apperrors.ErrGenerationFailed, func(stageCtx context.Context) error {
		generated = p.summarizer.Summarize(stageCtx, translation.TranslatedText)

		return nil
	})

	result := domain.NewEnrichedResult(extraction, translation, generated.Summary, generated.Description)

	logger.Info().
		Str(LogFieldStage, StageAssembled).
		Str("detected_language", result.DetectedLanguage).
		Bool("has_summary", result.Summary != nil).
		Bool("has_description", result.Description != nil).
		Msg("document processed")

	return result, nil
}

// stage runs fn under its own deadline, records timing and normalizes the error
// so it always wraps sentinel, plus ErrTimeout when the deadline expired.
func (p *Pipeline) stage(
	ctx context.Context,
	logger *zerolog.Logger,
	name string,
	timeout time.Duration,
	sentinel error,
	fn func(context.Context) error,
) error {
	stageCtx, cancel := withOptionalTimeout(ctx, timeout)
	defer cancel()

	logger.Debug().Str(LogFieldStage, name).Msg("stage started")

	start := time.Now()
	err := fn(stageCtx)
	elapsed := time.Since(start)

	observability.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err == nil {
		logger.Debug().Str(LogFieldStage, name).Int64(LogFieldElapsedMS, elapsed.Milliseconds()).Msg("stage finished")

		return nil
	}

	if !errors.Is(err, sentinel) {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}

	reason := ReasonError

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
		reason = ReasonTimeout
		err = apperrors.Join(err, apperrors.ErrTimeout)
	} else if errors.Is(err, context.Canceled) {
		reason = ReasonCanceled
	}

	observability.StageFailures.WithLabelValues(name, reason).Inc()

	logger.Error().
		Err(err).
		Str(LogFieldStage, name).
		Str("reason", reason).
		Int64(LogFieldElapsedMS, elapsed.Milliseconds()).
		Msg("stage failed")

	return err
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
