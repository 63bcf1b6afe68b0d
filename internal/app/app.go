// Package app provides the application bootstrap.
//
// The App type wires the document pipeline from configuration:
//
//   - Extraction: Azure AI Document Intelligence layout analysis
//   - Translation: Azure Translator, or an LLM when TRANSLATOR_PROVIDER=llm
//   - Summarization: summary and description from the configured LLM provider
//
// and serves it over HTTP together with the health and metrics endpoints.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/api"
	"github.com/lueurxax/document-translator/internal/core/extraction"
	"github.com/lueurxax/document-translator/internal/core/llm"
	"github.com/lueurxax/document-translator/internal/core/translation"
	"github.com/lueurxax/document-translator/internal/docview"
	"github.com/lueurxax/document-translator/internal/platform/config"
	"github.com/lueurxax/document-translator/internal/platform/observability"
	"github.com/lueurxax/document-translator/internal/process/pipeline"
	"github.com/lueurxax/document-translator/internal/process/summarize"
)

const (
	logFieldProvider   = "provider"
	logFieldTranslator = "translator"
	logFieldModel      = "model"
)

// App holds the application dependencies.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// BuildPipeline constructs the adapters and the orchestrator.
func (a *App) BuildPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	gen, err := llm.New(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("creating text generator: %w", err)
	}

	translator, err := translation.New(a.cfg, gen, a.logger)
	if err != nil {
		return nil, fmt.Errorf("creating translator: %w", err)
	}

	extractor := extraction.NewClient(extraction.Config{
		Endpoint:     a.cfg.DocIntelEndpoint,
		Key:          a.cfg.DocIntelKey,
		APIVersion:   a.cfg.DocIntelAPIVersion,
		Model:        a.cfg.DocIntelModel,
		PollInterval: a.cfg.DocIntelPollInterval,
		MaxWait:      a.cfg.ExtractionTimeout,
	}, a.logger)

	a.logger.Info().
		Str(logFieldProvider, string(gen.Name())).
		Str(logFieldTranslator, a.cfg.TranslatorProvider).
		Str(logFieldModel, a.cfg.DocIntelModel).
		Msg("pipeline configured")

	return pipeline.New(
		extractor,
		translator,
		summarize.New(gen, a.logger),
		pipeline.TimeoutsFromConfig(a.cfg),
		a.logger,
	), nil
}

// Routes returns the application routes served next to the operational endpoints.
func (a *App) Routes(runner api.Runner) ([]observability.Route, error) {
	translateHandler := api.NewHandler(runner, a.cfg.MaxUploadBytes, a.logger)

	viewHandler, err := docview.NewHandler(runner, a.cfg.MaxUploadBytes, a.logger)
	if err != nil {
		return nil, fmt.Errorf("creating view handler: %w", err)
	}

	return []observability.Route{
		{Pattern: api.RouteTranslate, Handler: translateHandler},
		{Pattern: api.RouteAPITranslate, Handler: translateHandler},
		{Pattern: docview.RouteIndex, Handler: http.HandlerFunc(viewHandler.Index)},
		{Pattern: docview.RouteView, Handler: http.HandlerFunc(viewHandler.View)},
	}, nil
}

// RunServer serves the pipeline until ctx is canceled.
func (a *App) RunServer(ctx context.Context) error {
	p, err := a.BuildPipeline(ctx)
	if err != nil {
		return err
	}

	routes, err := a.Routes(p)
	if err != nil {
		return err
	}

	server := observability.NewServer(a.cfg.HTTPPort, a.ready, a.logger, routes...)

	return server.Start(ctx)
}

// ready reports the service ready once configuration has been validated.
func (a *App) ready(_ context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	return nil
}
