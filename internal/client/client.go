// Package client calls the translate endpoint of a running service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
)

const (
	defaultTimeout    = 5 * time.Minute
	translatePath     = "/translate"
	headerContentType = "Content-Type"
	maxErrorBodyBytes = 512
)

// Config holds the client settings. Flags override values loaded from the environment.
type Config struct {
	Endpoint string        `env:"TRANSLATE_API_URL"`
	Timeout  time.Duration `env:"TRANSLATE_CLIENT_TIMEOUT" envDefault:"5m"`
}

// LoadConfig reads the client settings from the environment.
// AZURE_FUNCTION_ENDPOINT is accepted when TRANSLATE_API_URL is unset.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing client config: %w", err)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("AZURE_FUNCTION_ENDPOINT")
	}

	return cfg, nil
}

// Client posts documents to the translate endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// New creates a client. An endpoint without a path gets /translate appended.
func New(cfg Config, logger *zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("%w: translate endpoint is required", apperrors.ErrInvalidConfig)
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:        endpointURL(cfg.Endpoint),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func endpointURL(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")

	rest := endpoint
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}

	if !strings.Contains(rest, "/") {
		return endpoint + translatePath
	}

	return endpoint
}

// DocumentFromFile reads a file and resolves its content type. An explicit
// content type wins; otherwise it is detected from the file bytes.
func DocumentFromFile(path, contentType string) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	if contentType == "" {
		contentType = mimetype.Detect(content).String()
	}

	ct, err := domain.ParseContentType(contentType)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{Name: path, ContentType: ct, Content: content}

	return doc, doc.Validate()
}

type errorBody struct {
	Error string `json:"error"`
}

// Translate uploads the document and returns the single result. Anything other
// than a 2xx response holding a non-empty JSON array yields ErrNoResult.
func (c *Client) Translate(ctx context.Context, doc domain.Document) (domain.EnrichedResult, error) {
	if err := doc.Validate(); err != nil {
		return domain.EnrichedResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(doc.Content))
	if err != nil {
		return domain.EnrichedResult{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(headerContentType, doc.ContentType.String())

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.EnrichedResult{}, fmt.Errorf("translate request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.EnrichedResult{}, fmt.Errorf("%w: status %d: %s", apperrors.ErrNoResult, resp.StatusCode, readErrorMessage(resp.Body))
	}

	var results []domain.EnrichedResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.EnrichedResult{}, fmt.Errorf("%w: %w", apperrors.ErrNoResult, err)
	}

	if len(results) == 0 {
		return domain.EnrichedResult{}, fmt.Errorf("%w: empty result list", apperrors.ErrNoResult)
	}

	c.logger.Debug().
		Str("request_id", resp.Header.Get("X-Request-ID")).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("document translated")

	return results[0], nil
}

func readErrorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}

	return strings.TrimSpace(string(raw))
}
