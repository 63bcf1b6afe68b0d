// Package extraction talks to the Azure AI Document Intelligence REST API.
// A document is submitted to the analyze endpoint, the long-running operation
// is polled until it finishes, and the layout result is flattened into text
// and key-value pairs.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/observability"
)

const (
	defaultAPIVersion     = "2024-11-30"
	defaultModel          = "prebuilt-layout"
	defaultPollInterval   = time.Second
	defaultMaxWait        = 5 * time.Minute
	defaultRequestTimeout = time.Minute
	featureKeyValuePairs  = "keyValuePairs"
	headerSubscriptionKey = "Ocp-Apim-Subscription-Key"
	headerOperationLoc    = "Operation-Location"
	headerRetryAfter      = "Retry-After"
	headerContentType     = "Content-Type"
	contentTypeOctet      = "application/octet-stream"
	maxErrorBodyBytes     = 512
)

var (
	errMissingOperationLocation = errors.New("analyze response has no Operation-Location header")
	errAnalyzeFailed            = errors.New("analyze operation failed")
	errNoAnalyzeResult          = errors.New("analyze operation returned no result")
)

// Config holds configuration for the document analysis client.
type Config struct {
	Endpoint     string
	Key          string
	APIVersion   string
	Model        string
	PollInterval time.Duration
	// MaxWait bounds polling when the caller's context carries no deadline.
	MaxWait    time.Duration
	HTTPClient *http.Client
}

// Client submits documents for layout analysis.
type Client struct {
	endpoint     string
	key          string
	apiVersion   string
	model        string
	pollInterval time.Duration
	maxWait      time.Duration
	httpClient   *http.Client
	logger       *zerolog.Logger
}

// NewClient creates a document analysis client.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	c := &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		key:          cfg.Key,
		apiVersion:   cfg.APIVersion,
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		httpClient:   cfg.HTTPClient,
		logger:       logger,
	}

	if c.apiVersion == "" {
		c.apiVersion = defaultAPIVersion
	}

	if c.model == "" {
		c.model = defaultModel
	}

	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}

	if c.maxWait <= 0 {
		c.maxWait = defaultMaxWait
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return c
}

// Extract analyzes the document and blocks until the operation completes,
// the context is done, or the bounded wait elapses.
func (c *Client) Extract(ctx context.Context, doc domain.Document) (domain.ExtractionResult, error) {
	if err := doc.Validate(); err != nil {
		return domain.ExtractionResult{}, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.maxWait)
		defer cancel()
	}

	start := time.Now()

	opURL, err := c.submit(ctx, doc)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %w", apperrors.ErrExtractionFailed, err)
	}

	ar, polls, err := c.poll(ctx, opURL)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %w", apperrors.ErrExtractionFailed, err)
	}

	res := BuildResult(ar)

	c.logger.Debug().
		Str("content_type", doc.ContentType.String()).
		Int("pages", len(ar.Pages)).
		Int("key_value_pairs", len(res.KeyValuePairs)).
		Int("text_len", len(res.TextContent)).
		Int("polls", polls).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("document analysis finished")

	return res, nil
}

func (c *Client) analyzeURL(ct domain.ContentType) string {
	params := url.Values{}
	params.Set("api-version", c.apiVersion)

	if ct.KeyValuePairs() {
		params.Set("features", featureKeyValuePairs)
	}

	return fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s", c.endpoint, url.PathEscape(c.model), params.Encode())
}

// submit starts the analyze operation and returns its Operation-Location.
func (c *Client) submit(ctx context.Context, doc domain.Document) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL(doc.ContentType), bytes.NewReader(doc.Content))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeOctet)
	req.Header.Set(headerSubscriptionKey, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", unexpectedStatus(resp)
	}

	opURL := resp.Header.Get(headerOperationLoc)
	if opURL == "" {
		return "", errMissingOperationLocation
	}

	return opURL, nil
}

// poll fetches the operation status until it leaves the running states.
// Polls are paced by a limiter; a larger Retry-After from the service slows it down.
func (c *Client) poll(ctx context.Context, opURL string) (*AnalyzeResult, int, error) {
	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	limiter.Allow() // the first status check waits one interval after submit

	for polls := 1; ; polls++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, polls - 1, fmt.Errorf("wait for analyze result: %w", ctxErr)
			}

			// The limiter refuses to wait past the deadline before it fires.
			return nil, polls - 1, fmt.Errorf("wait for analyze result: %w", context.DeadlineExceeded)
		}

		observability.ExtractionPolls.Inc()

		op, retryAfter, err := c.fetchOperation(ctx, opURL)
		if err != nil {
			return nil, polls, err
		}

		switch op.Status {
		case statusSucceeded:
			if op.AnalyzeResult == nil {
				return nil, polls, errNoAnalyzeResult
			}

			return op.AnalyzeResult, polls, nil
		case statusFailed, statusCanceled:
			if op.Error != nil {
				return nil, polls, fmt.Errorf("%w: %s: %s", errAnalyzeFailed, op.Error.Code, op.Error.Message)
			}

			return nil, polls, fmt.Errorf("%w: status %s", errAnalyzeFailed, op.Status)
		case statusNotStarted, statusRunning:
		default:
			c.logger.Warn().Str("status", op.Status).Msg("unknown analyze operation status")
		}

		if retryAfter > c.pollInterval {
			limiter.SetLimit(rate.Every(retryAfter))
		}
	}
}

func (c *Client) fetchOperation(ctx context.Context, opURL string) (*analyzeOperation, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create poll request: %w", err)
	}

	req.Header.Set(headerSubscriptionKey, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("poll request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, unexpectedStatus(resp)
	}

	var op analyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, 0, fmt.Errorf("decode analyze operation: %w", err)
	}

	return &op, parseRetryAfter(resp.Header.Get(headerRetryAfter)), nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	return fmt.Errorf("%w %d: %s", apperrors.ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
}
