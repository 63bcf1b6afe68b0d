// Package api serves the JSON translate endpoint.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/core/domain"
	"github.com/lueurxax/document-translator/internal/platform/observability"
	"github.com/lueurxax/document-translator/internal/process/pipeline"
)

// Routes the handler is mounted on. The second one keeps old clients working.
const (
	RouteTranslate    = "/translate"
	RouteAPITranslate = "/api/translate"
)

// HTTP header constants.
const (
	HeaderRequestID   = "X-Request-ID"
	headerContentType = "Content-Type"
	headerAllow       = "Allow"
	contentTypeJSON   = "application/json"
)

const defaultMaxUploadBytes = 50 << 20

// Runner executes the document pipeline.
type Runner interface {
	Run(ctx context.Context, doc domain.Document) (domain.EnrichedResult, error)
}

// Handler serves POST /translate.
type Handler struct {
	runner   Runner
	maxBytes int64
	logger   *zerolog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

// NewHandler creates the translate handler. maxBytes caps the request body.
func NewHandler(runner Runner, maxBytes int64, logger *zerolog.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Handler{runner: runner, maxBytes: maxBytes, logger: logger}
}

// ServeHTTP reads the raw document body and responds with a one-element result array.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := uuid.NewString()
	w.Header().Set(HeaderRequestID, requestID)

	logger := h.logger.With().Str(pipeline.LogFieldRequestID, requestID).Logger()

	status := observability.StatusOK

	defer func() {
		observability.TranslateRequests.WithLabelValues(status).Inc()
		observability.TranslateRequestDuration.Observe(time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		status = observability.StatusNotAllowed

		w.Header().Set(headerAllow, http.MethodPost)
		writeJSON(w, &logger, http.StatusMethodNotAllowed, errorBody{Error: MsgMethodNotAllowed})

		return
	}

	doc, err := h.readDocument(w, r)
	if err == nil {
		var result domain.EnrichedResult

		result, err = h.runner.Run(pipeline.WithRequestID(r.Context(), requestID), doc)
		if err == nil {
			logger.Info().
				Str(pipeline.LogFieldContentType, doc.ContentType.String()).
				Int64(pipeline.LogFieldElapsedMS, time.Since(start).Milliseconds()).
				Msg("translate request served")

			writeJSON(w, &logger, http.StatusOK, []domain.EnrichedResult{result})

			return
		}
	}

	outcome := Classify(err)
	status = outcome.Status

	event := logger.Warn()
	if outcome.Code >= http.StatusInternalServerError {
		event = logger.Error()
	}

	event.Err(err).Int("code", outcome.Code).Msg("translate request failed")

	writeJSON(w, &logger, outcome.Code, errorBody{Error: outcome.Message})
}

// readDocument parses the content type and reads the capped body.
func (h *Handler) readDocument(w http.ResponseWriter, r *http.Request) (domain.Document, error) {
	contentType, err := domain.ParseContentType(r.Header.Get(headerContentType))
	if err != nil {
		return domain.Document{}, err
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		return domain.Document{}, err
	}

	return domain.Document{ContentType: contentType, Content: content}, nil
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, code int, body any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to write response")
	}
}
