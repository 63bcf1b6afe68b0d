// Package docview serves the browser upload form and the translated document page.
package docview

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/api"
	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/observability"
	"github.com/lueurxax/document-translator/internal/process/pipeline"
)

// Routes served by the handler.
const (
	RouteIndex = "/{$}"
	RouteView  = "/view"
)

// FormField is the multipart field carrying the upload.
const FormField = "document"

// HTTP header constants.
const headerContentType = "Content-Type"

// Multipart bodies carry boundaries and part headers on top of the file.
const multipartOverhead = 64 << 10

const defaultMaxUploadBytes = 50 << 20

// Handler serves the upload form and the result page.
type Handler struct {
	runner   api.Runner
	renderer *Renderer
	maxBytes int64
	logger   *zerolog.Logger
}

// NewHandler creates the view handler.
func NewHandler(runner api.Runner, maxBytes int64, logger *zerolog.Logger) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Handler{
		runner:   runner,
		renderer: renderer,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Index serves GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	setPageHeaders(w)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.renderError(w, http.StatusMethodNotAllowed, "Method Not Allowed", api.MsgMethodNotAllowed)

		return
	}

	accept := make([]string, 0, len(domain.SupportedContentTypes))
	for _, ct := range domain.SupportedContentTypes {
		accept = append(accept, ct.String())
	}

	if err := h.renderer.RenderIndex(w, &IndexData{Accept: strings.Join(accept, ","), MaxBytes: h.maxBytes}); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render index page")
	}
}

// View serves POST /view: it runs the pipeline on the uploaded file and renders the result.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	setPageHeaders(w)
	w.Header().Set(api.HeaderRequestID, requestID)

	logger := h.logger.With().Str(pipeline.LogFieldRequestID, requestID).Logger()

	if r.Method != http.MethodPost {
		observability.ViewRequests.WithLabelValues(observability.StatusNotAllowed).Inc()
		h.renderError(w, http.StatusMethodNotAllowed, "Method Not Allowed", api.MsgMethodNotAllowed)

		return
	}

	doc, err := h.readUpload(w, r)
	if err == nil {
		var result domain.EnrichedResult

		result, err = h.runner.Run(pipeline.WithRequestID(r.Context(), requestID), doc)
		if err == nil {
			h.renderResult(w, &logger, doc, result)
			observability.ViewRequests.WithLabelValues(observability.StatusOK).Inc()

			logger.Info().
				Str("file", doc.Name).
				Int64(pipeline.LogFieldElapsedMS, time.Since(start).Milliseconds()).
				Msg("document view served")

			return
		}
	}

	outcome := api.Classify(err)
	observability.ViewRequests.WithLabelValues(outcome.Status).Inc()

	logger.Warn().Err(err).Int("code", outcome.Code).Msg("document view failed")

	h.renderError(w, outcome.Code, "Could not process the document", outcome.Message)
}

// readUpload reads the multipart file. The part's declared type wins; when it is
// missing or generic the type is sniffed from the content.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (domain.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Document{}, err
		}

		return domain.Document{}, fmt.Errorf("%w: %w", apperrors.ErrEmptyDocument, err)
	}

	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return domain.Document{}, fmt.Errorf("read upload: %w", err)
	}

	if int64(len(content)) > h.maxBytes {
		return domain.Document{}, &http.MaxBytesError{Limit: h.maxBytes}
	}

	contentType, err := domain.ParseContentType(header.Header.Get(headerContentType))
	if err != nil && len(content) > 0 {
		contentType, err = domain.ParseContentType(mimetype.Detect(content).String())
	}

	if len(content) == 0 {
		return domain.Document{}, apperrors.ErrEmptyDocument
	}

	if err != nil {
		return domain.Document{}, err
	}

	return domain.Document{
		Name:        filepath.Base(header.Filename),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func (h *Handler) renderResult(w http.ResponseWriter, logger *zerolog.Logger, doc domain.Document, result domain.EnrichedResult) {
	data := &ResultData{
		FileName: doc.Name,
		Result:   result,
		Embed:    NewEmbedView(doc),
	}

	if err := h.renderer.RenderResult(w, data); err != nil {
		logger.Error().Err(err).Msg("Failed to render result page")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, code int, title, message string) {
	w.WriteHeader(code)

	if err := h.renderer.RenderError(w, &ErrorData{
		Code:    code,
		Title:   title,
		Message: message,
	}); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render error page")
	}
}

func setPageHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Robots-Tag", "noindex, nofollow")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set(headerContentType, "text/html; charset=utf-8")
}

// Ensure the pipeline can back the view.
var _ api.Runner = (*pipeline.Pipeline)(nil)
