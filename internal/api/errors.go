package api

import (
	"errors"
	"net/http"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/observability"
)

// User-facing error messages.
const (
	MsgNoFile           = "No file found in the request"
	MsgUnsupportedType  = "Unsupported file type"
	MsgTooLarge         = "Document is too large"
	MsgMethodNotAllowed = "Method not allowed"
	MsgExtractionFailed = "Could not extract text from the document"
	MsgTranslation      = "Could not translate the document text"
	MsgTimeout          = "Processing the document timed out"
	MsgInternal         = "Internal server error"
)

// Outcome is the HTTP classification of a pipeline error.
type Outcome struct {
	Code    int
	Status  string
	Message string
}

// Classify maps a pipeline error to a status code, a metrics label and a message.
// Timeouts are checked first because a timed-out stage also carries its stage error.
func Classify(err error) Outcome {
	var tooLarge *http.MaxBytesError

	switch {
	case err == nil:
		return Outcome{Code: http.StatusOK, Status: observability.StatusOK}
	case errors.As(err, &tooLarge):
		return Outcome{Code: http.StatusRequestEntityTooLarge, Status: observability.StatusTooLarge, Message: MsgTooLarge}
	case errors.Is(err, apperrors.ErrEmptyDocument):
		return Outcome{Code: http.StatusBadRequest, Status: observability.StatusInvalid, Message: MsgNoFile}
	case errors.Is(err, apperrors.ErrUnsupportedContentType):
		return Outcome{Code: http.StatusBadRequest, Status: observability.StatusInvalid, Message: MsgUnsupportedType}
	case errors.Is(err, apperrors.ErrValidation):
		return Outcome{Code: http.StatusBadRequest, Status: observability.StatusInvalid, Message: err.Error()}
	case errors.Is(err, apperrors.ErrTimeout):
		return Outcome{Code: http.StatusGatewayTimeout, Status: observability.StatusTimeout, Message: MsgTimeout}
	case errors.Is(err, apperrors.ErrExtractionFailed):
		return Outcome{Code: http.StatusInternalServerError, Status: observability.StatusFailed, Message: MsgExtractionFailed}
	case errors.Is(err, apperrors.ErrTranslationFailed):
		return Outcome{Code: http.StatusInternalServerError, Status: observability.StatusFailed, Message: MsgTranslation}
	default:
		return Outcome{Code: http.StatusInternalServerError, Status: observability.StatusFailed, Message: MsgInternal}
	}
}
