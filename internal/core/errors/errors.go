// Package errors provides centralized error definitions for the application.
// Errors are organized by pipeline stage to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Unexported errors (err*): Use for internal package errors
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import (
	"errors"
	"fmt"
)

// Validation errors. They are raised before any external call is made.
var (
	// ErrValidation is the parent of every request validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyDocument indicates the request carried no document bytes.
	ErrEmptyDocument = fmt.Errorf("%w: no file found in the request", ErrValidation)

	// ErrUnsupportedContentType indicates the declared content type is not on the allow-list.
	ErrUnsupportedContentType = fmt.Errorf("%w: unsupported file type", ErrValidation)
)

// Stage errors.
var (
	// ErrExtractionFailed indicates the document analysis job failed or produced no result.
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrTranslationFailed indicates the translation call failed or returned nothing.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrGenerationFailed indicates a text generation call failed. It is never request-fatal.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrTimeout is joined with a stage error when the stage deadline expired.
	ErrTimeout = errors.New("stage timed out")
)

// Response and parsing errors.
var (
	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoResult indicates the translate endpoint did not return a single-element result array.
	ErrNoResult = errors.New("no valid result received")

	// ErrUnexpectedStatus indicates an upstream responded with a non-success HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates a configuration value is missing or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
