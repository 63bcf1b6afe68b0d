package domain

import (
	"fmt"
	"mime"
	"strings"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
)

// ContentType is a document media type accepted by the translate pipeline.
type ContentType string

// Supported content types.
const (
	ContentTypePDF  ContentType = "application/pdf"
	ContentTypeJPEG ContentType = "image/jpeg"
	ContentTypePNG  ContentType = "image/png"
	ContentTypeDOCX ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SupportedContentTypes lists the allow-list in a stable order.
var SupportedContentTypes = []ContentType{
	ContentTypePDF,
	ContentTypeJPEG,
	ContentTypePNG,
	ContentTypeDOCX,
}

// ParseContentType normalizes a Content-Type header value and checks it against the allow-list.
// Media type parameters are ignored and matching is case-insensitive.
func ParseContentType(header string) (ContentType, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing content type", apperrors.ErrUnsupportedContentType)
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, header)
	}

	ct := ContentType(mediaType)
	if !ct.Supported() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, mediaType)
	}

	return ct, nil
}

// Supported reports whether the content type is on the allow-list.
func (c ContentType) Supported() bool {
	for _, supported := range SupportedContentTypes {
		if c == supported {
			return true
		}
	}

	return false
}

// KeyValuePairs reports whether key-value pair extraction applies to this content type.
func (c ContentType) KeyValuePairs() bool {
	switch c {
	case ContentTypePDF, ContentTypeJPEG, ContentTypePNG:
		return true
	default:
		return false
	}
}

// IsImage reports whether the document is a raster image.
func (c ContentType) IsImage() bool {
	return c == ContentTypeJPEG || c == ContentTypePNG
}

func (c ContentType) String() string {
	return string(c)
}

// Document is the raw upload handed to the pipeline.
type Document struct {
	Name        string
	ContentType ContentType
	Content     []byte
}

// Validate checks the document before any external call is made.
func (d Document) Validate() error {
	if len(d.Content) == 0 {
		return apperrors.ErrEmptyDocument
	}

	if !d.ContentType.Supported() {
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, d.ContentType)
	}

	return nil
}

// ExtractionResult is the output of the document analysis stage.
type ExtractionResult struct {
	TextContent   string            `json:"text_content"`
	KeyValuePairs map[string]string `json:"key_value_pairs"`
}

// TranslationOutcome is the output of the translation stage.
type TranslationOutcome struct {
	DetectedLanguage      string  `json:"detected_language"`
	DetectedLanguageScore float64 `json:"detected_language_score"`
	TranslatedText        string  `json:"translated_text"`
}

// EnrichedResult is the unified per-document response record.
// Summary and Description serialize as null when generation failed.
type EnrichedResult struct {
	OriginalText          string  `json:"original_text"`
	DetectedLanguage      string  `json:"detected_language"`
	DetectedLanguageScore float64 `json:"detected_language_score"`
	TranslatedText        string  `json:"translated_text"`
	Summary               *string `json:"summary"`
	Description           *string `json:"description"`
}

// NewEnrichedResult assembles the response record from the stage outputs.
func NewEnrichedResult(extraction ExtractionResult, translation TranslationOutcome, summary, description *string) EnrichedResult {
	return EnrichedResult{
		OriginalText:          extraction.TextContent,
		DetectedLanguage:      translation.DetectedLanguage,
		DetectedLanguageScore: translation.DetectedLanguageScore,
		TranslatedText:        translation.TranslatedText,
		Summary:               summary,
		Description:           description,
	}
}
