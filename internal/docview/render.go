package docview

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/lueurxax/document-translator/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template function helpers.
var templateFuncs = template.FuncMap{
	"percent": func(score float64) string {
		return fmt.Sprintf("%.0f%%", score*100)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}

		return *s
	},
}

// Renderer handles HTML template rendering.
type Renderer struct {
	indexTmpl  *template.Template
	resultTmpl *template.Template
	errorTmpl  *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	indexTmpl, err := template.New("index.html").
		ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	resultTmpl, err := template.New("result.html").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/layout.html", "templates/result.html")
	if err != nil {
		return nil, fmt.Errorf("parse result template: %w", err)
	}

	errorTmpl, err := template.New("error.html").
		ParseFS(templateFS, "templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}

	return &Renderer{
		indexTmpl:  indexTmpl,
		resultTmpl: resultTmpl,
		errorTmpl:  errorTmpl,
	}, nil
}

// IndexData contains data for the upload form.
type IndexData struct {
	Accept   string
	MaxBytes int64
}

// ResultData contains data for the result page.
type ResultData struct {
	FileName string
	Result   domain.EnrichedResult
	Embed    EmbedView
}

// EmbedView describes how the original document is shown.
type EmbedView struct {
	Kind    string // pdf, image or download
	DataURI template.URL
}

// ErrorData contains data for rendering error pages.
type ErrorData struct {
	Code    int
	Title   string
	Message string
}

// Embed kinds.
const (
	EmbedPDF      = "pdf"
	EmbedImage    = "image"
	EmbedDownload = "download"
)

// NewEmbedView inlines the document as a data URI. DOCX cannot be previewed
// in a browser so it is offered as a download.
func NewEmbedView(doc domain.Document) EmbedView {
	//nolint:gosec // the URI is built from a validated content type and base64 data
	uri := template.URL("data:" + doc.ContentType.String() + ";base64," + base64.StdEncoding.EncodeToString(doc.Content))

	switch {
	case doc.ContentType == domain.ContentTypePDF:
		return EmbedView{Kind: EmbedPDF, DataURI: uri}
	case doc.ContentType.IsImage():
		return EmbedView{Kind: EmbedImage, DataURI: uri}
	default:
		return EmbedView{Kind: EmbedDownload, DataURI: uri}
	}
}

// RenderIndex renders the upload form.
func (r *Renderer) RenderIndex(w io.Writer, data *IndexData) error {
	if err := r.indexTmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("execute index template: %w", err)
	}

	return nil
}

// RenderResult renders the side-by-side result page.
func (r *Renderer) RenderResult(w io.Writer, data *ResultData) error {
	if err := r.resultTmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("execute result template: %w", err)
	}

	return nil
}

// RenderError renders an error page.
func (r *Renderer) RenderError(w io.Writer, data *ErrorData) error {
	if err := r.errorTmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("execute error template: %w", err)
	}

	return nil
}
