package extraction

import (
	"strings"

	"github.com/lueurxax/document-translator/internal/core/domain"
)

// Operation status values reported by the analyze operation.
const (
	statusNotStarted = "notStarted"
	statusRunning    = "running"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
	statusCanceled   = "canceled"
)

// analyzeOperation is the body returned when polling Operation-Location.
type analyzeOperation struct {
	Status        string         `json:"status"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult"`
	Error         *operationErr  `json:"error"`
}

type operationErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyzeResult is the subset of the layout model output the pipeline reads.
type AnalyzeResult struct {
	ModelID       string         `json:"modelId"`
	Content       string         `json:"content"`
	Pages         []Page         `json:"pages"`
	KeyValuePairs []KeyValuePair `json:"keyValuePairs"`
}

// Page is one analyzed page.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Lines      []Line `json:"lines"`
}

// Line is one detected text line.
type Line struct {
	Content string `json:"content"`
}

// KeyValuePair is a detected form field. Key or Value may be absent.
type KeyValuePair struct {
	Key        *KeyValueElement `json:"key"`
	Value      *KeyValueElement `json:"value"`
	Confidence float64          `json:"confidence"`
}

// KeyValueElement holds the text of a key or a value.
type KeyValueElement struct {
	Content string `json:"content"`
}

// BuildResult flattens an analyze result into the pipeline's extraction record.
// Pairs missing a key or value text are skipped and later duplicates win.
// Lines are joined with single spaces across pages and the result is trimmed.
func BuildResult(ar *AnalyzeResult) domain.ExtractionResult {
	res := domain.ExtractionResult{KeyValuePairs: map[string]string{}}
	if ar == nil {
		return res
	}

	for _, kv := range ar.KeyValuePairs {
		if kv.Key == nil || kv.Value == nil || kv.Key.Content == "" || kv.Value.Content == "" {
			continue
		}

		res.KeyValuePairs[kv.Key.Content] = kv.Value.Content
	}

	var text strings.Builder

	for _, page := range ar.Pages {
		for _, line := range page.Lines {
			text.WriteString(line.Content)
			text.WriteString(" ")
		}
	}

	res.TextContent = strings.TrimSpace(text.String())

	return res
}
