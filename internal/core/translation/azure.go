package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/document-translator/internal/core/domain"
	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
)

const (
	defaultAzureEndpoint  = "https://api.cognitive.microsofttranslator.com"
	azureTranslatePath    = "/translate"
	azureAPIVersion       = "3.0"
	defaultTargetLanguage = "en"
	defaultAzureTimeout   = 30 * time.Second
	headerSubscriptionKey = "Ocp-Apim-Subscription-Key"
	headerRegion          = "Ocp-Apim-Subscription-Region"
	headerTraceID         = "X-ClientTraceId"
	maxErrorBodyBytes     = 512
)

var (
	errNoDocuments    = errors.New("translator returned no documents")
	errNoTranslations = errors.New("translator returned no translations")
)

// AzureConfig holds configuration for the Azure Translator client.
type AzureConfig struct {
	Endpoint       string
	Key            string
	Region         string
	TargetLanguage string
	HTTPClient     *http.Client
}

// AzureTranslator calls the Azure Translator v3 text API.
type AzureTranslator struct {
	endpoint   string
	key        string
	region     string
	target     string
	httpClient *http.Client
	logger     *zerolog.Logger
}

type azureTextItem struct {
	Text string `json:"Text"`
}

type azureDocument struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// NewAzureTranslator creates an Azure Translator client.
func NewAzureTranslator(cfg AzureConfig, logger *zerolog.Logger) *AzureTranslator {
	t := &AzureTranslator{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		key:        cfg.Key,
		region:     cfg.Region,
		target:     cfg.TargetLanguage,
		httpClient: cfg.HTTPClient,
		logger:     nopIfNil(logger),
	}

	if t.endpoint == "" {
		t.endpoint = defaultAzureEndpoint
	}

	if t.target == "" {
		t.target = defaultTargetLanguage
	}

	if t.httpClient == nil {
		t.httpClient = &http.Client{Timeout: defaultAzureTimeout}
	}

	return t
}

// Translate auto-detects the source language and returns the first translation
// of the first document in the response.
func (t *AzureTranslator) Translate(ctx context.Context, text string) (domain.TranslationOutcome, error) {
	if err := checkInput(text); err != nil {
		return domain.TranslationOutcome{}, err
	}

	docs, err := t.call(ctx, text)
	if err != nil {
		return domain.TranslationOutcome{}, fmt.Errorf("%w: %w", apperrors.ErrTranslationFailed, err)
	}

	if len(docs) == 0 {
		return domain.TranslationOutcome{}, fmt.Errorf("%w: %w", apperrors.ErrTranslationFailed, errNoDocuments)
	}

	doc := docs[0]
	if len(doc.Translations) == 0 {
		return domain.TranslationOutcome{}, fmt.Errorf("%w: %w", apperrors.ErrTranslationFailed, errNoTranslations)
	}

	out := domain.TranslationOutcome{TranslatedText: doc.Translations[0].Text}

	if doc.DetectedLanguage != nil {
		out.DetectedLanguage = doc.DetectedLanguage.Language
		out.DetectedLanguageScore = clampScore(doc.DetectedLanguage.Score)
	}

	t.logger.Debug().
		Str("detected_language", out.DetectedLanguage).
		Float64("score", out.DetectedLanguageScore).
		Str("to", t.target).
		Msg("text translated")

	return out, nil
}

func (t *AzureTranslator) call(ctx context.Context, text string) ([]azureDocument, error) {
	body, err := json.Marshal([]azureTextItem{{Text: text}})
	if err != nil {
		return nil, fmt.Errorf("marshal translate request: %w", err)
	}

	params := url.Values{}
	params.Set("api-version", azureAPIVersion)
	params.Set("to", t.target)

	reqURL := t.endpoint + azureTranslatePath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create translate request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSubscriptionKey, t.key)
	req.Header.Set(headerTraceID, uuid.NewString())

	if t.region != "" {
		req.Header.Set(headerRegion, t.region)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return nil, fmt.Errorf("%w %d: %s", apperrors.ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var docs []azureDocument
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode translate response: %w", err)
	}

	return docs, nil
}

var _ Translator = (*AzureTranslator)(nil)
