package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
)

// Translator backends.
const (
	TranslatorAzure = "azure"
	TranslatorLLM   = "llm"
)

// LLM providers.
const (
	LLMProviderOpenAI      = "openai"
	LLMProviderAzureOpenAI = "azure-openai"
	LLMProviderAnthropic   = "anthropic"
	LLMProviderGoogle      = "google"
	LLMProviderMock        = "mock"
)

const errMissingFmt = "%w: %s is required"

type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"local"`
	HTTPPort       int    `env:"HTTP_PORT" envDefault:"8080"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Document analysis
	DocIntelEndpoint     string        `env:"DOCINTEL_ENDPOINT"`
	DocIntelKey          string        `env:"DOCINTEL_KEY"`
	DocIntelAPIVersion   string        `env:"DOCINTEL_API_VERSION" envDefault:"2024-11-30"`
	DocIntelModel        string        `env:"DOCINTEL_MODEL" envDefault:"prebuilt-layout"`
	DocIntelPollInterval time.Duration `env:"DOCINTEL_POLL_INTERVAL" envDefault:"1s"`
	ExtractionTimeout    time.Duration `env:"EXTRACTION_TIMEOUT" envDefault:"2m"`

	// Translation
	TranslatorProvider      string        `env:"TRANSLATOR_PROVIDER" envDefault:"azure"`
	TranslatorEndpoint      string        `env:"TRANSLATOR_ENDPOINT" envDefault:"https://api.cognitive.microsofttranslator.com"`
	TranslatorKey           string        `env:"TRANSLATOR_KEY"`
	TranslatorRegion        string        `env:"TRANSLATOR_REGION"`
	TranslateTargetLanguage string        `env:"TRANSLATE_TARGET_LANGUAGE" envDefault:"en"`
	TranslationTimeout      time.Duration `env:"TRANSLATION_TIMEOUT" envDefault:"30s"`

	// Text generation
	LLMProvider           string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey             string        `env:"LLM_API_KEY"`
	LLMModel              string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMBaseURL            string        `env:"LLM_BASE_URL"`
	LLMMaxTokens          int           `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	AzureOpenAIEndpoint   string        `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIVersion string        `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-06-01"`
	AzureOpenAIDeployment string        `env:"AZURE_OPENAI_DEPLOYMENT"`
	AnthropicAPIKey       string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel        string        `env:"ANTHROPIC_MODEL"`
	GoogleAPIKey          string        `env:"GOOGLE_API_KEY"`
	GoogleModel           string        `env:"GOOGLE_MODEL"`
	GenerationTimeout     time.Duration `env:"GENERATION_TIMEOUT" envDefault:"60s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyAzureFunctionAliases(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks provider-specific required keys and the target language tag.
func (c *Config) Validate() error {
	if c.DocIntelEndpoint == "" {
		return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "DOCINTEL_ENDPOINT")
	}

	if c.DocIntelKey == "" {
		return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "DOCINTEL_KEY")
	}

	if _, err := language.Parse(c.TranslateTargetLanguage); err != nil {
		return fmt.Errorf("%w: TRANSLATE_TARGET_LANGUAGE %q: %w", apperrors.ErrInvalidConfig, c.TranslateTargetLanguage, err)
	}

	switch c.TranslatorProvider {
	case TranslatorAzure:
		if c.TranslatorKey == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "TRANSLATOR_KEY")
		}
	case TranslatorLLM:
	default:
		return fmt.Errorf("%w: unknown TRANSLATOR_PROVIDER %q", apperrors.ErrInvalidConfig, c.TranslatorProvider)
	}

	return c.validateLLM()
}

func (c *Config) validateLLM() error {
	switch c.LLMProvider {
	case LLMProviderOpenAI:
		if c.LLMAPIKey == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "LLM_API_KEY")
		}
	case LLMProviderAzureOpenAI:
		if c.LLMAPIKey == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "LLM_API_KEY")
		}

		if c.AzureOpenAIEndpoint == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "AZURE_OPENAI_ENDPOINT")
		}
	case LLMProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "ANTHROPIC_API_KEY")
		}
	case LLMProviderGoogle:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf(errMissingFmt, apperrors.ErrInvalidConfig, "GOOGLE_API_KEY")
		}
	case LLMProviderMock:
	default:
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", apperrors.ErrInvalidConfig, c.LLMProvider)
	}

	return nil
}

// applyAzureFunctionAliases accepts the variable names used by the Azure Functions deployment.
func applyAzureFunctionAliases(cfg *Config) {
	if !hasEnv("DOCINTEL_ENDPOINT") {
		setStringFromEnv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", &cfg.DocIntelEndpoint)
	}

	if !hasEnv("DOCINTEL_KEY") {
		setStringFromEnv("AZURE_DOCUMENT_INTELLIGENCE_KEY", &cfg.DocIntelKey)
	}

	if !hasEnv("TRANSLATOR_ENDPOINT") {
		setStringFromEnv("AZURE_TRANSLATE_ENDPOINT", &cfg.TranslatorEndpoint)
	}

	if !hasEnv("TRANSLATOR_KEY") {
		setStringFromEnv("AZURE_TRANSLATE_KEY", &cfg.TranslatorKey)
	}

	if !hasEnv("TRANSLATOR_REGION") {
		setStringFromEnv("AZURE_TRANSLATE_REGION", &cfg.TranslatorRegion)
	}

	if !hasEnv("LLM_API_KEY") {
		setStringFromEnv("AZURE_OPENAI_KEY", &cfg.LLMAPIKey)
	}
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}
