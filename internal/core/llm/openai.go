package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	apperrors "github.com/lueurxax/document-translator/internal/core/errors"
	"github.com/lueurxax/document-translator/internal/platform/config"
)

const errOpenAIChatCompletion = "openai chat completion error: %w"

// openaiProvider serves both api.openai.com and Azure OpenAI deployments.
type openaiProvider struct {
	name   ProviderName
	client *openai.Client
	model  string
	logger *zerolog.Logger
}

// NewOpenAIProvider creates a generator backed by the OpenAI chat completions API.
func NewOpenAIProvider(cfg *config.Config, logger *zerolog.Logger) *openaiProvider {
	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		clientCfg.BaseURL = cfg.LLMBaseURL
	}

	model := cfg.LLMModel
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openaiProvider{
		name:   ProviderOpenAI,
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

// NewAzureOpenAIProvider creates a generator backed by an Azure OpenAI deployment.
// Every request is routed to AZURE_OPENAI_DEPLOYMENT, falling back to LLM_MODEL.
func NewAzureOpenAIProvider(cfg *config.Config, logger *zerolog.Logger) *openaiProvider {
	deployment := cfg.AzureOpenAIDeployment
	if deployment == "" {
		deployment = cfg.LLMModel
	}

	clientCfg := openai.DefaultAzureConfig(cfg.LLMAPIKey, cfg.AzureOpenAIEndpoint)
	if cfg.AzureOpenAIAPIVersion != "" {
		clientCfg.APIVersion = cfg.AzureOpenAIAPIVersion
	}

	clientCfg.AzureModelMapperFunc = func(string) string {
		return deployment
	}

	return &openaiProvider{
		name:   ProviderAzureOpenAI,
		client: openai.NewClientWithConfig(clientCfg),
		model:  deployment,
		logger: logger,
	}
}

// Name returns the provider identifier.
func (p *openaiProvider) Name() ProviderName {
	return p.name
}

// Generate implements Generator.
func (p *openaiProvider) Generate(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer observe(p.name, p.model, start)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		p.logger.Debug().Err(err).
			Str(logKeyProvider, string(p.name)).
			Str(logKeyModel, p.model).
			Int64(logKeyElapsedMS, time.Since(start).Milliseconds()).
			Msg("chat completion failed")

		return "", fmt.Errorf(errOpenAIChatCompletion, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices: %w", p.name, apperrors.ErrEmptyResponse)
	}

	p.logger.Debug().
		Str(logKeyProvider, string(p.name)).
		Str(logKeyModel, p.model).
		Int(logKeyInputLen, len(user)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Int64(logKeyElapsedMS, time.Since(start).Milliseconds()).
		Msg("chat completion ok")

	return finalize(p.name, resp.Choices[0].Message.Content)
}

// Ensure openaiProvider implements Generator interface.
var _ Generator = (*openaiProvider)(nil)
