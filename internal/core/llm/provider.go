package llm

// ProviderName identifies an LLM provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI      ProviderName = "openai"
	ProviderAzureOpenAI ProviderName = "azure-openai"
	ProviderAnthropic   ProviderName = "anthropic"
	ProviderGoogle      ProviderName = "google"
	ProviderMock        ProviderName = "mock"
)

// Default models per provider.
const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5"
	defaultGoogleModel    = "gemini-2.5-flash-lite"
	defaultMaxTokens      = 1024
)

// Log key strings
const (
	logKeyProvider  = "provider"
	logKeyModel     = "model"
	logKeyElapsedMS = "elapsed_ms"
	logKeyInputLen  = "input_len"
)

func resolveMaxTokens(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}

	return n
}
