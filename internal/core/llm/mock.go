package llm

import (
	"context"
	"strings"
	"unicode/utf8"
)

const mockExcerptRunes = 80

// mockProvider implements Generator for local runs without credentials.
// Output is deterministic for a given input.
type mockProvider struct{}

// NewMockProvider creates a new mock generator.
func NewMockProvider() *mockProvider {
	return &mockProvider{}
}

// Name returns the provider identifier.
func (p *mockProvider) Name() ProviderName {
	return ProviderMock
}

// Generate implements Generator.
func (p *mockProvider) Generate(_ context.Context, _, user string) (string, error) {
	excerpt := strings.Join(strings.Fields(user), " ")
	if utf8.RuneCountInString(excerpt) > mockExcerptRunes {
		excerpt = string([]rune(excerpt)[:mockExcerptRunes]) + "..."
	}

	if excerpt == "" {
		return "Mock response", nil
	}

	return "Mock response: " + excerpt, nil
}

// Ensure mockProvider implements Generator interface.
var _ Generator = (*mockProvider)(nil)
