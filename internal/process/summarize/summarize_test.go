package summarize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/document-translator/internal/core/llm"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Name() llm.ProviderName {
	return llm.ProviderMock
}

func (m *mockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)

	return args.String(0), args.Error(1)
}

func newSummarizer(gen llm.Generator) *Summarizer {
	logger := zerolog.Nop()

	return New(gen, &logger)
}

func TestSummarize_BothSucceed(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, SummaryPrompt, "Hello").Return("Greeting.", nil).Once()
	gen.On("Generate", mock.Anything, DescriptionPrompt, "Hello").Return("A greeting.", nil).Once()

	res := newSummarizer(gen).Summarize(context.Background(), "Hello")

	require.NotNil(t, res.Summary)
	require.NotNil(t, res.Description)
	assert.Equal(t, "Greeting.", *res.Summary)
	assert.Equal(t, "A greeting.", *res.Description)
	gen.AssertExpectations(t)
}

func TestSummarize_IndependentFailures(t *testing.T) {
	tests := []struct {
		name            string
		summaryOut      string
		summaryErr      error
		descriptionOut  string
		descriptionErr  error
		wantSummary     bool
		wantDescription bool
	}{
		{
			name:            "summary fails",
			summaryErr:      errors.New("quota exceeded"),
			descriptionOut:  "A greeting.",
			wantDescription: true,
		},
		{
			name:           "description fails",
			summaryOut:     "Greeting.",
			descriptionErr: errors.New("content filter"),
			wantSummary:    true,
		},
		{
			name:           "both fail",
			summaryErr:     errors.New("down"),
			descriptionErr: errors.New("down"),
		},
		{
			name:            "blank summary",
			summaryOut:      "  \n",
			descriptionOut:  "A greeting.",
			wantDescription: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, SummaryPrompt, mock.Anything).Return(tt.summaryOut, tt.summaryErr)
			gen.On("Generate", mock.Anything, DescriptionPrompt, mock.Anything).Return(tt.descriptionOut, tt.descriptionErr)

			res := newSummarizer(gen).Summarize(context.Background(), "Hello")

			assert.Equal(t, tt.wantSummary, res.Summary != nil)
			assert.Equal(t, tt.wantDescription, res.Description != nil)
		})
	}
}

func TestSummarize_RunsConcurrently(t *testing.T) {
	const delay = 100 * time.Millisecond

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("done", nil).
		After(delay)

	start := time.Now()
	res := newSummarizer(gen).Summarize(context.Background(), "Hello")
	elapsed := time.Since(start)

	require.NotNil(t, res.Summary)
	require.NotNil(t, res.Description)
	assert.Less(t, elapsed, 2*delay)
}
