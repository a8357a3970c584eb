package triage

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestDefaultStrategies(t *testing.T) {
	tests := []struct {
		kind        StrategyKind
		temperature float64
		maxTokens   int
	}{
		{ZeroShot, 0.1, 50},
		{FewShot, 0.1, 100},
		{ChainOfThought, 0.3, 250},
	}
	for _, tt := range tests {
		strategy := DefaultStrategy(tt.kind)
		assert.Equal(t, tt.kind, strategy.Kind())
		assert.Equal(t, tt.temperature, strategy.Temperature())
		assert.Equal(t, tt.maxTokens, strategy.MaxTokens())
		assert.Equal(t, "", strategy.Model())
	}
	assert.Len(t, DefaultStrategies(), 3)
}

func TestNewStrategyValidation(t *testing.T) {
	tests := []struct {
		name   string
		kind   StrategyKind
		config StrategyConfig
	}{
		{"negative temperature", ZeroShot, StrategyConfig{Temperature: -0.1, MaxTokens: 10}},
		{"temperature above two", ZeroShot, StrategyConfig{Temperature: 2.5, MaxTokens: 10}},
		{"zero max tokens", ChainOfThought, StrategyConfig{Temperature: 0.3}},
		{"examples on zero-shot", ZeroShot, StrategyConfig{Temperature: 0.1, MaxTokens: 10, Examples: DefaultExamples()}},
		{"too few examples", FewShot, StrategyConfig{Temperature: 0.1, MaxTokens: 10, Examples: DefaultExamples()[:2]}},
		{"unknown kind", StrategyKind(7), StrategyConfig{Temperature: 0.1, MaxTokens: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStrategy(tt.kind, tt.config)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestStrategyCopiesExamples(t *testing.T) {
	examples := DefaultExamples()
	strategy, err := NewStrategy(FewShot, StrategyConfig{Temperature: 0.1, MaxTokens: 100, Examples: examples})
	assert.NoError(t, err)

	examples[0].Email = "changed by caller"
	assert.Equal(t, DefaultExamples()[0].Email, strategy.Examples()[0].Email)

	returned := strategy.Examples()
	returned[1].Category = Technical
	assert.Equal(t, Sales, strategy.Examples()[1].Category)
}

func TestStrategyRequest(t *testing.T) {
	strategy, err := NewStrategy(ChainOfThought, StrategyConfig{
		Model:       "openai/gpt-oss-120b",
		Temperature: 0.3,
		MaxTokens:   250,
	})
	assert.NoError(t, err)
	req := strategy.Request("prompt text")
	assert.Equal(t, "openai/gpt-oss-120b", req.Model)
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, 250, req.MaxTokens)
	assert.Equal(t, "prompt text", req.Prompt())
	assert.NoError(t, req.Validate())
}

func TestSampleEmailsAreCopies(t *testing.T) {
	emails := SampleEmails()
	assert.Len(t, emails, 3)
	emails[0] = "mutated"
	assert.Contains(t, SampleEmails()[0], "charged twice")
}
