package triage

import (
	"fmt"

	"github.com/deepnoodle-ai/triage/llm"
)

// StrategyConfig holds the generation parameters of a strategy. An empty
// Model defers to the client's default model.
type StrategyConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Examples    []Example
}

// Validate checks the parameters for use with the given strategy kind.
func (c StrategyConfig) Validate(kind StrategyKind) error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return inputError("temperature", "must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return inputError("max_tokens", "must be positive, got %d", c.MaxTokens)
	}
	if len(c.Examples) > 0 {
		if kind != FewShot {
			return inputError("examples", "only the few-shot strategy uses examples")
		}
		if err := ValidateExamples(c.Examples); err != nil {
			return err
		}
	}
	return nil
}

// Strategy pairs a prompting technique with its generation parameters. A
// Strategy is immutable and safe to share between goroutines.
type Strategy struct {
	kind   StrategyKind
	config StrategyConfig
}

// NewStrategy validates config and returns a strategy. The example set is
// copied.
func NewStrategy(kind StrategyKind, config StrategyConfig) (*Strategy, error) {
	switch kind {
	case ZeroShot, FewShot, ChainOfThought:
	default:
		return nil, inputError("strategy", "unknown strategy %d", int(kind))
	}
	if err := config.Validate(kind); err != nil {
		return nil, err
	}
	config.Examples = append([]Example(nil), config.Examples...)
	return &Strategy{kind: kind, config: config}, nil
}

// DefaultConfig returns the parameters each technique was tuned with.
func DefaultConfig(kind StrategyKind) StrategyConfig {
	switch kind {
	case FewShot:
		return StrategyConfig{Temperature: 0.1, MaxTokens: 100}
	case ChainOfThought:
		return StrategyConfig{Temperature: 0.3, MaxTokens: 250}
	default:
		return StrategyConfig{Temperature: 0.1, MaxTokens: 50}
	}
}

// DefaultStrategy returns kind with its default parameters.
func DefaultStrategy(kind StrategyKind) *Strategy {
	strategy, err := NewStrategy(kind, DefaultConfig(kind))
	if err != nil {
		panic(fmt.Sprintf("invalid default strategy %s: %v", kind, err))
	}
	return strategy
}

// DefaultStrategies returns every technique with default parameters.
func DefaultStrategies() []*Strategy {
	strategies := make([]*Strategy, 0, len(StrategyKinds))
	for _, kind := range StrategyKinds {
		strategies = append(strategies, DefaultStrategy(kind))
	}
	return strategies
}

func (s *Strategy) Kind() StrategyKind {
	return s.kind
}

func (s *Strategy) Model() string {
	return s.config.Model
}

func (s *Strategy) Temperature() float64 {
	return s.config.Temperature
}

func (s *Strategy) MaxTokens() int {
	return s.config.MaxTokens
}

// Examples returns a copy of the few-shot examples, or nil when the default
// set applies.
func (s *Strategy) Examples() []Example {
	return append([]Example(nil), s.config.Examples...)
}

func (s *Strategy) String() string {
	return s.kind.String()
}

// Prompt renders the prompt for email.
func (s *Strategy) Prompt(builder PromptBuilder, email string) (string, error) {
	return builder.Build(s.kind, email, s.config.Examples)
}

// Request builds the completion request for a rendered prompt.
func (s *Strategy) Request(prompt string) *llm.Request {
	return llm.NewRequest(prompt,
		llm.WithModel(s.config.Model),
		llm.WithTemperature(s.config.Temperature),
		llm.WithMaxTokens(s.config.MaxTokens),
	)
}

// Parse interprets raw output according to the strategy kind.
func (s *Strategy) Parse(raw string) (*Result, error) {
	return Parse(raw, s.kind)
}

var defaultExamples = []Example{
	{Email: "My credit card was declined but I was still charged.", Category: Billing},
	{Email: "I want to inquire about the teams plan for my company.", Category: Sales},
	{Email: "I am facing 500 code when I try to go to the settings page.", Category: Technical},
}

// DefaultExamples returns the built-in few-shot examples.
func DefaultExamples() []Example {
	return append([]Example(nil), defaultExamples...)
}

var sampleEmails = []string{
	"I've been charged twice for my subscription this month. Can you refund one payment?",
	"The app crashes every time I try to upload a file larger than 10MB.",
	"I'm interested in upgrading to the enterprise plan. What features does it include?",
}

// SampleEmails returns the demo emails: a double charge, a crash report and
// an upgrade question.
func SampleEmails() []string {
	return append([]string(nil), sampleEmails...)
}
