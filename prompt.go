package triage

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxEmailLength is the longest email, in characters, accepted by
	// a PromptBuilder with no MaxLength set.
	DefaultMaxEmailLength = 10000

	MinExamples = 3
	MaxExamples = 10
)

// PromptBuilder renders classification prompts. The zero value is ready to
// use and applies DefaultMaxEmailLength.
type PromptBuilder struct {
	MaxLength int
}

type promptData struct {
	Fence    string
	Email    string
	Labels   []string
	Names    []string
	Examples []exampleData
}

type exampleData struct {
	Fence    string
	Email    string
	Category string
}

// BuildPrompt renders a prompt with the default PromptBuilder.
func BuildPrompt(kind StrategyKind, email string, examples []Example) (string, error) {
	return PromptBuilder{}.Build(kind, email, examples)
}

// Build renders the prompt for kind. The email is embedded verbatim. Examples
// are only used by FewShot; when none are given the default examples are
// used.
func (b PromptBuilder) Build(kind StrategyKind, email string, examples []Example) (string, error) {
	if err := b.ValidateEmail(email); err != nil {
		return "", err
	}
	data := promptData{
		Fence: emailFence(email),
		Email: email,
		Names: categoryStrings(Category.String),
	}
	switch kind {
	case ZeroShot:
		data.Labels = categoryStrings(Category.Label)
		return executeTemplate(zeroShotPromptTemplate, data)
	case FewShot:
		if len(examples) == 0 {
			examples = defaultExamples
		}
		if err := ValidateExamples(examples); err != nil {
			return "", err
		}
		data.Examples = make([]exampleData, 0, len(examples))
		for _, example := range examples {
			data.Examples = append(data.Examples, exampleData{
				Fence:    emailFence(example.Email),
				Email:    example.Email,
				Category: example.Category.String(),
			})
		}
		return executeTemplate(fewShotPromptTemplate, data)
	case ChainOfThought:
		return executeTemplate(chainOfThoughtPromptTemplate, data)
	}
	return "", inputError("strategy", "unknown strategy %d", int(kind))
}

// ValidateEmail rejects blank emails and emails longer than the builder's
// maximum length.
func (b PromptBuilder) ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return inputError("email", "email is empty")
	}
	limit := b.MaxLength
	if limit <= 0 {
		limit = DefaultMaxEmailLength
	}
	if n := utf8.RuneCountInString(email); n > limit {
		return inputError("email", "email is %d characters, limit is %d", n, limit)
	}
	return nil
}

// ValidateExamples checks a few-shot example set: between MinExamples and
// MaxExamples entries, each with text and a known category.
func ValidateExamples(examples []Example) error {
	if len(examples) < MinExamples || len(examples) > MaxExamples {
		return inputError("examples", "need %d to %d examples, got %d",
			MinExamples, MaxExamples, len(examples))
	}
	for i, example := range examples {
		if strings.TrimSpace(example.Email) == "" {
			return inputError("examples", "example %d has no email", i+1)
		}
		if example.Category == Unrecognized {
			return inputError("examples", "example %d has no category", i+1)
		}
		if _, ok := categoryNames[example.Category]; !ok {
			return inputError("examples", "example %d has an unknown category", i+1)
		}
	}
	return nil
}

// emailFence returns a run of backticks longer than any run inside text, so
// the text can never close the fence.
func emailFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

func categoryStrings(fn func(Category) string) []string {
	out := make([]string, 0, len(Categories))
	for _, category := range Categories {
		out = append(out, fn(category))
	}
	return out
}
