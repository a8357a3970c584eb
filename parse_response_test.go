package triage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestParseLabelSynonyms(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"Billing Issue", Billing},
		{"billing issue", Billing},
		{"BILLING", Billing},
		{"  Billing\n", Billing},
		{"**Billing Issue**", Billing},
		{"Category: Billing Issue", Billing},
		{"\"Billing\"", Billing},
		{"billing_issue", Billing},
		{"1. Billing Issue", Billing},
		{"Technical Problem.", Technical},
		{"technical", Technical},
		{"Feature Request", FeatureRequest},
		{"feature-request", FeatureRequest},
		{"Sales", Sales},
		{"General Inquiry", GeneralInquiry},
		{"3", FeatureRequest},
		{"5.", GeneralInquiry},
		{"Category: 2", Technical},
	}
	for _, tt := range tests {
		for _, kind := range []StrategyKind{ZeroShot, FewShot} {
			result, err := Parse(tt.input, kind)
			assert.NoError(t, err, "%q", tt.input)
			assert.Equal(t, tt.expected, result.Category(), "%q", tt.input)
			assert.Equal(t, tt.input, result.Raw())
			assert.Equal(t, kind, result.Strategy())
		}
	}
}

func TestParseLabelFreeText(t *testing.T) {
	result, err := Parse("This email describes a technical problem with uploads.", ZeroShot)
	assert.NoError(t, err)
	assert.Equal(t, Technical, result.Category())

	result, err = Parse("Category:\nFeature Request", FewShot)
	assert.NoError(t, err)
	assert.Equal(t, FeatureRequest, result.Category())
}

func TestParseLabelUnrecognized(t *testing.T) {
	for _, input := range []string{"Banana", "Could be Billing or Sales", "7", "Shipping delay", "Other"} {
		result, err := Parse(input, ZeroShot)
		assert.NoError(t, err, "%q", input)
		assert.Equal(t, Unrecognized, result.Category(), "%q", input)
		assert.Equal(t, input, result.Raw())
	}
}

func TestParseStripsThinking(t *testing.T) {
	raw := "<think>The customer was charged twice.</think>\n\nBilling Issue"
	result, err := Parse(raw, ZeroShot)
	assert.NoError(t, err)
	assert.Equal(t, Billing, result.Category())
	rationale, ok := result.Rationale()
	assert.True(t, ok)
	assert.Equal(t, "The customer was charged twice.", rationale)
	assert.Equal(t, raw, result.Raw())

	_, ok = result.Urgency()
	assert.False(t, ok)
	_, ok = result.Sentiment()
	assert.False(t, ok)
}

func TestParseEmptyIsParseFailure(t *testing.T) {
	inputs := []string{"", "   ", "\n\t\n", "<think>still thinking</think>", "<think>cut off mid"}
	for _, kind := range StrategyKinds {
		for _, input := range inputs {
			result, err := Parse(input, kind)
			assert.True(t, result == nil)
			assert.True(t, errors.Is(err, ErrParseFailure), "%s %q", kind, input)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, kind, parseErr.Strategy)
		}
	}
}

func TestParseChainOfThoughtCategoryOnly(t *testing.T) {
	result, err := Parse("Category: Technical", ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Technical, result.Category())
	_, ok := result.Urgency()
	assert.False(t, ok)
	_, ok = result.Sentiment()
	assert.False(t, ok)
}

func TestParseChainOfThoughtLabeledLines(t *testing.T) {
	raw := `Let me work through this.

1. **Main issue:** The app crashes when uploading files over 10MB.
2. **Category:** Technical
3. **Urgency:** High
4. **Sentiment:** Frustrated`
	result, err := Parse(raw, ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Technical, result.Category())
	urgency, ok := result.Urgency()
	assert.True(t, ok)
	assert.Equal(t, UrgencyHigh, urgency)
	sentiment, ok := result.Sentiment()
	assert.True(t, ok)
	assert.Equal(t, Sentiment("Frustrated"), sentiment)
	assert.Equal(t, PolarityNegative, sentiment.Polarity())
	rationale, ok := result.Rationale()
	assert.True(t, ok)
	assert.Equal(t, "The app crashes when uploading files over 10MB.", rationale)
}

func TestParseChainOfThoughtMarkdownLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "bold numbered labels",
			raw: `**1. Main issue:** Charged twice for the March invoice.
**2. Category:** Billing
**3. Urgency:** High
**4. Sentiment:** Frustrated`,
		},
		{
			name: "bold labels with dash separator",
			raw: `1) **Main issue** - Charged twice for the March invoice.
2) **Category** - Billing
3) **Urgency** - High
4) **Sentiment** - Frustrated`,
		},
		{
			name: "table rows",
			raw: `| Field | Value |
| --- | --- |
| Main issue | Charged twice for the March invoice. |
| Category | **Billing** |
| Urgency | High |
| Sentiment | Frustrated |`,
		},
		{
			name: "bold list items",
			raw: `- **Main issue:** Charged twice for the March invoice.
- **Category:** Billing
- __Urgency:__ High
- *Sentiment:* Frustrated`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.raw, ChainOfThought)
			assert.NoError(t, err)
			assert.Equal(t, Billing, result.Category())
			urgency, ok := result.Urgency()
			assert.True(t, ok)
			assert.Equal(t, UrgencyHigh, urgency)
			sentiment, ok := result.Sentiment()
			assert.True(t, ok)
			assert.Equal(t, Sentiment("Frustrated"), sentiment)
			rationale, ok := result.Rationale()
			assert.True(t, ok)
			assert.Equal(t, "Charged twice for the March invoice.", rationale)
		})
	}
}

func TestParseChainOfThoughtPendingLabelSkipsLabeledLine(t *testing.T) {
	raw := "Category\nUrgency: High"
	result, err := Parse(raw, ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Unrecognized, result.Category())
	urgency, ok := result.Urgency()
	assert.True(t, ok)
	assert.Equal(t, UrgencyHigh, urgency)
}

func TestParseChainOfThoughtHeadings(t *testing.T) {
	raw := `### Category
Billing Issue

### Urgency
Medium

### Sentiment
Polite but concerned`
	result, err := Parse(raw, ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Billing, result.Category())
	urgency, _ := result.Urgency()
	assert.Equal(t, UrgencyMedium, urgency)
	sentiment, _ := result.Sentiment()
	assert.Equal(t, Sentiment("Polite but concerned"), sentiment)
}

func TestParseChainOfThoughtQuestions(t *testing.T) {
	raw := `1. What is the main issue or request? The customer was billed twice.
2. What category does this belong to (Billing/Technical/Sales)? Billing
3. What is the urgency level (Low/Medium/High)? High
4. What sentiment does the customer express? Annoyed`
	result, err := Parse(raw, ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Billing, result.Category())
	urgency, _ := result.Urgency()
	assert.Equal(t, UrgencyHigh, urgency)
	rationale, _ := result.Rationale()
	assert.Equal(t, "The customer was billed twice.", rationale)
}

func TestParseChainOfThoughtLastLabelWins(t *testing.T) {
	raw := "Category: Sales\nOn reflection the question is about an invoice.\nCategory: Billing"
	result, err := Parse(raw, ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Billing, result.Category())
}

func TestParseChainOfThoughtUnmatchedCategory(t *testing.T) {
	result, err := Parse("Category: Shipping\nUrgency: Low", ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Unrecognized, result.Category())
	urgency, ok := result.Urgency()
	assert.True(t, ok)
	assert.Equal(t, UrgencyLow, urgency)
}

func TestParseChainOfThoughtMissingCategory(t *testing.T) {
	result, err := Parse("Urgency: High\nSentiment: calm", ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Unrecognized, result.Category())
	sentiment, _ := result.Sentiment()
	assert.Equal(t, PolarityNeutral, sentiment.Polarity())
}

func TestParseChainOfThoughtUnlabeled(t *testing.T) {
	result, err := Parse("This is clearly a billing matter.", ChainOfThought)
	assert.NoError(t, err)
	assert.Equal(t, Billing, result.Category())

	_, err = Parse("I am not sure what to say here.", ChainOfThought)
	assert.True(t, errors.Is(err, ErrParseFailure))

	_, err = Parse("It is either billing or sales.", ChainOfThought)
	assert.True(t, errors.Is(err, ErrParseFailure))
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{
		"Billing Issue",
		"<think>hmm</think>Sales",
		"Main issue: crash\nCategory: Technical\nUrgency: High\nSentiment: upset",
		"nonsense",
	}
	for _, kind := range StrategyKinds {
		for _, input := range inputs {
			first, firstErr := Parse(input, kind)
			second, secondErr := Parse(input, kind)
			if firstErr != nil {
				assert.Error(t, secondErr)
				assert.Equal(t, firstErr.Error(), secondErr.Error())
				continue
			}
			assert.NoError(t, secondErr)
			firstJSON, err := json.Marshal(first)
			assert.NoError(t, err)
			secondJSON, err := json.Marshal(second)
			assert.NoError(t, err)
			assert.Equal(t, string(firstJSON), string(secondJSON))
		}
	}
}

func TestParseUnknownStrategy(t *testing.T) {
	_, err := Parse("Billing", StrategyKind(9))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
