package triage

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category is the classification label assigned to an email.
type Category int

const (
	// Unrecognized means the model answered but the answer did not name a
	// known category. It is a valid result, not an error.
	Unrecognized Category = iota
	Billing
	Technical
	FeatureRequest
	Sales
	GeneralInquiry
)

// Categories lists the known categories in the order the zero-shot prompt
// enumerates them.
var Categories = []Category{Billing, Technical, FeatureRequest, Sales, GeneralInquiry}

var categoryNames = map[Category]string{
	Unrecognized:   "Unrecognized",
	Billing:        "Billing",
	Technical:      "Technical",
	FeatureRequest: "Feature Request",
	Sales:          "Sales",
	GeneralInquiry: "General Inquiry",
}

var categoryLabels = map[Category]string{
	Billing:        "Billing Issue",
	Technical:      "Technical Problem",
	FeatureRequest: "Feature Request",
	Sales:          "Sales",
	GeneralInquiry: "General Inquiry",
}

// Accepted spellings, compared after normalization.
var categorySynonyms = map[Category][]string{
	Billing: {
		"billing", "billing issue", "billing problem", "billing question",
		"billing inquiry", "payment", "payment issue", "refund", "refund request",
	},
	Technical: {
		"technical", "technical problem", "technical issue", "technical support",
		"tech support", "technical question", "bug", "bug report",
	},
	FeatureRequest: {
		"feature request", "feature", "feature suggestion", "enhancement",
		"enhancement request", "product suggestion",
	},
	Sales: {
		"sales", "sales inquiry", "sales question", "sales lead", "pricing",
		"pricing inquiry",
	},
	GeneralInquiry: {
		"general inquiry", "general", "general question", "general enquiry",
		"inquiry", "enquiry",
	},
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label returns the wording used in the zero-shot category list.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return c.String()
}

// Slug returns the identifier used in configuration files and JSON.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "_")
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Slug()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	category, ok := ParseCategory(string(text))
	if !ok {
		if normalizeLabel(string(text)) != "unrecognized" {
			return fmt.Errorf("unknown category %q", string(text))
		}
		category = Unrecognized
	}
	*c = category
	return nil
}

// ParseCategory matches s against category names and synonyms, ignoring case,
// surrounding whitespace and underscores or hyphens used as separators.
func ParseCategory(s string) (Category, bool) {
	category, ok := synonymIndex[normalizeLabel(s)]
	return category, ok
}

var synonymIndex = func() map[string]Category {
	index := map[string]Category{}
	for category, synonyms := range categorySynonyms {
		for _, synonym := range synonyms {
			index[synonym] = category
		}
		index[normalizeLabel(category.String())] = category
		index[normalizeLabel(category.Label())] = category
	}
	return index
}()

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

type mentionPattern struct {
	category Category
	pattern  *regexp.Regexp
}

// Phrases that count as naming a category inside free text. Longer phrases
// are matched first and consumed so that "feature request" is not also read
// as some other category's shorter phrase.
var mentionPatterns = func() []mentionPattern {
	type phrase struct {
		text     string
		category Category
	}
	var phrases []phrase
	for _, category := range Categories {
		seen := map[string]bool{}
		for _, text := range []string{category.String(), category.Label()} {
			text = normalizeLabel(text)
			if !seen[text] {
				seen[text] = true
				phrases = append(phrases, phrase{text, category})
			}
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].text) > len(phrases[j].text)
	})
	patterns := make([]mentionPattern, 0, len(phrases))
	for _, p := range phrases {
		expr := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(p.text), " ", `[\s_-]+`) + `\b`
		patterns = append(patterns, mentionPattern{p.category, regexp.MustCompile(expr)})
	}
	return patterns
}()

// mentionedCategory returns the single category named in text. It reports
// false when no category or more than one distinct category is mentioned.
func mentionedCategory(text string) (Category, bool) {
	found := Unrecognized
	for _, m := range mentionPatterns {
		if !m.pattern.MatchString(text) {
			continue
		}
		if found != Unrecognized && found != m.category {
			return Unrecognized, false
		}
		found = m.category
		text = m.pattern.ReplaceAllString(text, " ")
	}
	return found, found != Unrecognized
}

// Urgency is the priority assigned by chain-of-thought analysis.
type Urgency int

const (
	UrgencyLow Urgency = iota + 1
	UrgencyMedium
	UrgencyHigh
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "Low"
	case UrgencyMedium:
		return "Medium"
	case UrgencyHigh:
		return "High"
	}
	return "None"
}

func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(u.String())), nil
}

var urgencyPattern = regexp.MustCompile(`(?i)\b(low|medium|moderate|high|urgent|critical)\b`)

// ParseUrgency returns the first urgency level named in s.
func ParseUrgency(s string) (Urgency, bool) {
	match := urgencyPattern.FindString(s)
	switch strings.ToLower(match) {
	case "low":
		return UrgencyLow, true
	case "medium", "moderate":
		return UrgencyMedium, true
	case "high", "urgent", "critical":
		return UrgencyHigh, true
	}
	return 0, false
}

// Polarity is a coarse reading of a free-text sentiment.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
	PolarityMixed    Polarity = "mixed"
	PolarityUnknown  Polarity = "unknown"
)

// Sentiment is the model's description of how the customer feels.
type Sentiment string

var (
	negativeStems = []string{
		"frustrat", "angry", "anger", "annoy", "upset", "disappoint", "negative",
		"dissatisf", "unhappy", "irritat", "concern", "worr", "anxious", "confus",
		"impatien", "exasperat", "furious",
	}
	positiveStems = []string{
		"positive", "happy", "satisf", "pleased", "interest", "excit", "grateful",
		"appreciat", "enthusias", "curious", "eager", "optimis", "hopeful",
	}
	neutralStems = []string{"neutral", "calm", "factual", "matter", "polite"}
)

// Polarity derives a polarity from keywords in the sentiment text.
func (s Sentiment) Polarity() Polarity {
	var positive, negative, neutral bool
	for _, word := range strings.FieldsFunc(strings.ToLower(string(s)), isWordSeparator) {
		if word == "mixed" {
			return PolarityMixed
		}
		switch {
		case hasAnyPrefix(word, negativeStems):
			negative = true
		case hasAnyPrefix(word, positiveStems):
			positive = true
		case hasAnyPrefix(word, neutralStems):
			neutral = true
		}
	}
	switch {
	case positive && negative:
		return PolarityMixed
	case negative:
		return PolarityNegative
	case positive:
		return PolarityPositive
	case neutral:
		return PolarityNeutral
	}
	return PolarityUnknown
}

func isWordSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z') && r != '-'
}

func hasAnyPrefix(word string, stems []string) bool {
	for _, stem := range stems {
		if strings.HasPrefix(word, stem) {
			return true
		}
	}
	return false
}

// StrategyKind names a prompting technique.
type StrategyKind int

const (
	ZeroShot StrategyKind = iota
	FewShot
	ChainOfThought
)

// StrategyKinds lists every technique in demo order.
var StrategyKinds = []StrategyKind{ZeroShot, FewShot, ChainOfThought}

func (k StrategyKind) String() string {
	switch k {
	case ZeroShot:
		return "zero_shot"
	case FewShot:
		return "few_shot"
	case ChainOfThought:
		return "chain_of_thought"
	}
	return fmt.Sprintf("StrategyKind(%d)", int(k))
}

// Title returns a display name such as "Chain of thought".
func (k StrategyKind) Title() string {
	switch k {
	case ZeroShot:
		return "Zero-shot"
	case FewShot:
		return "Few-shot"
	case ChainOfThought:
		return "Chain of thought"
	}
	return k.String()
}

func (k StrategyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StrategyKind) UnmarshalText(text []byte) error {
	kind, err := ParseStrategyKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseStrategyKind accepts "zero_shot", "zero-shot", "zeroshot", "few_shot",
// "chain_of_thought", "cot" and similar spellings.
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch strings.ReplaceAll(normalizeLabel(s), " ", "") {
	case "zeroshot", "zero":
		return ZeroShot, nil
	case "fewshot", "few":
		return FewShot, nil
	case "chainofthought", "cot", "chain":
		return ChainOfThought, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Example is a labeled email shown to the model by the few-shot strategy.
type Example struct {
	Email    string   `json:"email"`
	Category Category `json:"category"`
}
