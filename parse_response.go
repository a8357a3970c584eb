package triage

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	thinkPattern     = regexp.MustCompile(`(?is)<think(?:ing)?>(.*?)</think(?:ing)?>`)
	openThinkPattern = regexp.MustCompile(`(?is)^\s*<think(?:ing)?>(.*)$`)
	listMarker       = regexp.MustCompile(`^(?:[-*+•]\s+|\(?\d{1,2}[.)]\s+|#+\s*|>\s*)`)
	labelPattern     = regexp.MustCompile(`^([A-Za-z][A-Za-z /()'-]{0,60}?)\s*(?::|\?|\s-\s)\s*(.*)$`)
	answerLabel      = regexp.MustCompile(`(?i)^(?:final\s+)?(?:category|classification|answer)\s*:\s*`)
	tableRule        = regexp.MustCompile(`^:?-{2,}:?$`)
)

// Parse interprets raw model output produced for the given strategy.
//
// Zero-shot and few-shot output is reduced to a single category. An answer
// that names no known category yields Unrecognized, not an error.
// Chain-of-thought output is read as labeled lines. Empty output, and
// chain-of-thought output with neither labeled fields nor an unambiguous
// category mention, is a *ParseError.
func Parse(raw string, kind StrategyKind) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Strategy: kind, Reason: "empty response", Raw: raw}
	}
	thinking, text := splitThinking(raw)
	if text == "" {
		return nil, &ParseError{Strategy: kind, Reason: "response contains only reasoning", Raw: raw}
	}
	switch kind {
	case ZeroShot, FewShot:
		return parseLabel(raw, thinking, text, kind), nil
	case ChainOfThought:
		return parseAnalysis(raw, thinking, text)
	}
	return nil, inputError("strategy", "unknown strategy %d", int(kind))
}

// splitThinking removes <think> blocks and returns their joined contents
// along with the remaining text. An unclosed block swallows the rest of the
// output.
func splitThinking(raw string) (thinking, text string) {
	var thoughts []string
	text = thinkPattern.ReplaceAllStringFunc(raw, func(block string) string {
		if m := thinkPattern.FindStringSubmatch(block); len(m) == 2 {
			if t := strings.TrimSpace(m[1]); t != "" {
				thoughts = append(thoughts, t)
			}
		}
		return "\n"
	})
	if m := openThinkPattern.FindStringSubmatch(text); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			thoughts = append(thoughts, t)
		}
		text = ""
	}
	return strings.Join(thoughts, "\n\n"), strings.TrimSpace(text)
}

func parseLabel(raw, thinking, text string, kind StrategyKind) *Result {
	category, ok := categoryFromAnswer(firstLine(text))
	if !ok {
		category, ok = mentionedCategory(text)
	}
	if !ok {
		category = Unrecognized
	}
	return &Result{
		category:  category,
		rationale: thinking,
		raw:       raw,
		strategy:  kind,
	}
}

// categoryFromAnswer matches a short answer such as "Billing Issue",
// "**Category:** Technical" or "3".
func categoryFromAnswer(answer string) (Category, bool) {
	s := cleanLine(answer)
	s = answerLabel.ReplaceAllString(s, "")
	s = strings.Trim(s, " \t\"'`*_.!")
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(Categories) {
			return Categories[n-1], true
		}
		return Unrecognized, false
	}
	return ParseCategory(s)
}

type field int

const (
	fieldNone field = iota
	fieldMainIssue
	fieldCategory
	fieldUrgency
	fieldSentiment
)

func parseAnalysis(raw, thinking, text string) (*Result, error) {
	fields := extractFields(text)
	result := &Result{raw: raw, strategy: ChainOfThought}

	if len(fields) == 0 {
		category, ok := mentionedCategory(text)
		if !ok {
			return nil, &ParseError{
				Strategy: ChainOfThought,
				Reason:   "no labeled fields and no unambiguous category",
				Raw:      raw,
			}
		}
		result.category = category
		result.rationale = thinking
		return result, nil
	}

	result.category = Unrecognized
	if value, ok := fields[fieldCategory]; ok {
		if category, ok := categoryFromAnswer(value); ok {
			result.category = category
		} else if category, ok := mentionedCategory(value); ok {
			result.category = category
		}
	} else if category, ok := mentionedCategory(text); ok {
		result.category = category
	}
	if value, ok := fields[fieldUrgency]; ok {
		if urgency, ok := ParseUrgency(value); ok {
			result.urgency = urgency
		}
	}
	if value, ok := fields[fieldSentiment]; ok {
		result.sentiment = Sentiment(value)
	}
	if value, ok := fields[fieldMainIssue]; ok {
		result.rationale = value
	} else {
		result.rationale = thinking
	}
	return result, nil
}

// extractFields reads "Label: value" lines and two-column markdown table
// rows. A label on its own line takes the next unlabeled line as its value.
// Later occurrences replace earlier ones.
func extractFields(text string) map[field]string {
	fields := map[field]string{}
	pending := fieldNone
	for _, line := range strings.Split(text, "\n") {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		if cells, ok := tableRow(line); ok {
			if len(cells) >= 2 {
				if f := fieldForKey(cells[0]); f != fieldNone && cells[1] != "" {
					fields[f] = cells[1]
					pending = fieldNone
				}
			}
			continue
		}
		key, value, labeled := splitLabel(line)
		if labeled {
			if f := fieldForKey(key); f != fieldNone {
				if value == "" {
					pending = f
				} else {
					fields[f] = value
					pending = fieldNone
				}
				continue
			}
		}
		if pending != fieldNone {
			fields[pending] = line
			pending = fieldNone
			continue
		}
		if f := fieldForKey(line); !labeled && f != fieldNone && len(strings.Fields(line)) <= 4 {
			pending = f
		}
	}
	return fields
}

// tableRow splits a "| a | b |" line into cleaned cells. Separator rows
// yield no cells.
func tableRow(line string) ([]string, bool) {
	if !strings.HasPrefix(line, "|") {
		return nil, false
	}
	var cells []string
	for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
		cell = cleanLine(cell)
		if tableRule.MatchString(cell) {
			return nil, true
		}
		cells = append(cells, cell)
	}
	return cells, true
}

func splitLabel(line string) (key, value string, ok bool) {
	m := labelPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), cleanLine(m[2]), true
}

func fieldForKey(key string) field {
	words := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	has := func(targets ...string) bool {
		for _, w := range words {
			for _, t := range targets {
				if w == t {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("urgency", "priority"):
		return fieldUrgency
	case has("sentiment", "tone", "emotion"):
		return fieldSentiment
	case has("category", "classification"):
		return fieldCategory
	case has("issue", "summary"):
		return fieldMainIssue
	}
	return fieldNone
}

// cleanLine strips list markers, headings and markdown emphasis, in any
// nesting order.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	for {
		stripped := strings.NewReplacer("**", "", "__", "", "`", "").Replace(line)
		stripped = strings.TrimSpace(listMarker.ReplaceAllString(stripped, ""))
		if stripped == line {
			break
		}
		line = stripped
	}
	return strings.TrimSpace(strings.Trim(line, "*_ \t"))
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
