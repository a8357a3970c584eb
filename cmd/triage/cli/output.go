package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/fatih/color"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	boldStyle    = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	mutedStyle   = color.New(color.FgHiBlack)
)

const banner = "======================================================================"

// readEmail returns the email from --text or --file. A file of "-" reads
// standard input.
func readEmail(stdin io.Reader, text, file string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("use either --text or --file, not both")
	case text != "":
		return text, nil
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("an email is required; use --text or --file")
}

// printResult writes a human readable summary of one classification.
func printResult(w io.Writer, result *triage.Result) {
	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Category:"), categoryColor(result.Category()))
	if urgency, ok := result.Urgency(); ok {
		fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Urgency:"), urgency)
	}
	if sentiment, ok := result.Sentiment(); ok {
		fmt.Fprintf(w, "%s %s (%s)\n", boldStyle.Sprint("Sentiment:"), sentiment, sentiment.Polarity())
	}
	if rationale, ok := result.Rationale(); ok {
		fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Rationale:"), rationale)
	}
	fmt.Fprintln(w, mutedStyle.Sprintf("%s · %s · %d tokens · %s",
		result.Strategy(), result.Model(), result.Usage().Total(), formatLatency(result)))
}

func categoryColor(category triage.Category) string {
	if category == triage.Unrecognized {
		return warningStyle.Sprint(category.String())
	}
	return successStyle.Sprint(category.Label())
}

func formatLatency(result *triage.Result) string {
	latency := result.Latency()
	if latency < time.Second {
		return fmt.Sprintf("%dms", latency.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", latency.Seconds())
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// indent prefixes every line of text.
func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
