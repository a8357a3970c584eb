package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/internal/tablewriter"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/llm/pricing"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every technique on one email and compare the answers",
	Long: `Run the zero-shot, few-shot and chain-of-thought techniques concurrently on
the same email and print a comparison table. With --diff, unified diffs of
the raw model outputs are printed as well.

Examples:
  triage compare --text "The export button crashes the app"
  triage compare --file email.txt --diff`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		showDiff, _ := cmd.Flags().GetBool("diff")

		email, err := readEmail(cmd.InOrStdin(), text, file)
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		return runCompare(cmd.Context(), cmd.OutOrStdout(), s, email, showDiff)
	},
}

func runCompare(ctx context.Context, w io.Writer, s *session, email string, showDiff bool) error {
	strategies, err := s.config.AllStrategies()
	if err != nil {
		return err
	}
	outcomes := s.classifier.ClassifyAll(ctx, strategies, email)
	if err := renderComparison(w, llm.NameOf(s.client), outcomes); err != nil {
		return err
	}
	if showDiff {
		for i := 1; i < len(outcomes); i++ {
			if diff := rawDiff(outcomes[i-1], outcomes[i]); diff != "" {
				fmt.Fprintln(w)
				fmt.Fprint(w, diff)
			}
		}
	}

	var agreed []triage.Category
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			agreed = append(agreed, outcome.Result.Category())
		}
	}
	switch {
	case len(agreed) == 0:
		return fmt.Errorf("every technique failed")
	case allSame(agreed) && len(agreed) == len(outcomes):
		fmt.Fprintln(w, successStyle.Sprintf("\nAll techniques agree: %s", agreed[0].Label()))
	default:
		fmt.Fprintln(w, warningStyle.Sprint("\nTechniques disagree or failed; compare the rows above."))
	}
	return nil
}

// renderComparison prints one row per technique. Costs are list-price
// estimates for the provider; a leading ~ marks a model without a list price.
func renderComparison(w io.Writer, provider string, outcomes []triage.StrategyResult) error {
	table := tablewriter.New(w)
	table.SetHeader("Technique", "Category", "Urgency", "Sentiment", "Latency", "Tokens", "Cost")
	table.SetAlign(tablewriter.AlignLeft, tablewriter.AlignLeft, tablewriter.AlignLeft,
		tablewriter.AlignLeft, tablewriter.AlignRight, tablewriter.AlignRight, tablewriter.AlignRight)
	table.SetMaxWidth(48)
	for _, outcome := range outcomes {
		title := outcome.Strategy.Kind().Title()
		if outcome.Err != nil {
			table.Append(title, errorStyle.Sprint(outcome.Err.Error()), "-", "-", "-", "-", "-")
			continue
		}
		result := outcome.Result
		urgency, sentiment := "-", "-"
		if u, ok := result.Urgency(); ok {
			urgency = u.String()
		}
		if s, ok := result.Sentiment(); ok {
			sentiment = string(s)
		}
		table.Append(title, categoryColor(result.Category()), urgency, sentiment,
			formatLatency(result), strconv.Itoa(result.Usage().Total()),
			pricing.TextCost(provider, result.Model(), result.Usage()).String())
	}
	return table.Render()
}

// rawDiff returns a unified diff between the raw outputs of two outcomes,
// or "" when either failed or they are identical.
func rawDiff(a, b triage.StrategyResult) string {
	if a.Err != nil || b.Err != nil {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.TrimSpace(a.Result.Raw()) + "\n"),
		B:        difflib.SplitLines(strings.TrimSpace(b.Result.Raw()) + "\n"),
		FromFile: a.Strategy.Kind().String(),
		ToFile:   b.Strategy.Kind().String(),
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

func allSame(categories []triage.Category) bool {
	for _, category := range categories[1:] {
		if category != categories[0] {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringP("text", "t", "", "Email text to classify")
	compareCmd.Flags().StringP("file", "f", "", "File containing the email, or - for stdin")
	compareCmd.Flags().Bool("diff", false, "Show unified diffs between the raw outputs")
}
