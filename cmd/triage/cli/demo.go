package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/triage"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run every prompting technique on the sample email",
	Long: `Classify the built-in sample email with the zero-shot, few-shot and
chain-of-thought techniques and print each answer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("sample")
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		return runDemo(cmd.Context(), cmd.OutOrStdout(), s, index)
	},
}

func runDemo(ctx context.Context, w io.Writer, s *session, index int) error {
	samples := triage.SampleEmails()
	if index < 0 || index >= len(samples) {
		return fmt.Errorf("sample must be between 0 and %d", len(samples)-1)
	}
	email := samples[index]
	strategies, err := s.config.AllStrategies()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "TEST EMAIL:")
	fmt.Fprintln(w, email)
	fmt.Fprintln(w, banner)

	var failed int
	for i, strategy := range strategies {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Sprintf("%d. %s (%s):",
			i+1, strings.ToUpper(strategy.Kind().Title()), demoBlurbs[strategy.Kind()]))
		result, err := s.classifier.Classify(ctx, strategy, email)
		if err != nil {
			failed++
			fmt.Fprintln(w, errorStyle.Sprint(err.Error()))
			continue
		}
		fmt.Fprintf(w, "Result:\n%s\n", strings.TrimSpace(result.Raw()))
		printResult(w, result)
	}
	if failed == len(strategies) {
		return fmt.Errorf("every technique failed")
	}
	return nil
}

var demoBlurbs = map[triage.StrategyKind]string{
	triage.ZeroShot:       "No examples",
	triage.FewShot:        "With examples",
	triage.ChainOfThought: "Step-by-step reasoning",
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Int("sample", 1, "Index of the built-in sample email to classify")
}
