package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/triage"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one email",
	Long: `Classify one email with the chosen prompting technique.

Examples:
  triage classify --text "I was charged twice this month"
  triage classify --strategy chain_of_thought --file email.txt --json
  cat email.txt | triage classify --file -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		strategyName, _ := cmd.Flags().GetString("strategy")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		kind, err := triage.ParseStrategyKind(strategyName)
		if err != nil {
			return err
		}
		email, err := readEmail(cmd.InOrStdin(), text, file)
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		return runClassify(cmd.Context(), cmd.OutOrStdout(), s, kind, email, jsonOutput)
	},
}

func runClassify(ctx context.Context, w io.Writer, s *session, kind triage.StrategyKind, email string, jsonOutput bool) error {
	strategy, err := s.config.Strategy(kind)
	if err != nil {
		return err
	}
	result, err := s.classifier.Classify(ctx, strategy, email)
	if err != nil {
		return fmt.Errorf("%s classification failed: %w", kind, err)
	}
	if jsonOutput {
		return writeJSON(w, result)
	}
	printResult(w, result)
	return nil
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringP("text", "t", "", "Email text to classify")
	classifyCmd.Flags().StringP("file", "f", "", "File containing the email, or - for stdin")
	classifyCmd.Flags().StringP("strategy", "s", "zero_shot", "Technique: zero_shot, few_shot or chain_of_thought")
	classifyCmd.Flags().BoolP("json", "j", false, "Output the result as JSON")
}
