package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepnoodle-ai/triage"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <pattern>...",
	Short: "Classify every email file matching the given glob patterns",
	Long: `Classify every file matching the given patterns, one email per file.
Patterns support ** for recursive matching. Failures are reported per file
and do not stop the rest of the batch.

Examples:
  triage batch "inbox/*.txt"
  triage batch "tickets/**/*.eml" --strategy few_shot --concurrency 8 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategyName, _ := cmd.Flags().GetString("strategy")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		kind, err := triage.ParseStrategyKind(strategyName)
		if err != nil {
			return err
		}
		files, err := expandPatterns(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %v", args)
		}
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		if concurrency <= 0 {
			concurrency = s.config.Concurrency
		}
		return runBatch(cmd.Context(), cmd.OutOrStdout(), s, kind, files, concurrency, jsonOutput)
	},
}

// expandPatterns returns the regular files matching any pattern, sorted and
// without duplicates.
func expandPatterns(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

type batchEntry struct {
	File      string         `json:"file"`
	RequestID string         `json:"request_id"`
	Result    *triage.Result `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func runBatch(ctx context.Context, w io.Writer, s *session, kind triage.StrategyKind, files []string, concurrency int, jsonOutput bool) error {
	strategy, err := s.config.Strategy(kind)
	if err != nil {
		return err
	}
	items := make([]triage.Item, 0, len(files))
	entries := make([]batchEntry, 0, len(files))
	var unreadable int
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			unreadable++
			entries = append(entries, batchEntry{File: file, Error: err.Error()})
			continue
		}
		items = append(items, triage.Item{ID: file, Email: string(data)})
	}

	s.logger.Info("classifying batch", "files", len(items), "strategy", kind.String(), "concurrency", concurrency)
	failed := unreadable
	for _, outcome := range s.classifier.ClassifyBatch(ctx, strategy, items, concurrency) {
		entry := batchEntry{File: outcome.ItemID, RequestID: outcome.RequestID, Result: outcome.Result}
		if outcome.Err != nil {
			failed++
			entry.Error = outcome.Err.Error()
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].File < entries[j].File })

	if jsonOutput {
		if err := writeJSON(w, entries); err != nil {
			return err
		}
	} else {
		for _, entry := range entries {
			if entry.Error != "" {
				fmt.Fprintf(w, "%s  %s\n", entry.File, errorStyle.Sprint("error: "+entry.Error))
				continue
			}
			line := categoryColor(entry.Result.Category())
			if urgency, ok := entry.Result.Urgency(); ok {
				line += mutedStyle.Sprintf(" (urgency %s)", urgency)
			}
			fmt.Fprintf(w, "%s  %s\n", entry.File, line)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d emails failed", failed, len(entries))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("strategy", "s", "zero_shot", "Technique: zero_shot, few_shot or chain_of_thought")
	batchCmd.Flags().Int("concurrency", 0, "Maximum requests in flight (defaults to the config value)")
	batchCmd.Flags().BoolP("json", "j", false, "Output results as JSON")
}
