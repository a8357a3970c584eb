package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepnoodle-ai/triage"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// emailWatcher classifies email files as they are created or written.
type emailWatcher struct {
	patterns  []string
	strategy  *triage.Strategy
	session   *session
	out       io.Writer
	debounce  time.Duration
	watcher   *fsnotify.Watcher
	lastEvent map[string]time.Time
}

func newEmailWatcher(s *session, strategy *triage.Strategy, patterns []string, debounce time.Duration, out io.Writer) *emailWatcher {
	cleaned := make([]string, len(patterns))
	for i, pattern := range patterns {
		cleaned[i] = filepath.Clean(pattern)
	}
	return &emailWatcher{
		patterns:  cleaned,
		strategy:  strategy,
		session:   s,
		out:       out,
		debounce:  debounce,
		lastEvent: map[string]time.Time{},
	}
}

// watchDirs returns the directories to watch: the static base of each
// pattern, plus every directory below it for patterns containing **.
func (ew *emailWatcher) watchDirs() ([]string, error) {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, pattern := range ew.patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = filepath.FromSlash(base)
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("cannot watch %q: directory %q not found", pattern, base)
		}
		add(base)
		if strings.Contains(rest, "**") {
			err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return dirs, nil
}

func (ew *emailWatcher) matches(path string) bool {
	path = filepath.Clean(path)
	for _, pattern := range ew.patterns {
		if matched, _ := doublestar.PathMatch(pattern, path); matched {
			return true
		}
	}
	return false
}

// Run watches until ctx is cancelled.
func (ew *emailWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	ew.watcher = watcher

	dirs, err := ew.watchDirs()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		ew.session.logger.Debug("watching directory", "dir", dir)
	}

	fmt.Fprintln(ew.out, boldStyle.Sprint("Watching for emails"))
	fmt.Fprintf(ew.out, "Patterns: %s\n", strings.Join(ew.patterns, ", "))
	fmt.Fprintf(ew.out, "Technique: %s\n", ew.strategy.Kind().Title())
	fmt.Fprintln(ew.out, "Press Ctrl+C to stop...")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(ew.out, "\nWatcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ew.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ew.session.logger.Error("file watcher error", "error", err)
		}
	}
}

// handleEvent classifies the file behind a create or write event. It reports
// whether a classification was attempted.
func (ew *emailWatcher) handleEvent(ctx context.Context, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) && ew.watcher != nil && ew.hasRecursivePattern() {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := ew.watcher.Add(event.Name); err != nil {
				ew.session.logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
			}
			return false
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !ew.matches(event.Name) {
		return false
	}
	now := time.Now()
	if last, ok := ew.lastEvent[event.Name]; ok && now.Sub(last) < ew.debounce {
		return false
	}
	ew.lastEvent[event.Name] = now

	data, err := os.ReadFile(event.Name)
	if err != nil {
		ew.session.logger.Warn("failed to read email", "file", event.Name, "error", err)
		return false
	}
	if strings.TrimSpace(string(data)) == "" {
		return false
	}
	fmt.Fprintf(ew.out, "\n%s %s\n", headerStyle.Sprint(strings.ToLower(event.Op.String())), event.Name)
	result, err := ew.session.classifier.Classify(ctx, ew.strategy, string(data))
	if err != nil {
		fmt.Fprintln(ew.out, errorStyle.Sprint(err.Error()))
		return true
	}
	printResult(ew.out, result)
	return true
}

func (ew *emailWatcher) hasRecursivePattern() bool {
	for _, pattern := range ew.patterns {
		if strings.Contains(pattern, "**") {
			return true
		}
	}
	return false
}

var watchCmd = &cobra.Command{
	Use:   "watch <pattern>...",
	Short: "Classify email files as they are created or modified",
	Long: `Watch directories for new or modified files matching the given patterns
and classify each one as it changes.

Examples:
  triage watch "inbox/*.txt"
  triage watch "tickets/**/*.eml" --strategy chain_of_thought`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategyName, _ := cmd.Flags().GetString("strategy")
		debounceMs, _ := cmd.Flags().GetInt("debounce")

		kind, err := triage.ParseStrategyKind(strategyName)
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		strategy, err := s.config.Strategy(kind)
		if err != nil {
			return err
		}
		debounce := time.Duration(debounceMs) * time.Millisecond
		return newEmailWatcher(s, strategy, args, debounce, cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("strategy", "s", "zero_shot", "Technique: zero_shot, few_shot or chain_of_thought")
	watchCmd.Flags().Int("debounce", 500, "Ignore repeated events for the same file within this many milliseconds")
}
