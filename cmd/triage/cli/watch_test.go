package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/internal/mocks"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatcherMatches(t *testing.T) {
	ew := newEmailWatcher(nil, nil, []string{"./inbox/*.txt", "tickets/**/*.eml"}, 0, nil)

	testCases := []struct {
		path     string
		expected bool
	}{
		{"inbox/a.txt", true},
		{"inbox/nested/a.txt", false},
		{"tickets/2024/05/b.eml", true},
		{"tickets/b.eml", true},
		{"tickets/b.txt", false},
		{"README.md", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.expected, ew.matches(tc.path))
		})
	}
}

func TestWatcherDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "inbox", "deep", "x.txt"), "x")
	writeFile(t, filepath.Join(dir, "flat", "y.txt"), "y")

	ew := newEmailWatcher(nil, nil, []string{
		filepath.Join(dir, "inbox", "**", "*.txt"),
		filepath.Join(dir, "flat", "*.txt"),
	}, 0, nil)
	dirs, err := ew.watchDirs()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "inbox"),
		filepath.Join(dir, "inbox", "deep"),
		filepath.Join(dir, "flat"),
	}, dirs)

	ew = newEmailWatcher(nil, nil, []string{filepath.Join(dir, "missing", "*.txt")}, 0, nil)
	_, err = ew.watchDirs()
	require.Error(t, err)
}

func TestWatcherHandleEvent(t *testing.T) {
	dir := t.TempDir()
	email := writeFile(t, filepath.Join(dir, "inbox", "a.txt"), "My invoice shows the wrong amount.")
	other := writeFile(t, filepath.Join(dir, "inbox", "a.md"), "ignored")

	client := mocks.NewTextClient("Billing Issue")
	var out bytes.Buffer
	ew := newEmailWatcher(testSession(t, client), triage.DefaultStrategy(triage.ZeroShot),
		[]string{filepath.Join(dir, "inbox", "*.txt")}, time.Minute, &out)
	ctx := context.Background()

	require.True(t, ew.handleEvent(ctx, fsnotify.Event{Name: email, Op: fsnotify.Create}))
	require.Contains(t, out.String(), "Category: Billing Issue")

	// Repeated writes inside the debounce window are ignored.
	require.False(t, ew.handleEvent(ctx, fsnotify.Event{Name: email, Op: fsnotify.Write}))
	require.False(t, ew.handleEvent(ctx, fsnotify.Event{Name: other, Op: fsnotify.Write}))
	require.False(t, ew.handleEvent(ctx, fsnotify.Event{Name: email, Op: fsnotify.Remove}))
	require.Equal(t, 1, client.Calls())
}
