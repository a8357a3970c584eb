package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/gobwas/glob"
)

// Settings carries everything a factory needs to construct a client. The
// credential is resolved once by the caller and passed in here.
type Settings struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
	Logger     log.Logger
}

// ProviderFactory creates a completion client.
type ProviderFactory func(ctx context.Context, settings Settings) (llm.Client, error)

// ModelMatcher determines if a model name matches a provider.
type ModelMatcher func(model string) bool

// ProviderEntry describes one registered provider.
type ProviderEntry struct {
	Name         string
	APIKeyEnv    string
	DefaultModel string
	Match        ModelMatcher
	Factory      ProviderFactory
}

// Registry manages provider entries. Providers register themselves during
// init() and the registry is used to look them up by name or model.
type Registry struct {
	mu       sync.RWMutex
	entries  []ProviderEntry
	fallback string
}

// Register adds a provider entry to the registry. Entries are checked in
// registration order, so register more specific matchers first.
func (r *Registry) Register(entry ProviderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.entries {
		if existing.Name == entry.Name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// SetFallback names the provider used when no matcher accepts a model.
func (r *Registry) SetFallback(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = name
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (ProviderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range r.entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return ProviderEntry{}, false
}

// Resolve picks a provider: by name when one is given, otherwise by matching
// the model, otherwise the fallback.
func (r *Registry) Resolve(name, model string) (ProviderEntry, error) {
	if name != "" {
		entry, ok := r.Lookup(name)
		if !ok {
			return ProviderEntry{}, fmt.Errorf("unknown provider %q (available: %s)",
				name, strings.Join(r.Names(), ", "))
		}
		return entry, nil
	}
	r.mu.RLock()
	fallback := r.fallback
	for _, entry := range r.entries {
		if model != "" && entry.Match != nil && entry.Match(model) {
			r.mu.RUnlock()
			return entry, nil
		}
	}
	r.mu.RUnlock()
	if fallback != "" {
		if entry, ok := r.Lookup(fallback); ok {
			return entry, nil
		}
	}
	return ProviderEntry{}, fmt.Errorf("no provider matches model %q", model)
}

// Create resolves a provider and constructs a client with the settings.
func (r *Registry) Create(ctx context.Context, name string, settings Settings) (llm.Client, error) {
	entry, err := r.Resolve(name, settings.Model)
	if err != nil {
		return nil, err
	}
	if settings.Model == "" {
		settings.Model = entry.DefaultModel
	}
	return entry.Factory(ctx, settings)
}

// Names returns the sorted names of all registered providers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of all registered provider entries.
func (r *Registry) Entries() []ProviderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ProviderEntry, len(r.entries))
	copy(result, r.entries)
	return result
}

// Matcher helpers

// GlobMatcher returns a matcher that accepts models matching any of the given
// glob patterns, case-insensitively. '/' is a separator so "openai/*" does not
// cross into nested paths. Invalid patterns panic, since they are compiled at
// registration time from constants.
func GlobMatcher(patterns ...string) ModelMatcher {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		globs = append(globs, glob.MustCompile(strings.ToLower(pattern), '/'))
	}
	return func(model string) bool {
		lower := strings.ToLower(model)
		for _, g := range globs {
			if g.Match(lower) {
				return true
			}
		}
		return false
	}
}

// Global default registry
var defaultRegistry = &Registry{}

// Register adds a provider entry to the default registry.
// This is typically called from provider init() functions.
func Register(entry ProviderEntry) {
	defaultRegistry.Register(entry)
}

// SetFallback sets the fallback provider on the default registry.
func SetFallback(name string) {
	defaultRegistry.SetFallback(name)
}

// Create creates a client using the default registry.
func Create(ctx context.Context, name string, settings Settings) (llm.Client, error) {
	return defaultRegistry.Create(ctx, name, settings)
}

// DefaultRegistry returns the default global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
