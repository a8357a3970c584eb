package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/providers"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error", "none", "off"}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if c.Provider != "" {
		if _, ok := providers.DefaultRegistry().Lookup(c.Provider); !ok {
			add("provider: unknown provider %q (available: %s)",
				c.Provider, strings.Join(providers.DefaultRegistry().Names(), ", "))
		}
	}
	if c.Timeout < 0 {
		add("timeout: must not be negative")
	}
	if c.MaxEmailLength <= 0 {
		add("max_email_length: must be positive, got %d", c.MaxEmailLength)
	}
	if c.Concurrency <= 0 {
		add("concurrency: must be positive, got %d", c.Concurrency)
	}
	if !isLogLevel(c.LogLevel) {
		add("log_level: unknown level %q", c.LogLevel)
	}
	if c.Retry.MaxAttempts < 1 {
		add("retry.max_attempts: must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseWait < 0 || c.Retry.MaxWait < 0 {
		add("retry: waits must not be negative")
	}
	if c.Retry.MaxWait < c.Retry.BaseWait {
		add("retry.max_wait: must be at least base_wait")
	}
	for _, kind := range triage.StrategyKinds {
		if _, err := c.Strategy(kind); err != nil {
			add("strategies.%s: %w", kind, err)
		}
	}
	return errors.Join(errs...)
}

func isLogLevel(level string) bool {
	level = strings.ToLower(level)
	for _, known := range logLevels {
		if level == known {
			return true
		}
	}
	return false
}
