// Package config loads classifier settings from defaults, an optional YAML or
// JSON file and TRIAGE_* environment variables, and builds the completion
// client and strategies they describe.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds all classifier settings. Field names in files use snake_case.
type Config struct {
	Provider       string     `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model          string     `yaml:"model,omitempty" json:"model,omitempty"`
	Endpoint       string     `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Timeout        Duration   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	MaxEmailLength int        `yaml:"max_email_length,omitempty" json:"max_email_length,omitempty"`
	Concurrency    int        `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	LogLevel       string     `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Retry          Retry      `yaml:"retry,omitempty" json:"retry,omitempty"`
	Strategies     Strategies `yaml:"strategies,omitempty" json:"strategies,omitempty"`
}

// Retry configures the retry wrapper. MaxAttempts of 1 disables retries.
type Retry struct {
	MaxAttempts int      `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	BaseWait    Duration `yaml:"base_wait,omitempty" json:"base_wait,omitempty"`
	MaxWait     Duration `yaml:"max_wait,omitempty" json:"max_wait,omitempty"`
}

// Strategies holds per-technique overrides.
type Strategies struct {
	ZeroShot       *Strategy `yaml:"zero_shot,omitempty" json:"zero_shot,omitempty"`
	FewShot        *Strategy `yaml:"few_shot,omitempty" json:"few_shot,omitempty"`
	ChainOfThought *Strategy `yaml:"chain_of_thought,omitempty" json:"chain_of_thought,omitempty"`
}

// Strategy overrides the default parameters of one technique. Unset fields
// keep the defaults.
type Strategy struct {
	Model       string    `yaml:"model,omitempty" json:"model,omitempty"`
	Temperature *float64  `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens   int       `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Examples    []Example `yaml:"examples,omitempty" json:"examples,omitempty"`
}

// Example is a labeled few-shot example. Category accepts any spelling the
// classifier recognizes, such as "billing" or "Technical Problem".
type Example struct {
	Email    string `yaml:"email" json:"email"`
	Category string `yaml:"category" json:"category"`
}

// Default returns the built-in settings. An empty Provider selects the
// provider by model, falling back to groq.
func Default() *Config {
	return &Config{
		Timeout:        Duration(60 * time.Second),
		MaxEmailLength: 10000,
		Concurrency:    4,
		LogLevel:       "warn",
		Retry: Retry{
			MaxAttempts: 1,
			BaseWait:    Duration(time.Second),
			MaxWait:     Duration(30 * time.Second),
		},
	}
}

// Duration is a time.Duration written as "30s" or "1m30s" in config files.
// A bare number is read as seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML receives the raw YAML scalar.
func (d *Duration) UnmarshalYAML(data []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(strings.TrimSpace(string(data)), `"'`)))
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(strings.TrimSpace(string(data)), `"`)))
}

func parseDuration(value string) (Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return Duration(seconds * float64(time.Second)), nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return Duration(parsed), nil
}
