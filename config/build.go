package config

import (
	"context"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/deepnoodle-ai/triage/retry"

	// Register the supported providers.
	_ "github.com/deepnoodle-ai/triage/providers/anthropic"
	_ "github.com/deepnoodle-ai/triage/providers/google"
	_ "github.com/deepnoodle-ai/triage/providers/groq"
	_ "github.com/deepnoodle-ai/triage/providers/openai"
)

// ProviderEntry resolves the configured provider, by name or else by model.
func (c *Config) ProviderEntry() (providers.ProviderEntry, error) {
	return providers.DefaultRegistry().Resolve(c.Provider, c.Model)
}

// Credential reads the API key of the configured provider from its
// environment variable.
func (c *Config) Credential() (string, error) {
	entry, err := c.ProviderEntry()
	if err != nil {
		return "", err
	}
	key := os.Getenv(entry.APIKeyEnv)
	if key == "" {
		return "", llm.NewError(llm.KindUnauthorized, entry.Name,
			fmt.Sprintf("%s is not set", entry.APIKeyEnv))
	}
	return key, nil
}

// NewClient resolves the credential once and builds the completion client,
// wrapped with retries when retry.max_attempts is above 1.
func (c *Config) NewClient(ctx context.Context, logger log.Logger) (llm.Client, error) {
	entry, err := c.ProviderEntry()
	if err != nil {
		return nil, err
	}
	key, err := c.Credential()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNullLogger()
	}
	client, err := providers.DefaultRegistry().Create(ctx, entry.Name, providers.Settings{
		APIKey:   key,
		Model:    c.Model,
		Endpoint: c.Endpoint,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", entry.Name, err)
	}
	if c.Retry.MaxAttempts > 1 {
		client = retry.Wrap(client,
			retry.WithMaxAttempts(c.Retry.MaxAttempts),
			retry.WithBackoff(c.Retry.BaseWait.Std(), c.Retry.MaxWait.Std()),
			retry.WithLogger(logger),
		)
	}
	return client, nil
}

// Strategy builds kind with the configured overrides applied to its
// defaults.
func (c *Config) Strategy(kind triage.StrategyKind) (*triage.Strategy, error) {
	strategyConfig := triage.DefaultConfig(kind)
	if override := c.Strategies.lookup(kind); override != nil {
		strategyConfig.Model = override.Model
		if override.Temperature != nil {
			strategyConfig.Temperature = *override.Temperature
		}
		if override.MaxTokens != 0 {
			strategyConfig.MaxTokens = override.MaxTokens
		}
		for i, example := range override.Examples {
			category, ok := triage.ParseCategory(example.Category)
			if !ok {
				return nil, fmt.Errorf("example %d: unknown category %q", i+1, example.Category)
			}
			strategyConfig.Examples = append(strategyConfig.Examples, triage.Example{
				Email:    example.Email,
				Category: category,
			})
		}
	}
	return triage.NewStrategy(kind, strategyConfig)
}

// AllStrategies builds every technique in demo order.
func (c *Config) AllStrategies() ([]*triage.Strategy, error) {
	strategies := make([]*triage.Strategy, 0, len(triage.StrategyKinds))
	for _, kind := range triage.StrategyKinds {
		strategy, err := c.Strategy(kind)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}
	return strategies, nil
}

// ClassifierOptions returns the classifier options implied by the config.
func (c *Config) ClassifierOptions(logger log.Logger) []triage.Option {
	opts := []triage.Option{
		triage.WithTimeout(c.Timeout.Std()),
		triage.WithMaxEmailLength(c.MaxEmailLength),
	}
	if logger != nil {
		opts = append(opts, triage.WithLogger(logger))
	}
	return opts
}

func (s Strategies) lookup(kind triage.StrategyKind) *Strategy {
	switch kind {
	case triage.ZeroShot:
		return s.ZeroShot
	case triage.FewShot:
		return s.FewShot
	case triage.ChainOfThought:
		return s.ChainOfThought
	}
	return nil
}
