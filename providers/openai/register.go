package openai

import (
	"context"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:         "openai",
		APIKeyEnv:    "OPENAI_API_KEY",
		DefaultModel: DefaultModel,
		Match:        providers.GlobMatcher("gpt-*", "o[0-9]*", "chatgpt-*"),
		Factory:      factory,
	})
}

func factory(ctx context.Context, settings providers.Settings) (llm.Client, error) {
	opts := []Option{WithAPIKey(settings.APIKey)}
	if settings.Model != "" {
		opts = append(opts, WithModel(settings.Model))
	}
	if settings.Endpoint != "" {
		opts = append(opts, WithEndpoint(settings.Endpoint))
	}
	if settings.HTTPClient != nil {
		opts = append(opts, WithClient(settings.HTTPClient))
	}
	if settings.Logger != nil {
		opts = append(opts, WithLogger(settings.Logger))
	}
	return New(opts...), nil
}
