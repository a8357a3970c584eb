package anthropic

import (
	"net/http"

	"github.com/deepnoodle-ai/triage/log"
)

// Option is a function that configures the Provider
type Option func(*Provider)

func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

// WithEndpoint sets the API base URL. The SDK appends "v1/messages".
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the output limit used when a request leaves MaxTokens
// unset. The Messages API requires one.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		p.maxTokens = maxTokens
	}
}

func WithLogger(logger log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}
