package openai

import (
	"net/http"

	"github.com/deepnoodle-ai/triage/log"
	"github.com/openai/openai-go/option"
)

// Option is a function that configures the Provider
type Option func(*Provider)

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

// WithEndpoint sets the API base URL, e.g. "https://api.groq.com/openai/v1/".
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithName sets the provider name reported in errors and logs. Used by
// OpenAI-compatible services that wrap this provider.
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithRequestOptions appends raw SDK request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(p *Provider) {
		p.extra = append(p.extra, opts...)
	}
}
