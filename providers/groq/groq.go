package groq

import (
	"net/http"
	"os"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/triage/providers/openai"
)

var (
	DefaultModel    = ModelGPTOSS120b
	DefaultEndpoint = "https://api.groq.com/openai/v1/"
)

var _ llm.Client = &Provider{}

// Provider is Groq's OpenAI-compatible endpoint, served through the OpenAI
// chat completions provider.
type Provider struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
	logger   log.Logger

	// Embedded OpenAI provider
	*openai.Provider
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:   os.Getenv("GROQ_API_KEY"),
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		client:   openai.DefaultClient,
		logger:   log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	// Pass the options through to the wrapped OpenAI provider
	p.Provider = openai.New(
		openai.WithName("groq"),
		openai.WithAPIKey(p.apiKey),
		openai.WithClient(p.client),
		openai.WithEndpoint(p.endpoint),
		openai.WithModel(p.model),
		openai.WithLogger(p.logger),
	)
	return p
}

// Option is a function that configures the Provider
type Option func(*Provider)

// WithAPIKey sets the Groq API key.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

// WithEndpoint sets the API base URL.
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

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}
