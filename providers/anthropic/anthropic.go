package anthropic

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/triage/providers"
)

const ProviderName = "anthropic"

var (
	DefaultModel     = ModelClaudeHaiku45
	DefaultEndpoint  = "https://api.anthropic.com/"
	DefaultMaxTokens = 1024
	DefaultClient    = &http.Client{Timeout: 300 * time.Second}
)

var _ llm.Client = &Provider{}

// Provider talks to the Anthropic Messages API.
type Provider struct {
	apiKey    string
	endpoint  string
	model     string
	maxTokens int
	client    *http.Client
	logger    log.Logger
	sdk       anthropic.Client
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:    os.Getenv("ANTHROPIC_API_KEY"),
		endpoint:  DefaultEndpoint,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		client:    DefaultClient,
		logger:    log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sdk = anthropic.NewClient(
		option.WithAPIKey(p.apiKey),
		option.WithBaseURL(p.endpoint),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	)
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	params := p.buildParams(req)

	started := time.Now()
	message, err := p.sdk.Messages.New(ctx, params)
	if err != nil {
		return nil, p.classifyError(ctx, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	response := &llm.Response{
		ID:           message.ID,
		Model:        string(message.Model),
		Text:         text.String(),
		FinishReason: convertStopReason(string(message.StopReason)),
		Usage: llm.Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
		},
	}
	if response.Model == "" {
		response.Model = string(params.Model)
	}
	p.logger.Debug("completion finished",
		"provider", ProviderName,
		"model", response.Model,
		"finish_reason", response.FinishReason,
		"duration", time.Since(started),
	)
	if err := providers.CheckResponse(ProviderName, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (p *Provider) buildParams(req *llm.Request) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	// System prompts travel outside the message list.
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.System:
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Text})
		case llm.Assistant:
			params.Messages = append(params.Messages,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		default:
			params.Messages = append(params.Messages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}
	return params
}

func convertStopReason(reason string) llm.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return llm.FinishReasonStop
	case "max_tokens":
		return llm.FinishReasonLength
	case "refusal":
		return llm.FinishReasonFilter
	case "":
		return llm.FinishReasonUnknown
	default:
		return llm.FinishReasonOther
	}
}

func (p *Provider) classifyError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return providers.WrapTransportError(ctx, ProviderName, err)
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	message := apiErr.RawJSON()
	if message == "" {
		message = apiErr.Error()
	}
	classified := providers.NewError(ProviderName, apiErr.StatusCode, header, message)
	classified.Err = err
	if classified.Kind == llm.KindRateLimited {
		p.logger.Warn("rate limit exceeded",
			"provider", ProviderName,
			"status", apiErr.StatusCode,
			"retry_after", classified.RetryAfter,
		)
	}
	return classified
}
