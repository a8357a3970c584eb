package openai

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/triage/providers"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	DefaultModel    = ModelGPT4oMini
	DefaultEndpoint = "https://api.openai.com/v1/"
	DefaultClient   = &http.Client{Timeout: 300 * time.Second}
)

var _ llm.Client = &Provider{}

// Provider talks to the Chat Completions API of OpenAI or any compatible
// service. SDK-level retries are disabled; wrap the provider with the retry
// package to opt in.
type Provider struct {
	name     string
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
	logger   log.Logger
	extra    []option.RequestOption
	sdk      openai.Client
}

func New(opts ...Option) *Provider {
	p := &Provider{
		name:     "openai",
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		client:   DefaultClient,
		logger:   log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	sdkOpts := []option.RequestOption{
		option.WithAPIKey(p.apiKey),
		option.WithBaseURL(p.endpoint),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	}
	p.sdk = openai.NewClient(append(sdkOpts, p.extra...)...)
	return p
}

func (p *Provider) Name() string {
	return p.name
}

// Model returns the default model.
func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	params := p.buildParams(req)

	started := time.Now()
	completion, err := p.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, p.classifyError(ctx, err)
	}
	if len(completion.Choices) == 0 {
		return nil, llm.NewError(llm.KindInvalidResponse, p.name, "no choices in response")
	}
	choice := completion.Choices[0]

	response := &llm.Response{
		ID:           completion.ID,
		Model:        string(completion.Model),
		Text:         choice.Message.Content,
		FinishReason: convertFinishReason(string(choice.FinishReason)),
		Usage: llm.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}
	if response.Model == "" {
		response.Model = string(params.Model)
	}
	p.logger.Debug("completion finished",
		"provider", p.name,
		"model", response.Model,
		"finish_reason", response.FinishReason,
		"duration", time.Since(started),
	)
	if err := providers.CheckResponse(p.name, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (p *Provider) buildParams(req *llm.Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = p.model
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    convertMessages(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		if usesMaxCompletionTokens(model) {
			params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
		} else {
			params.MaxTokens = openai.Int(int64(req.MaxTokens))
		}
	}
	return params
}

func convertMessages(messages []*llm.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.System:
			result = append(result, openai.SystemMessage(msg.Text))
		case llm.Assistant:
			result = append(result, openai.AssistantMessage(msg.Text))
		default:
			result = append(result, openai.UserMessage(msg.Text))
		}
	}
	return result
}

func convertFinishReason(reason string) llm.FinishReason {
	switch reason {
	case "stop":
		return llm.FinishReasonStop
	case "length":
		return llm.FinishReasonLength
	case "content_filter":
		return llm.FinishReasonFilter
	case "":
		return llm.FinishReasonUnknown
	default:
		return llm.FinishReasonOther
	}
}

func (p *Provider) classifyError(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return providers.WrapTransportError(ctx, p.name, err)
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	message := apiErr.Message
	if message == "" {
		message = apiErr.Error()
	}
	classified := providers.NewError(p.name, apiErr.StatusCode, header, message)
	classified.Err = err
	if classified.Kind == llm.KindRateLimited {
		p.logger.Warn("rate limit exceeded",
			"provider", p.name,
			"status", apiErr.StatusCode,
			"retry_after", classified.RetryAfter,
		)
	}
	return classified
}
