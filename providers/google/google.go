package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/triage/providers"
	"google.golang.org/genai"
)

const ProviderName = "google"

var (
	DefaultModel  = ModelGemini25Flash
	DefaultClient = &http.Client{Timeout: 300 * time.Second}
)

var _ llm.Client = &Provider{}

// Provider talks to the Gemini API through the genai SDK. The SDK client is
// created on first use.
type Provider struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
	logger   log.Logger
	sdk      *genai.Client
	mutex    sync.Mutex
}

func New(opts ...Option) *Provider {
	var apiKey string
	if value := os.Getenv("GEMINI_API_KEY"); value != "" {
		apiKey = value
	} else if value := os.Getenv("GOOGLE_API_KEY"); value != "" {
		apiKey = value
	}
	p := &Provider{
		apiKey: apiKey,
		model:  DefaultModel,
		client: DefaultClient,
		logger: log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) initClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.sdk != nil {
		return p.sdk, nil
	}
	if p.apiKey == "" {
		return nil, llm.NewError(llm.KindUnauthorized, ProviderName, "missing api key")
	}
	config := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.client,
	}
	if p.endpoint != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: p.endpoint}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create google genai client: %w", err)
	}
	p.sdk = client
	return p.sdk, nil
}

func (p *Provider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	client, err := p.initClient(ctx)
	if err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = p.model
	}
	contents, config := buildContents(req)

	started := time.Now()
	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, p.classifyError(ctx, err)
	}
	response, err := convertResponse(resp, model)
	if err != nil {
		return nil, err
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

func buildContents(req *llm.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	var system []*genai.Part
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.System:
			system = append(system, genai.NewPartFromText(msg.Text))
		case llm.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, config
}

func convertResponse(resp *genai.GenerateContentResponse, model string) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, llm.NewError(llm.KindInvalidResponse, ProviderName, "no candidates in response")
	}
	candidate := resp.Candidates[0]

	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && !part.Thought {
				text.WriteString(part.Text)
			}
		}
	}
	response := &llm.Response{
		ID:           resp.ResponseID,
		Model:        resp.ModelVersion,
		Text:         text.String(),
		FinishReason: convertFinishReason(candidate.FinishReason),
	}
	if response.Model == "" {
		response.Model = model
	}
	if resp.UsageMetadata != nil {
		response.Usage = llm.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return response, nil
}

func convertFinishReason(reason genai.FinishReason) llm.FinishReason {
	switch reason {
	case genai.FinishReasonStop:
		return llm.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return llm.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return llm.FinishReasonFilter
	case "":
		return llm.FinishReasonUnknown
	default:
		return llm.FinishReasonOther
	}
}

func (p *Provider) classifyError(ctx context.Context, err error) error {
	var code int
	var message string
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, message = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code, message = apiErrPtr.Code, apiErrPtr.Message
	default:
		return providers.WrapTransportError(ctx, ProviderName, err)
	}
	classified := providers.NewError(ProviderName, code, nil, message)
	classified.Err = err
	if classified.Kind == llm.KindRateLimited {
		p.logger.Warn("rate limit exceeded",
			"provider", ProviderName,
			"status", code,
		)
	}
	return classified
}
