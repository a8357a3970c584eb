package llm

import (
	"errors"
	"fmt"
)

// Request is one completion request: a model, the messages to send, and the
// generation parameters.
type Request struct {
	Model       string     `json:"model"`
	Messages    []*Message `json:"messages"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"max_tokens"`
}

// Option configures a Request.
type Option func(*Request)

// NewRequest builds a request with a single user message.
func NewRequest(prompt string, opts ...Option) *Request {
	req := &Request{Messages: []*Message{NewUserMessage(prompt)}}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(req *Request) {
		req.Model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(req *Request) {
		req.Temperature = temperature
	}
}

// WithMaxTokens sets the output token cap.
func WithMaxTokens(maxTokens int) Option {
	return func(req *Request) {
		req.MaxTokens = maxTokens
	}
}

// WithSystemPrompt prepends a system message.
func WithSystemPrompt(systemPrompt string) Option {
	return func(req *Request) {
		req.Messages = append([]*Message{NewSystemMessage(systemPrompt)}, req.Messages...)
	}
}

// Validate checks the request before it is sent.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("nil request")
	}
	if len(r.Messages) == 0 {
		return errors.New("no messages provided")
	}
	for i, message := range r.Messages {
		if message == nil || message.Text == "" {
			return fmt.Errorf("empty message detected (index %d)", i)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("invalid max tokens: %d", r.MaxTokens)
	}
	return nil
}

// Prompt returns the text of the last user message.
func (r *Request) Prompt() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == User {
			return r.Messages[i].Text
		}
	}
	return ""
}
