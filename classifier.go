package triage

import (
	"context"
	"errors"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/google/uuid"
)

// Classifier runs strategies against a completion client. It holds no
// per-call state and is safe for concurrent use.
type Classifier struct {
	client  llm.Client
	logger  log.Logger
	timeout time.Duration
	builder PromptBuilder
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger. Without one, the logger attached to each
// call's context is used.
func WithLogger(logger log.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithTimeout bounds each completion call. Zero means no limit beyond the
// caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Classifier) {
		c.timeout = timeout
	}
}

// WithMaxEmailLength sets the longest email accepted, in characters.
func WithMaxEmailLength(n int) Option {
	return func(c *Classifier) {
		c.builder.MaxLength = n
	}
}

// New returns a classifier that sends completions through client.
func New(client llm.Client, opts ...Option) *Classifier {
	c := &Classifier{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify builds the strategy's prompt for email, sends one completion
// request and parses the answer.
//
// Input problems are returned as *InputError before any request is made.
// Completion failures are returned unchanged as *llm.Error. Output that
// cannot be interpreted is returned as *ParseError.
func (c *Classifier) Classify(ctx context.Context, strategy *Strategy, email string) (*Result, error) {
	return c.classify(ctx, strategy, email, uuid.NewString())
}

func (c *Classifier) classify(ctx context.Context, strategy *Strategy, email, requestID string) (*Result, error) {
	if strategy == nil {
		return nil, inputError("strategy", "strategy is nil")
	}
	prompt, err := strategy.Prompt(c.builder, email)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	logger := c.logger
	if logger == nil {
		logger = log.Ctx(ctx)
	}
	logger = logger.With("request_id", requestID, "strategy", strategy.Kind().String())

	started := time.Now()
	resp, err := c.client.Complete(ctx, strategy.Request(prompt))
	latency := time.Since(started)
	if err != nil {
		if llm.KindOf(err) == "" && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &llm.Error{Kind: llm.KindTimeout, Provider: llm.NameOf(c.client), Err: err}
		}
		logger.Debug("completion failed", "error", err, "duration", latency)
		return nil, err
	}
	logger.Debug("completion finished",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"duration", latency,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	result, err := strategy.Parse(resp.Text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.RequestID = requestID
		}
		logger.Debug("unparseable response", "error", err)
		return nil, err
	}
	return result.withCompletion(requestID, resp, latency), nil
}
