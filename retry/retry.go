// Package retry wraps a completion client so that transient failures are
// attempted again with exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/deepnoodle-ai/wonton/retry"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseWait    = 1 * time.Second
	DefaultMaxWait     = 30 * time.Second
)

var _ llm.Client = &Client{}

// Client retries rate-limited, timed-out and failed-service calls made
// through the wrapped client. Unauthorized and invalid-response failures are
// returned immediately.
type Client struct {
	client      llm.Client
	maxAttempts int
	baseWait    time.Duration
	maxWait     time.Duration
	logger      log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// WithBackoff sets the initial and maximum wait between attempts. A
// Retry-After longer than maxWait ends the retry loop.
func WithBackoff(baseWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.baseWait = baseWait
		c.maxWait = maxWait
	}
}

func WithLogger(logger log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Wrap returns a retrying client around client.
func Wrap(client llm.Client, opts ...Option) *Client {
	c := &Client{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
		baseWait:    DefaultBaseWait,
		maxWait:     DefaultMaxWait,
		logger:      log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

func (c *Client) Name() string {
	return llm.NameOf(c.client)
}

// Unwrap returns the wrapped client.
func (c *Client) Unwrap() llm.Client {
	return c.client
}

func (c *Client) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	var (
		response   *llm.Response
		lastErr    error
		attempt    int
		retryAfter time.Duration
	)
	err := retry.DoSimple(ctx, func() error {
		attempt++
		resp, err := c.client.Complete(ctx, req)
		if err == nil {
			response, lastErr = resp, nil
			return nil
		}
		lastErr = err
		if !llm.KindOf(err).Retryable() {
			return retry.MarkPermanent(err)
		}
		retryAfter = llm.RetryAfterOf(err)
		if retryAfter > c.maxWait {
			return retry.MarkPermanent(err)
		}
		return err
	},
		retry.WithMaxAttempts(c.maxAttempts),
		retry.WithBackoff(c.baseWait, c.maxWait),
		retry.WithRetryIf(retry.SkipPermanent()),
		retry.WithDelayFunc(func(n int, cfg *retry.Config) time.Duration {
			// A server-provided wait replaces the backoff for this attempt.
			if retryAfter > 0 {
				return retryAfter
			}
			return retry.ExponentialBackoff(n, cfg)
		}),
		retry.WithOnRetry(func(n int, err error, delay time.Duration) {
			c.logger.Warn("completion failed, retrying",
				"provider", c.Name(),
				"kind", string(llm.KindOf(err)),
				"attempt", n,
				"wait", delay,
			)
		}),
	)

	if response != nil {
		return response, nil
	}
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, err
}
