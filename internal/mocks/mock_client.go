package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
)

var _ llm.Client = &MockClient{}

// Reply is one scripted outcome of a Complete call.
type Reply struct {
	Text         string
	FinishReason llm.FinishReason
	Usage        llm.Usage
	Err          error
	Delay        time.Duration
}

type MockClientOptions struct {
	Name    string
	Model   string
	Replies []Reply

	// Respond, when set, computes the reply from the request and takes
	// precedence over Replies.
	Respond func(req *llm.Request) Reply
}

// MockClient returns scripted replies in order and records every request.
// Once the script is exhausted the last reply repeats.
type MockClient struct {
	name     string
	model    string
	replies  []Reply
	respond  func(req *llm.Request) Reply
	mutex    sync.Mutex
	requests []*llm.Request
}

func NewMockClient(opts MockClientOptions) *MockClient {
	name := opts.Name
	if name == "" {
		name = "mock"
	}
	return &MockClient{
		name:    name,
		model:   opts.Model,
		replies: opts.Replies,
		respond: opts.Respond,
	}
}

// NewTextClient returns a client that answers with the given texts in order.
func NewTextClient(texts ...string) *MockClient {
	replies := make([]Reply, 0, len(texts))
	for _, text := range texts {
		replies = append(replies, Reply{Text: text})
	}
	return NewMockClient(MockClientOptions{Replies: replies})
}

func (c *MockClient) Name() string {
	return c.name
}

func (c *MockClient) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c.mutex.Lock()
	c.requests = append(c.requests, req)
	index := len(c.requests) - 1
	c.mutex.Unlock()

	var reply Reply
	switch {
	case c.respond != nil:
		reply = c.respond(req)
	case len(c.replies) == 0:
		return nil, llm.NewError(llm.KindInvalidResponse, c.name, "no scripted reply")
	case index < len(c.replies):
		reply = c.replies[index]
	default:
		reply = c.replies[len(c.replies)-1]
	}

	if reply.Delay > 0 {
		timer := time.NewTimer(reply.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &llm.Error{Kind: llm.KindTimeout, Provider: c.name, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	finishReason := reply.FinishReason
	if finishReason == "" {
		finishReason = llm.FinishReasonStop
	}
	model := req.Model
	if model == "" {
		model = c.model
	}
	return &llm.Response{
		ID:           fmt.Sprintf("mock-%d", index+1),
		Model:        model,
		Text:         reply.Text,
		FinishReason: finishReason,
		Usage:        reply.Usage,
	}, nil
}

// Requests returns a copy of the requests received so far.
func (c *MockClient) Requests() []*llm.Request {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]*llm.Request(nil), c.requests...)
}

// Calls returns the number of Complete calls.
func (c *MockClient) Calls() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.requests)
}

// LastPrompt returns the user prompt of the most recent request.
func (c *MockClient) LastPrompt() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if len(c.requests) == 0 {
		return ""
	}
	return c.requests[len(c.requests)-1].Prompt()
}
