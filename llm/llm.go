package llm

import "context"

// Client issues a single completion request to a hosted model.
//
// Implementations must not mutate the request and must be safe for concurrent
// use. Failures are returned as *Error values whose Kind identifies the cause.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts an ordinary function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

// Complete calls f(ctx, req).
func (f ClientFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Named is implemented by clients that can report the provider they talk to.
type Named interface {
	Name() string
}

// NameOf returns the provider name of the client, or "unknown".
func NameOf(client Client) string {
	if named, ok := client.(Named); ok {
		return named.Name()
	}
	return "unknown"
}
