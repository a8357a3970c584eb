package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the class of a completion failure. A Kind is itself an
// error, so callers can test for it with errors.Is:
//
//	if errors.Is(err, llm.KindRateLimited) { ... }
type Kind string

const (
	// KindUnauthorized means the credential was rejected.
	KindUnauthorized Kind = "unauthorized"

	// KindRateLimited means the service asked the caller to slow down.
	// Error.RetryAfter carries the requested delay when the service sent one.
	KindRateLimited Kind = "rate_limited"

	// KindTimeout means the call did not finish before its deadline.
	KindTimeout Kind = "timeout"

	// KindServiceError covers 5xx responses, unexpected statuses and
	// connection failures.
	KindServiceError Kind = "service_error"

	// KindInvalidResponse means the service answered but the output was
	// empty or truncated.
	KindInvalidResponse Kind = "invalid_response"
)

func (k Kind) Error() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// Retryable reports whether a failure of this kind may succeed if repeated.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindServiceError:
		return true
	}
	return false
}

// Error is a classified completion failure.
type Error struct {
	Kind       Kind
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind target against the error's kind.
func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == e.Kind
}

// NewError returns a classified error.
func NewError(kind Kind, provider, message string) *Error {
	return &Error{Kind: kind, Provider: provider, Message: message}
}

// KindOf returns the Kind of err, or the empty string if err is not a
// classified completion failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// RetryAfterOf returns the delay the service asked for, if any.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
