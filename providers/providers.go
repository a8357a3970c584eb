package providers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
)

// KindForStatus maps an HTTP status code to a failure kind.
func KindForStatus(statusCode int) llm.Kind {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return llm.KindUnauthorized
	case statusCode == http.StatusTooManyRequests:
		return llm.KindRateLimited
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return llm.KindTimeout
	default:
		return llm.KindServiceError
	}
}

// NewError creates a classified error from an HTTP status and response body.
// The Retry-After header, when present, is carried on rate-limit errors.
func NewError(provider string, statusCode int, header http.Header, body string) *llm.Error {
	err := &llm.Error{
		Kind:       KindForStatus(statusCode),
		Provider:   provider,
		StatusCode: statusCode,
		Message:    strings.TrimSpace(body),
	}
	if err.Kind == llm.KindRateLimited && header != nil {
		err.RetryAfter = ParseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return err
}

// ParseRetryAfter interprets a Retry-After header value, which is either a
// number of seconds or an HTTP date.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds * float64(time.Second))
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// WrapTransportError classifies an error that occurred before any HTTP status
// was received: deadlines and network timeouts become KindTimeout, everything
// else KindServiceError. Already-classified errors pass through unchanged.
func WrapTransportError(ctx context.Context, provider string, err error) error {
	if err == nil {
		return nil
	}
	var classified *llm.Error
	if errors.As(err, &classified) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || (ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return &llm.Error{Kind: llm.KindTimeout, Provider: provider, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &llm.Error{Kind: llm.KindTimeout, Provider: provider, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &llm.Error{Kind: llm.KindServiceError, Provider: provider, Err: err}
}

// CheckResponse rejects empty or truncated completions with
// KindInvalidResponse.
func CheckResponse(provider string, resp *llm.Response) error {
	if resp == nil {
		return llm.NewError(llm.KindInvalidResponse, provider, "no response")
	}
	if resp.FinishReason.Truncated() {
		return &llm.Error{
			Kind:     llm.KindInvalidResponse,
			Provider: provider,
			Message:  "output truncated at max tokens",
		}
	}
	if strings.TrimSpace(resp.Text) == "" {
		return llm.NewError(llm.KindInvalidResponse, provider, "empty completion")
	}
	return nil
}
