package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []Kind{
		KindUnauthorized,
		KindRateLimited,
		KindTimeout,
		KindServiceError,
		KindInvalidResponse,
	}
	for _, kind := range kinds {
		err := &Error{Kind: kind, Provider: "groq"}
		for _, other := range kinds {
			assert.Equal(t, kind == other, errors.Is(err, other), "%s vs %s", kind, other)
		}
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	base := &Error{
		Kind:       KindRateLimited,
		Provider:   "openai",
		StatusCode: 429,
		RetryAfter: 3 * time.Second,
		Message:    "slow down",
	}
	wrapped := fmt.Errorf("classifying email: %w", base)

	assert.True(t, errors.Is(wrapped, KindRateLimited))
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
	assert.Equal(t, 3*time.Second, RetryAfterOf(wrapped))
	assert.Equal(t, "openai: rate limited (status 429): slow down", base.Error())
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := &Error{Kind: KindTimeout, Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "timeout: context deadline exceeded", err.Error())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, time.Duration(0), RetryAfterOf(errors.New("boom")))
}

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindRateLimited.Retryable())
	assert.True(t, KindTimeout.Retryable())
	assert.True(t, KindServiceError.Retryable())
	assert.False(t, KindUnauthorized.Retryable())
	assert.False(t, KindInvalidResponse.Retryable())
}
