package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/wonton/assert"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(
		WithAPIKey("test-key"),
		WithEndpoint(server.URL+"/v1/"),
		WithClient(server.Client()),
	)
}

func writeCompletion(w http.ResponseWriter, content, finishReason string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": finishReason,
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{
			"prompt_tokens":     42,
			"completion_tokens": 3,
			"total_tokens":      45,
		},
	})
}

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]any
	var auth, path string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		writeCompletion(w, "Billing Issue", "stop")
	})

	resp, err := provider.Complete(context.Background(), llm.NewRequest("Category:",
		llm.WithModel("gpt-4o-mini"),
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(50),
	))
	assert.NoError(t, err)
	assert.Equal(t, "Billing Issue", resp.Text)
	assert.Equal(t, "chatcmpl-123", resp.ID)
	assert.Equal(t, llm.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 42, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, 0.1, body["temperature"])
	assert.Equal(t, float64(50), body["max_tokens"])
	messages, ok := body["messages"].([]any)
	assert.True(t, ok)
	assert.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "Category:", first["content"])
}

func TestCompleteUsesMaxCompletionTokensForReasoningModels(t *testing.T) {
	var body map[string]any
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeCompletion(w, "Sales", "stop")
	})
	_, err := provider.Complete(context.Background(), llm.NewRequest("x",
		llm.WithModel(ModelO4Mini),
		llm.WithMaxTokens(100),
	))
	assert.NoError(t, err)
	assert.Equal(t, float64(100), body["max_completion_tokens"])
	_, hasLegacy := body["max_tokens"]
	assert.False(t, hasLegacy)
}

func TestCompleteClassifiesStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		kind   llm.Kind
	}{
		{http.StatusUnauthorized, llm.KindUnauthorized},
		{http.StatusTooManyRequests, llm.KindRateLimited},
		{http.StatusInternalServerError, llm.KindServiceError},
		{http.StatusServiceUnavailable, llm.KindServiceError},
	}
	for _, tc := range cases {
		calls := 0
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":{"message":"nope","type":"error"}}`))
		})
		_, err := provider.Complete(context.Background(), llm.NewRequest("x"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, tc.kind), "status %d: %v", tc.status, err)

		var classified *llm.Error
		assert.True(t, errors.As(err, &classified))
		assert.Equal(t, tc.status, classified.StatusCode)
		assert.Equal(t, "openai", classified.Provider)
		if tc.kind == llm.KindRateLimited {
			assert.Equal(t, 2*time.Second, classified.RetryAfter)
		}
		assert.Equal(t, 1, calls, "the provider must not retry on its own")
	}
}

func TestCompleteRejectsEmptyAndTruncatedOutput(t *testing.T) {
	empty := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "   ", "stop")
	})
	_, err := empty.Complete(context.Background(), llm.NewRequest("x"))
	assert.True(t, errors.Is(err, llm.KindInvalidResponse))

	truncated := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "1. The customer", "length")
	})
	_, err = truncated.Complete(context.Background(), llm.NewRequest("x"))
	assert.True(t, errors.Is(err, llm.KindInvalidResponse))
}

func TestCompleteTimeout(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.Complete(ctx, llm.NewRequest("x"))
	assert.True(t, errors.Is(err, llm.KindTimeout), "got %v", err)
}

func TestCompleteRejectsInvalidRequest(t *testing.T) {
	provider := New(WithAPIKey("k"))
	_, err := provider.Complete(context.Background(), &llm.Request{})
	assert.Error(t, err)
}

func TestUsesMaxCompletionTokens(t *testing.T) {
	assert.True(t, usesMaxCompletionTokens("o3"))
	assert.True(t, usesMaxCompletionTokens("o4-mini"))
	assert.True(t, usesMaxCompletionTokens("gpt-5-mini"))
	assert.False(t, usesMaxCompletionTokens("gpt-4o"))
	assert.False(t, usesMaxCompletionTokens("openai/gpt-oss-120b"))
}

func TestConvertFinishReason(t *testing.T) {
	assert.Equal(t, llm.FinishReasonStop, convertFinishReason("stop"))
	assert.Equal(t, llm.FinishReasonLength, convertFinishReason("length"))
	assert.Equal(t, llm.FinishReasonFilter, convertFinishReason("content_filter"))
	assert.Equal(t, llm.FinishReasonOther, convertFinishReason("tool_calls"))
}
