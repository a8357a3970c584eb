package anthropic

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
		WithEndpoint(server.URL+"/"),
		WithClient(server.Client()),
	)
}

func writeMessage(w http.ResponseWriter, text, stopReason string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":    "msg_123",
		"type":  "message",
		"role":  "assistant",
		"model": "claude-haiku-4-5",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 3},
	})
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"type":  "error",
		"error": map[string]any{"type": errType, "message": message},
	})
}

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]any
	var apiKey, path string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-Api-Key")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		writeMessage(w, "Billing Issue", "end_turn")
	})

	resp, err := provider.Complete(context.Background(), llm.NewRequest("Category:",
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(250),
		llm.WithSystemPrompt("You triage support email."),
	))
	assert.NoError(t, err)
	assert.Equal(t, "Billing Issue", resp.Text)
	assert.Equal(t, "msg_123", resp.ID)
	assert.Equal(t, llm.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 43, resp.Usage.Total())

	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "/v1/messages", path)
	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, float64(250), body["max_tokens"])
	assert.Equal(t, 0.3, body["temperature"])
	messages := body["messages"].([]any)
	assert.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	system := body["system"].([]any)
	assert.Len(t, system, 1)
	assert.Equal(t, "You triage support email.", system[0].(map[string]any)["text"])
}

func TestCompleteDefaultsMaxTokens(t *testing.T) {
	var body map[string]any
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeMessage(w, "Sales", "end_turn")
	})
	_, err := provider.Complete(context.Background(), llm.NewRequest("Category:"))
	assert.NoError(t, err)
	assert.Equal(t, float64(DefaultMaxTokens), body["max_tokens"])
}

func TestCompleteClassifiesStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		errType string
		kind    llm.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, "authentication_error", llm.KindUnauthorized},
		{"forbidden", http.StatusForbidden, "permission_error", llm.KindUnauthorized},
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", llm.KindRateLimited},
		{"overloaded", 529, "overloaded_error", llm.KindServiceError},
		{"server error", http.StatusInternalServerError, "api_error", llm.KindServiceError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "2")
				}
				writeError(w, tt.status, tt.errType, "nope")
			})
			_, err := provider.Complete(context.Background(), llm.NewRequest("hi"))
			assert.Error(t, err)
			assert.Equal(t, tt.kind, llm.KindOf(err))
			assert.Equal(t, 1, calls)

			var llmErr *llm.Error
			assert.True(t, errors.As(err, &llmErr))
			assert.Equal(t, ProviderName, llmErr.Provider)
			assert.Equal(t, tt.status, llmErr.StatusCode)
			if tt.kind == llm.KindRateLimited {
				assert.Equal(t, 2*time.Second, llmErr.RetryAfter)
			}
		})
	}
}

func TestCompleteTruncatedIsInvalidResponse(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "The customer", "max_tokens")
	})
	_, err := provider.Complete(context.Background(), llm.NewRequest("hi"))
	assert.Equal(t, llm.KindInvalidResponse, llm.KindOf(err))
}

func TestCompleteEmptyTextIsInvalidResponse(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "", "end_turn")
	})
	_, err := provider.Complete(context.Background(), llm.NewRequest("hi"))
	assert.Equal(t, llm.KindInvalidResponse, llm.KindOf(err))
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
	_, err := provider.Complete(ctx, llm.NewRequest("hi"))
	assert.Equal(t, llm.KindTimeout, llm.KindOf(err))
}

func TestConvertStopReason(t *testing.T) {
	assert.Equal(t, llm.FinishReasonStop, convertStopReason("end_turn"))
	assert.Equal(t, llm.FinishReasonStop, convertStopReason("stop_sequence"))
	assert.Equal(t, llm.FinishReasonLength, convertStopReason("max_tokens"))
	assert.Equal(t, llm.FinishReasonFilter, convertStopReason("refusal"))
	assert.Equal(t, llm.FinishReasonOther, convertStopReason("pause_turn"))
	assert.Equal(t, llm.FinishReasonUnknown, convertStopReason(""))
}
