package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/wonton/assert"
	"google.golang.org/genai"
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

func writeContent(w http.ResponseWriter, text, finishReason string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"responseId":   "resp-1",
		"modelVersion": "gemini-2.5-flash",
		"candidates": []map[string]any{{
			"index":        0,
			"finishReason": finishReason,
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
		}},
		"usageMetadata": map[string]any{
			"promptTokenCount":     40,
			"candidatesTokenCount": 2,
		},
	})
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": "nope", "status": reason},
	})
}

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]any
	var path string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		writeContent(w, "Sales", "STOP")
	})

	resp, err := provider.Complete(context.Background(), llm.NewRequest("Category:",
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(50),
	))
	assert.NoError(t, err)
	assert.Equal(t, "Sales", resp.Text)
	assert.Equal(t, "resp-1", resp.ID)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Equal(t, llm.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 2, resp.Usage.OutputTokens)

	assert.Contains(t, path, "models/gemini-2.5-flash:generateContent")
	config, ok := body["generationConfig"].(map[string]any)
	assert.True(t, ok, "generationConfig missing from %v", body)
	assert.Equal(t, float64(50), config["maxOutputTokens"])
	contents := body["contents"].([]any)
	assert.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])
}

func TestCompleteClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reason string
		kind   llm.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, "UNAUTHENTICATED", llm.KindUnauthorized},
		{"forbidden", http.StatusForbidden, "PERMISSION_DENIED", llm.KindUnauthorized},
		{"rate limited", http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", llm.KindRateLimited},
		{"bad request", http.StatusBadRequest, "INVALID_ARGUMENT", llm.KindServiceError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				writeError(w, tt.status, tt.reason)
			})
			_, err := provider.Complete(context.Background(), llm.NewRequest("hi"))
			assert.Error(t, err)
			assert.Equal(t, tt.kind, llm.KindOf(err))
		})
	}
}

func TestCompleteMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	provider := New()
	_, err := provider.Complete(context.Background(), llm.NewRequest("hi"))
	assert.Equal(t, llm.KindUnauthorized, llm.KindOf(err))
}

func TestCompleteTruncatedIsInvalidResponse(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeContent(w, "The", "MAX_TOKENS")
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

func TestBuildContentsSystemInstruction(t *testing.T) {
	req := llm.NewRequest("Category:", llm.WithSystemPrompt("Be terse."))
	contents, config := buildContents(req)
	assert.Len(t, contents, 1)
	assert.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "Be terse.", config.SystemInstruction.Parts[0].Text)
}

func TestConvertFinishReason(t *testing.T) {
	assert.Equal(t, llm.FinishReasonStop, convertFinishReason(genai.FinishReasonStop))
	assert.Equal(t, llm.FinishReasonLength, convertFinishReason(genai.FinishReasonMaxTokens))
	assert.Equal(t, llm.FinishReasonFilter, convertFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, llm.FinishReasonOther, convertFinishReason(genai.FinishReasonRecitation))
	assert.Equal(t, llm.FinishReasonUnknown, convertFinishReason(""))
}
