package llm

// FinishReason is the normalized reason the model stopped generating.
type FinishReason string

const (
	FinishReasonStop    FinishReason = "stop"
	FinishReasonLength  FinishReason = "length"
	FinishReasonFilter  FinishReason = "content_filter"
	FinishReasonOther   FinishReason = "other"
	FinishReasonUnknown FinishReason = ""
)

// Truncated reports whether generation stopped because the token cap was hit.
func (r FinishReason) Truncated() bool {
	return r == FinishReasonLength
}

// Response from a completion request
type Response struct {
	ID           string       `json:"id,omitempty"`
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        Usage        `json:"usage"`
}
