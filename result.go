package triage

import (
	"encoding/json"
	"time"

	"github.com/deepnoodle-ai/triage/llm"
)

// Result is the structured outcome of classifying one email. Results are
// immutable; optional fields report whether they were produced.
type Result struct {
	category     Category
	urgency      Urgency
	sentiment    Sentiment
	rationale    string
	raw          string
	strategy     StrategyKind
	requestID    string
	model        string
	finishReason llm.FinishReason
	usage        llm.Usage
	latency      time.Duration
}

// Category is always set; it is Unrecognized when the answer named no known
// category.
func (r *Result) Category() Category {
	return r.category
}

// Urgency is only produced by the chain-of-thought strategy.
func (r *Result) Urgency() (Urgency, bool) {
	return r.urgency, r.urgency != 0
}

func (r *Result) Sentiment() (Sentiment, bool) {
	return r.sentiment, r.sentiment != ""
}

// Rationale is the main-issue summary of a chain-of-thought answer, or the
// model's <think> output for the other strategies.
func (r *Result) Rationale() (string, bool) {
	return r.rationale, r.rationale != ""
}

// Raw returns the model output exactly as received.
func (r *Result) Raw() string {
	return r.raw
}

func (r *Result) Strategy() StrategyKind {
	return r.strategy
}

// RequestID identifies the classification that produced the result. Empty
// for results returned directly by Parse.
func (r *Result) RequestID() string {
	return r.requestID
}

func (r *Result) Model() string {
	return r.model
}

func (r *Result) FinishReason() llm.FinishReason {
	return r.finishReason
}

func (r *Result) Usage() llm.Usage {
	return r.usage
}

// Latency is the wall time of the completion call.
func (r *Result) Latency() time.Duration {
	return r.latency
}

// withCompletion returns a copy of r annotated with request metadata.
func (r *Result) withCompletion(requestID string, resp *llm.Response, latency time.Duration) *Result {
	annotated := *r
	annotated.requestID = requestID
	annotated.model = resp.Model
	annotated.finishReason = resp.FinishReason
	annotated.usage = resp.Usage
	annotated.latency = latency
	return &annotated
}

type resultJSON struct {
	Category     Category         `json:"category"`
	Urgency      *Urgency         `json:"urgency,omitempty"`
	Sentiment    string           `json:"sentiment,omitempty"`
	Polarity     Polarity         `json:"polarity,omitempty"`
	Rationale    string           `json:"rationale,omitempty"`
	Raw          string           `json:"raw"`
	Strategy     StrategyKind     `json:"strategy"`
	RequestID    string           `json:"request_id,omitempty"`
	Model        string           `json:"model,omitempty"`
	FinishReason llm.FinishReason `json:"finish_reason,omitempty"`
	Usage        *llm.Usage       `json:"usage,omitempty"`
	LatencyMS    int64            `json:"latency_ms,omitempty"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Category:     r.category,
		Rationale:    r.rationale,
		Raw:          r.raw,
		Strategy:     r.strategy,
		RequestID:    r.requestID,
		Model:        r.model,
		FinishReason: r.finishReason,
		LatencyMS:    r.latency.Milliseconds(),
	}
	if urgency, ok := r.Urgency(); ok {
		out.Urgency = &urgency
	}
	if sentiment, ok := r.Sentiment(); ok {
		out.Sentiment = string(sentiment)
		out.Polarity = sentiment.Polarity()
	}
	if r.usage.Total() > 0 {
		usage := r.usage
		out.Usage = &usage
	}
	return json.Marshal(out)
}
