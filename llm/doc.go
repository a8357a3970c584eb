// Package llm defines the narrow boundary between the classifier and a hosted
// text-completion service.
//
// It provides the types shared by every provider:
//
//   - [Client] is the single-call completion interface.
//   - [Request] and [Message] describe one completion request.
//   - [Response] carries the generated text, finish reason and [Usage].
//   - [Error] and [Kind] classify transport failures so callers can decide
//     whether to retry.
//
// Provider implementations live under [github.com/deepnoodle-ai/triage/providers].
package llm
