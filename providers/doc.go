// Package providers contains the completion-client registry and the error
// classification shared by every provider.
//
// Providers self-register via init() functions using [Register]. The registry
// resolves a provider either by name or by matching the model name against
// glob patterns ([GlobMatcher]).
//
// Individual providers are in subpackages:
//
//   - [github.com/deepnoodle-ai/triage/providers/groq] - Groq inference engine (default)
//   - [github.com/deepnoodle-ai/triage/providers/openai] - OpenAI Chat Completions API
//   - [github.com/deepnoodle-ai/triage/providers/anthropic] - Claude models
//   - [github.com/deepnoodle-ai/triage/providers/google] - Gemini models
package providers
