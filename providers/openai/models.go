package openai

import "strings"

const (
	ModelGPT41     = "gpt-4.1"
	ModelGPT41Mini = "gpt-4.1-mini"
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
	ModelGPT5Mini  = "gpt-5-mini"
	ModelO4Mini    = "o4-mini"
)

// usesMaxCompletionTokens reports whether the model rejects the legacy
// max_tokens parameter.
func usesMaxCompletionTokens(model string) bool {
	if strings.HasPrefix(model, "gpt-5") {
		return true
	}
	return len(model) > 1 && model[0] == 'o' && model[1] >= '0' && model[1] <= '9'
}
