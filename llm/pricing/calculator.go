// Package pricing estimates the cost of completions from token usage.
package pricing

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/providers/anthropic"
	"github.com/deepnoodle-ai/triage/providers/google"
	"github.com/deepnoodle-ai/triage/providers/groq"
	"github.com/deepnoodle-ai/triage/providers/openai"
)

// Price is a list price in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Used when a model has no list price.
var FallbackPrice = Price{Input: 2.0, Output: 6.0}

var textModelPricing = map[string]map[string]Price{
	"openai": {
		openai.ModelGPT4oMini: {Input: 0.15, Output: 0.60},
		openai.ModelGPT4o:     {Input: 2.50, Output: 10.00},
		openai.ModelGPT41:     {Input: 2.00, Output: 8.00},
		openai.ModelGPT41Mini: {Input: 0.40, Output: 1.60},
		openai.ModelGPT5Mini:  {Input: 0.25, Output: 2.00},
		openai.ModelO4Mini:    {Input: 1.10, Output: 4.40},
	},
	"groq": {
		groq.ModelGPTOSS120b:          {Input: 0.15, Output: 0.75},
		groq.ModelGPTOSS20b:           {Input: 0.10, Output: 0.50},
		groq.ModelLlama3370bVersatile: {Input: 0.59, Output: 0.79},
		groq.ModelLlama318bInstant:    {Input: 0.05, Output: 0.08},
		groq.ModelLlama4Scout:         {Input: 0.11, Output: 0.34},
		groq.ModelQwen332b:            {Input: 0.29, Output: 0.59},
		groq.ModelKimiK2Instruct:      {Input: 1.00, Output: 3.00},
	},
	"anthropic": {
		anthropic.ModelClaudeHaiku35:  {Input: 0.80, Output: 4.00},
		anthropic.ModelClaudeHaiku45:  {Input: 1.00, Output: 5.00},
		anthropic.ModelClaudeSonnet45: {Input: 3.00, Output: 15.00},
		anthropic.ModelClaudeOpus45:   {Input: 5.00, Output: 25.00},
	},
	"google": {
		google.ModelGemini25Pro:       {Input: 1.25, Output: 10.00},
		google.ModelGemini25Flash:     {Input: 0.30, Output: 2.50},
		google.ModelGemini25FlashLite: {Input: 0.10, Output: 0.40},
	},
}

// Cost is the estimated price of one completion.
type Cost struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	InputCost    float64 `json:"input_cost_usd"`
	OutputCost   float64 `json:"output_cost_usd"`
	TotalCost    float64 `json:"total_cost_usd"`
	// Estimated is true when the model had no list price and
	// FallbackPrice was used.
	Estimated bool `json:"estimated"`
}

func (c Cost) String() string {
	s := fmt.Sprintf("$%.6f", c.TotalCost)
	if c.Estimated {
		s = "~" + s
	}
	return s
}

// Lookup returns the list price for a model. Dated snapshots such as
// "claude-haiku-4-5-20251001" match their undated alias.
func Lookup(provider, model string) (Price, bool) {
	models, ok := textModelPricing[strings.ToLower(provider)]
	if !ok {
		return Price{}, false
	}
	if price, ok := models[model]; ok {
		return price, true
	}
	best := ""
	for name := range models {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Price{}, false
	}
	return models[best], true
}

// TextCost estimates the cost of a completion with the given usage.
func TextCost(provider, model string, usage llm.Usage) Cost {
	price, found := Lookup(provider, model)
	if !found {
		price = FallbackPrice
	}
	inputCost := float64(usage.InputTokens) / 1_000_000.0 * price.Input
	outputCost := float64(usage.OutputTokens) / 1_000_000.0 * price.Output
	return Cost{
		Provider:     strings.ToLower(provider),
		Model:        model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		InputCost:    inputCost,
		OutputCost:   outputCost,
		TotalCost:    inputCost + outputCost,
		Estimated:    !found,
	}
}

// Models lists the priced models of a provider.
func Models(provider string) []string {
	var names []string
	for name := range textModelPricing[strings.ToLower(provider)] {
		names = append(names, name)
	}
	return names
}
