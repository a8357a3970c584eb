package triage

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var (
	zeroShotPromptTemplate       *template.Template
	fewShotPromptTemplate        *template.Template
	chainOfThoughtPromptTemplate *template.Template
)

func init() {
	var err error
	zeroShotPromptTemplate, err = parseTemplate("zero_shot", zeroShotPromptText)
	if err != nil {
		panic(err)
	}
	fewShotPromptTemplate, err = parseTemplate("few_shot", fewShotPromptText)
	if err != nil {
		panic(err)
	}
	chainOfThoughtPromptTemplate, err = parseTemplate("chain_of_thought", chainOfThoughtPromptText)
	if err != nil {
		panic(err)
	}
}

func executeTemplate(tmpl *template.Template, input any) (string, error) {
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, input); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buffer.String(), nil
}

var templateFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
}

func parseTemplate(name string, text string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).Parse(text)
}

// The email is always wrapped in a fence whose length is chosen so that the
// email cannot contain it. See emailFence.

var zeroShotPromptText = `You are a customer support assistant. Classify the following email into one of these categories:
{{- range $i, $label := .Labels }}
{{ inc $i }}. {{ $label }}
{{- end }}

Email:
{{ .Fence }}
{{ .Email }}
{{ .Fence }}

Category:`

var fewShotPromptText = `Classify customer emails into categories based on these examples.
Answer with one of: {{ join .Names ", " }}.
{{ range .Examples }}
Email:
{{ .Fence }}
{{ .Email }}
{{ .Fence }}
Category: {{ .Category }}
{{ end }}
Email:
{{ .Fence }}
{{ .Email }}
{{ .Fence }}

Category:`

var chainOfThoughtPromptText = `Analyze this customer email step by step.

Email:
{{ .Fence }}
{{ .Email }}
{{ .Fence }}

Think through this step by step:
1. What is the main issue or request?
2. What category does this belong to ({{ join .Names "/" }})?
3. What is the urgency level (Low/Medium/High)?
4. What sentiment does the customer express?
` + mutualExclusivityNote + `

Provide your analysis, then finish with these labeled lines:
Main issue: <one sentence>
Category: <one category>
Urgency: <Low, Medium or High>
Sentiment: <a few words>`

const mutualExclusivityNote = "(Note: You can only select one at max while choosing between the category and urgency level.)"
