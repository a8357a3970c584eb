// Package triage classifies customer support emails with a hosted language
// model using one of three prompting strategies.
//
// The core types are:
//
//   - [Strategy] pairs a prompting technique ([ZeroShot], [FewShot] or
//     [ChainOfThought]) with its generation parameters.
//   - [PromptBuilder] renders the prompt for a strategy and an email.
//   - [Parse] turns raw model output into a [Result].
//   - [Classifier] runs build, complete and parse against an [llm.Client].
//
// # Quick Start
//
//	client := groq.New()
//	classifier := triage.New(client)
//	result, err := classifier.Classify(ctx, triage.DefaultStrategy(triage.ZeroShot), email)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Category())
//
// Completion providers live in the [github.com/deepnoodle-ai/triage/providers]
// subpackages. Wrap a client with [github.com/deepnoodle-ai/triage/retry] to
// retry transient failures.
package triage
