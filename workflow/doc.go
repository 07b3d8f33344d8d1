// Package workflow implements the dependency-ordered, validated, resumable
// step machine that drives the procurement intake flow.
//
// The package separates three concerns:
//
//   - Session is a serializable value holding all mutable flow state
//     (current step, completed set, per-step data, errors). It is never
//     mutated in place; transformations return new values.
//   - Reduce is the pure transition function. Every state change — navigation,
//     completion, going back, reset — is expressed as a Command applied
//     through Reduce, so the transition semantics are testable without an
//     engine and persistence stays an explicit boundary concern.
//   - Engine sequences the impure parts around Reduce: lifecycle hooks with
//     deadlines, observer events, and subscriber snapshot fan-out.
//
// Step graphs are defined once at startup:
//
//	steps, err := workflow.NewSteps(
//	    workflow.StepDefinition{ID: 1, Key: "product"},
//	    workflow.StepDefinition{ID: 2, Key: "scope", Dependencies: []int{1}},
//	)
//	engine, err := workflow.NewEngine(config.DefaultWorkflowConfig("intake"), steps)
//	snap, err := engine.CompleteCurrentStep(ctx, map[string]any{"productName": "laptops"})
//
// Engine methods never panic across the public boundary. Failures are
// returned as *TransitionError values carrying a machine-readable Code and
// the step they apply to, and are also recorded in the session's Errors map
// under that step id.
package workflow
