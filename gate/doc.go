// Package gate implements the G1 decision gate: the deterministic rule
// evaluator that decides whether a procurement request may proceed directly
// to approvals or must first gather quotes through an RFQ cycle, and which
// approver roles are mandatory.
//
// Everything in this package is pure and synchronous. Violations are not
// errors — they are accumulated data describing why a gate failed; an
// evaluation always completes and returns a Result. Context, Result, and
// CartDecision are value objects constructed and discarded per call, safe to
// evaluate concurrently across independent contexts.
//
//	decision := gate.GenerateCartDecision(ctx)
//	switch decision.Recommendation {
//	case gate.ProceedToApprovals:
//	    // route the PR through decision.G1.RequiredApprovers
//	case gate.GenerateRFQs:
//	    // collect quotes for the gaps in decision.G1.MissingItems
//	}
package gate
