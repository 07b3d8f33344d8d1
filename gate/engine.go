package gate

// rfqHint is appended to every failing evaluation.
const rfqHint = "Consider generating RFQs to gather missing information"

// checkers run in fixed order; the checklist in GenerateCartDecision mirrors
// this order.
var checkers = []func(Context) CheckResult{
	CheckPricing,
	CheckDocuments,
	CheckBusinessRules,
}

// Evaluate runs every checker against ctx, concatenates their findings, and
// resolves the required approvers. The gate passes iff no checker reported a
// reason code or missing item.
func Evaluate(ctx Context) Result {
	var r Result
	for _, check := range checkers {
		out := check(ctx)
		r.ReasonCodes = append(r.ReasonCodes, out.ReasonCodes...)
		r.MissingItems = append(r.MissingItems, out.MissingItems...)
		r.Recommendations = append(r.Recommendations, out.Recommendations...)
	}

	r.RequiredApprovers = RequiredApprovers(ctx.Procurement)
	r.Passed = len(r.ReasonCodes) == 0 && len(r.MissingItems) == 0
	if !r.Passed {
		r.Recommendations = append(r.Recommendations, rfqHint)
	}
	return r
}

// Code sets that map aggregate reason codes onto checklist dimensions.
var (
	pricingCodes = []ReasonCode{
		MissingPrice, InvalidPrice, MissingCurrency,
		MissingLeadTime, MissingDeliveryTerms, MissingQuoteValidity,
	}
	documentCodes = []ReasonCode{InsufficientEvidence, InsufficientSpecs}
	ruleCodes     = []ReasonCode{SoleSourceJustRequired, ContractRequired, UnbudgetedProcurement}
)

// GenerateCartDecision evaluates the gate and renders the four-item
// compliance checklist behind the cart step. Readiness is the percentage of
// required checklist items with status PASS; a WARNING counts as not passed.
func GenerateCartDecision(ctx Context) CartDecision {
	result := Evaluate(ctx)

	checklist := []ChecklistItem{
		checklistItem("pricing", "Pricing completeness", result, pricingCodes,
			"All selected vendors have complete quotes",
			"One or more vendors are missing pricing details"),
		checklistItem("documents", "Document sufficiency", result, documentCodes,
			"Vendor evidence and line item specs are on file",
			"Vendor evidence or line item specs are missing"),
		checklistItem("business_rules", "Business rules", result, ruleCodes,
			"No policy violations detected",
			"One or more procurement policies are violated"),
		approverChecklistItem(result),
	}

	required, passed := 0, 0
	for _, item := range checklist {
		if !item.Required {
			continue
		}
		required++
		if item.Status == StatusPass {
			passed++
		}
	}
	readiness := 0
	if required > 0 {
		readiness = 100 * passed / required
	}

	decision := CartDecision{
		G1:                  result,
		ReadinessPercentage: readiness,
		Checklist:           checklist,
	}
	if result.Passed {
		decision.Recommendation = ProceedToApprovals
		decision.Reason = "All gate checks passed"
	} else {
		decision.Recommendation = GenerateRFQs
		decision.Reason = "Gate checks found gaps that an RFQ cycle can close"
	}
	return decision
}

func checklistItem(id, label string, r Result, codes []ReasonCode, passMsg, failMsg string) ChecklistItem {
	item := ChecklistItem{ID: id, Label: label, Status: StatusPass, Message: passMsg, Required: true}
	if r.HasReason(codes...) {
		item.Status = StatusFail
		item.Message = failMsg
	}
	return item
}

// approverChecklistItem degrades to WARNING, never FAIL, when no approver is
// required: an empty set is legitimate for pre-approved spend plans.
func approverChecklistItem(r Result) ChecklistItem {
	item := ChecklistItem{
		ID:       "approvers",
		Label:    "Approver chain",
		Status:   StatusPass,
		Message:  "Approver chain resolved",
		Required: true,
	}
	if len(r.RequiredApprovers) == 0 {
		item.Status = StatusWarning
		item.Message = "No approvers required for this procurement type"
	}
	return item
}
