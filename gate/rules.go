package gate

// CheckBusinessRules verifies the procurement-policy flags: sole-source
// purchases need a justification amount, required contracts must be executed,
// and unbudgeted requests must at least appear in the spend plan.
func CheckBusinessRules(ctx Context) CheckResult {
	var out CheckResult
	p := ctx.Procurement

	if p.IsSoleSource && p.SSJAmount == nil {
		out.add(SoleSourceJustRequired, "Sole source selected without a justification amount")
		out.recommend("Add a Sole Source Justification or switch to a competitive RFQ")
	}
	if p.ContractRequired && !p.ContractExecuted {
		out.add(ContractRequired, "A contract is required but not yet executed")
		out.recommend("Upload the executed contract")
	}
	if !p.Budgeted && p.SpendPlanStatus == SpendPlanNotInPlan {
		out.add(UnbudgetedProcurement, "Request is unbudgeted and not in the spend plan")
		out.recommend("Add the request to the spend plan or secure budget approval")
	}

	return out
}
