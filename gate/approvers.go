package gate

// Cost thresholds of the approver matrix. These are fixed policy constants,
// not configuration.
const (
	ccSpendPlanThreshold   = 5_000
	presidentThreshold     = 250_000
	contractsSSJThreshold  = 250_000
	romsFinanceThreshold   = 250_000
	romsPresidentThreshold = 500_000
)

// RequiredApprovers returns the mandatory approver roles for a procurement,
// ordered by rule discovery and deduplicated. The matrix is keyed by
// procurement type with cost-threshold additions:
//
//	CC_APPROVED_SPEND_PLAN  none
//	CC_NOT_IN_SPEND_PLAN    PMO+Finance when cost > 5k
//	PROC_COMPETITIVE        PMO, EVP, Finance; +Contracts when contract executed; +President > 250k
//	PROC_SOLE_SOURCE        PMO, EVP, Finance; +Contracts when contract executed or SSJ > 250k; +President > 250k
//	BIDS_AND_PROPOSALS      PMO, EVP, Finance; +President > 250k
//	ROMS                    PMO, EVP; +Finance > 250k; +President > 500k
func RequiredApprovers(p Procurement) []ApproverRole {
	var roles []ApproverRole
	seen := make(map[ApproverRole]bool)

	require := func(role ApproverRole) {
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}

	switch p.ProcurementType {
	case CCApprovedSpendPlan:
		// Pre-approved spend plan: no sign-off needed.

	case CCNotInSpendPlan:
		if p.EstimatedCost > ccSpendPlanThreshold {
			require(RolePMO)
			require(RoleFinance)
		}

	case ProcCompetitive:
		require(RolePMO)
		require(RoleEVP)
		require(RoleFinance)
		if p.ContractExecuted {
			require(RoleContracts)
		}
		if p.EstimatedCost > presidentThreshold {
			require(RolePresident)
		}

	case ProcSoleSource:
		require(RolePMO)
		require(RoleEVP)
		require(RoleFinance)
		if p.ContractExecuted || (p.SSJAmount != nil && *p.SSJAmount > contractsSSJThreshold) {
			require(RoleContracts)
		}
		if p.EstimatedCost > presidentThreshold {
			require(RolePresident)
		}

	case BidsAndProposals:
		require(RolePMO)
		require(RoleEVP)
		require(RoleFinance)
		if p.EstimatedCost > presidentThreshold {
			require(RolePresident)
		}

	case ROMs:
		require(RolePMO)
		require(RoleEVP)
		if p.EstimatedCost > romsFinanceThreshold {
			require(RoleFinance)
		}
		if p.EstimatedCost > romsPresidentThreshold {
			require(RolePresident)
		}
	}

	return roles
}
