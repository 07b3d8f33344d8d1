package gate

// ReasonCode is a machine-readable violation tag accumulated by the checks.
type ReasonCode string

const (
	// Pricing completeness
	MissingPrice         ReasonCode = "MISSING_PRICE"
	InvalidPrice         ReasonCode = "INVALID_PRICE"
	MissingCurrency      ReasonCode = "MISSING_CURRENCY"
	MissingLeadTime      ReasonCode = "MISSING_LEAD_TIME"
	MissingDeliveryTerms ReasonCode = "MISSING_DELIVERY_TERMS"
	MissingQuoteValidity ReasonCode = "MISSING_QUOTE_VALIDITY"

	// Document sufficiency
	InsufficientEvidence ReasonCode = "INSUFFICIENT_EVIDENCE"
	InsufficientSpecs    ReasonCode = "INSUFFICIENT_SPECS"

	// Business rules
	SoleSourceJustRequired ReasonCode = "SOLE_SOURCE_JUST_REQUIRED"
	ContractRequired       ReasonCode = "CONTRACT_REQUIRED"
	UnbudgetedProcurement  ReasonCode = "UNBUDGETED_PROCUREMENT"
)

// ApproverRole is one of the fixed organizational sign-off authorities.
type ApproverRole string

const (
	RolePMO       ApproverRole = "PMO"
	RoleEVP       ApproverRole = "EVP"
	RoleFinance   ApproverRole = "Finance"
	RoleContracts ApproverRole = "Contracts"
	RolePresident ApproverRole = "President"
)

// Result is the immutable outcome of one gate evaluation. Passed is true iff
// both ReasonCodes and MissingItems are empty.
type Result struct {
	Passed            bool           `json:"passed"`
	ReasonCodes       []ReasonCode   `json:"reasonCodes"`
	MissingItems      []string       `json:"missingItems"`
	Recommendations   []string       `json:"recommendations"`
	RequiredApprovers []ApproverRole `json:"requiredApprovers"`
}

// HasReason reports whether any accumulated reason code matches one of codes.
func (r Result) HasReason(codes ...ReasonCode) bool {
	for _, have := range r.ReasonCodes {
		for _, want := range codes {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Recommendation is the downstream path derived 1:1 from Result.Passed.
type Recommendation string

const (
	ProceedToApprovals Recommendation = "PROCEED_TO_APPROVALS"
	GenerateRFQs       Recommendation = "GENERATE_RFQS"
)

// ChecklistStatus is the rendered state of one compliance dimension.
type ChecklistStatus string

const (
	StatusPass    ChecklistStatus = "PASS"
	StatusFail    ChecklistStatus = "FAIL"
	StatusWarning ChecklistStatus = "WARNING"
)

// ChecklistItem is one named compliance dimension of the cart decision.
type ChecklistItem struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Status   ChecklistStatus `json:"status"`
	Message  string          `json:"message"`
	Required bool            `json:"required"`
}

// CartDecision drives which downstream path the UI offers after the cart
// step: direct approvals or an RFQ cycle.
type CartDecision struct {
	Recommendation      Recommendation  `json:"recommendation"`
	Reason              string          `json:"reason"`
	G1                  Result          `json:"g1Result"`
	ReadinessPercentage int             `json:"readinessPercentage"`
	Checklist           []ChecklistItem `json:"checklist"`
}

// CheckResult is the accumulated output of a single checker. Checks append
// one reason code and one missing-item description per concrete gap; a
// checker adds at most one recommendation per failure category.
type CheckResult struct {
	ReasonCodes     []ReasonCode
	MissingItems    []string
	Recommendations []string
}

func (c *CheckResult) add(code ReasonCode, missing string) {
	c.ReasonCodes = append(c.ReasonCodes, code)
	c.MissingItems = append(c.MissingItems, missing)
}

func (c *CheckResult) recommend(hint string) {
	for _, have := range c.Recommendations {
		if have == hint {
			return
		}
	}
	c.Recommendations = append(c.Recommendations, hint)
}
