package gate

// SpendType classifies spend as direct or indirect.
type SpendType string

const (
	SpendDirect   SpendType = "Direct"
	SpendIndirect SpendType = "Indirect"
)

// SpendPlanStatus is the request's standing in the approved spend plan.
type SpendPlanStatus string

const (
	SpendPlanApproved  SpendPlanStatus = "APPROVED"
	SpendPlanPending   SpendPlanStatus = "PENDING"
	SpendPlanNotInPlan SpendPlanStatus = "NOT_IN_PLAN"
)

// ProcurementType is the closed set of procurement categories. The approver
// matrix is keyed by this type.
type ProcurementType string

const (
	CCApprovedSpendPlan ProcurementType = "CC_APPROVED_SPEND_PLAN"
	CCNotInSpendPlan    ProcurementType = "CC_NOT_IN_SPEND_PLAN"
	ProcCompetitive     ProcurementType = "PROC_COMPETITIVE"
	ProcSoleSource      ProcurementType = "PROC_SOLE_SOURCE"
	BidsAndProposals    ProcurementType = "BIDS_AND_PROPOSALS"
	ROMs                ProcurementType = "ROMS"
)

// Vendor is the identity record of a selected vendor.
type Vendor struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Product string  `json:"product,omitempty"`
	Price   float64 `json:"price,omitempty"`
	Contact string  `json:"contact,omitempty"`
	Website string  `json:"website,omitempty"`
}

// LineItem is one requested line of the procurement.
type LineItem struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UOM         string  `json:"uom"`
}

// PricedItem is one vendor-quoted line, matched to a LineItem by SKU.
type PricedItem struct {
	SKU           string  `json:"sku"`
	UnitPrice     float64 `json:"unitPrice"`
	Currency      string  `json:"currency"`
	LeadTimeDays  int     `json:"leadTimeDays"`
	DeliveryTerms string  `json:"deliveryTerms"`
	QuoteValidity string  `json:"quoteValidity"`
}

// Procurement carries the compliance flags and thresholds the business-rule
// checks and the approver matrix evaluate.
type Procurement struct {
	Budgeted         bool            `json:"budgeted"`
	SpendType        SpendType       `json:"spendType"`
	Competitive      bool            `json:"competitive"`
	EstimatedCost    float64         `json:"estimatedCost"`
	ContractRequired bool            `json:"contractRequired"`
	ContractExecuted bool            `json:"contractExecuted"`
	IsSoleSource     bool            `json:"isSoleSource"`

	// SSJAmount is the sole-source-justification dollar figure; nil when no
	// justification has been provided.
	SSJAmount *float64 `json:"ssjAmount,omitempty"`

	Subcontracting  bool            `json:"subcontracting"`
	PopGt30d        bool            `json:"popGt30d"`
	CustomerTCs     bool            `json:"customerTCs"`
	SpendPlanStatus SpendPlanStatus `json:"spendPlanStatus"`
	ProcurementType ProcurementType `json:"procurementType"`
}

// Context is the full input of one gate evaluation, assembled from
// accumulated wizard step data. It is consumed and discarded per call.
type Context struct {
	SelectedVendors []Vendor                `json:"selectedVendors"`
	Items           []LineItem              `json:"items"`
	Pricing         map[string][]PricedItem `json:"pricing"`
	Procurement     Procurement             `json:"procurementContext"`
}
