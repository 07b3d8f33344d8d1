package gate

import "fmt"

// Explanation is the human-readable rendering of a gate result: a one-line
// summary, one fix instruction per distinct reason code, and one line per
// required approver.
type Explanation struct {
	Summary         string   `json:"summary"`
	Fixes           []string `json:"fixes"`
	ApproverExplain []string `json:"approverExplain"`
}

var fixTexts = map[ReasonCode]string{
	MissingPrice:           "Provide unit price, currency, and quantity for each item per vendor.",
	InsufficientEvidence:   "Attach quote evidence or vendor contact details (email/URL).",
	InsufficientSpecs:      "Add specs per line (UOM, lead time, delivery terms, validity).",
	SoleSourceJustRequired: "Add Sole Source Justification or switch to RFQs.",
	ContractRequired:       "Upload executed contract or adjust procurement type.",
}

// Explain renders r for end users. Fix texts are deduplicated by reason code
// in first-occurrence order; codes without a canned text get a generic line.
func Explain(r Result) Explanation {
	e := Explanation{Summary: "Recommend RFQs"}
	if r.Passed {
		e.Summary = "Ready for Approvals"
	}

	seen := make(map[ReasonCode]bool)
	for _, code := range r.ReasonCodes {
		if seen[code] {
			continue
		}
		seen[code] = true
		if text, ok := fixTexts[code]; ok {
			e.Fixes = append(e.Fixes, text)
		} else {
			e.Fixes = append(e.Fixes, fmt.Sprintf("Resolve: %s.", code))
		}
	}

	for _, role := range r.RequiredApprovers {
		e.ApproverExplain = append(e.ApproverExplain, fmt.Sprintf("%s: required by policy/rules", role))
	}
	return e
}
