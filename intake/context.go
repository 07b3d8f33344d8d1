package intake

import (
	"encoding/json"

	"github.com/procureflow/intake/gate"
	"github.com/procureflow/intake/workflow"
)

// BuildGateContext assembles a gate evaluation context from accumulated step
// data: selected vendors from the vendors step, line items and the pricing
// map from the pricing step, and the procurement flags from the cart step
// (with the estimated cost defaulting to the product step's budget).
//
// Step payloads arrive as loosely typed maps decoded from JSON, so fields are
// recovered by round-tripping through the JSON codec; absent or malformed
// fields simply stay zero — the gate checkers report the resulting gaps.
func BuildGateContext(session workflow.Session) gate.Context {
	var ctx gate.Context

	decodeField(session.Data(StepVendors), "selectedVendors", &ctx.SelectedVendors)
	decodeField(session.Data(StepPricing), "items", &ctx.Items)
	decodeField(session.Data(StepPricing), "pricing", &ctx.Pricing)
	decodeField(session.Data(StepCart), "procurement", &ctx.Procurement)

	if ctx.Procurement.EstimatedCost == 0 {
		if budget, ok := session.Data(StepProduct)["budgetUsd"].(float64); ok {
			ctx.Procurement.EstimatedCost = budget
		}
	}

	return ctx
}

func decodeField(data map[string]any, key string, into any) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return
	}
	// Best effort: a payload that does not fit the target shape is treated
	// as absent.
	_ = json.Unmarshal(encoded, into)
}
