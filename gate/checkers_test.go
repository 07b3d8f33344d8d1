package gate_test

import (
	"testing"

	"github.com/procureflow/intake/gate"
)

// completeContext returns a context that passes every gate check.
func completeContext() gate.Context {
	return gate.Context{
		SelectedVendors: []gate.Vendor{
			{ID: "v1", Name: "Acme Supply", Contact: "sales@acme.example", Website: "https://acme.example"},
		},
		Items: []gate.LineItem{
			{SKU: "SKU-1", Description: "Rugged field laptop, 16GB RAM", Quantity: 10, UOM: "EA"},
		},
		Pricing: map[string][]gate.PricedItem{
			"v1": {{
				SKU:           "SKU-1",
				UnitPrice:     100,
				Currency:      "USD",
				LeadTimeDays:  10,
				DeliveryTerms: "FOB",
				QuoteValidity: "30 days",
			}},
		},
		Procurement: gate.Procurement{
			Budgeted:        true,
			EstimatedCost:   1000,
			SpendPlanStatus: gate.SpendPlanApproved,
			ProcurementType: gate.ProcCompetitive,
		},
	}
}

func hasCode(codes []gate.ReasonCode, want gate.ReasonCode) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func TestCheckPricing(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*gate.Context)
		wantCodes []gate.ReasonCode
	}{
		{
			name:   "complete quote",
			mutate: func(ctx *gate.Context) {},
		},
		{
			name:      "vendor with no pricing at all",
			mutate:    func(ctx *gate.Context) { delete(ctx.Pricing, "v1") },
			wantCodes: []gate.ReasonCode{gate.MissingPrice},
		},
		{
			name: "no entry for the sku",
			mutate: func(ctx *gate.Context) {
				ctx.Pricing["v1"][0].SKU = "OTHER"
			},
			wantCodes: []gate.ReasonCode{gate.MissingPrice},
		},
		{
			name: "zero unit price",
			mutate: func(ctx *gate.Context) {
				ctx.Pricing["v1"][0].UnitPrice = 0
			},
			wantCodes: []gate.ReasonCode{gate.InvalidPrice},
		},
		{
			name: "missing currency",
			mutate: func(ctx *gate.Context) {
				ctx.Pricing["v1"][0].Currency = ""
			},
			wantCodes: []gate.ReasonCode{gate.MissingCurrency},
		},
		{
			name: "missing lead time",
			mutate: func(ctx *gate.Context) {
				ctx.Pricing["v1"][0].LeadTimeDays = 0
			},
			wantCodes: []gate.ReasonCode{gate.MissingLeadTime},
		},
		{
			name: "missing delivery terms and validity",
			mutate: func(ctx *gate.Context) {
				ctx.Pricing["v1"][0].DeliveryTerms = ""
				ctx.Pricing["v1"][0].QuoteValidity = ""
			},
			wantCodes: []gate.ReasonCode{gate.MissingDeliveryTerms, gate.MissingQuoteValidity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := completeContext()
			tt.mutate(&ctx)

			out := gate.CheckPricing(ctx)
			if len(tt.wantCodes) == 0 && len(out.ReasonCodes) > 0 {
				t.Fatalf("expected no violations, got %v", out.ReasonCodes)
			}
			for _, want := range tt.wantCodes {
				if !hasCode(out.ReasonCodes, want) {
					t.Errorf("expected %s in %v", want, out.ReasonCodes)
				}
			}
			if len(out.ReasonCodes) != len(out.MissingItems) {
				t.Errorf("each code needs a missing-item line: %d codes, %d items",
					len(out.ReasonCodes), len(out.MissingItems))
			}
		})
	}
}

func TestCheckPricing_MultipleViolationsPerItem(t *testing.T) {
	ctx := completeContext()
	ctx.Pricing["v1"][0] = gate.PricedItem{SKU: "SKU-1"}

	out := gate.CheckPricing(ctx)
	for _, want := range []gate.ReasonCode{
		gate.InvalidPrice, gate.MissingCurrency, gate.MissingLeadTime,
		gate.MissingDeliveryTerms, gate.MissingQuoteValidity,
	} {
		if !hasCode(out.ReasonCodes, want) {
			t.Errorf("expected %s in %v", want, out.ReasonCodes)
		}
	}
}

func TestCheckDocuments(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*gate.Context)
		wantCodes []gate.ReasonCode
	}{
		{
			name:   "evidence and specs on file",
			mutate: func(ctx *gate.Context) {},
		},
		{
			name: "contact without website",
			mutate: func(ctx *gate.Context) {
				ctx.SelectedVendors[0].Website = ""
			},
			wantCodes: []gate.ReasonCode{gate.InsufficientEvidence},
		},
		{
			name: "website without contact",
			mutate: func(ctx *gate.Context) {
				ctx.SelectedVendors[0].Contact = ""
			},
			wantCodes: []gate.ReasonCode{gate.InsufficientEvidence},
		},
		{
			name: "short descriptions only",
			mutate: func(ctx *gate.Context) {
				ctx.Items[0].Description = "laptop"
			},
			wantCodes: []gate.ReasonCode{gate.InsufficientSpecs},
		},
		{
			name: "exactly ten characters is not enough",
			mutate: func(ctx *gate.Context) {
				ctx.Items[0].Description = "ten chars."
			},
			wantCodes: []gate.ReasonCode{gate.InsufficientSpecs},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := completeContext()
			tt.mutate(&ctx)

			out := gate.CheckDocuments(ctx)
			if len(tt.wantCodes) == 0 && len(out.ReasonCodes) > 0 {
				t.Fatalf("expected no violations, got %v", out.ReasonCodes)
			}
			for _, want := range tt.wantCodes {
				if !hasCode(out.ReasonCodes, want) {
					t.Errorf("expected %s in %v", want, out.ReasonCodes)
				}
			}
		})
	}
}

func TestCheckDocuments_OneCompleteVendorSuffices(t *testing.T) {
	ctx := completeContext()
	ctx.SelectedVendors = append([]gate.Vendor{{ID: "v0", Name: "Bare Vendor"}}, ctx.SelectedVendors...)

	if out := gate.CheckDocuments(ctx); hasCode(out.ReasonCodes, gate.InsufficientEvidence) {
		t.Errorf("one fully documented vendor should satisfy evidence, got %v", out.ReasonCodes)
	}
}

func TestCheckBusinessRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*gate.Procurement)
		wantCodes []gate.ReasonCode
	}{
		{
			name:   "clean procurement",
			mutate: func(p *gate.Procurement) {},
		},
		{
			name: "sole source without justification",
			mutate: func(p *gate.Procurement) {
				p.IsSoleSource = true
			},
			wantCodes: []gate.ReasonCode{gate.SoleSourceJustRequired},
		},
		{
			name: "sole source with justification",
			mutate: func(p *gate.Procurement) {
				p.IsSoleSource = true
				p.SSJAmount = f64(10_000)
			},
		},
		{
			name: "contract required but not executed",
			mutate: func(p *gate.Procurement) {
				p.ContractRequired = true
			},
			wantCodes: []gate.ReasonCode{gate.ContractRequired},
		},
		{
			name: "contract required and executed",
			mutate: func(p *gate.Procurement) {
				p.ContractRequired = true
				p.ContractExecuted = true
			},
		},
		{
			name: "unbudgeted and not in plan",
			mutate: func(p *gate.Procurement) {
				p.Budgeted = false
				p.SpendPlanStatus = gate.SpendPlanNotInPlan
			},
			wantCodes: []gate.ReasonCode{gate.UnbudgetedProcurement},
		},
		{
			name: "unbudgeted but pending in plan",
			mutate: func(p *gate.Procurement) {
				p.Budgeted = false
				p.SpendPlanStatus = gate.SpendPlanPending
			},
		},
		{
			name: "all three violated",
			mutate: func(p *gate.Procurement) {
				p.IsSoleSource = true
				p.ContractRequired = true
				p.Budgeted = false
				p.SpendPlanStatus = gate.SpendPlanNotInPlan
			},
			wantCodes: []gate.ReasonCode{
				gate.SoleSourceJustRequired, gate.ContractRequired, gate.UnbudgetedProcurement,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := completeContext()
			tt.mutate(&ctx.Procurement)

			out := gate.CheckBusinessRules(ctx)
			if len(out.ReasonCodes) != len(tt.wantCodes) {
				t.Fatalf("expected %d violations, got %v", len(tt.wantCodes), out.ReasonCodes)
			}
			for _, want := range tt.wantCodes {
				if !hasCode(out.ReasonCodes, want) {
					t.Errorf("expected %s in %v", want, out.ReasonCodes)
				}
			}
		})
	}
}
