package gate_test

import (
	"slices"
	"testing"

	"github.com/procureflow/intake/gate"
)

func f64(v float64) *float64 { return &v }

func TestRequiredApprovers(t *testing.T) {
	tests := []struct {
		name string
		proc gate.Procurement
		want []gate.ApproverRole
	}{
		{
			name: "cc approved spend plan needs nobody",
			proc: gate.Procurement{ProcurementType: gate.CCApprovedSpendPlan, EstimatedCost: 1_000_000},
			want: nil,
		},
		{
			name: "cc not in plan below threshold",
			proc: gate.Procurement{ProcurementType: gate.CCNotInSpendPlan, EstimatedCost: 5000},
			want: nil,
		},
		{
			name: "cc not in plan above threshold",
			proc: gate.Procurement{ProcurementType: gate.CCNotInSpendPlan, EstimatedCost: 5001},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleFinance},
		},
		{
			name: "competitive baseline",
			proc: gate.Procurement{ProcurementType: gate.ProcCompetitive, EstimatedCost: 10_000},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance},
		},
		{
			name: "competitive with executed contract",
			proc: gate.Procurement{ProcurementType: gate.ProcCompetitive, EstimatedCost: 10_000, ContractExecuted: true},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RoleContracts},
		},
		{
			name: "competitive above president threshold",
			proc: gate.Procurement{ProcurementType: gate.ProcCompetitive, EstimatedCost: 250_001},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RolePresident},
		},
		{
			name: "sole source without contracts triggers",
			proc: gate.Procurement{ProcurementType: gate.ProcSoleSource, EstimatedCost: 300_000},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RolePresident},
		},
		{
			name: "sole source with large justification",
			proc: gate.Procurement{ProcurementType: gate.ProcSoleSource, EstimatedCost: 100_000, SSJAmount: f64(300_000)},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RoleContracts},
		},
		{
			name: "sole source with small justification",
			proc: gate.Procurement{ProcurementType: gate.ProcSoleSource, EstimatedCost: 100_000, SSJAmount: f64(250_000)},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance},
		},
		{
			name: "bids and proposals above president threshold",
			proc: gate.Procurement{ProcurementType: gate.BidsAndProposals, EstimatedCost: 400_000},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RolePresident},
		},
		{
			name: "roms baseline",
			proc: gate.Procurement{ProcurementType: gate.ROMs, EstimatedCost: 200_000},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP},
		},
		{
			name: "roms above finance threshold",
			proc: gate.Procurement{ProcurementType: gate.ROMs, EstimatedCost: 300_000},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance},
		},
		{
			name: "roms above president threshold",
			proc: gate.Procurement{ProcurementType: gate.ROMs, EstimatedCost: 500_001},
			want: []gate.ApproverRole{gate.RolePMO, gate.RoleEVP, gate.RoleFinance, gate.RolePresident},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.RequiredApprovers(tt.proc)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRequiredApprovers_Deterministic(t *testing.T) {
	proc := gate.Procurement{
		ProcurementType:  gate.ProcSoleSource,
		EstimatedCost:    300_000,
		ContractExecuted: true,
		SSJAmount:        f64(300_000),
	}
	first := gate.RequiredApprovers(proc)
	for range 10 {
		if got := gate.RequiredApprovers(proc); !slices.Equal(got, first) {
			t.Fatalf("order changed between calls: %v vs %v", first, got)
		}
	}

	for i, role := range first {
		if slices.Contains(first[:i], role) {
			t.Errorf("duplicate role %s in %v", role, first)
		}
	}
}
