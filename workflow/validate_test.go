package workflow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/procureflow/intake/workflow"
)

func TestRequireKeys(t *testing.T) {
	v := workflow.RequireKeys("name", "budget")
	session := workflow.NewSession(1)

	tests := []struct {
		name        string
		data        map[string]any
		expectError bool
	}{
		{name: "all present", data: map[string]any{"name": "x", "budget": 100}, expectError: false},
		{name: "missing key", data: map[string]any{"name": "x"}, expectError: true},
		{name: "nil value", data: map[string]any{"name": "x", "budget": nil}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v(session, tt.data)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAll(t *testing.T) {
	first := errors.New("first")
	failing := func(s workflow.Session, data map[string]any) error { return first }
	passing := func(s workflow.Session, data map[string]any) error { return nil }

	v := workflow.All(passing, nil, failing)
	if err := v(workflow.NewSession(1), nil); !errors.Is(err, first) {
		t.Errorf("expected first failure to win, got %v", err)
	}

	if err := workflow.All(passing, passing)(workflow.NewSession(1), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExprValidator(t *testing.T) {
	tests := []struct {
		name        string
		rule        string
		data        map[string]any
		expectError bool
	}{
		{
			name: "rule satisfied",
			rule: `data.productName != nil && data.productName != ""`,
			data: map[string]any{"productName": "laptops"},
		},
		{
			name:        "rule violated",
			rule:        `data.productName != nil && data.productName != ""`,
			data:        map[string]any{"productName": ""},
			expectError: true,
		},
		{
			name: "numeric guard",
			rule: `data.budgetUsd != nil && data.budgetUsd > 0.0`,
			data: map[string]any{"budgetUsd": 50000.0},
		},
		{
			name:        "missing numeric field",
			rule:        `data.budgetUsd != nil && data.budgetUsd > 0.0`,
			data:        map[string]any{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := workflow.ExprValidator(tt.rule, "rule not satisfied")
			if err != nil {
				t.Fatalf("failed to compile rule: %v", err)
			}

			err = v(workflow.NewSession(1), tt.data)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExprValidator_Message(t *testing.T) {
	v, err := workflow.ExprValidator(`data.qty != nil && data.qty >= 1`, "quantity must be at least 1")
	if err != nil {
		t.Fatalf("failed to compile rule: %v", err)
	}

	verr := v(workflow.NewSession(1), map[string]any{"qty": 0})
	if verr == nil || !strings.Contains(verr.Error(), "quantity must be at least 1") {
		t.Errorf("expected custom message, got %v", verr)
	}
}

func TestExprValidator_CompileError(t *testing.T) {
	if _, err := workflow.ExprValidator(`data.x ==`, ""); err == nil {
		t.Error("expected compile error")
	}
}

func TestMustExprValidator_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid rule")
		}
	}()
	workflow.MustExprValidator(`((`, "")
}

func TestExprValidator_SessionContext(t *testing.T) {
	steps := newTestSteps(t)
	session := workflow.NewSession(1)
	session, err := workflow.Reduce(steps, session, workflow.Complete{Data: map[string]any{"x": 1}})
	if err != nil {
		t.Fatalf("failed to complete step: %v", err)
	}

	v, err := workflow.ExprValidator(`1 in completed`, "step 1 must be completed first")
	if err != nil {
		t.Fatalf("failed to compile rule: %v", err)
	}

	if err := v(session, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v(workflow.NewSession(1), nil); err == nil {
		t.Error("expected error for fresh session")
	}
}
