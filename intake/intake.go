// Package intake defines the concrete procurement wizard: the seven-step
// graph the UI walks from product description to cart, and the bridge that
// turns accumulated step data into a gate evaluation context.
package intake

import (
	"github.com/procureflow/intake/config"
	"github.com/procureflow/intake/workflow"
)

// Step ids of the intake flow. The numeric order is the flow order.
const (
	StepProduct         = 1
	StepScope           = 2
	StepDocuments       = 3
	StepRecommendations = 4
	StepVendors         = 5
	StepPricing         = 6
	StepCart            = 7
)

// NewSteps returns the intake step definitions. Rules are compiled at
// construction; the call panics only on a programming error in a rule.
func NewSteps() (*workflow.Steps, error) {
	return workflow.NewSteps(
		workflow.StepDefinition{
			ID:  StepProduct,
			Key: "product",
			Validate: workflow.MustExprValidator(
				`data.productName != nil && data.productName != "" && data.budgetUsd != nil && data.budgetUsd > 0.0 && data.quantity != nil && data.quantity >= 1.0`,
				"product name, a positive budget, and a quantity of at least 1 are required",
			),
		},
		workflow.StepDefinition{
			ID:           StepScope,
			Key:          "scope",
			Dependencies: []int{StepProduct},
			Validate: workflow.MustExprValidator(
				`data.scopeText != nil && data.scopeText != ""`,
				"scope text is required",
			),
		},
		workflow.StepDefinition{
			// Uploads are optional, so the step carries no validation.
			ID:           StepDocuments,
			Key:          "documents",
			Dependencies: []int{StepProduct},
		},
		workflow.StepDefinition{
			ID:           StepRecommendations,
			Key:          "recommendations",
			Dependencies: []int{StepScope},
			Validate:     workflow.RequireKeys("selectedVariant"),
		},
		workflow.StepDefinition{
			ID:           StepVendors,
			Key:          "vendors",
			Dependencies: []int{StepRecommendations},
			Validate: workflow.MustExprValidator(
				`data.selectedVendors != nil && len(data.selectedVendors) > 0`,
				"select at least one vendor",
			),
		},
		workflow.StepDefinition{
			ID:           StepPricing,
			Key:          "pricing",
			Dependencies: []int{StepVendors},
			Validate:     workflow.RequireKeys("pricing"),
		},
		workflow.StepDefinition{
			ID:           StepCart,
			Key:          "cart",
			Dependencies: []int{StepVendors, StepPricing},
		},
	)
}

// NewEngine wires a workflow engine over the intake step set.
func NewEngine(cfg config.WorkflowConfig) (*workflow.Engine, error) {
	steps, err := NewSteps()
	if err != nil {
		return nil, err
	}
	return workflow.NewEngine(cfg, steps)
}
