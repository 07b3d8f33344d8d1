package workflow

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RequireKeys returns a validator that fails unless every key is present and
// non-nil in the candidate data.
func RequireKeys(keys ...string) Validator {
	return func(session Session, data map[string]any) error {
		for _, key := range keys {
			if value, exists := data[key]; !exists || value == nil {
				return fmt.Errorf("missing required field %q", key)
			}
		}
		return nil
	}
}

// All combines validators; the first failure wins.
func All(validators ...Validator) Validator {
	return func(session Session, data map[string]any) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v(session, data); err != nil {
				return err
			}
		}
		return nil
	}
}

// ExprValidator compiles a boolean expression into a Validator. The rule is
// compiled once at startup and evaluated per transition against:
//
//	data      — the candidate payload being validated
//	step      — the session's current step id
//	stepData  — all accumulated step payloads
//	completed — the completed step ids
//
// Example:
//
//	v, err := workflow.ExprValidator(`data.productName != nil && data.productName != ""`)
//
// message is the failure text reported when the rule evaluates to false; when
// empty, a generic message naming the rule is used.
func ExprValidator(rule, message string) (Validator, error) {
	program, err := expr.Compile(rule, expr.Env(map[string]any{
		"data":      map[string]any{},
		"step":      0,
		"stepData":  map[int]map[string]any{},
		"completed": []int{},
	}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile validation rule %q: %w", rule, err)
	}

	if message == "" {
		message = fmt.Sprintf("validation rule %q not satisfied", rule)
	}

	return exprValidator(program, message), nil
}

// MustExprValidator is ExprValidator that panics on a compile error, for
// step tables built at package init where the rule is a literal.
func MustExprValidator(rule, message string) Validator {
	v, err := ExprValidator(rule, message)
	if err != nil {
		panic(err)
	}
	return v
}

func exprValidator(program *vm.Program, message string) Validator {
	return func(session Session, data map[string]any) error {
		env := map[string]any{
			"data":      data,
			"step":      session.CurrentStep,
			"stepData":  session.StepData,
			"completed": session.CompletedSteps,
		}

		out, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("%s: %v", message, err)
		}

		if ok, _ := out.(bool); !ok {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}
