package workflow

import (
	"context"
	"fmt"
	"slices"
)

// Hook is an asynchronous side effect run when a step is entered or exited.
// Hooks receive the step's merged data and may suspend on I/O; the engine
// awaits each hook fully under a deadline before proceeding.
type Hook func(ctx context.Context, data map[string]any) error

// Validator checks candidate data for a step against the current session
// state. A nil return means the data is valid. Validators must be pure.
type Validator func(session Session, data map[string]any) error

// StepDefinition describes one stage of the intake flow. Definitions are
// created once at process start and never mutated.
type StepDefinition struct {
	// ID is a positive integer unique within the step set. IDs define the
	// total order of the flow: completion advances to the next higher id.
	ID int

	// Key is the stable symbolic name of the step (e.g. "vendors")
	Key string

	// Dependencies lists step ids that must be completed before this step
	// is reachable. Dependencies must have lower ids than the step itself.
	Dependencies []int

	// Validate checks candidate data before the step is entered or
	// completed (nil = always valid)
	Validate Validator

	// OnEnter runs before the transition into this step commits
	OnEnter Hook

	// OnExit runs when this step is completed, before its data is merged
	OnExit Hook
}

// Steps is an immutable, validated set of step definitions ordered by id.
type Steps struct {
	defs map[int]StepDefinition
	ids  []int
}

// NewSteps validates and indexes a set of step definitions.
//
// Validation ensures:
//   - At least one step exists
//   - IDs are positive and unique
//   - Keys are non-empty
//   - Dependencies reference defined steps with lower ids
func NewSteps(defs ...StepDefinition) (*Steps, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("step set has no steps")
	}

	byID := make(map[int]StepDefinition, len(defs))
	ids := make([]int, 0, len(defs))

	for _, def := range defs {
		if def.ID <= 0 {
			return nil, fmt.Errorf("step %q: id must be positive, got %d", def.Key, def.ID)
		}
		if def.Key == "" {
			return nil, fmt.Errorf("step %d: key cannot be empty", def.ID)
		}
		if _, exists := byID[def.ID]; exists {
			return nil, fmt.Errorf("step %d already defined", def.ID)
		}
		byID[def.ID] = def
		ids = append(ids, def.ID)
	}

	slices.Sort(ids)

	for _, def := range defs {
		for _, dep := range def.Dependencies {
			if _, exists := byID[dep]; !exists {
				return nil, fmt.Errorf("step %d depends on undefined step %d", def.ID, dep)
			}
			if dep >= def.ID {
				return nil, fmt.Errorf("step %d depends on step %d, dependencies must have lower ids", def.ID, dep)
			}
		}
	}

	return &Steps{defs: byID, ids: ids}, nil
}

// Get returns the definition for id.
func (s *Steps) Get(id int) (StepDefinition, bool) {
	def, exists := s.defs[id]
	return def, exists
}

// IDs returns all step ids in ascending order.
func (s *Steps) IDs() []int {
	return slices.Clone(s.ids)
}

// First returns the lowest step id, the flow's starting point.
func (s *Steps) First() int {
	return s.ids[0]
}

// Next returns the lowest step id greater than id, if any.
func (s *Steps) Next(id int) (int, bool) {
	for _, candidate := range s.ids {
		if candidate > id {
			return candidate, true
		}
	}
	return 0, false
}

// Prev returns the highest step id lower than id, if any.
func (s *Steps) Prev(id int) (int, bool) {
	for i := len(s.ids) - 1; i >= 0; i-- {
		if s.ids[i] < id {
			return s.ids[i], true
		}
	}
	return 0, false
}

// CanAccess reports whether every dependency of step id is completed in the
// session. Unknown ids are never accessible.
func (s *Steps) CanAccess(session Session, id int) bool {
	def, exists := s.defs[id]
	if !exists {
		return false
	}

	for _, dep := range def.Dependencies {
		if !session.Completed(dep) {
			return false
		}
	}
	return true
}
