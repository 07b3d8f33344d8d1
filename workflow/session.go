package workflow

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Session holds all mutable state of one intake flow. It is a serializable
// value: the engine owns its copy and every transformation returns a new
// value, so snapshots handed to subscribers or persisted to a SessionStore
// are never shared mutable state.
type Session struct {
	// ID uniquely identifies the session
	ID string `json:"id"`

	// CurrentStep is always a defined step id
	CurrentStep int `json:"current_step"`

	// CompletedSteps is a sorted, duplicate-free set of completed step ids.
	// It grows monotonically except through a Reset command.
	CompletedSteps []int `json:"completed_steps"`

	// StepData maps step id to its accumulated payload. Payloads are merged
	// incrementally, never fully overwritten.
	StepData map[int]map[string]any `json:"step_data"`

	// Errors maps step id to the last error message recorded against it.
	// An entry is cleared on successful transition into that step.
	Errors map[int]string `json:"errors"`

	// Loading is true only while a transition is in flight
	Loading bool `json:"loading"`

	// UpdatedAt marks the last mutation
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a fresh session positioned at firstStep with a unique
// UUIDv7 identifier and empty completed set.
func NewSession(firstStep int) Session {
	return Session{
		ID:             uuid.Must(uuid.NewV7()).String(),
		CurrentStep:    firstStep,
		CompletedSteps: []int{},
		StepData:       map[int]map[string]any{},
		Errors:         map[int]string{},
		UpdatedAt:      time.Now(),
	}
}

// Completed reports whether step id is in the completed set.
func (s Session) Completed(id int) bool {
	_, found := slices.BinarySearch(s.CompletedSteps, id)
	return found
}

// Data returns the accumulated payload for step id (nil if none).
func (s Session) Data(id int) map[string]any {
	return s.StepData[id]
}

// Error returns the last error message recorded against step id.
func (s Session) Error(id int) (string, bool) {
	msg, exists := s.Errors[id]
	return msg, exists
}

// Clone creates an independent copy of the Session. The completed set and
// the outer maps are copied; per-step payload maps are copied one level deep,
// matching the shallow-merge semantics of completion.
func (s Session) Clone() Session {
	clone := s
	clone.CompletedSteps = slices.Clone(s.CompletedSteps)
	clone.Errors = maps.Clone(s.Errors)

	clone.StepData = make(map[int]map[string]any, len(s.StepData))
	for id, data := range s.StepData {
		clone.StepData[id] = maps.Clone(data)
	}

	return clone
}

// withCompleted returns a copy with id added to the completed set.
// Adding an already-completed id is a no-op (idempotent completion).
func (s Session) withCompleted(id int) Session {
	clone := s.Clone()
	if idx, found := slices.BinarySearch(clone.CompletedSteps, id); !found {
		clone.CompletedSteps = slices.Insert(clone.CompletedSteps, idx, id)
	}
	clone.UpdatedAt = time.Now()
	return clone
}

// withMergedData returns a copy with data shallow-merged into step id's
// payload: fields in data overwrite same-named stored fields, stored fields
// absent from data are preserved.
func (s Session) withMergedData(id int, data map[string]any) Session {
	clone := s.Clone()
	if len(data) > 0 {
		merged := clone.StepData[id]
		if merged == nil {
			merged = make(map[string]any, len(data))
		}
		maps.Copy(merged, data)
		clone.StepData[id] = merged
	}
	clone.UpdatedAt = time.Now()
	return clone
}

// withCurrentStep returns a copy positioned at step id with that step's
// error cleared.
func (s Session) withCurrentStep(id int) Session {
	clone := s.Clone()
	clone.CurrentStep = id
	delete(clone.Errors, id)
	clone.UpdatedAt = time.Now()
	return clone
}

// withError returns a copy with msg recorded against step id.
func (s Session) withError(id int, msg string) Session {
	clone := s.Clone()
	clone.Errors[id] = msg
	clone.UpdatedAt = time.Now()
	return clone
}

// withLoading returns a copy with the loading flag set.
func (s Session) withLoading(loading bool) Session {
	clone := s.Clone()
	clone.Loading = loading
	clone.UpdatedAt = time.Now()
	return clone
}

// withoutCompletedFrom returns a copy with every completed id >= from
// discarded. This is the only transformation that shrinks the completed set.
func (s Session) withoutCompletedFrom(from int) Session {
	clone := s.Clone()
	kept := clone.CompletedSteps[:0]
	for _, id := range clone.CompletedSteps {
		if id < from {
			kept = append(kept, id)
		}
	}
	clone.CompletedSteps = kept
	clone.UpdatedAt = time.Now()
	return clone
}
