package workflow

import (
	"errors"
	"fmt"
)

// Code classifies transition failures. All codes are locally recoverable:
// the engine surfaces them as result values and the caller decides whether
// to re-invoke.
type Code string

const (
	// CodeStepNotFound: the target step id has no definition
	CodeStepNotFound Code = "STEP_NOT_FOUND"

	// CodeDependencyUnmet: a dependency id is absent from the completed set
	CodeDependencyUnmet Code = "DEPENDENCY_UNMET"

	// CodeValidationFailed: the step validator rejected the candidate data
	CodeValidationFailed Code = "VALIDATION_FAILED"

	// CodeNoPreviousStep: GoBack was called on the first step
	CodeNoPreviousStep Code = "NO_PREVIOUS_STEP"

	// CodeHookFailed: an OnEnter/OnExit hook returned an error or panicked
	CodeHookFailed Code = "HOOK_FAILED"

	// CodeHookTimedOut: a hook exceeded the configured deadline
	CodeHookTimedOut Code = "HOOK_TIMED_OUT"
)

// TransitionError describes a failed workflow operation. StepID is the step
// the failure applies to — for a failed auto-advance after completion this is
// the next step, not the one just completed.
type TransitionError struct {
	Code   Code
	StepID int
	Err    error
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: step %d: %v", e.Code, e.StepID, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Message returns the underlying failure text without code or step prefix,
// suitable for recording in the session's Errors map.
func (e *TransitionError) Message() string {
	return e.Err.Error()
}

// AsTransition extracts a *TransitionError from err, if present.
func AsTransition(err error) (*TransitionError, bool) {
	var terr *TransitionError
	if errors.As(err, &terr) {
		return terr, true
	}
	return nil, false
}
