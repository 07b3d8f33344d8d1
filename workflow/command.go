package workflow

import "fmt"

// Command is a requested session transition. Commands carry only data — all
// transition logic lives in Reduce, keeping state changes pure and replayable.
type Command interface {
	command()
}

// Navigate moves the session to StepID. If Data is supplied it is validated
// against the target step before the move; Navigate never merges data into
// the session.
type Navigate struct {
	StepID int
	Data   map[string]any

	// SkipDependencies is set for the internal advance after a completion,
	// where the dependency on the just-completed step needs no re-check.
	SkipDependencies bool
}

// Complete validates Data against the current step, merges it into the
// step's payload, and marks the step completed. Advancing to the next step
// is a separate Navigate — completion commits even when the advance fails.
type Complete struct {
	Data map[string]any
}

// GoBack moves the session to the previous step by descending id.
type GoBack struct{}

// Reset discards every completed step with id >= StepID, then moves there.
// This is the only command that shrinks the completed set.
type Reset struct {
	StepID int
}

func (Navigate) command() {}
func (Complete) command() {}
func (GoBack) command()   {}
func (Reset) command()    {}

// Reduce is the pure transition function: it applies cmd to session and
// returns the resulting session. On failure the input session is returned
// unchanged alongside a *TransitionError.
//
// Reduce performs no side effects — lifecycle hooks, events, and snapshot
// fan-out are sequenced by the Engine around it. Callers holding only a
// serialized session can replay commands through Reduce directly.
func Reduce(steps *Steps, session Session, cmd Command) (Session, error) {
	switch c := cmd.(type) {
	case Navigate:
		return reduceNavigate(steps, session, c)
	case Complete:
		return reduceComplete(steps, session, c)
	case GoBack:
		return reduceGoBack(steps, session)
	case Reset:
		return reduceReset(steps, session, c)
	default:
		return session, fmt.Errorf("unknown command type %T", cmd)
	}
}

func reduceNavigate(steps *Steps, session Session, cmd Navigate) (Session, error) {
	def, exists := steps.Get(cmd.StepID)
	if !exists {
		return session, &TransitionError{
			Code:   CodeStepNotFound,
			StepID: cmd.StepID,
			Err:    fmt.Errorf("step %d is not defined", cmd.StepID),
		}
	}

	if !cmd.SkipDependencies {
		for _, dep := range def.Dependencies {
			if !session.Completed(dep) {
				return session, &TransitionError{
					Code:   CodeDependencyUnmet,
					StepID: cmd.StepID,
					Err:    fmt.Errorf("step %d requires step %d to be completed", cmd.StepID, dep),
				}
			}
		}
	}

	if cmd.Data != nil && def.Validate != nil {
		if err := def.Validate(session, cmd.Data); err != nil {
			return session, &TransitionError{
				Code:   CodeValidationFailed,
				StepID: cmd.StepID,
				Err:    err,
			}
		}
	}

	return session.withCurrentStep(cmd.StepID), nil
}

func reduceComplete(steps *Steps, session Session, cmd Complete) (Session, error) {
	def, exists := steps.Get(session.CurrentStep)
	if !exists {
		return session, &TransitionError{
			Code:   CodeStepNotFound,
			StepID: session.CurrentStep,
			Err:    fmt.Errorf("current step %d is not defined", session.CurrentStep),
		}
	}

	if cmd.Data != nil && def.Validate != nil {
		if err := def.Validate(session, cmd.Data); err != nil {
			return session, &TransitionError{
				Code:   CodeValidationFailed,
				StepID: session.CurrentStep,
				Err:    err,
			}
		}
	}

	return session.
		withMergedData(session.CurrentStep, cmd.Data).
		withCompleted(session.CurrentStep), nil
}

func reduceGoBack(steps *Steps, session Session) (Session, error) {
	prev, exists := steps.Prev(session.CurrentStep)
	if !exists {
		return session, &TransitionError{
			Code:   CodeNoPreviousStep,
			StepID: session.CurrentStep,
			Err:    fmt.Errorf("step %d has no previous step", session.CurrentStep),
		}
	}

	return reduceNavigate(steps, session, Navigate{StepID: prev})
}

func reduceReset(steps *Steps, session Session, cmd Reset) (Session, error) {
	if _, exists := steps.Get(cmd.StepID); !exists {
		return session, &TransitionError{
			Code:   CodeStepNotFound,
			StepID: cmd.StepID,
			Err:    fmt.Errorf("step %d is not defined", cmd.StepID),
		}
	}

	shrunk := session.withoutCompletedFrom(cmd.StepID)
	return reduceNavigate(steps, shrunk, Navigate{StepID: cmd.StepID})
}
