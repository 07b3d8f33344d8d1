package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/procureflow/intake/config"
	"github.com/procureflow/intake/observability"
)

// Engine drives all step transitions for one intake session.
//
// The engine owns the session value and is the only writer: public operations
// validate, run lifecycle hooks under a deadline, apply the pure Reduce
// transition, and publish the post-mutation snapshot to subscribers. Internal
// mutations are serialized with a mutex so concurrent callers never observe a
// partially-applied transition; overlapping transition requests remain a
// caller-level race (the engine neither queues nor rejects them — the Loading
// flag on snapshots is the signal to wait).
//
// Every operation returns the post-operation snapshot and an error that is
// always a *TransitionError for workflow failures. Hook errors and panics are
// converted into result errors; nothing escapes the engine boundary.
type Engine struct {
	name        string
	steps       *Steps
	observer    observability.Observer
	hookTimeout time.Duration

	mu      sync.Mutex
	session Session

	subs *notifier
}

// NewEngine creates an engine from configuration, resolving the observer
// from the registry, and positions a fresh session at the lowest step id.
//
// Example:
//
//	steps, _ := workflow.NewSteps(defs...)
//	engine, err := workflow.NewEngine(config.DefaultWorkflowConfig("intake"), steps)
func NewEngine(cfg config.WorkflowConfig, steps *Steps) (*Engine, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return NewEngineWithDeps(cfg, steps, observer)
}

// NewEngineWithDeps creates an engine with an explicit observer, bypassing
// the registry. A nil observer falls back to NoOpObserver.
func NewEngineWithDeps(cfg config.WorkflowConfig, steps *Steps, observer observability.Observer) (*Engine, error) {
	if steps == nil {
		return nil, fmt.Errorf("steps cannot be nil")
	}

	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	e := &Engine{
		name:        cfg.Name,
		steps:       steps,
		observer:    observer,
		hookTimeout: cfg.HookTimeout(),
		session:     NewSession(steps.First()),
		subs:        newNotifier(cfg.ChannelBufferSize, observer, cfg.Name),
	}

	observer.OnEvent(context.Background(), observability.Event{
		Type:      EventSessionCreate,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    e.name,
		Data: map[string]any{
			"session_id": e.session.ID,
			"first_step": e.session.CurrentStep,
		},
	})

	return e, nil
}

// Steps returns the engine's step definitions.
func (e *Engine) Steps() *Steps {
	return e.steps
}

// Session returns a snapshot of the current session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Restore replaces the engine's session with a previously saved snapshot.
// This is the load half of the explicit persistence boundary; use a
// SessionStore to obtain the snapshot.
func (e *Engine) Restore(ctx context.Context, session Session) error {
	if _, exists := e.steps.Get(session.CurrentStep); !exists {
		return &TransitionError{
			Code:   CodeStepNotFound,
			StepID: session.CurrentStep,
			Err:    fmt.Errorf("restored session is on undefined step %d", session.CurrentStep),
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = session.Clone()
	e.session.Loading = false
	e.subs.publish(ctx, e.session.Clone())
	return nil
}

// Subscribe registers a snapshot channel that receives the session after
// every mutation. The returned cancel function must be called to release the
// subscription.
func (e *Engine) Subscribe() (<-chan Session, func()) {
	return e.subs.subscribe()
}

// Close terminates all subscriptions.
func (e *Engine) Close() {
	e.subs.close()
}

// CanAccessStep reports whether every dependency of the step is completed.
func (e *Engine) CanAccessStep(stepID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.steps.CanAccess(e.session, stepID)
}

// NavigateToStep moves the session to stepID.
//
// Fails with CodeStepNotFound for an undefined id and CodeDependencyUnmet
// when a dependency is not completed. If data is supplied it is validated
// against the target step's validator first (CodeValidationFailed). The
// target's OnEnter hook runs to completion before the move commits; the
// step's recorded error is cleared on success. Navigation does not merge
// data into the session.
func (e *Engine) NavigateToStep(ctx context.Context, stepID int, data map[string]any) (Session, error) {
	return e.transition(ctx, EventStepNavigate, func(s Session) (Session, error) {
		return e.navigate(ctx, s, Navigate{StepID: stepID, Data: data})
	})
}

// CompleteCurrentStep validates data against the current step, runs its
// OnExit hook, merges data into the step's payload (shallow merge), marks
// the step completed, and advances to the next step by ascending id.
//
// The advance intentionally skips the dependency re-check (the dependency
// was just satisfied) and never rolls back the completion: if the next
// step's OnEnter fails, the error is recorded against the next step id while
// the completed set and merged data stay committed. With no higher step the
// session stays on the completed step without error.
func (e *Engine) CompleteCurrentStep(ctx context.Context, data map[string]any) (Session, error) {
	return e.transition(ctx, EventStepComplete, func(s Session) (Session, error) {
		return e.complete(ctx, s, data)
	})
}

// GoBack moves the session to the previous step by descending id, failing
// with CodeNoPreviousStep on the first step. No validation is re-run.
func (e *Engine) GoBack(ctx context.Context) (Session, error) {
	return e.transition(ctx, EventStepBack, func(s Session) (Session, error) {
		prev, exists := e.steps.Prev(s.CurrentStep)
		if !exists {
			return s.withError(s.CurrentStep, "no previous step"), &TransitionError{
				Code:   CodeNoPreviousStep,
				StepID: s.CurrentStep,
				Err:    errors.New("no previous step"),
			}
		}
		return e.navigate(ctx, s, Navigate{StepID: prev})
	})
}

// ResetToStep discards every completed step with id >= stepID, then
// navigates there. This is the only operation that shrinks the completed set.
func (e *Engine) ResetToStep(ctx context.Context, stepID int) (Session, error) {
	return e.transition(ctx, EventSessionReset, func(s Session) (Session, error) {
		if _, exists := e.steps.Get(stepID); !exists {
			terr := &TransitionError{
				Code:   CodeStepNotFound,
				StepID: stepID,
				Err:    fmt.Errorf("step %d is not defined", stepID),
			}
			return s.withError(stepID, terr.Message()), terr
		}
		return e.navigate(ctx, s.withoutCompletedFrom(stepID), Navigate{StepID: stepID})
	})
}

// transition wraps an operation with loading-flag management, panic
// recovery, snapshot publication, and observer events. The operation returns
// the session to adopt — on failure that session already carries the
// recorded error.
func (e *Engine) transition(ctx context.Context, event observability.EventType, op func(Session) (Session, error)) (snap Session, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = e.session.withLoading(true)
	e.subs.publish(ctx, e.session.Clone())

	defer func() {
		if r := recover(); r != nil {
			terr := &TransitionError{
				Code:   CodeHookFailed,
				StepID: e.session.CurrentStep,
				Err:    fmt.Errorf("panic during transition: %v", r),
			}
			e.session = e.session.withError(terr.StepID, terr.Message())
			err = terr
		}

		e.session = e.session.withLoading(false)
		snap = e.session.Clone()
		e.subs.publish(ctx, snap)

		level := observability.LevelInfo
		data := map[string]any{
			"session_id": e.session.ID,
			"step":       e.session.CurrentStep,
			"completed":  len(e.session.CompletedSteps),
		}
		if err != nil {
			event = EventStepError
			level = observability.LevelWarning
			data["error"] = err.Error()
			if terr, ok := AsTransition(err); ok {
				data["code"] = string(terr.Code)
				data["error_step"] = terr.StepID
			}
		}
		e.observer.OnEvent(ctx, observability.Event{
			Type:      event,
			Level:     level,
			Timestamp: time.Now(),
			Source:    e.name,
			Data:      data,
		})
	}()

	next, opErr := op(e.session)
	e.session = next
	err = opErr
	return e.session, err
}

// navigate performs the checked move into a step: Reduce is dry-run first so
// hooks only fire for transitions that would commit, then OnEnter runs to
// completion, then the reduced session is adopted.
func (e *Engine) navigate(ctx context.Context, s Session, cmd Navigate) (Session, error) {
	reduced, err := Reduce(e.steps, s, cmd)
	if err != nil {
		if terr, ok := AsTransition(err); ok {
			return s.withError(terr.StepID, terr.Message()), err
		}
		return s, err
	}

	def, _ := e.steps.Get(cmd.StepID)
	if err := e.runHook(ctx, cmd.StepID, "enter", def.OnEnter, s.Data(cmd.StepID)); err != nil {
		terr, _ := AsTransition(err)
		return s.withError(cmd.StepID, terr.Message()), err
	}

	return reduced, nil
}

// complete implements CompleteCurrentStep. The completion commit and the
// advance are deliberately separate phases so a failed advance leaves the
// completion intact.
func (e *Engine) complete(ctx context.Context, s Session, data map[string]any) (Session, error) {
	current := s.CurrentStep

	committed, err := Reduce(e.steps, s, Complete{Data: data})
	if err != nil {
		if terr, ok := AsTransition(err); ok {
			return s.withError(terr.StepID, terr.Message()), err
		}
		return s, err
	}

	def, _ := e.steps.Get(current)
	if err := e.runHook(ctx, current, "exit", def.OnExit, committed.Data(current)); err != nil {
		terr, _ := AsTransition(err)
		return s.withError(current, terr.Message()), err
	}

	next, hasNext := e.steps.Next(current)
	if !hasNext {
		return committed, nil
	}

	advanced, err := e.navigate(ctx, committed, Navigate{StepID: next, SkipDependencies: true})
	if err != nil {
		// The completion stays committed; only the advance failed and its
		// error is recorded against the next step.
		return advanced, err
	}
	return advanced, nil
}

// runHook executes a lifecycle hook under the configured deadline. A hook
// that exceeds the deadline fails the transition with CodeHookTimedOut; the
// hook goroutine is handed a cancelled context and is expected to honor it.
func (e *Engine) runHook(ctx context.Context, stepID int, kind string, hook Hook, data map[string]any) error {
	if hook == nil {
		return nil
	}

	hctx := ctx
	if e.hookTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, e.hookTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%s hook panicked: %v", kind, r)
			}
		}()
		done <- hook(hctx, data)
	}()

	select {
	case hookErr := <-done:
		if hookErr != nil {
			return &TransitionError{
				Code:   CodeHookFailed,
				StepID: stepID,
				Err:    fmt.Errorf("%s hook: %w", kind, hookErr),
			}
		}
		return nil
	case <-hctx.Done():
		code := CodeHookFailed
		if errors.Is(hctx.Err(), context.DeadlineExceeded) {
			code = CodeHookTimedOut
			e.observer.OnEvent(ctx, observability.Event{
				Type:      EventHookTimeout,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    e.name,
				Data:      map[string]any{"step": stepID, "hook": kind, "timeout": e.hookTimeout.String()},
			})
		}
		return &TransitionError{
			Code:   code,
			StepID: stepID,
			Err:    fmt.Errorf("%s hook: %w", kind, hctx.Err()),
		}
	}
}
