package workflow

import "github.com/procureflow/intake/observability"

// Workflow event types emitted through the configured observer.
const (
	EventSessionCreate observability.EventType = "session.create"
	EventSessionReset  observability.EventType = "session.reset"

	EventStepNavigate observability.EventType = "step.navigate"
	EventStepComplete observability.EventType = "step.complete"
	EventStepBack     observability.EventType = "step.back"
	EventStepError    observability.EventType = "step.error"

	EventHookTimeout  observability.EventType = "hook.timeout"
	EventSnapshotDrop observability.EventType = "snapshot.drop"
)
