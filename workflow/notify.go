package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/procureflow/intake/observability"
)

// notifier fans out session snapshots to subscribers over buffered channels.
// Publishing never blocks the engine: when a subscriber's channel is full the
// oldest pending snapshot is dropped and a warning event is emitted. A
// subscriber that only cares about the latest state loses nothing.
type notifier struct {
	mu       sync.Mutex
	subs     map[int]chan Session
	nextID   int
	buffer   int
	observer observability.Observer
	source   string
}

func newNotifier(buffer int, observer observability.Observer, source string) *notifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &notifier{
		subs:     make(map[int]chan Session),
		buffer:   buffer,
		observer: observer,
		source:   source,
	}
}

// subscribe registers a new snapshot channel and returns it with a cancel
// function. Cancel closes the channel and removes the subscription.
func (n *notifier) subscribe() (<-chan Session, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	ch := make(chan Session, n.buffer)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		if sub, exists := n.subs[id]; exists {
			delete(n.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// publish delivers snap to every current subscriber.
func (n *notifier) publish(ctx context.Context, snap Session) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs {
		for {
			select {
			case ch <- snap:
			default:
				// Full buffer: drop the oldest pending snapshot and retry.
				select {
				case <-ch:
					n.observer.OnEvent(ctx, observability.Event{
						Type:      EventSnapshotDrop,
						Level:     observability.LevelWarning,
						Timestamp: time.Now(),
						Source:    n.source,
						Data:      map[string]any{"subscriber": id},
					})
				default:
				}
				continue
			}
			break
		}
	}
}

// close terminates all subscriptions.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
