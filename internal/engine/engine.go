// Package engine implements the transition engine: the only writer to the
// table, session and reservation ledgers.  Every operation runs as one
// store transaction, re-checks its preconditions inside that transaction
// and either commits all of its sub-steps or none of them.  Callers get a
// typed sentinel error (store.ErrTableNotFound, store.ErrInvalidState,
// store.ErrConflict, ...) with a human-readable reason, never a partially
// applied result.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/tablekeeper/floorplan/internal/queue"
	"github.com/tablekeeper/floorplan/internal/store"
)

// Publisher delivers a transition event to the message broker after the
// operation has committed.  Implementations must not fail the request
// path; errors are logged and dropped.
type Publisher func(ctx context.Context, ev queue.TableTransitionEvent)

// Engine executes the atomic transition operations over a store.
type Engine struct {
	store   store.Store
	publish Publisher
	now     func() time.Time
}

// New returns an Engine over the given store.  publish may be nil when no
// broker is configured.
func New(st store.Store, publish Publisher) *Engine {
	return &Engine{store: st, publish: publish, now: time.Now}
}

// emit publishes an event after a committed transition.  A nil publisher
// disables eventing.
func (e *Engine) emit(ctx context.Context, ev queue.TableTransitionEvent) {
	if e.publish == nil {
		return
	}
	ev.OccurredAt = e.now().UTC().Format(time.RFC3339)
	e.publish(ctx, ev)
}

func invalidState(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", store.ErrInvalidState, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", store.ErrConflict, fmt.Sprintf(format, args...))
}
