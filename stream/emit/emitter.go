// Package emit provides pluggable observability for stream node
// execution: every Next/Error/Terminate/Attach/Detach transition a Node
// goes through can be reported to an Emitter.
package emit

import "context"

// Emitter receives observability events from stream node execution.
//
// Implementations should be non-blocking and thread-safe: a node may
// call Emit from whatever goroutine delivered the triggering event, and
// multiple nodes may emit concurrently. Emit must never panic.
type Emitter interface {
	// Emit sends one event to the configured backend.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation, in emission
	// order. Returns an error only on catastrophic failures; individual
	// event failures should be logged internally, not returned.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until every buffered event has been sent to the
	// backend, or ctx is done. Safe to call multiple times.
	Flush(ctx context.Context) error
}
