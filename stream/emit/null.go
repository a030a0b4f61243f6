package emit

import "context"

// NullEmitter discards every event. Use it to disable observability
// without changing the code that calls SetEmitter.
type NullEmitter struct{}

// NewNullEmitter constructs a NullEmitter.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

// Emit is a no-op.
func (n *NullEmitter) Emit(Event) {}

// EmitBatch is a no-op.
func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (n *NullEmitter) Flush(context.Context) error { return nil }
