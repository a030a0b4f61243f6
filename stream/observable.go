package stream

// ObservableInput is a Hot-like source whose current value is always
// defined: a newly attached child is eagerly given the current value
// (§4.4). Transform operators that cannot guarantee a defined output
// degrade the result to Hot (see operatorFlavor in operator.go).
type ObservableInput[T any] struct {
	node *Node[T]
}

// NewObservableInput creates an ObservableInput seeded with initial.
func NewObservableInput[T any](name string, initial T) *ObservableInput[T] {
	n := newNode[T](name, FlavorObservable)
	n.replay = true
	n.last = &initial
	return &ObservableInput[T]{node: n}
}

// Node exposes the underlying stream node for attaching operators.
func (o *ObservableInput[T]) Node() *Node[T] { return o.node }

// Current returns the node's current value.
func (o *ObservableInput[T]) Current() T {
	o.node.mu.Lock()
	defer o.node.mu.Unlock()
	if o.node.last == nil {
		var zero T
		return zero
	}
	return *o.node.last
}

// Push updates the current value and pushes it downstream.
func (o *ObservableInput[T]) Push(v T) { o.node.ingest(Next(v)) }

// PushError delivers a non-terminating error downstream.
func (o *ObservableInput[T]) PushError(err error) { o.node.ingest(ErrEvent[T](err)) }

// Terminate closes the stream with the given reason.
func (o *ObservableInput[T]) Terminate(reason Reason) { o.node.ingest(Terminate[T](reason)) }

// Close honors the destruction rule (§3.5) for an externally-owned input.
func (o *ObservableInput[T]) Close() {
	if terminated, _ := o.node.State(); !terminated {
		o.Terminate(Cancellation())
	}
}
