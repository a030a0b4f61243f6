package stream

// HotInput is a fire-and-forget event source: errors pushed through it do
// not terminate the stream (§4.4). Replay is off by default — late
// attachers see nothing until the next push.
type HotInput[T any] struct {
	node *Node[T]
}

// NewHotInput creates a HotInput with replay disabled.
func NewHotInput[T any](name string) *HotInput[T] {
	n := newNode[T](name, FlavorHot)
	return &HotInput[T]{node: n}
}

// Node exposes the underlying stream node for attaching operators.
func (h *HotInput[T]) Node() *Node[T] { return h.node }

// Push delivers a value downstream.
func (h *HotInput[T]) Push(v T) { h.node.ingest(Next(v)) }

// PushError delivers a non-terminating error downstream.
func (h *HotInput[T]) PushError(err error) { h.node.ingest(ErrEvent[T](err)) }

// Terminate closes the stream with the given reason.
func (h *HotInput[T]) Terminate(reason Reason) { h.node.ingest(Terminate[T](reason)) }

// Close is the destruction hook (§3.5): if the input is dropped while
// still active, it emits Terminate(Cancelled) to its children. Callers
// that construct a HotInput and later discard it without an explicit
// Terminate should call Close to honor that rule explicitly,
// since Go has no deterministic finalizer equivalent to a scoped destructor.
func (h *HotInput[T]) Close() {
	if terminated, _ := h.node.State(); !terminated {
		h.Terminate(Cancellation())
	}
}

// HotProducer relays events from an installed producer closure. The
// closure receives a push function and is invoked once at construction;
// it is expected to call push as values become available (from a
// goroutine, a callback, etc.) and to stop once the returned stop function
// is called.
type HotProducer[T any] struct {
	node *Node[T]
	stop func()
}

// ProducerFunc is installed into a HotProducer; it receives push/pushError
// and must return a stop function invoked on teardown.
type ProducerFunc[T any] func(push func(T), pushError func(error)) (stop func())

// NewHotProducer constructs a HotProducer driven by producer.
func NewHotProducer[T any](name string, producer ProducerFunc[T]) *HotProducer[T] {
	n := newNode[T](name, FlavorHot)
	p := &HotProducer[T]{node: n}
	p.stop = producer(
		func(v T) { n.ingest(Next(v)) },
		func(err error) { n.ingest(ErrEvent[T](err)) },
	)
	return p
}

// Node exposes the underlying stream node for attaching operators.
func (p *HotProducer[T]) Node() *Node[T] { return p.node }

// Terminate closes the stream and stops the installed producer.
func (p *HotProducer[T]) Terminate(reason Reason) {
	if p.stop != nil {
		p.stop()
	}
	p.node.ingest(Terminate[T](reason))
}
