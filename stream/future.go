package stream

// Future emits at most one Next or Error over its lifetime (§4.4, I2).
type Future[T any] struct {
	node *Node[T]
}

func futureHooks[T any]() hooks[T] {
	return hooks[T]{
		preprocess: func(_ *Node[T], ev Event[T]) (Event[T], bool) {
			if ev.Kind == EventErr {
				return Terminate[T](Failure(ev.Err)), true
			}
			return ev, true
		},
		postprocess: func(_ *Node[T], ev Event[T]) (Event[T], *Event[T]) {
			if ev.Kind == EventNext {
				follow := Terminate[T](Completion())
				return ev, &follow
			}
			return ev, nil
		},
	}
}

func newFutureNode[T any](name string, flavor Flavor) *Node[T] {
	n := newNode[T](name, flavor)
	n.hooks = futureHooks[T]()
	// A Future may settle before any observer attaches (Future.completed,
	// a synchronous task); replay lets that settled value still reach a
	// late attacher instead of being silently lost (I2/I3).
	n.replay = true
	return n
}

// NewFuture constructs a Future whose value is produced by task, invoked
// once at construction with a completion callback. The node holds a
// self-reference until the task responds, so a Future whose external
// creator drops it while the task is in flight still delivers its
// terminal event (§3.5, §9 "Cyclic ownership").
func NewFuture[T any](name string, task func(complete func(Result[T]))) *Future[T] {
	n := newFutureNode[T](name, FlavorFuture)
	n.selfRef = n
	task(func(r Result[T]) {
		if v, ok := r.Value(); ok {
			n.ingest(Next(v))
		} else {
			n.ingest(ErrEvent[T](r.Error()))
		}
	})
	return &Future[T]{node: n}
}

// CompletedFuture returns a Future already resolved with v.
func CompletedFuture[T any](v T) *Future[T] {
	return NewFuture[T]("completed", func(complete func(Result[T])) { complete(Ok(v)) })
}

// FailedFuture returns a Future already resolved with err.
func FailedFuture[T any](err error) *Future[T] {
	return NewFuture[T]("failed", func(complete func(Result[T])) { complete(Err[T](err)) })
}

// Node exposes the underlying stream node for attaching operators.
func (f *Future[T]) Node() *Node[T] { return f.node }

// FutureInput is an externally-completed Future: at most one Complete
// call is honored; later calls are no-ops (I1/I2).
type FutureInput[T any] struct {
	node *Node[T]
}

// NewFutureInput creates a Future whose value arrives via Complete.
func NewFutureInput[T any](name string) *FutureInput[T] {
	n := newFutureNode[T](name, FlavorFuture)
	return &FutureInput[T]{node: n}
}

// Node exposes the underlying stream node for attaching operators.
func (f *FutureInput[T]) Node() *Node[T] { return f.node }

// Complete resolves the Future with r.
func (f *FutureInput[T]) Complete(r Result[T]) {
	if v, ok := r.Value(); ok {
		f.node.ingest(Next(v))
	} else {
		f.node.ingest(ErrEvent[T](r.Error()))
	}
}

// Close honors §3.5's destruction rule: a FutureInput dropped while still
// active emits Terminate(Cancelled) to its children.
func (f *FutureInput[T]) Close() {
	if terminated, _ := f.node.State(); !terminated {
		f.node.ingest(Terminate[T](Cancellation()))
	}
}
