package stream

import "sync"

// ProgressUpdate describes an in-flight task's completion state (§4.4).
type ProgressUpdate struct {
	Current float64
	Total   float64
	Title   string
	Unit    string
}

// Fraction returns Current/Total, or 0 if Total is 0.
func (p ProgressUpdate) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return p.Current / p.Total
}

// progress is the payload type every Progression node carries: zero or
// more Left(ProgressUpdate) events followed by exactly one
// Right(result) event (§4.4).
type progress[T any] = Either[ProgressUpdate, T]

func progressionHooks[T any]() hooks[progress[T]] {
	return hooks[progress[T]]{
		preprocess: func(_ *Node[progress[T]], ev Event[progress[T]]) (Event[progress[T]], bool) {
			if ev.Kind == EventErr {
				return Terminate[progress[T]](Failure(ev.Err)), true
			}
			return ev, true
		},
		postprocess: func(_ *Node[progress[T]], ev Event[progress[T]]) (Event[progress[T]], *Event[progress[T]]) {
			if ev.Kind == EventNext && !ev.Value.IsLeft() {
				follow := Terminate[progress[T]](Completion())
				return ev, &follow
			}
			return ev, nil
		},
	}
}

// ProgressionInput is the externally-driven source half of a Progression
// (§4.4).
type ProgressionInput[T any] struct {
	node *Node[progress[T]]
}

// NewProgression creates a ProgressionInput.
func NewProgression[T any](name string) *ProgressionInput[T] {
	n := newNode[progress[T]](name, FlavorProgression)
	n.hooks = progressionHooks[T]()
	return &ProgressionInput[T]{node: n}
}

// NewProgressionTask constructs a Progression whose task-driven
// counterpart to NewFuture/NewPromise (§6): task is invoked once at
// construction with report and complete callbacks that drive the same
// progress node a ProgressionInput exposes, so task-driven and
// externally-driven Progressions share every downstream operator
// (OnProgress, MapProgress, CombineProgress). The node holds a
// self-reference until task calls complete, mirroring Future/Promise's
// in-flight keepalive (§3.5).
func NewProgressionTask[T any](name string, task func(report func(ProgressUpdate), complete func(Result[T]))) *ProgressionInput[T] {
	n := newNode[progress[T]](name, FlavorProgression)
	n.hooks = progressionHooks[T]()
	n.selfRef = n

	p := &ProgressionInput[T]{node: n}
	task(
		func(u ProgressUpdate) { p.Progress(u.Current, u.Total, u.Title, u.Unit) },
		func(r Result[T]) {
			if v, ok := r.Value(); ok {
				p.Complete(v)
			} else {
				p.Fail(r.Error())
			}
		},
	)
	return p
}

// Node exposes the underlying stream node for attaching operators.
func (p *ProgressionInput[T]) Node() *Node[progress[T]] { return p.node }

// Progress reports an intermediate step.
func (p *ProgressionInput[T]) Progress(current, total float64, title, unit string) {
	p.node.ingest(Next(Left[ProgressUpdate, T](ProgressUpdate{Current: current, Total: total, Title: title, Unit: unit})))
}

// Complete delivers the final result and terminates the Progression.
func (p *ProgressionInput[T]) Complete(v T) {
	p.node.ingest(Next(Right[ProgressUpdate, T](v)))
}

// Fail terminates the Progression with an error.
func (p *ProgressionInput[T]) Fail(err error) {
	p.node.ingest(ErrEvent[progress[T]](err))
}

// Close honors the destruction rule (§3.5).
func (p *ProgressionInput[T]) Close() {
	if terminated, _ := p.node.State(); !terminated {
		p.node.ingest(Terminate[progress[T]](Cancellation()))
	}
}

// OnProgress attaches an observer invoked for every intermediate
// ProgressUpdate; Next(result)/Error/Terminate pass through unchanged.
func OnProgress[T any](parent *Node[progress[T]], fn func(ProgressUpdate)) *Node[progress[T]] {
	return attach(parent, "onProgress", parent.Flavor(), func(_ *progress[T], ev Event[progress[T]]) Signal[progress[T]] {
		if ev.Kind == EventNext && ev.Value.IsLeft() {
			if v, ok := ev.Value.LeftValue(); ok {
				fn(v)
			}
		}
		return Identity(nil, ev)
	})
}

// MapProgress transforms the eventual result from T to R, passing
// progress updates through relabeled to the new result type.
func MapProgress[T, R any](parent *Node[progress[T]], fn func(T) R) *Node[progress[R]] {
	return attach(parent, "mapProgress", parent.Flavor(), func(_ *progress[R], ev Event[progress[T]]) Signal[progress[R]] {
		switch ev.Kind {
		case EventNext:
			if v, ok := ev.Value.LeftValue(); ok {
				return Push(Left[ProgressUpdate, R](v))
			}
			v, _ := ev.Value.RightValue()
			return Push(Right[ProgressUpdate, R](fn(v)))
		case EventErr:
			return SigErr[progress[R]](ev.Err)
		default:
			return TerminateWith[progress[R]](nil, ev.Reason)
		}
	})
}

// CombineProgress merges two Progressions into one that relays every
// intermediate update from either side and completes with both results
// once both have arrived, terminating Completed as soon as that combined
// result is pushed. If a side terminates without a result, it terminates
// once both sides have terminated, preferring an Error reason (I4). Built
// on EitherAnd (§4.4 combineProgress).
func CombineProgress[A, B any](pa *Node[progress[A]], pb *Node[progress[B]]) *Node[progress[EitherAnd[A, B]]] {
	merged := newNode[progress[EitherAnd[A, B]]]("combineProgress", FlavorProgression)
	merged.hooks = progressionHooks[EitherAnd[A, B]]()
	merged.persist = true

	var mu sync.Mutex
	var gotA, gotB, termA, termB bool
	var va A
	var vb B
	var reasonA, reasonB Reason

	linkChild(pa, merged, func(_ *progress[EitherAnd[A, B]], ev Event[progress[A]]) Signal[progress[EitherAnd[A, B]]] {
		switch ev.Kind {
		case EventNext:
			if v, ok := ev.Value.LeftValue(); ok {
				return Push(Left[ProgressUpdate, EitherAnd[A, B]](v))
			}
			v, _ := ev.Value.RightValue()
			mu.Lock()
			va, gotA = v, true
			both := gotA && gotB
			a, b := va, vb
			mu.Unlock()
			if both {
				return Push(Right[ProgressUpdate, EitherAnd[A, B]](EitherAnd[A, B]{Left: a, Right: b}))
			}
			return Merging[progress[EitherAnd[A, B]]]()
		case EventErr:
			return SigErr[progress[EitherAnd[A, B]]](ev.Err)
		default:
			mu.Lock()
			termA, reasonA = true, ev.Reason
			bothDone := termA && termB
			r := reasonA
			if reasonB.Kind == ErrorReason {
				r = reasonB
			}
			mu.Unlock()
			if bothDone {
				return TerminateWith[progress[EitherAnd[A, B]]](nil, r)
			}
			return Merging[progress[EitherAnd[A, B]]]()
		}
	}, nil)

	linkChild(pb, merged, func(_ *progress[EitherAnd[A, B]], ev Event[progress[B]]) Signal[progress[EitherAnd[A, B]]] {
		switch ev.Kind {
		case EventNext:
			if v, ok := ev.Value.LeftValue(); ok {
				return Push(Left[ProgressUpdate, EitherAnd[A, B]](v))
			}
			v, _ := ev.Value.RightValue()
			mu.Lock()
			vb, gotB = v, true
			both := gotA && gotB
			a, b := va, vb
			mu.Unlock()
			if both {
				return Push(Right[ProgressUpdate, EitherAnd[A, B]](EitherAnd[A, B]{Left: a, Right: b}))
			}
			return Merging[progress[EitherAnd[A, B]]]()
		case EventErr:
			return SigErr[progress[EitherAnd[A, B]]](ev.Err)
		default:
			mu.Lock()
			termB, reasonB = true, ev.Reason
			bothDone := termA && termB
			r := reasonB
			if reasonA.Kind == ErrorReason {
				r = reasonA
			}
			mu.Unlock()
			if bothDone {
				return TerminateWith[progress[EitherAnd[A, B]]](nil, r)
			}
			return Merging[progress[EitherAnd[A, B]]]()
		}
	}, nil)

	return merged
}
