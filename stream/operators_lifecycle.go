package stream

import "github.com/corvanis/streamkit/stream/dispatch"

// Delay re-ingests every event into the returned child through after,
// which is expected to be a dispatch.After-built Dispatcher so the delay
// itself is expressed as ordinary dispatch policy rather than a bespoke
// timer (§5, §6).
func Delay[T any](parent *Node[T], after dispatch.Dispatcher) *Node[T] {
	var child *Node[T]
	child = attach(parent, "delay", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		after.Execute(func() { child.ingest(ev) })
		return NoOp[T]()
	})
	return child
}

// Start invokes producer for every incoming Next value and flattens the
// inner stream it returns into the output -- an alias for FlatMap at the
// call sites that mean "launch a fresh async producer per trigger"
// (multi-value widen, §4.4).
func Start[T, R any](parent *Node[T], producer func(T) *Node[R]) *Node[R] {
	return FlatMap(parent, producer)
}

// Concat runs each producer in turn, forwarding its values downstream,
// and only starts the next producer once the current one terminates
// Completed. An Error termination from any producer propagates and
// stops the sequence (multi-value widen, §4.4).
func Concat[T any](producers []func() *Node[T]) *Node[T] {
	root := NewHotInput[T]("concat")
	var advance func(i int)
	advance = func(i int) {
		if i >= len(producers) {
			root.Terminate(Completion())
			return
		}
		inner := producers[i]()
		attach(inner, "concat.inner", FlavorHot, func(_ *T, ev Event[T]) Signal[T] {
			switch ev.Kind {
			case EventNext:
				root.Push(ev.Value)
			case EventErr:
				root.PushError(ev.Err)
			case EventTerminate:
				if ev.Reason.Kind == ErrorReason {
					root.Terminate(ev.Reason)
				} else {
					advance(i + 1)
				}
			}
			return NoOp[T]()
		})
	}
	advance(0)
	return root.Node()
}

// DefaultValue pushes def immediately before a Completed termination, if
// the stream never pushed a value of its own.
func DefaultValue[T any](parent *Node[T], def T) *Node[T] {
	pushed := false
	return attach(parent, "defaultValue", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			pushed = true
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			if !pushed && ev.Reason.Kind == Completed {
				v := def
				return TerminateWith(&v, ev.Reason)
			}
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// DoWhile passes values through while predicate holds, terminating
// Completed (without forwarding the value that fails it) once it
// doesn't.
func DoWhile[T any](parent *Node[T], predicate func(T) bool) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	return attach(parent, "doWhile", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if predicate(ev.Value) {
				return Push(ev.Value)
			}
			return TerminateWith[T](nil, Completion())
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Until passes values through until predicate holds, forwarding the
// value that satisfies it and then terminating Completed.
func Until[T any](parent *Node[T], predicate func(T) bool) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	return attach(parent, "until", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if predicate(ev.Value) {
				v := ev.Value
				return TerminateWith(&v, Completion())
			}
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// NextValue emits only the next Next value to arrive after attach, then
// terminates Completed.
func NextValue[T any](parent *Node[T]) *Node[T] {
	return First(parent)
}

// NextLimit passes through the next n Next values, then terminates with
// reason once the nth has been forwarded, regardless of whether the
// parent itself goes on (§4.3 "next(n, then)").
func NextLimit[T any](parent *Node[T], n int, reason Reason) *Node[T] {
	if n < 1 {
		n = 1
	}
	flavor := operatorFlavor(parent.Flavor(), true, false)
	count := 0
	return attach(parent, "next", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			count++
			if count >= n {
				v := ev.Value
				return TerminateWith(&v, reason)
			}
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}
