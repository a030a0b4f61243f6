package stream

import "sync"

// Map transforms every Next value from T to R.
func Map[T, R any](parent *Node[T], fn func(T) R) *Node[R] {
	flavor := operatorFlavor(parent.Flavor(), false, false)
	return attach(parent, "map", flavor, func(_ *R, ev Event[T]) Signal[R] {
		switch ev.Kind {
		case EventNext:
			return Push(fn(ev.Value))
		case EventErr:
			return SigErr[R](ev.Err)
		default:
			return TerminateWith[R](nil, ev.Reason)
		}
	})
}

// MapError transforms a non-terminating Error's cause via fn, passing
// every other event through unchanged (§4.4, §7 "mapError").
func MapError[T any](parent *Node[T], fn func(error) error) *Node[T] {
	return attach(parent, "mapError", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](fn(ev.Err))
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// ResultMap transforms every Next value into a Result, surfacing a
// failed Result as a non-terminating Error instead of a value (§4.4).
func ResultMap[T, R any](parent *Node[T], fn func(T) Result[R]) *Node[R] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	return attach(parent, "resultMap", flavor, func(_ *R, ev Event[T]) Signal[R] {
		switch ev.Kind {
		case EventNext:
			r := fn(ev.Value)
			if v, ok := r.Value(); ok {
				return Push(v)
			}
			return SigErr[R](r.Error())
		case EventErr:
			return SigErr[R](ev.Err)
		default:
			return TerminateWith[R](nil, ev.Reason)
		}
	})
}

// AsyncMap transforms every Next value asynchronously via a Future,
// pushing each eventual result downstream in completion order (not
// necessarily arrival order, §4.4).
func AsyncMap[T, R any](parent *Node[T], fn func(T) *Future[R]) *Node[R] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	var child *Node[R]
	var mu sync.Mutex
	inFlight := 0
	outerDone := false
	var outerReason Reason

	finish := func() Signal[R] {
		if outerDone && inFlight == 0 {
			return TerminateWith[R](nil, outerReason)
		}
		return Cancel[R]()
	}

	child = attach(parent, "asyncMap", flavor, func(_ *R, ev Event[T]) Signal[R] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			inFlight++
			mu.Unlock()
			fut := fn(ev.Value)
			attach(fut.Node(), "asyncMap.settle", FlavorHot, func(_ *R, fev Event[R]) Signal[R] {
				switch fev.Kind {
				case EventNext:
					child.ingest(Next(fev.Value))
				case EventErr:
					child.ingest(ErrEvent[R](fev.Err))
				case EventTerminate:
					mu.Lock()
					inFlight--
					sig := finish()
					mu.Unlock()
					if sig.Kind == SigTerminate {
						child.ingest(Terminate[R](sig.Reason))
					}
				}
				return NoOp[R]()
			})
			return NoOp[R]()
		case EventErr:
			return SigErr[R](ev.Err)
		default:
			mu.Lock()
			outerDone = true
			outerReason = ev.Reason
			sig := finish()
			mu.Unlock()
			return sig
		}
	})
	return child
}

// FlatMap transforms every Next value into an inner stream node and
// flattens every value the inner stream emits into the output. Widens
// Future/Promise to Hot, since more than one trigger can each contribute
// their own inner value (§4.4). The output only terminates once the
// parent has terminated AND every inner stream it spawned has finished,
// so a flatMap over an already-settled Future (e.g. Future.completed)
// still delivers every value its inner stream produces (§8 scenario 4).
func FlatMap[T, R any](parent *Node[T], fn func(T) *Node[R]) *Node[R] {
	flavor := operatorFlavor(parent.Flavor(), true, true)
	var child *Node[R]
	var mu sync.Mutex
	active := 0
	outerDone := false
	var outerReason Reason

	finish := func() Signal[R] {
		if outerDone && active == 0 {
			return TerminateWith[R](nil, outerReason)
		}
		return Cancel[R]()
	}

	child = attach(parent, "flatMap", flavor, func(_ *R, ev Event[T]) Signal[R] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			active++
			mu.Unlock()
			inner := fn(ev.Value)
			attach(inner, "flatMap.inner", FlavorHot, func(_ *R, iev Event[R]) Signal[R] {
				switch iev.Kind {
				case EventNext:
					child.ingest(Next(iev.Value))
				case EventErr:
					child.ingest(ErrEvent[R](iev.Err))
				case EventTerminate:
					mu.Lock()
					active--
					sig := finish()
					mu.Unlock()
					if sig.Kind == SigTerminate {
						child.ingest(Terminate[R](sig.Reason))
					}
				}
				return NoOp[R]()
			})
			return NoOp[R]()
		case EventErr:
			return SigErr[R](ev.Err)
		default:
			mu.Lock()
			outerDone = true
			outerReason = ev.Reason
			sig := finish()
			mu.Unlock()
			return sig
		}
	})
	return child
}

// FlattenSlice flattens a stream of slices into a stream of their
// elements, in order.
func FlattenSlice[T any](parent *Node[[]T]) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), false, true)
	return attach(parent, "flatten", flavor, func(_ *T, ev Event[[]T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			return Flatten(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Scan folds reduce over every Next value starting from initial,
// pushing the updated accumulator downstream on every step.
func Scan[T, R any](parent *Node[T], initial R, reduce func(acc R, v T) R) *Node[R] {
	flavor := operatorFlavor(parent.Flavor(), false, false)
	return attach(parent, "scan", flavor, func(prior *R, ev Event[T]) Signal[R] {
		switch ev.Kind {
		case EventNext:
			acc := initial
			if prior != nil {
				acc = *prior
			}
			return Push(reduce(acc, ev.Value))
		case EventErr:
			return SigErr[R](ev.Err)
		default:
			return TerminateWith[R](nil, ev.Reason)
		}
	})
}
