package stream

import "weak"

// Using attaches obj's lifetime to the derived stream: once obj is
// garbage collected, the stream terminates with reason Failure wrapping
// ErrWeakReleased, even if parent is still active. then receives a
// momentarily-revived strong reference to obj for each value.
func Using[T any, O any](parent *Node[T], obj *O, then func(*O, T) T) *Node[T] {
	wp := weak.Make(obj)
	return attach(parent, "using", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			o := wp.Value()
			if o == nil {
				return TerminateWith[T](nil, Failure(ErrWeakReleased))
			}
			return Push(then(o, ev.Value))
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// LifeOf passes parent's events through unchanged but additionally
// terminates the derived stream, with reason Failure wrapping
// ErrWeakReleased, as soon as a liveness check (ticking every poll)
// finds obj has been garbage collected -- independent of whether parent
// itself ever terminates.
func LifeOf[T any, O any](parent *Node[T], obj *O, checkEvery *Timer) *Node[T] {
	wp := weak.Make(obj)
	child := attach(parent, "lifeOf", parent.Flavor(), Identity[T])

	watcher := attach(checkEvery.Node(), "lifeOf.watch", FlavorHot, func(_ *int, ev Event[int]) Signal[int] {
		if ev.Kind == EventNext && wp.Value() == nil {
			child.ingest(Terminate[T](Failure(ErrWeakReleased)))
		}
		return NoOp[int]()
	})
	_ = watcher

	return child
}
