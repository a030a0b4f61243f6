package stream

// First emits only the first Next value seen, then terminates Completed.
func First[T any](parent *Node[T]) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	seen := false
	return attach(parent, "first", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if seen {
				return NoOp[T]()
			}
			seen = true
			v := ev.Value
			return TerminateWith(&v, Completion())
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Last emits only the most recently seen Next value, delivered when the
// parent terminates.
func Last[T any](parent *Node[T]) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	var latest *T
	return attach(parent, "last", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			v := ev.Value
			latest = &v
			return NoOp[T]()
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith(latest, ev.Reason)
		}
	})
}

// Buffer collects values into fixed-size slices, emitting each slice
// once it reaches size, plus a final short slice on termination if any
// values are still pending.
func Buffer[T any](parent *Node[T], size int) *Node[[]T] {
	if size < 1 {
		size = 1
	}
	var acc []T
	return attach(parent, "buffer", FlavorHot, func(_ *[]T, ev Event[T]) Signal[[]T] {
		switch ev.Kind {
		case EventNext:
			acc = append(acc, ev.Value)
			if len(acc) >= size {
				out := acc
				acc = nil
				return Push(out)
			}
			return NoOp[[]T]()
		case EventErr:
			return SigErr[[]T](ev.Err)
		default:
			if len(acc) > 0 {
				out := acc
				acc = nil
				return TerminateWith(&out, ev.Reason)
			}
			return TerminateWith[[]T](nil, ev.Reason)
		}
	})
}

// FirstN collects up to n Next values into a slice, emitting it and
// terminating Completed as soon as the nth value arrives (§4.3
// "first(n) ... Bounded head collector").
func FirstN[T any](parent *Node[T], n int) *Node[[]T] {
	if n < 1 {
		n = 1
	}
	flavor := operatorFlavor(parent.Flavor(), true, true)
	var acc []T
	return attach(parent, "firstN", flavor, func(_ *[]T, ev Event[T]) Signal[[]T] {
		switch ev.Kind {
		case EventNext:
			if len(acc) >= n {
				return NoOp[[]T]()
			}
			acc = append(acc, ev.Value)
			if len(acc) == n {
				out := acc
				return TerminateWith(&out, Completion())
			}
			return NoOp[[]T]()
		case EventErr:
			return SigErr[[]T](ev.Err)
		default:
			return TerminateWith[[]T](nil, ev.Reason)
		}
	})
}

// LastN collects the most recent n Next values, delivering them as one
// slice when the parent terminates. If partial is true, a short slice
// (fewer than n values) is still delivered; if false, termination with
// fewer than n accumulated values delivers no value at all (§4.3
// "last(n, partial) ... Bounded tail collector").
func LastN[T any](parent *Node[T], n int, partial bool) *Node[[]T] {
	if n < 1 {
		n = 1
	}
	flavor := operatorFlavor(parent.Flavor(), true, true)
	var buf []T
	return attach(parent, "lastN", flavor, func(_ *[]T, ev Event[T]) Signal[[]T] {
		switch ev.Kind {
		case EventNext:
			buf = append(buf, ev.Value)
			if len(buf) > n {
				buf = buf[len(buf)-n:]
			}
			return NoOp[[]T]()
		case EventErr:
			return SigErr[[]T](ev.Err)
		default:
			if len(buf) == 0 || (!partial && len(buf) < n) {
				return TerminateWith[[]T](nil, ev.Reason)
			}
			out := buf
			return TerminateWith(&out, ev.Reason)
		}
	})
}

// Window emits the most recent n values (fewer until the window fills)
// as a freshly-copied slice on every Next.
func Window[T any](parent *Node[T], n int) *Node[[]T] {
	if n < 1 {
		n = 1
	}
	var buf []T
	return attach(parent, "window", FlavorHot, func(_ *[]T, ev Event[T]) Signal[[]T] {
		switch ev.Kind {
		case EventNext:
			buf = append(buf, ev.Value)
			if len(buf) > n {
				buf = buf[len(buf)-n:]
			}
			out := make([]T, len(buf))
			copy(out, buf)
			return Push(out)
		case EventErr:
			return SigErr[[]T](ev.Err)
		default:
			return TerminateWith[[]T](nil, ev.Reason)
		}
	})
}
