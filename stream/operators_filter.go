package stream

// Filter drops Next values for which predicate returns false.
func Filter[T any](parent *Node[T], predicate func(T) bool) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	return attach(parent, "filter", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if predicate(ev.Value) {
				return Push(ev.Value)
			}
			return NoOp[T]()
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Stride passes through every nth Next value (Stride(1) is identity,
// Stride(2) passes every other value, counted from the first).
func Stride[T any](parent *Node[T], n int) *Node[T] {
	if n < 1 {
		n = 1
	}
	flavor := operatorFlavor(parent.Flavor(), true, false)
	count := 0
	return attach(parent, "stride", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			count++
			if count%n == 0 {
				return Push(ev.Value)
			}
			return NoOp[T]()
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Skip drops the first n Next values, passing every value after through.
func Skip[T any](parent *Node[T], n int) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	skipped := 0
	return attach(parent, "skip", flavor, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if skipped < n {
				skipped++
				return NoOp[T]()
			}
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Distinct drops a Next value if equal reports it matches the
// immediately preceding emitted value.
func Distinct[T any](parent *Node[T], equal func(a, b T) bool) *Node[T] {
	flavor := operatorFlavor(parent.Flavor(), true, false)
	return attach(parent, "distinct", flavor, func(prior *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if prior != nil && equal(*prior, ev.Value) {
				return NoOp[T]()
			}
			return Push(ev.Value)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}
