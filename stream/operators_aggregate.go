package stream

// Number constrains the aggregate operators to ordered numeric types.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Min emits the running minimum value seen so far.
func Min[T Number](parent *Node[T]) *Node[T] {
	return attach(parent, "min", FlavorHot, func(prior *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if prior == nil || ev.Value < *prior {
				return Push(ev.Value)
			}
			return Push(*prior)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Max emits the running maximum value seen so far.
func Max[T Number](parent *Node[T]) *Node[T] {
	return attach(parent, "max", FlavorHot, func(prior *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			if prior == nil || ev.Value > *prior {
				return Push(ev.Value)
			}
			return Push(*prior)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Count emits the running number of Next values seen so far.
func Count[T any](parent *Node[T]) *Node[int] {
	n := 0
	return attach(parent, "count", FlavorHot, func(_ *int, ev Event[T]) Signal[int] {
		switch ev.Kind {
		case EventNext:
			n++
			return Push(n)
		case EventErr:
			return SigErr[int](ev.Err)
		default:
			return TerminateWith[int](nil, ev.Reason)
		}
	})
}

// Sum emits the running sum of values seen so far.
func Sum[T Number](parent *Node[T]) *Node[T] {
	var total T
	return attach(parent, "sum", FlavorHot, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			total += ev.Value
			return Push(total)
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// Average emits the running arithmetic mean of values seen so far.
func Average[T Number](parent *Node[T]) *Node[float64] {
	var total float64
	var n float64
	return attach(parent, "average", FlavorHot, func(_ *float64, ev Event[T]) Signal[float64] {
		switch ev.Kind {
		case EventNext:
			total += float64(ev.Value)
			n++
			return Push(total / n)
		case EventErr:
			return SigErr[float64](ev.Err)
		default:
			return TerminateWith[float64](nil, ev.Reason)
		}
	})
}
