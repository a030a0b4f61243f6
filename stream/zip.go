package stream

import "sync"

// Pair holds one zipped value from each of two sources.
type Pair[A, B any] struct {
	A A
	B B
}

// Zip pairs up values from a and b positionally: the nth value from a is
// paired with the nth value from b, buffering whichever side runs ahead
// up to bound values. Once a side's buffer is full, further arrivals on
// that side are dropped rather than paired or buffered (§4.6 "further
// arrivals drop (return Merging)"). It terminates once one side
// has terminated and its buffer has been fully drained into pairs, since
// no further pairing is possible (I4).
func Zip[A, B any](a *Node[A], b *Node[B], bound int) *Node[Pair[A, B]] {
	if bound < 1 {
		bound = 1
	}
	zipped := newNode[Pair[A, B]]("zip", FlavorHot)
	zipped.persist = true

	var mu sync.Mutex
	var bufA []A
	var bufB []B
	var termA, termB bool
	var reasonA, reasonB Reason

	tryEmit := func() (Pair[A, B], bool) {
		if len(bufA) > 0 && len(bufB) > 0 {
			p := Pair[A, B]{A: bufA[0], B: bufB[0]}
			bufA = bufA[1:]
			bufB = bufB[1:]
			return p, true
		}
		return Pair[A, B]{}, false
	}

	finished := func() bool {
		return (termA && len(bufA) == 0) || (termB && len(bufB) == 0)
	}

	linkChild(a, zipped, func(_ *Pair[A, B], ev Event[A]) Signal[Pair[A, B]] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			if len(bufA) >= bound {
				mu.Unlock()
				return Merging[Pair[A, B]]()
			}
			bufA = append(bufA, ev.Value)
			p, ok := tryEmit()
			done := ok && termB && len(bufB) == 0
			reason := reasonB
			mu.Unlock()
			if done {
				return TerminateWith[Pair[A, B]](&p, reason)
			}
			if ok {
				return Push(p)
			}
			return Merging[Pair[A, B]]()
		case EventErr:
			return SigErr[Pair[A, B]](ev.Err)
		default:
			mu.Lock()
			termA, reasonA = true, ev.Reason
			done := finished()
			reason := reasonA
			if reasonB.Kind == ErrorReason {
				reason = reasonB
			}
			mu.Unlock()
			if done {
				return TerminateWith[Pair[A, B]](nil, reason)
			}
			return Merging[Pair[A, B]]()
		}
	}, nil)

	linkChild(b, zipped, func(_ *Pair[A, B], ev Event[B]) Signal[Pair[A, B]] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			if len(bufB) >= bound {
				mu.Unlock()
				return Merging[Pair[A, B]]()
			}
			bufB = append(bufB, ev.Value)
			p, ok := tryEmit()
			done := ok && termA && len(bufA) == 0
			reason := reasonA
			mu.Unlock()
			if done {
				return TerminateWith[Pair[A, B]](&p, reason)
			}
			if ok {
				return Push(p)
			}
			return Merging[Pair[A, B]]()
		case EventErr:
			return SigErr[Pair[A, B]](ev.Err)
		default:
			mu.Lock()
			termB, reasonB = true, ev.Reason
			done := finished()
			reason := reasonB
			if reasonA.Kind == ErrorReason {
				reason = reasonA
			}
			mu.Unlock()
			if done {
				return TerminateWith[Pair[A, B]](nil, reason)
			}
			return Merging[Pair[A, B]]()
		}
	}, nil)

	return zipped
}
