package stream

import "sync"

// Combine tracks the latest value from each of two sources and emits
// EitherAnd(latestA, latestB) once both sides have produced at least one
// value, terminating only once both have terminated (I4). Before both
// sides have a value, incoming updates are suppressed via Merging rather
// than dropped outright, preserving I3 replay correctness for late
// attachers of the combined stream.
//
// When latest is true, every arrival on either side (once both are
// seeded) re-emits a pairing that reuses the other side's stored value
// (§4.6, §8 scenario 5). When latest is false, each pairing consumes both
// sides' stored latest and clears them, so a side must produce a fresh
// value before it can pair again (§4.6).
func Combine[A, B any](a *Node[A], b *Node[B], latest bool) *Node[EitherAnd[A, B]] {
	combined := newNode[EitherAnd[A, B]]("combine", FlavorHot)
	combined.persist = true

	var mu sync.Mutex
	var gotA, gotB, termA, termB bool
	var va A
	var vb B
	var reasonA, reasonB Reason

	linkChild(a, combined, func(_ *EitherAnd[A, B], ev Event[A]) Signal[EitherAnd[A, B]] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			va, gotA = ev.Value, true
			both := gotA && gotB
			cur := EitherAnd[A, B]{Left: va, Right: vb}
			if both && !latest {
				gotA, gotB = false, false
			}
			mu.Unlock()
			if both {
				return Push(cur)
			}
			return Merging[EitherAnd[A, B]]()
		case EventErr:
			return SigErr[EitherAnd[A, B]](ev.Err)
		default:
			mu.Lock()
			termA, reasonA = true, ev.Reason
			done := termA && termB
			r := reasonA
			if reasonB.Kind == ErrorReason {
				r = reasonB
			}
			mu.Unlock()
			if done {
				return TerminateWith[EitherAnd[A, B]](nil, r)
			}
			return Merging[EitherAnd[A, B]]()
		}
	}, nil)

	linkChild(b, combined, func(_ *EitherAnd[A, B], ev Event[B]) Signal[EitherAnd[A, B]] {
		switch ev.Kind {
		case EventNext:
			mu.Lock()
			vb, gotB = ev.Value, true
			both := gotA && gotB
			cur := EitherAnd[A, B]{Left: va, Right: vb}
			if both && !latest {
				gotA, gotB = false, false
			}
			mu.Unlock()
			if both {
				return Push(cur)
			}
			return Merging[EitherAnd[A, B]]()
		case EventErr:
			return SigErr[EitherAnd[A, B]](ev.Err)
		default:
			mu.Lock()
			termB, reasonB = true, ev.Reason
			done := termA && termB
			r := reasonB
			if reasonA.Kind == ErrorReason {
				r = reasonA
			}
			mu.Unlock()
			if done {
				return TerminateWith[EitherAnd[A, B]](nil, r)
			}
			return Merging[EitherAnd[A, B]]()
		}
	}, nil)

	return combined
}
