package stream

import "sync"

// Merge fans in any number of same-typed sources into one stream,
// forwarding every value as it arrives from whichever source produced
// it, and terminating only once every source has terminated (I4). An
// Error termination from any source is preferred as the merged node's
// own termination cause once all sources are done.
func Merge[T any](sources ...*Node[T]) *Node[T] {
	merged := newNode[T]("merge", FlavorHot)
	merged.persist = true

	var mu sync.Mutex
	done := make([]bool, len(sources))
	reasons := make([]Reason, len(sources))

	allDone := func() bool {
		for _, d := range done {
			if !d {
				return false
			}
		}
		return true
	}

	for i, src := range sources {
		i := i
		linkChild(src, merged, func(_ *T, ev Event[T]) Signal[T] {
			switch ev.Kind {
			case EventNext:
				return Push(ev.Value)
			case EventErr:
				return SigErr[T](ev.Err)
			default:
				mu.Lock()
				done[i] = true
				reasons[i] = ev.Reason
				finished := allDone()
				reason := ev.Reason
				if finished {
					for _, r := range reasons {
						if r.Kind == ErrorReason {
							reason = r
							break
						}
					}
				}
				mu.Unlock()
				if finished {
					return TerminateWith[T](nil, reason)
				}
				return Merging[T]()
			}
		}, nil)
	}

	return merged
}

// MergeEither fans in two differently-typed sources into one stream of
// Either[L,R], tagging each arriving value by which side produced it
// (§4.6). It terminates only once both sides have terminated, preferring
// an Error reason the same way the same-type Merge does.
func MergeEither[L, R any](left *Node[L], right *Node[R]) *Node[Either[L, R]] {
	merged := newNode[Either[L, R]]("merge-either", FlavorHot)
	merged.persist = true

	var mu sync.Mutex
	var leftDone, rightDone bool
	var leftReason, rightReason Reason

	finish := func() (bool, Reason) {
		if !leftDone || !rightDone {
			return false, Reason{}
		}
		reason := rightReason
		if leftReason.Kind == ErrorReason {
			reason = leftReason
		}
		return true, reason
	}

	linkChild(left, merged, func(_ *Either[L, R], ev Event[L]) Signal[Either[L, R]] {
		switch ev.Kind {
		case EventNext:
			return Push(Left[L, R](ev.Value))
		case EventErr:
			return SigErr[Either[L, R]](ev.Err)
		default:
			mu.Lock()
			leftDone = true
			leftReason = ev.Reason
			done, reason := finish()
			mu.Unlock()
			if done {
				return TerminateWith[Either[L, R]](nil, reason)
			}
			return Merging[Either[L, R]]()
		}
	}, nil)

	linkChild(right, merged, func(_ *Either[L, R], ev Event[R]) Signal[Either[L, R]] {
		switch ev.Kind {
		case EventNext:
			return Push(Right[L, R](ev.Value))
		case EventErr:
			return SigErr[Either[L, R]](ev.Err)
		default:
			mu.Lock()
			rightDone = true
			rightReason = ev.Reason
			done, reason := finish()
			mu.Unlock()
			if done {
				return TerminateWith[Either[L, R]](nil, reason)
			}
			return Merging[Either[L, R]]()
		}
	}, nil)

	return merged
}
