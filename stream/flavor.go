package stream

// Flavor tags which of the six stream kinds a node is, constraining
// replay, error handling, and termination (§4.4, GLOSSARY).
type Flavor uint8

const (
	FlavorBase Flavor = iota
	FlavorHot
	FlavorCold
	FlavorObservable
	FlavorFuture
	FlavorPromise
	FlavorProgression
)

func (f Flavor) String() string {
	switch f {
	case FlavorHot:
		return "Hot"
	case FlavorCold:
		return "Cold"
	case FlavorObservable:
		return "Observable"
	case FlavorFuture:
		return "Future"
	case FlavorPromise:
		return "Promise"
	case FlavorProgression:
		return "Progression"
	default:
		return "Base"
	}
}

// hooks bundles the flavor-specific pre/post-processing behaviour a node
// applies around every event it ingests (§4.1 step 1 and step 3). Modelled
// as a small table of functions rather than inheritance, per the teacher's
// dynamic-dispatch-by-tagged-variant design (graph/node.go's NodeFunc
// adapter plays the analogous role for Node behaviour).
type hooks[T any] struct {
	// preprocess may swallow, transform, or upgrade an incoming event
	// before it reaches the node's own state machine. Returning ok=false
	// drops the event entirely.
	preprocess func(n *Node[T], ev Event[T]) (Event[T], bool)

	// postprocess runs after the node has applied ev to its own state
	// (last-value buffer, terminated flag) and immediately before fan-out.
	// It returns the event to fan out (normally ev unchanged) and an
	// optional follow-up event to ingest once that fan-out completes --
	// used by Future/Promise to deliver a Next value and then, separately,
	// self-terminate Completed.
	postprocess func(n *Node[T], ev Event[T]) (Event[T], *Event[T])
}

func defaultHooks[T any]() hooks[T] {
	return hooks[T]{
		preprocess:  func(_ *Node[T], ev Event[T]) (Event[T], bool) { return ev, true },
		postprocess: func(_ *Node[T], ev Event[T]) (Event[T], *Event[T]) { return ev, nil },
	}
}
