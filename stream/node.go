package stream

import (
	"sync"
	"weak"

	"github.com/corvanis/streamkit/stream/dispatch"
	"github.com/corvanis/streamkit/stream/emit"
)

// WorkFunc is an operator's work function: given the prior emitted value of
// the child (if any, for operators that carry state such as scan/distinct)
// and an incoming parent event, it produces the Signal describing what the
// child should do (§3.2, §4.1 step 2).
type WorkFunc[T, U any] func(prior *U, ev Event[T]) Signal[U]

// childEdge is the parent-side view of a child link. It is parameterised
// only by T, the parent's own payload type, so a parent's children slice is
// homogeneous even though each child may carry a different payload type U
// (the type-erasure the engine needs for a typed operator graph, §9).
type childEdge[T any] interface {
	id() uint64
	deliver(ev Event[T])
	childFlavor() Flavor
	terminalReason() (bool, Reason)
	laneMatches(key EventKey) bool
	reactivate()
	emitDetach()
}

// edge links a parent Node[T] to a child Node[U] via a work function.
type edge[T, U any] struct {
	child *Node[U]
	work  WorkFunc[T, U]
	lane  *uint64 // non-nil restricts Keyed delivery to this lane id (Cold branches)
}

func (e *edge[T, U]) id() uint64       { return e.child.id }
func (e *edge[T, U]) childFlavor() Flavor { return e.child.flavor }

func (e *edge[T, U]) terminalReason() (bool, Reason) {
	e.child.mu.Lock()
	defer e.child.mu.Unlock()
	return e.child.terminated, e.child.reason
}

func (e *edge[T, U]) reactivate() { e.child.reactivate() }

func (e *edge[T, U]) emitDetach() { e.child.emitEvent(emit.Detach, "", nil) }

func (e *edge[T, U]) laneMatches(key EventKey) bool {
	switch key.Kind {
	case KeyNone:
		return true
	case KeyShared:
		return true
	case KeyKeyed:
		return e.lane != nil && *e.lane == key.ID
	default:
		return true
	}
}

func (e *edge[T, U]) deliver(ev Event[T]) {
	e.child.mu.Lock()
	if e.child.terminated {
		e.child.mu.Unlock()
		return // I1: never deliver into an already-terminated child
	}
	var prior *U
	if e.child.last != nil {
		v := *e.child.last
		prior = &v
	}
	e.child.mu.Unlock()

	sig := e.work(prior, ev)
	switch sig.Kind {
	case SigPush:
		for _, v := range sig.Values {
			e.child.ingest(Next(v))
		}
	case SigError:
		e.child.ingest(ErrEvent[U](sig.Err))
	case SigCancel, SigMerging:
		// suppressed: nothing crosses the edge
	case SigTerminate:
		if sig.Lead != nil {
			e.child.ingest(Next(*sig.Lead))
		}
		e.child.ingest(Terminate[U](sig.Reason))
	}
}

// Node is one vertex in the dataflow graph (§3.3).
type Node[T any] struct {
	mu sync.Mutex

	id     uint64
	name   string
	flavor Flavor

	terminated bool
	reason     Reason

	persist    bool
	replay     bool
	replayNext bool

	last *T

	children []childEdge[T]
	seq      uint64 // not read or written by the engine; Cold numbers its branches with its own counter

	dispatcher dispatch.Dispatcher

	// emitter, if set, receives an emit.Event for every Next/Error/
	// Terminate transition and every child attach/detach on this node
	// (§5 observability). streamID groups events from nodes that belong
	// to the same logical stream for a BufferedEmitter's history; it is
	// inherited by children attached via attach/linkChild.
	emitter  emit.Emitter
	streamID string
	emitSeq  uint64

	// detachSelf notifies this node's parent (if any) that this node has
	// terminated, so the parent can prune it. It closes over a weak
	// pointer to the parent, never a strong one: a child must never keep
	// its parent alive (§3.3).
	detachSelf func()

	hooks hooks[T]

	// selfRef keeps a node with an in-flight async task (Future's
	// constructor task) alive even if its external creator drops it,
	// until the task responds (§3.5). Cleared on termination.
	selfRef *Node[T]
}

func newNode[T any](name string, flavor Flavor) *Node[T] {
	return &Node[T]{
		id:     nextNodeID(),
		name:   name,
		flavor: flavor,
		hooks:  defaultHooks[T](),
	}
}

// Name returns the node's debug descriptor.
func (n *Node[T]) Name() string { return n.name }

// Flavor returns the node's flavor tag.
func (n *Node[T]) Flavor() Flavor { return n.flavor }

// State reports whether the node has terminated, and if so why.
func (n *Node[T]) State() (terminated bool, reason Reason) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.terminated, n.reason
}

// SetDispatcher attaches a dispatcher: from this node down, outgoing events
// are submitted through it rather than run inline on the caller's
// goroutine (§5).
func (n *Node[T]) SetDispatcher(d dispatch.Dispatcher) *Node[T] {
	n.mu.Lock()
	n.dispatcher = d
	n.mu.Unlock()
	return n
}

// SetEmitter attaches an observability emitter: from this node down,
// Next/Error/Terminate transitions and child attach/detach are reported to
// it (§5). Children created afterwards via attach/linkChild inherit both
// the emitter and streamID unless given their own.
func (n *Node[T]) SetEmitter(e emit.Emitter) *Node[T] {
	n.mu.Lock()
	n.emitter = e
	n.mu.Unlock()
	return n
}

// SetStreamID tags this node's emitted events with id, grouping them for
// an emit.BufferedEmitter's per-stream history.
func (n *Node[T]) SetStreamID(id string) *Node[T] {
	n.mu.Lock()
	n.streamID = id
	n.mu.Unlock()
	return n
}

// emitEvent reports a transition to this node's emitter, if any.
func (n *Node[T]) emitEvent(kind emit.Kind, reason string, err error) {
	n.mu.Lock()
	emitter := n.emitter
	streamID := n.streamID
	n.emitSeq++
	seq := n.emitSeq
	n.mu.Unlock()
	if emitter == nil {
		return
	}
	emitter.Emit(emit.Event{
		StreamID: streamID,
		NodeID:   n.id,
		NodeName: n.name,
		Flavor:   n.flavor.String(),
		Seq:      seq,
		Kind:     kind,
		Reason:   reason,
		Err:      err,
	})
}

// Persist keeps the node alive after it loses all children, suppressing
// the upstream-termination-on-prune rule (I5).
func (n *Node[T]) Persist(p bool) *Node[T] {
	n.mu.Lock()
	n.persist = p
	n.mu.Unlock()
	return n
}

// SetReplay configures whether late-attached children receive the last
// emitted value/termination (I3).
func (n *Node[T]) SetReplay(r bool) *Node[T] {
	n.mu.Lock()
	n.replay = r
	n.mu.Unlock()
	return n
}

// ingest runs the five-step event-processing pipeline (§4.1) for one event
// arriving at this node, whether from an upstream edge or a root producer
// (HotInput.Push, ObservableInput.Push, FutureInput.Complete, Timer tick).
func (n *Node[T]) ingest(ev Event[T]) {
	n.mu.Lock()
	if n.terminated {
		n.mu.Unlock()
		return
	}
	pre, ok := n.hooks.preprocess(n, ev)
	if !ok {
		n.mu.Unlock()
		return
	}
	ev = pre

	switch ev.Kind {
	case EventNext:
		v := ev.Value
		n.last = &v
	case EventTerminate:
		n.terminated = true
		n.reason = ev.Reason
	}

	var followUp *Event[T]
	ev, followUp = n.hooks.postprocess(n, ev)
	if ev.Kind == EventTerminate && !n.terminated {
		n.terminated = true
		n.reason = ev.Reason
	}

	children := append([]childEdge[T](nil), n.children...)
	// A Future/Promise's own completion (Completed or Error) skips
	// Future/Promise descendants; a cancellation reaches every child.
	restrictFutureChildren := (n.flavor == FlavorFuture || n.flavor == FlavorPromise) && ev.Kind == EventTerminate && ev.Reason.Kind != Cancelled
	d := n.dispatcher
	n.mu.Unlock()

	switch ev.Kind {
	case EventNext:
		n.emitEvent(emit.Next, "", nil)
	case EventErr:
		n.emitEvent(emit.Error, "", ev.Err)
	case EventTerminate:
		n.emitEvent(emit.Terminate, ev.Reason.Kind.String(), ev.Reason.Err)
	}

	fanout := func() {
		for _, c := range children {
			if !c.laneMatches(ev.Key) {
				continue
			}
			if restrictFutureChildren {
				if f := c.childFlavor(); f == FlavorFuture || f == FlavorPromise {
					continue
				}
			}
			c.deliver(ev)
		}
		if ev.Kind == EventTerminate {
			n.pruneSelf()
		}
		if followUp != nil {
			n.ingest(*followUp)
		}
	}

	if d != nil {
		d.Execute(fanout)
	} else {
		fanout()
	}
}

// pruneSelf notifies this node's parent that it has terminated and
// releases any self-keepalive reference.
func (n *Node[T]) pruneSelf() {
	if n.detachSelf != nil {
		n.detachSelf()
	}
	n.mu.Lock()
	n.selfRef = nil
	n.mu.Unlock()
}

// detachChild removes the child identified by id from this node's child
// list and, if that was the last active child and this node is not
// persisting, terminates this node with the departed child's reason (I5).
func (n *Node[T]) detachChild(id uint64) {
	n.mu.Lock()
	idx := -1
	for i, c := range n.children {
		if c.id() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return
	}
	removed := n.children[idx]
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	remaining := len(n.children)
	persist := n.persist
	terminated := n.terminated
	n.mu.Unlock()

	removed.emitDetach()

	if terminated || persist || remaining > 0 {
		return
	}
	_, reason := removed.terminalReason()
	n.terminateFromPrune(reason)
}

// terminateFromPrune self-terminates because the last active child
// departed and this node does not persist (I5).
func (n *Node[T]) terminateFromPrune(reason Reason) {
	n.mu.Lock()
	if n.terminated {
		n.mu.Unlock()
		return
	}
	n.terminated = true
	n.reason = reason
	n.mu.Unlock()
	n.pruneSelf()
}

// reactivate resets this node, and its entire currently-attached
// subtree, back to Active: the one explicit exception to I1 ("a node
// never returns to Active except via an explicit retry on Promise/
// Progression"). Promise.Retry calls this on its own node rather than
// building a disconnected replacement, so operators already attached
// before the retry (e.g. a retryOn observer's own node) keep receiving
// the retried attempt's events instead of being orphaned against a node
// object nobody can reach anymore. Descendants cascade the same reset
// since a prior termination may already have reached them; their
// operator-local state (closures captured by Map/Scan/etc.) is untouched,
// only the per-node terminated/last bookkeeping resets.
func (n *Node[T]) reactivate() {
	n.mu.Lock()
	n.terminated = false
	n.reason = Reason{}
	n.last = nil
	children := append([]childEdge[T](nil), n.children...)
	n.mu.Unlock()

	for _, c := range children {
		c.reactivate()
	}
}

// Cancel terminates the node with reason Cancelled, equivalent to
// terminate(Cancelled, prune=all, downstream=all).
func (n *Node[T]) Cancel() {
	n.ingest(Terminate[T](Cancellation()))
}

// attach links a new child operator node to parent via work, returning the
// child. It replays the parent's last value/termination into the new
// child when parent.replay is set (I3).
func attach[T, U any](parent *Node[T], name string, flavor Flavor, work WorkFunc[T, U]) *Node[U] {
	return attachLaned[T, U](parent, name, flavor, work, nil)
}

func attachLaned[T, U any](parent *Node[T], name string, flavor Flavor, work WorkFunc[T, U], lane *uint64) *Node[U] {
	child := newNode[U](name, flavor)
	linkChild(parent, child, work, lane)
	return child
}

// linkChild wires an already-constructed child node as a child of parent,
// via work. Unlike attachLaned, it does not create the child: it is used
// by fan-in constructs (merge, zip, combine) that link one pre-built node
// to more than one parent. In that case only the most recent linkChild
// call's detachSelf closure survives, so such a fan-in node must not rely
// on parent-driven pruning (I5 does not apply; it self-terminates from
// its own work-function logic once every parent side has terminated).
//
// A child with no emitter of its own inherits the first parent's emitter/
// streamID it is linked to; a fan-in node's later linkChild calls (its
// second, third, ... parent) never override an emitter already inherited
// from the first.
func linkChild[T, U any](parent *Node[T], child *Node[U], work WorkFunc[T, U], lane *uint64) {
	weakParent := weak.Make(parent)
	childID := child.id
	child.detachSelf = func() {
		if p := weakParent.Value(); p != nil {
			p.detachChild(childID)
		}
	}

	parent.mu.Lock()
	parentEmitter := parent.emitter
	parentStreamID := parent.streamID
	parent.mu.Unlock()

	child.mu.Lock()
	if child.emitter == nil {
		child.emitter = parentEmitter
		child.streamID = parentStreamID
	}
	child.mu.Unlock()

	e := &edge[T, U]{child: child, work: work, lane: lane}
	child.emitEvent(emit.Attach, "", nil)

	parent.mu.Lock()
	parent.children = append(parent.children, e)
	replay := parent.replay
	terminated := parent.terminated
	reason := parent.reason
	var lastVal *T
	if parent.last != nil {
		v := *parent.last
		lastVal = &v
	}
	parent.mu.Unlock()

	switch {
	case terminated:
		// The node's last emission is its terminal reason, but a
		// replaying node's settled value precedes it in the same
		// activation (Future/Promise's one Push followed by
		// Terminate(Completed)) and must still reach a late attacher,
		// or a synchronously-resolved Future could never be observed
		// at all (§8 scenario 4).
		if replay && lastVal != nil {
			e.deliver(Next(*lastVal))
		}
		e.deliver(Terminate[T](reason))
	case replay && lastVal != nil:
		e.deliver(Next(*lastVal))
	}
}

// Identity is the work function every pass-through operator (observers,
// lifecycle no-ops) is built from: forward Next/Error as-is, terminate on
// Terminate.
func Identity[T any](_ *T, ev Event[T]) Signal[T] {
	switch ev.Kind {
	case EventNext:
		return Push(ev.Value)
	case EventErr:
		return SigErr[T](ev.Err)
	default:
		return TerminateWith[T](nil, ev.Reason)
	}
}
