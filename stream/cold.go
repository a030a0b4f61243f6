package stream

import (
	"context"
	"sync"
)

// ColdWorker performs one Cold request, producing a Result. Request
// invokes it directly on the caller's goroutine; a dispatcher set on a
// node (SetDispatcher) moves only the delivery of the result, not this
// call.
type ColdWorker[R, T any] func(ctx context.Context, req R) Result[T]

// Cold is a request/response stream flavor: no work happens until a
// caller opens a branch and issues a request, and concurrent branches on
// the same Cold never observe each other's responses (§4.4). Each branch
// gets its own fan-out lane (§4.2 KeyKeyed), computed the same way a Cold
// request/response pair is correlated: hash(rootID, branchSeq).
type Cold[R, T any] struct {
	root   *Node[T]
	worker ColdWorker[R, T]

	mu  sync.Mutex
	seq uint64
}

// NewCold constructs a Cold stream driven by worker. The root node
// persists across branch churn, since branches come and go independently
// of one another and of the Cold itself (§4.4).
func NewCold[R, T any](name string, worker ColdWorker[R, T]) *Cold[R, T] {
	root := newNode[T](name, FlavorCold)
	root.persist = true
	return &Cold[R, T]{root: root, worker: worker}
}

// ColdBranch is one independent attach point on a Cold stream. Requests
// issued on one branch are delivered only to that branch, unless the
// branch was opened with Share.
type ColdBranch[R, T any] struct {
	cold   *Cold[R, T]
	lane   uint64
	shared bool
	node   *Node[T]
}

// Branch opens a new, independently-keyed branch: its Request calls
// never cross-deliver to another branch (§4.2 KeyKeyed).
func (c *Cold[R, T]) Branch(name string) *ColdBranch[R, T] {
	c.mu.Lock()
	c.seq++
	lane := ComputeRequestKey(c.root.id, c.seq)
	c.mu.Unlock()

	laneCopy := lane
	child := attachLaned(c.root, name, FlavorCold, Identity[T], &laneCopy)
	return &ColdBranch[R, T]{cold: c, lane: lane, node: child}
}

// Share opens a branch whose responses are stamped with id and delivered
// to every branch of this Cold, keyed or shared, instead of isolated to
// one (§4.2 KeyShared) -- used when several callers want to observe the
// same in-flight request's result.
func (c *Cold[R, T]) Share(name string, id uint64) *ColdBranch[R, T] {
	child := attach(c.root, name, FlavorCold, Identity[T])
	return &ColdBranch[R, T]{cold: c, lane: id, shared: true, node: child}
}

// Node exposes the branch's stream node for attaching operators.
func (b *ColdBranch[R, T]) Node() *Node[T] { return b.node }

// Request runs the Cold's worker for req and delivers the result to this
// branch (or, for a Share branch, to every branch of the Cold).
func (b *ColdBranch[R, T]) Request(ctx context.Context, req R) {
	r := b.cold.worker(ctx, req)
	key := Keyed(b.lane)
	if b.shared {
		key = Shared(b.lane)
	}
	if v, ok := r.Value(); ok {
		b.cold.root.ingest(Next(v).WithKey(key))
	} else {
		b.cold.root.ingest(ErrEvent[T](r.Error()).WithKey(key))
	}
}

// Cancel detaches this branch without affecting the Cold or other
// branches.
func (b *ColdBranch[R, T]) Cancel() {
	b.node.Cancel()
}

// MapRequest composes a request transform in front of a Cold: the
// returned Cold accepts requests of type S, converts each through fn,
// and delegates to the original Cold's worker, so callers can adapt one
// Cold's request type to fit a caller that only knows S (§4.3
// "Cold supports mapRequest to compose request transforms").
func MapRequest[S, R, T any](c *Cold[R, T], fn func(S) R) *Cold[S, T] {
	return &Cold[S, T]{
		root: c.root,
		worker: func(ctx context.Context, req S) Result[T] {
			return c.worker(ctx, fn(req))
		},
	}
}
