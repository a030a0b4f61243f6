package stream

import "sync"

// Promise is a retryable Future. Retry invokes task again on the same
// node and revives the subtree already attached to it, so operators
// attached before a Retry observe the retried attempt (§4.4).
//
// reuse(true) replays the settled result into every late attacher
// rather than re-running task. Without it, Node() on a settled Promise
// starts a fresh attempt on a new node generation, and only operators
// attached from then on observe that generation.
type Promise[T any] struct {
	mu    sync.Mutex
	name  string
	task  func(complete func(Result[T]))
	reuse bool
	node  *Node[T]
}

func newPromiseNode[T any](name string) *Node[T] {
	n := newNode[T](name, FlavorPromise)
	n.hooks = futureHooks[T]()
	return n
}

// NewPromise constructs a Promise around task and starts the first
// attempt immediately.
func NewPromise[T any](name string, task func(complete func(Result[T]))) *Promise[T] {
	p := &Promise[T]{name: name, task: task}
	n := newPromiseNode[T](name)
	n.selfRef = n
	p.node = n
	p.run(n)
	return p
}

func (p *Promise[T]) run(n *Node[T]) {
	p.task(func(r Result[T]) {
		if v, ok := r.Value(); ok {
			n.ingest(Next(v))
		} else {
			n.ingest(ErrEvent[T](r.Error()))
		}
	})
}

// Reuse configures whether a settled Promise replays its stored result to
// late attachers (true, memoized) or re-invokes task on next attach
// (false, default) (§4.4 reuse(bool)).
func (p *Promise[T]) Reuse(r bool) *Promise[T] {
	p.mu.Lock()
	p.reuse = r
	p.node.SetReplay(r)
	p.mu.Unlock()
	return p
}

// Node exposes the current generation's stream node for attaching
// operators. When reuse is false and the current generation has already
// settled, Node starts a fresh attempt first so the new attacher
// observes its own run, not the stale result (§4.4).
func (p *Promise[T]) Node() *Node[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reuse {
		return p.node
	}
	if terminated, _ := p.node.State(); terminated {
		n := newPromiseNode[T](p.name)
		n.selfRef = n
		p.node = n
		p.run(n)
	}
	return p.node
}

// Retry discards any settled result, regardless of reuse, and starts a
// fresh attempt on the same node and its already-attached subtree (§4.4
// retry(), I1's "explicit retry" exception). Operators attached before
// the retry -- including a retryOn observer's own node -- keep observing
// this Promise rather than being orphaned against a disconnected
// replacement.
func (p *Promise[T]) Retry() {
	p.mu.Lock()
	n := p.node
	p.mu.Unlock()

	n.reactivate()
	n.mu.Lock()
	n.selfRef = n
	n.mu.Unlock()
	p.run(n)
}

// Cancel cancels the in-flight attempt.
func (p *Promise[T]) Cancel() {
	p.mu.Lock()
	n := p.node
	p.mu.Unlock()
	n.Cancel()
}
