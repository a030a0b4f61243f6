// Package dispatch is the abstract handle the engine uses to run a block
// inline, synchronously or asynchronously on a named queue, or after a
// delay. Spec.md scopes the concrete thread pool as an external
// collaborator ("the host dispatch/timer facility... is an interface the
// core depends on but does not define"); this package supplies that
// interface plus a reference goroutine-backed implementation so the engine
// is independently testable without a host.
package dispatch

import "time"

// Dispatcher runs a block of work according to its own policy: inline on
// the caller's goroutine, serialized onto a named queue, or scheduled for
// later. Inline, Sync, and Async on a serial queue keep the ordering
// guarantee from §5: two blocks submitted in order from the same caller
// run in that order. Async on a concurrent Custom queue runs blocks on
// several workers at once, and After starts a separate timer per block,
// so neither of those keeps that order.
type Dispatcher interface {
	Execute(block func())
}

// QueueKind names the category of queue a block is submitted to.
type QueueKind uint8

const (
	KindMain QueueKind = iota
	KindBackground
	KindPriorityBackground
	KindCustom
)

// Queue identifies a named execution lane. Two Queue values with the same
// Name refer to the same underlying worker.
type Queue struct {
	Kind   QueueKind
	Name   string
	Level  int
	Serial bool
}

// Main is the conventional UI/foreground queue: serial.
func Main() Queue { return Queue{Kind: KindMain, Name: "main", Serial: true} }

// Background is a general-purpose serial background queue.
func Background() Queue { return Queue{Kind: KindBackground, Name: "background", Serial: true} }

// PriorityBackground is a background queue at the given priority level;
// level is opaque to the dispatcher and only used to key distinct queues.
func PriorityBackground(level int) Queue {
	return Queue{Kind: KindPriorityBackground, Name: "priority-background", Level: level, Serial: true}
}

// Custom names an arbitrary queue, serial or concurrent.
func Custom(name string, serial bool) Queue {
	return Queue{Kind: KindCustom, Name: name, Serial: serial}
}

// inlineDispatcher runs every block synchronously on the calling goroutine.
type inlineDispatcher struct{}

// Inline returns the dispatcher used when no explicit dispatcher is
// attached to a node: event delivery runs on the thread that called
// on_event/push/request (§5).
func Inline() Dispatcher { return inlineDispatcher{} }

func (inlineDispatcher) Execute(block func()) { block() }

// asyncDispatcher posts a block to a named queue without blocking the
// caller.
type asyncDispatcher struct {
	runner *Runner
	queue  Queue
}

// Async returns a dispatcher that submits blocks to queue on runner
// without waiting for them to run.
func Async(runner *Runner, queue Queue) Dispatcher {
	return asyncDispatcher{runner: runner, queue: queue}
}

func (d asyncDispatcher) Execute(block func()) {
	d.runner.submit(d.queue, block)
}

// syncDispatcher posts a block to a named queue and blocks the caller
// until it has run, mirroring a serial-queue "sync" dispatch.
type syncDispatcher struct {
	runner *Runner
	queue  Queue
}

// Sync returns a dispatcher that submits blocks to queue on runner and
// waits for them to complete before returning.
func Sync(runner *Runner, queue Queue) Dispatcher {
	return syncDispatcher{runner: runner, queue: queue}
}

func (d syncDispatcher) Execute(block func()) {
	done := make(chan struct{})
	d.runner.submit(d.queue, func() {
		block()
		close(done)
	})
	<-done
}

// afterDispatcher schedules a block to run on a queue after a delay.
type afterDispatcher struct {
	runner *Runner
	queue  Queue
	delay  time.Duration
}

// After returns a dispatcher that runs blocks on queue, delay after each
// Execute call. Used by delay(d), retry delays, and Timer's schedule.
func After(runner *Runner, delay time.Duration, queue Queue) Dispatcher {
	return afterDispatcher{runner: runner, queue: queue, delay: delay}
}

func (d afterDispatcher) Execute(block func()) {
	time.AfterFunc(d.delay, func() {
		d.runner.submit(d.queue, block)
	})
}

// Chain lets a caller dispatch a block, then hand the continuation of that
// block off to a different dispatcher, matching §6's
// "chain.then(next-dispatcher, block)".
type Chain struct {
	current Dispatcher
}

// NewChain starts a dispatch chain on the given dispatcher.
func NewChain(d Dispatcher) Chain { return Chain{current: d} }

// Execute runs block on the chain's current dispatcher.
func (c Chain) Execute(block func()) { c.current.Execute(block) }

// Then runs block on next once the chain's current dispatcher has had a
// turn, and returns a chain continuing from next.
func (c Chain) Then(next Dispatcher, block func()) Chain {
	c.current.Execute(func() { next.Execute(block) })
	return Chain{current: next}
}
