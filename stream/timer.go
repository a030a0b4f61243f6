package stream

import (
	"time"

	"github.com/corvanis/streamkit/stream/dispatch"
)

// Timer is an Observable-flavored tick counter, so a late attacher always
// sees the current tick count immediately (§4.4). Ticking runs on the
// given Runner/Queue via dispatch.After, so a Timer's schedule obeys the
// same per-queue ordering guarantee as every other dispatched event (§5).
type Timer struct {
	node     *Node[int]
	runner   *dispatch.Runner
	queue    dispatch.Queue
	interval time.Duration
	stopCh   chan struct{}
	tick     int
}

// NewTimer creates a stopped Timer seeded at tick 0. Call Start to begin
// ticking.
func NewTimer(name string, runner *dispatch.Runner, queue dispatch.Queue) *Timer {
	n := newNode[int](name, FlavorObservable)
	n.replay = true
	zero := 0
	n.last = &zero
	return &Timer{node: n, runner: runner, queue: queue}
}

// Node exposes the underlying stream node for attaching operators.
func (t *Timer) Node() *Node[int] { return t.node }

// Start begins ticking every interval, after waiting delayFirst for the
// first tick.
func (t *Timer) Start(delayFirst, interval time.Duration) {
	t.interval = interval
	t.stopCh = make(chan struct{})
	t.schedule(delayFirst, t.stopCh, func() bool { return true })
}

func (t *Timer) schedule(delay time.Duration, stop chan struct{}, condition func() bool) {
	var next func()
	next = func() {
		dispatch.After(t.runner, delay, t.queue).Execute(func() {
			select {
			case <-stop:
				return
			default:
			}
			if !condition() {
				return
			}
			t.tick++
			t.node.ingest(Next(t.tick))
			delay = t.interval
			next()
		})
	}
	next()
}

// Restart stops the current ticking loop, if any, and starts a fresh one
// with a new interval.
func (t *Timer) Restart(withInterval time.Duration) {
	t.Stop()
	t.Start(withInterval, withInterval)
}

// Stop halts ticking without terminating the underlying stream; late
// attachers still replay the last tick count.
func (t *Timer) Stop() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

// Terminate stops ticking and terminates the stream.
func (t *Timer) Terminate(reason Reason) {
	t.Stop()
	t.node.ingest(Terminate[int](reason))
}

// ConditionalTimer only schedules its next tick while condition returns
// true, checked immediately before each tick fires.
type ConditionalTimer struct {
	*Timer
	condition func() bool
}

// NewConditionalTimer creates a stopped ConditionalTimer gated by
// condition.
func NewConditionalTimer(name string, runner *dispatch.Runner, queue dispatch.Queue, condition func() bool) *ConditionalTimer {
	return &ConditionalTimer{Timer: NewTimer(name, runner, queue), condition: condition}
}

// Start begins ticking every interval, after waiting delayFirst for the
// first tick, so long as condition holds at each tick.
func (t *ConditionalTimer) Start(delayFirst, interval time.Duration) {
	t.interval = interval
	t.stopCh = make(chan struct{})
	t.schedule(delayFirst, t.stopCh, t.condition)
}
