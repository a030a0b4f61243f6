package stream

import (
	"sync"
	"time"

	"github.com/corvanis/streamkit/stream/dispatch"
)

// ThrottleDecision is what a throttle decided for one incoming unit of
// work (§4.4).
type ThrottleDecision uint8

const (
	// Perform means work was run, or accepted to run later under the
	// throttle's own schedule.
	Perform ThrottleDecision = iota
	// DropWork means work was discarded outright and will never run; the
	// caller can account for the drop (§4.8).
	DropWork
)

// Throttle is an interposing policy that decides, for each submitted unit
// of work, when (or whether) it runs. Process owns scheduling the work
// itself -- it may invoke it inline, queue it for later, or discard it --
// rather than merely advising the caller to run it (§4.8). work must call
// finish exactly once when its own completion occurs, so a throttle that
// bounds concurrency (Pressure) knows when a slot has freed up.
type Throttle interface {
	Process(work func(finish func())) ThrottleDecision
}

// TimedThrottle coalesces work: at most one work per interval survives,
// a newer submission replacing whatever is still buffered from an
// unelapsed interval. The buffered work runs once the interval elapses,
// scheduled via after/queue the same way Delay and Timer reschedule
// (§4.8, §5). Bears no interaction with a work's own completion -- the
// next interval's tick fires on the clock regardless of whether the
// previous work called finish.
type TimedThrottle struct {
	mu         sync.Mutex
	interval   time.Duration
	delayFirst bool
	runner     *dispatch.Runner
	queue      dispatch.Queue

	seenFirst bool
	scheduled bool
	pending   func(finish func())
}

// NewTimedThrottle constructs a TimedThrottle with the given interval. If
// delayFirst is false, the first submitted work runs immediately instead
// of waiting out the first interval.
func NewTimedThrottle(interval time.Duration, delayFirst bool, runner *dispatch.Runner, queue dispatch.Queue) *TimedThrottle {
	return &TimedThrottle{interval: interval, delayFirst: delayFirst, runner: runner, queue: queue}
}

// Process admits work immediately if this is the first call and
// delayFirst is false; otherwise it buffers work, replacing whatever
// this interval's previous submission left pending, and arms the next
// tick if one isn't already scheduled.
func (t *TimedThrottle) Process(work func(finish func())) ThrottleDecision {
	t.mu.Lock()
	if !t.seenFirst && !t.delayFirst {
		t.seenFirst = true
		t.mu.Unlock()
		work(noopFinish)
		return Perform
	}
	t.seenFirst = true
	t.pending = work
	needsArm := !t.scheduled
	t.scheduled = true
	t.mu.Unlock()

	if needsArm {
		t.armNextTick()
	}
	return Perform
}

func (t *TimedThrottle) armNextTick() {
	dispatch.After(t.runner, t.interval, t.queue).Execute(func() {
		t.mu.Lock()
		w := t.pending
		t.pending = nil
		t.scheduled = false
		t.mu.Unlock()
		if w != nil {
			w(noopFinish)
		}
	})
}

func noopFinish() {}

// StrideThrottle admits every nth submission, running it inline, and
// drops the rest.
type StrideThrottle struct {
	mu    sync.Mutex
	n     int
	count int
}

// NewStrideThrottle constructs a StrideThrottle admitting every nth call.
func NewStrideThrottle(n int) *StrideThrottle {
	if n < 1 {
		n = 1
	}
	return &StrideThrottle{n: n}
}

// Process runs work inline on every nth call and drops the rest.
func (t *StrideThrottle) Process(work func(finish func())) ThrottleDecision {
	t.mu.Lock()
	t.count++
	admit := t.count%t.n == 0
	t.mu.Unlock()
	if !admit {
		return DropWork
	}
	work(noopFinish)
	return Perform
}

// PressureThrottle bounds in-flight concurrency at limit works; once that
// many are running, further submissions queue in a FIFO of capacity
// buffer, and once that FIFO is also full, further submissions are
// dropped (§4.8, §8 "#inflight ≤ k"). A work's completion (its call to
// finish) pulls the next queued work under the same serialising lock that
// admitted it, so the in-flight count never exceeds limit even while
// draining the backlog.
type PressureThrottle struct {
	mu       sync.Mutex
	limit    int
	buffer   int
	inFlight int
	pending  []func(finish func())
}

// NewPressureThrottle constructs a PressureThrottle with limit in-flight
// slots backed by an additional buffer pending slots.
func NewPressureThrottle(limit, buffer int) *PressureThrottle {
	if limit < 1 {
		limit = 1
	}
	return &PressureThrottle{limit: limit, buffer: buffer}
}

// Process runs work immediately if an in-flight slot is free, queues it
// if the buffer has room, or drops it outright once both are full.
func (t *PressureThrottle) Process(work func(finish func())) ThrottleDecision {
	t.mu.Lock()
	if t.inFlight < t.limit {
		t.inFlight++
		t.mu.Unlock()
		t.run(work)
		return Perform
	}
	if len(t.pending) >= t.buffer {
		t.mu.Unlock()
		return DropWork
	}
	t.pending = append(t.pending, work)
	t.mu.Unlock()
	return Perform
}

// Depth reports the current buffer occupancy, for metrics (e.g.
// metrics.StreamMetrics.RecordQueueDepth).
func (t *PressureThrottle) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

func (t *PressureThrottle) run(work func(finish func())) {
	work(func() { t.release() })
}

// release is called once by the finish closure passed to a run work,
// pulling the next buffered work (if any) into the slot it just freed,
// serialised under the same lock Process admits under.
func (t *PressureThrottle) release() {
	t.mu.Lock()
	if len(t.pending) > 0 {
		next := t.pending[0]
		t.pending = t.pending[1:]
		t.mu.Unlock()
		t.run(next)
		return
	}
	t.inFlight--
	t.mu.Unlock()
}

// ThrottleNode wraps parent so each Next value is submitted to th as a
// unit of work; the throttle's own schedule decides when (or whether) it
// reaches the child (§4.8). Values th drops never reach a child at all.
func ThrottleNode[T any](parent *Node[T], th Throttle) *Node[T] {
	var child *Node[T]
	child = attach(parent, "throttle", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			v := ev.Value
			th.Process(func(finish func()) {
				child.ingest(Next(v))
				finish()
			})
			return NoOp[T]()
		case EventErr:
			return SigErr[T](ev.Err)
		default:
			return TerminateWith[T](nil, ev.Reason)
		}
	})
	return child
}
