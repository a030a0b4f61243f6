package stream

import (
	"testing"
	"time"

	"github.com/corvanis/streamkit/stream/dispatch"
)

func TestStrideThrottleAdmitsEveryNthCallAndRunsItInline(t *testing.T) {
	th := NewStrideThrottle(3)

	var ran []int
	var decisions []ThrottleDecision
	for i := 1; i <= 6; i++ {
		i := i
		decisions = append(decisions, th.Process(func(finish func()) {
			ran = append(ran, i)
			finish()
		}))
	}

	want := []ThrottleDecision{DropWork, DropWork, Perform, DropWork, DropWork, Perform}
	for i := range want {
		if decisions[i] != want[i] {
			t.Fatalf("decisions[%d] = %v, want %v (stride 3 admits every 3rd call)", i, decisions[i], want[i])
		}
	}
	if len(ran) != 2 || ran[0] != 3 || ran[1] != 6 {
		t.Fatalf("ran = %v, want [3 6] (only admitted work actually runs)", ran)
	}
}

func TestTimedThrottleRunsFirstWorkImmediatelyWhenNotDelayFirst(t *testing.T) {
	runner := dispatch.NewRunner()
	th := NewTimedThrottle(20*time.Millisecond, false, runner, dispatch.Background())

	var ran []int
	th.Process(func(finish func()) { ran = append(ran, 1); finish() })

	if len(ran) != 1 || ran[0] != 1 {
		t.Fatalf("ran = %v, want [1] (first work runs immediately when delayFirst is false)", ran)
	}
}

func TestTimedThrottleCoalescesSubmissionsWithinOneIntervalAndReplaysTheNewest(t *testing.T) {
	runner := dispatch.NewRunner()
	th := NewTimedThrottle(20*time.Millisecond, true, runner, dispatch.Background())

	done := make(chan struct{}, 1)
	var ran []int
	record := func(v int) func(finish func()) {
		return func(finish func()) {
			ran = append(ran, v)
			finish()
			select {
			case done <- struct{}{}:
			default:
			}
		}
	}

	th.Process(record(1))
	th.Process(record(2))
	th.Process(record(3))

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed-out waiting for the coalesced work to run")
	}

	if len(ran) != 1 || ran[0] != 3 {
		t.Fatalf("ran = %v, want [3] (only the newest coalesced submission survives the interval)", ran)
	}
}

func TestPressureThrottleAdmitsUpToLimitPlusBufferThenDrops(t *testing.T) {
	th := NewPressureThrottle(1, 1)

	var finishers []func()
	admit := func() ThrottleDecision {
		return th.Process(func(finish func()) { finishers = append(finishers, finish) })
	}

	if admit() != Perform {
		t.Fatal("first call should take the in-flight slot")
	}
	if admit() != Perform {
		t.Fatal("second call should take the buffer slot, not run inline")
	}
	if len(finishers) != 1 {
		t.Fatalf("len(finishers) = %d, want 1 (buffered work must not run until a slot frees)", len(finishers))
	}
	if admit() != DropWork {
		t.Fatal("third call must be dropped once both slots are full")
	}

	finishers[0]()
	if len(finishers) != 2 {
		t.Fatalf("len(finishers) = %d, want 2 (completing the in-flight work must pull the buffered one in)", len(finishers))
	}

	if admit() != Perform {
		t.Fatal("a call after a slot frees must be admitted again")
	}
}

func TestPressureThrottleNeverExceedsLimitConcurrently(t *testing.T) {
	th := NewPressureThrottle(2, 10)

	var finishers []func()
	for i := 0; i < 5; i++ {
		th.Process(func(finish func()) { finishers = append(finishers, finish) })
	}

	if len(finishers) != 2 {
		t.Fatalf("len(finishers) = %d, want 2 (only limit works may run concurrently, the rest stay buffered)", len(finishers))
	}
}

func TestThrottleNodeDropsValuesTheThrottleRejects(t *testing.T) {
	parent := NewHotInput[int]("source")
	throttled := ThrottleNode(parent.Node(), NewStrideThrottle(2))

	var got []int
	On(throttled, func(v int) { got = append(got, v) })

	for i := 1; i <= 4; i++ {
		parent.Push(i)
	}

	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("got = %v, want [2 4] (every 2nd value admitted)", got)
	}
}

func TestThrottleNodePropagatesTerminationRegardlessOfThrottleState(t *testing.T) {
	parent := NewHotInput[int]("source")
	throttled := ThrottleNode(parent.Node(), NewStrideThrottle(100))

	var terminated bool
	OnTerminate(throttled, func(Reason) { terminated = true })

	parent.Terminate(Completion())

	if !terminated {
		t.Error("ThrottleNode must forward termination even if the throttle would have dropped a value")
	}
}
