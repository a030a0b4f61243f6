package stream

import (
	"errors"
	"testing"

	"github.com/corvanis/streamkit/stream/dispatch"
)

func TestDelayReingestsEventsThroughTheGivenDispatcher(t *testing.T) {
	src := NewHotInput[int]("source")
	delayed := Delay(src.Node(), dispatch.Inline())

	var got []int
	On(delayed, func(v int) { got = append(got, v) })

	src.Push(1)
	src.Push(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got = %v, want [1 2]", got)
	}
}

func TestConcatRunsProducersInOrderAndForwardsEachUntilItCompletes(t *testing.T) {
	var firstInput, secondInput *HotInput[int]
	producers := []func() *Node[int]{
		func() *Node[int] {
			firstInput = NewHotInput[int]("first")
			return firstInput.Node()
		},
		func() *Node[int] {
			secondInput = NewHotInput[int]("second")
			return secondInput.Node()
		},
	}

	out := Concat(producers)

	var got []int
	var terminated bool
	On(out, func(v int) { got = append(got, v) })
	OnTerminate(out, func(Reason) { terminated = true })

	firstInput.Push(1)
	firstInput.Push(2)
	firstInput.Terminate(Completion())

	if secondInput == nil {
		t.Fatal("Concat must start the second producer once the first completes")
	}

	secondInput.Push(3)
	secondInput.Terminate(Completion())

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got = %v, want [1 2 3]", got)
	}
	if !terminated {
		t.Error("Concat must terminate once every producer has completed")
	}
}

func TestConcatStopsOnProducerError(t *testing.T) {
	boom := errors.New("boom")
	var firstInput, secondInput *HotInput[int]
	started := false
	producers := []func() *Node[int]{
		func() *Node[int] {
			firstInput = NewHotInput[int]("first")
			return firstInput.Node()
		},
		func() *Node[int] {
			started = true
			secondInput = NewHotInput[int]("second")
			return secondInput.Node()
		},
	}

	out := Concat(producers)

	var reason Reason
	OnTerminate(out, func(r Reason) { reason = r })

	firstInput.Terminate(Failure(boom))

	if started {
		t.Error("Concat must not advance to the next producer after an error termination")
	}
	if reason.Kind != ErrorReason || reason.Err != boom {
		t.Errorf("reason = %+v, want ErrorReason wrapping %v", reason, boom)
	}
}

func TestDefaultValuePushesDefaultOnlyIfNothingWasPushed(t *testing.T) {
	src := NewHotInput[int]("source")
	withDefault := DefaultValue(src.Node(), 99)

	var got int
	On(withDefault, func(v int) { got = v })
	src.Terminate(Completion())

	if got != 99 {
		t.Fatalf("got = %d, want 99 (default since no value was pushed)", got)
	}
}

func TestDefaultValueDoesNotPushDefaultIfAValueWasSeen(t *testing.T) {
	src := NewHotInput[int]("source")
	withDefault := DefaultValue(src.Node(), 99)

	var got []int
	On(withDefault, func(v int) { got = append(got, v) })
	src.Push(1)
	src.Terminate(Completion())

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got = %v, want [1] (default suppressed since a value arrived)", got)
	}
}

func TestDoWhileTerminatesOnTheFirstValueThatFailsThePredicate(t *testing.T) {
	src := NewHotInput[int]("source")
	out := DoWhile(src.Node(), func(v int) bool { return v < 3 })

	var got []int
	var terminated bool
	On(out, func(v int) { got = append(got, v) })
	OnTerminate(out, func(Reason) { terminated = true })

	src.Push(1)
	src.Push(2)
	src.Push(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got = %v, want [1 2] (3 fails the predicate and is not forwarded)", got)
	}
	if !terminated {
		t.Error("DoWhile must terminate once the predicate fails")
	}
}

func TestUntilForwardsTheValueThatSatisfiesThePredicateThenTerminates(t *testing.T) {
	src := NewHotInput[int]("source")
	out := Until(src.Node(), func(v int) bool { return v == 3 })

	var got []int
	On(out, func(v int) { got = append(got, v) })

	src.Push(1)
	src.Push(2)
	src.Push(3)
	src.Push(4)

	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("got = %v, want [1 2 3] (the satisfying value is forwarded, then the stream stops)", got)
	}
}

func TestNextLimitTerminatesAfterTheNthValueWithTheGivenReason(t *testing.T) {
	src := NewHotInput[int]("source")
	out := NextLimit(src.Node(), 2, Cancellation())

	var got []int
	var reason Reason
	On(out, func(v int) { got = append(got, v) })
	OnTerminate(out, func(r Reason) { reason = r })

	src.Push(1)
	src.Push(2)
	src.Push(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got = %v, want [1 2]", got)
	}
	if reason.Kind != Cancelled {
		t.Errorf("reason.Kind = %v, want Cancelled", reason.Kind)
	}
}
