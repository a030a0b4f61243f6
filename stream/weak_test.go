package stream

import (
	"runtime"
	"testing"
	"time"

	"github.com/corvanis/streamkit/stream/dispatch"
)

type weakHeldResource struct{ label string }

func TestUsingPassesStrongReferenceThroughWhileObjectIsAlive(t *testing.T) {
	obj := &weakHeldResource{label: "held"}
	parent := NewHotInput[int]("source")
	derived := Using(parent.Node(), obj, func(o *weakHeldResource, v int) int {
		return v + len(o.label)
	})

	var got int
	On(derived, func(v int) { got = v })

	parent.Push(10)
	runtime.KeepAlive(obj)

	if got != 14 {
		t.Fatalf("got = %d, want 14 (10 + len(\"held\"))", got)
	}
}

func TestUsingTerminatesOnceObjectIsCollected(t *testing.T) {
	parent := NewHotInput[int]("source")
	var derived *Node[int]
	func() {
		obj := &weakHeldResource{label: "x"}
		derived = Using(parent.Node(), obj, func(o *weakHeldResource, v int) int { return v })
	}()

	var reason Reason
	var terminated bool
	OnTerminate(derived, func(r Reason) { reason, terminated = r, true })

	for i := 0; i < 10 && !terminated; i++ {
		runtime.GC()
		parent.Push(1)
	}

	if !terminated {
		t.Skip("object was not collected within the GC attempts; weak-release timing is not guaranteed")
	}
	if reason.Kind != ErrorReason || reason.Err != ErrWeakReleased {
		t.Errorf("reason = %+v, want ErrorReason wrapping ErrWeakReleased", reason)
	}
}

func TestLifeOfTerminatesIndependentlyOfParentOnceObjectIsCollected(t *testing.T) {
	parent := NewHotInput[int]("source")
	timer := NewTimer("watch", dispatch.NewRunner(), dispatch.Background())
	timer.Start(2*time.Millisecond, 2*time.Millisecond)
	defer timer.Stop()

	var derived *Node[int]
	func() {
		obj := &weakHeldResource{label: "y"}
		derived = LifeOf(parent.Node(), obj, timer)
	}()

	var reason Reason
	var terminated bool
	OnTerminate(derived, func(r Reason) { reason, terminated = r, true })

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) && !terminated {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}

	if !terminated {
		t.Skip("object was not collected within the deadline; weak-release timing is not guaranteed")
	}
	if reason.Kind != ErrorReason || reason.Err != ErrWeakReleased {
		t.Errorf("reason = %+v, want ErrorReason wrapping ErrWeakReleased", reason)
	}
}
