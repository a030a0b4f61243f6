package stream

import (
	"errors"
	"testing"
)

func TestProgressionDeliversUpdatesThenCompletesWithResult(t *testing.T) {
	p := NewProgression[string]("upload")

	var updates []ProgressUpdate
	var result string
	var terminated bool
	OnProgress(p.Node(), func(u ProgressUpdate) { updates = append(updates, u) })
	On(p.Node(), func(v progress[string]) {
		if r, ok := v.RightValue(); ok {
			result = r
		}
	})
	OnTerminate(p.Node(), func(Reason) { terminated = true })

	p.Progress(1, 4, "upload", "chunks")
	p.Progress(2, 4, "upload", "chunks")
	p.Complete("done")

	if len(updates) != 2 || updates[0].Current != 1 || updates[1].Current != 2 {
		t.Fatalf("updates = %+v, want two progress updates with Current 1 then 2", updates)
	}
	if result != "done" {
		t.Errorf("result = %q, want %q", result, "done")
	}
	if !terminated {
		t.Error("Progression must terminate Completed once the final result arrives")
	}
}

func TestProgressionFailTerminatesWithError(t *testing.T) {
	p := NewProgression[string]("upload")
	boom := errors.New("boom")

	var reason Reason
	OnTerminate(p.Node(), func(r Reason) { reason = r })

	p.Fail(boom)

	if reason.Kind != ErrorReason {
		t.Fatalf("reason.Kind = %v, want ErrorReason", reason.Kind)
	}
	if reason.Err != boom {
		t.Errorf("reason.Err = %v, want %v", reason.Err, boom)
	}
}

func TestNewProgressionTaskRunsTaskAndRelaysReportedUpdates(t *testing.T) {
	p := NewProgressionTask[string]("upload", func(report func(ProgressUpdate), complete func(Result[string])) {
		report(ProgressUpdate{Current: 1, Total: 2, Title: "upload", Unit: "chunks"})
		report(ProgressUpdate{Current: 2, Total: 2, Title: "upload", Unit: "chunks"})
		complete(Ok("done"))
	})

	var updates []ProgressUpdate
	var result string
	var terminated bool
	OnProgress(p.Node(), func(u ProgressUpdate) { updates = append(updates, u) })
	On(p.Node(), func(v progress[string]) {
		if r, ok := v.RightValue(); ok {
			result = r
		}
	})
	OnTerminate(p.Node(), func(Reason) { terminated = true })

	if len(updates) != 2 || updates[0].Current != 1 || updates[1].Current != 2 {
		t.Fatalf("updates = %+v, want two progress updates with Current 1 then 2", updates)
	}
	if result != "done" {
		t.Errorf("result = %q, want %q", result, "done")
	}
	if !terminated {
		t.Error("NewProgressionTask must terminate Completed once task calls complete")
	}
}

func TestNewProgressionTaskFailurePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	p := NewProgressionTask[int]("download", func(report func(ProgressUpdate), complete func(Result[int])) {
		complete(Err[int](boom))
	})

	var reason Reason
	OnTerminate(p.Node(), func(r Reason) { reason = r })

	if reason.Kind != ErrorReason {
		t.Fatalf("reason.Kind = %v, want ErrorReason", reason.Kind)
	}
	if reason.Err != boom {
		t.Errorf("reason.Err = %v, want %v", reason.Err, boom)
	}
}

func TestMapProgressTransformsResultAndRelaysUpdates(t *testing.T) {
	p := NewProgression[int]("count")
	mapped := MapProgress(p.Node(), func(n int) string { return "done" })

	var updateSeen bool
	var result string
	OnProgress(mapped, func(ProgressUpdate) { updateSeen = true })
	On(mapped, func(v progress[string]) {
		if r, ok := v.RightValue(); ok {
			result = r
		}
	})

	p.Progress(5, 10, "count", "items")
	p.Complete(42)

	if !updateSeen {
		t.Error("MapProgress must relay intermediate progress updates unchanged")
	}
	if result != "done" {
		t.Errorf("result = %q, want %q", result, "done")
	}
}

func TestCombineProgressWaitsForBothResultsAndRelaysEitherSideUpdates(t *testing.T) {
	pa := NewProgression[int]("a")
	pb := NewProgression[string]("b")
	merged := CombineProgress(pa.Node(), pb.Node())

	var updates int
	var result EitherAnd[int, string]
	var terminated bool
	OnProgress(merged, func(ProgressUpdate) { updates++ })
	On(merged, func(v progress[EitherAnd[int, string]]) {
		if r, ok := v.RightValue(); ok {
			result = r
		}
	})
	OnTerminate(merged, func(Reason) { terminated = true })

	pa.Progress(1, 2, "a", "")
	pa.Complete(7)

	if terminated {
		t.Fatal("CombineProgress must not terminate until both sides have completed")
	}

	pb.Progress(1, 2, "b", "")
	pb.Complete("ok")

	if updates != 2 {
		t.Fatalf("updates = %d, want 2 (one relayed from each side)", updates)
	}
	if result != (EitherAnd[int, string]{Left: 7, Right: "ok"}) {
		t.Errorf("result = %+v, want {7 ok}", result)
	}
	if !terminated {
		t.Error("CombineProgress should terminate once both sides have completed")
	}
}
