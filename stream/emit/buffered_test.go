package emit

import (
	"testing"
	"time"
)

func TestBufferedEmitterStoresEventsPerStream(t *testing.T) {
	emitter := NewBufferedEmitter()

	emitter.Emit(Event{StreamID: "upload", NodeID: 1, Kind: Next})
	emitter.Emit(Event{StreamID: "upload", NodeID: 1, Kind: Terminate, Reason: "Completed"})
	emitter.Emit(Event{StreamID: "download", NodeID: 2, Kind: Next})

	uploadHistory := emitter.GetHistory("upload")
	downloadHistory := emitter.GetHistory("download")

	if len(uploadHistory) != 2 {
		t.Fatalf("upload history = %d events, want 2", len(uploadHistory))
	}
	if len(downloadHistory) != 1 {
		t.Fatalf("download history = %d events, want 1", len(downloadHistory))
	}
	if uploadHistory[1].Kind != Terminate || uploadHistory[1].Reason != "Completed" {
		t.Errorf("uploadHistory[1] = %+v, want a Completed Terminate event", uploadHistory[1])
	}
}

func TestBufferedEmitterGetHistoryReturnsEmptyForUnknownStream(t *testing.T) {
	emitter := NewBufferedEmitter()
	history := emitter.GetHistory("unknown")
	if len(history) != 0 {
		t.Errorf("got %d events, want 0", len(history))
	}
}

func TestBufferedEmitterFilterByNodeID(t *testing.T) {
	emitter := NewBufferedEmitter()
	emitter.Emit(Event{StreamID: "s", NodeID: 1, Kind: Next})
	emitter.Emit(Event{StreamID: "s", NodeID: 2, Kind: Next})
	emitter.Emit(Event{StreamID: "s", NodeID: 1, Kind: Terminate})

	history := emitter.GetHistoryWithFilter("s", HistoryFilter{NodeID: 1})
	if len(history) != 2 {
		t.Fatalf("got %d events, want 2", len(history))
	}
	for _, event := range history {
		if event.NodeID != 1 {
			t.Errorf("event.NodeID = %d, want 1", event.NodeID)
		}
	}
}

func TestBufferedEmitterFilterByKind(t *testing.T) {
	emitter := NewBufferedEmitter()
	emitter.Emit(Event{StreamID: "s", NodeID: 1, Kind: Next})
	emitter.Emit(Event{StreamID: "s", NodeID: 1, Kind: Error})
	emitter.Emit(Event{StreamID: "s", NodeID: 1, Kind: Next})

	errKind := Error
	history := emitter.GetHistoryWithFilter("s", HistoryFilter{Kind: &errKind})
	if len(history) != 1 {
		t.Fatalf("got %d events, want 1", len(history))
	}
	if history[0].Kind != Error {
		t.Errorf("history[0].Kind = %v, want Error", history[0].Kind)
	}
}

func TestBufferedEmitterFilterBySeqRange(t *testing.T) {
	emitter := NewBufferedEmitter()
	for seq := uint64(0); seq < 4; seq++ {
		emitter.Emit(Event{StreamID: "s", Seq: seq, Kind: Next})
	}

	minSeq, maxSeq := uint64(1), uint64(2)
	history := emitter.GetHistoryWithFilter("s", HistoryFilter{MinSeq: &minSeq, MaxSeq: &maxSeq})
	if len(history) != 2 || history[0].Seq != 1 || history[1].Seq != 2 {
		t.Fatalf("history = %+v, want seq 1 and 2", history)
	}
}

func TestBufferedEmitterCombinesFilters(t *testing.T) {
	emitter := NewBufferedEmitter()
	emitter.Emit(Event{StreamID: "s", Seq: 1, NodeID: 1, Kind: Next})
	emitter.Emit(Event{StreamID: "s", Seq: 1, NodeID: 2, Kind: Next})
	emitter.Emit(Event{StreamID: "s", Seq: 2, NodeID: 1, Kind: Next})

	seq := uint64(1)
	history := emitter.GetHistoryWithFilter("s", HistoryFilter{NodeID: 1, MinSeq: &seq, MaxSeq: &seq})
	if len(history) != 1 || history[0].NodeID != 1 || history[0].Seq != 1 {
		t.Fatalf("history = %+v, want a single event with NodeID=1 Seq=1", history)
	}
}

func TestBufferedEmitterZeroFilterReturnsAll(t *testing.T) {
	emitter := NewBufferedEmitter()
	emitter.Emit(Event{StreamID: "s", Kind: Next})
	emitter.Emit(Event{StreamID: "s", Kind: Next})

	history := emitter.GetHistoryWithFilter("s", HistoryFilter{})
	if len(history) != 2 {
		t.Fatalf("got %d events, want 2", len(history))
	}
}

func TestBufferedEmitterClear(t *testing.T) {
	emitter := NewBufferedEmitter()
	emitter.Emit(Event{StreamID: "a", Kind: Next})
	emitter.Emit(Event{StreamID: "b", Kind: Next})

	emitter.Clear("a")
	if len(emitter.GetHistory("a")) != 0 {
		t.Error("stream a should be cleared")
	}
	if len(emitter.GetHistory("b")) != 1 {
		t.Error("stream b should be untouched")
	}

	emitter.Clear("")
	if len(emitter.GetHistory("b")) != 0 {
		t.Error("Clear(\"\") should clear every stream")
	}
}

func TestBufferedEmitterConcurrentEmitAndRead(t *testing.T) {
	emitter := NewBufferedEmitter()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				emitter.Emit(Event{StreamID: "s", Seq: uint64(j), Kind: Next})
			}
			done <- true
		}()
	}

	readDone := make(chan bool)
	go func() {
		for i := 0; i < 100; i++ {
			emitter.GetHistory("s")
			time.Sleep(time.Millisecond)
		}
		readDone <- true
	}()

	for i := 0; i < 10; i++ {
		<-done
	}
	<-readDone

	if got := len(emitter.GetHistory("s")); got != 1000 {
		t.Errorf("got %d events, want 1000", got)
	}
}

func TestBufferedEmitterInterfaceContract(t *testing.T) {
	var _ Emitter = NewBufferedEmitter()
}
