package emit

import (
	"context"
	"testing"
)

type mockEmitter struct {
	events []Event
}

func (m *mockEmitter) Emit(event Event) { m.events = append(m.events, event) }

func (m *mockEmitter) EmitBatch(_ context.Context, events []Event) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *mockEmitter) Flush(context.Context) error { return nil }

func TestEmitterInterfaceContract(t *testing.T) {
	var _ Emitter = (*mockEmitter)(nil)
	var _ Emitter = (*NullEmitter)(nil)
	var _ Emitter = (*LogEmitter)(nil)
	var _ Emitter = (*BufferedEmitter)(nil)
}

func TestEmitRecordsEventsInOrder(t *testing.T) {
	e := &mockEmitter{}
	for i := uint64(1); i <= 3; i++ {
		e.Emit(Event{NodeID: 1, Seq: i, Kind: Next})
	}

	if len(e.events) != 3 {
		t.Fatalf("got %d events, want 3", len(e.events))
	}
	for i, event := range e.events {
		if event.Seq != uint64(i+1) {
			t.Errorf("events[%d].Seq = %d, want %d", i, event.Seq, i+1)
		}
	}
}

func TestEmitBatchAppendsAllEvents(t *testing.T) {
	e := &mockEmitter{}
	err := e.EmitBatch(context.Background(), []Event{
		{NodeID: 1, Seq: 1, Kind: Next},
		{NodeID: 1, Seq: 2, Kind: Terminate, Reason: "Completed"},
	})
	if err != nil {
		t.Fatalf("EmitBatch returned %v, want nil", err)
	}
	if len(e.events) != 2 {
		t.Fatalf("got %d events, want 2", len(e.events))
	}
	if e.events[1].Kind != Terminate || e.events[1].Reason != "Completed" {
		t.Errorf("events[1] = %+v, want a Terminate/Completed event", e.events[1])
	}
}
