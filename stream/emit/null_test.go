package emit

import (
	"context"
	"testing"
)

func TestNullEmitterDiscardsEverything(t *testing.T) {
	n := NewNullEmitter()

	n.Emit(Event{NodeID: 1, Kind: Next})
	if err := n.EmitBatch(context.Background(), []Event{{NodeID: 1, Kind: Terminate}}); err != nil {
		t.Fatalf("EmitBatch returned %v, want nil", err)
	}
	if err := n.Flush(context.Background()); err != nil {
		t.Fatalf("Flush returned %v, want nil", err)
	}
}

func TestNullEmitterInterfaceContract(t *testing.T) {
	var _ Emitter = NewNullEmitter()
}
