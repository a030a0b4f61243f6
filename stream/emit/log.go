package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter writes each event as a line of structured log output: text
// (key=value, human-readable) or JSONL (one JSON object per line).
//
// Example text output:
//
//	[next] streamID=upload nodeID=3 nodeName=chunks flavor=Hot seq=1
//	[terminate] streamID=upload nodeID=3 nodeName=chunks flavor=Hot seq=2 reason=Completed
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter constructs a LogEmitter writing to writer (os.Stdout if
// nil). jsonMode selects JSONL output over text.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes one event in the configured mode.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		StreamID string                 `json:"streamID"`
		NodeID   uint64                 `json:"nodeID"`
		NodeName string                 `json:"nodeName"`
		Flavor   string                 `json:"flavor"`
		Seq      uint64                 `json:"seq"`
		Kind     string                 `json:"kind"`
		Reason   string                 `json:"reason,omitempty"`
		Err      string                 `json:"err,omitempty"`
		Meta     map[string]interface{} `json:"meta,omitempty"`
	}{
		StreamID: event.StreamID,
		NodeID:   event.NodeID,
		NodeName: event.NodeName,
		Flavor:   event.Flavor,
		Seq:      event.Seq,
		Kind:     event.Kind.String(),
		Reason:   event.Reason,
		Err:      errString(event.Err),
		Meta:     event.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s] streamID=%s nodeID=%d nodeName=%s flavor=%s seq=%d",
		event.Kind, event.StreamID, event.NodeID, event.NodeName, event.Flavor, event.Seq)
	if event.Reason != "" {
		_, _ = fmt.Fprintf(l.writer, " reason=%s", event.Reason)
	}
	if event.Err != nil {
		_, _ = fmt.Fprintf(l.writer, " err=%v", event.Err)
	}
	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			_, _ = fmt.Fprintf(l.writer, " meta=%v", event.Meta)
		}
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// EmitBatch writes events in order, one per line.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes directly to writer without
// buffering of its own. Wrap writer in a bufio.Writer and flush that
// separately if buffering is desired.
func (l *LogEmitter) Flush(_ context.Context) error { return nil }
