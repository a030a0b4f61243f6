package emit

// Kind tags which stream-node transition an Event records.
type Kind uint8

const (
	// Next records a value pushed downstream from a node (§3.1 Next(v)).
	Next Kind = iota
	// Error records a non-terminating error surfaced at a node.
	Error
	// Terminate records a node closing: Completed, Cancelled, or Error(e).
	Terminate
	// Attach records a child operator linking onto a parent node.
	Attach
	// Detach records a child operator unlinking from a parent node.
	Detach
)

func (k Kind) String() string {
	switch k {
	case Next:
		return "next"
	case Error:
		return "error"
	case Terminate:
		return "terminate"
	case Attach:
		return "attach"
	case Detach:
		return "detach"
	default:
		return "unknown"
	}
}

// Event is one observable transition on a stream node.
//
// Events are emitted to an Emitter which can:
//   - Log to stdout/stderr
//   - Send to OpenTelemetry
//   - Buffer for later inspection
//   - Feed metrics counters
type Event struct {
	// StreamID is a caller-assigned identifier grouping related nodes,
	// e.g. the name of the root source a node graph was built from.
	// Empty if the caller does not group events.
	StreamID string

	// NodeID is the emitting node's engine-assigned identity (Node.id).
	NodeID uint64

	// NodeName is the emitting node's debug descriptor (Node.Name()).
	NodeName string

	// Flavor is the emitting node's flavor (Hot, Cold, Future, ...).
	Flavor string

	// Seq is a monotonic, per-node event counter (1-indexed).
	Seq uint64

	// Kind tags which transition this event records.
	Kind Kind

	// Reason is the terminal reason's kind name (Completed/Cancelled/
	// Error), set only when Kind == Terminate.
	Reason string

	// Err is the failure cause for Error events, and for Terminate events
	// whose Reason is "Error". Nil otherwise.
	Err error

	// Meta carries additional structured data, e.g. a pushed value's
	// string form or a throttle's drop count. Optional.
	Meta map[string]interface{}
}
