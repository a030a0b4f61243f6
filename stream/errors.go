package stream

import "errors"

// Sentinel errors of the stream engine. Of these, only ErrWeakReleased is
// produced by the engine itself.
var (
	// ErrAlreadyTerminated names an operation on a node that has already
	// terminated. Push, Request and Complete do not return it: they return
	// nothing and ignore input once their node has terminated.
	ErrAlreadyTerminated = errors.New("stream: node already terminated")

	// ErrNoActiveChild names a detach of a child that is not currently
	// attached. The engine's detach ignores such a child and does not
	// return this error.
	ErrNoActiveChild = errors.New("stream: no such active child")

	// ErrWeakReleased is the termination reason's wrapped cause when a
	// using/lifeOf operator's weak-referenced object has been collected.
	ErrWeakReleased = errors.New("stream: weakly-held object released")

	// ErrThrottleOverflow names a Pressure throttle whose in-flight limit
	// and backing buffer are both full. PressureThrottle reports that case
	// as DropWork and does not return this error.
	ErrThrottleOverflow = errors.New("stream: throttle buffer overflow")

)

// EventError wraps an error with the identity of the node that produced it,
// mirroring the teacher's NodeError: a structured, contextualized error the
// caller can unwrap to the original cause.
type EventError struct {
	NodeID  uint64
	Node    string
	Message string
	Cause   error
}

func (e *EventError) Error() string {
	if e.Node != "" {
		return "stream: " + e.Node + ": " + e.Message
	}
	return "stream: " + e.Message
}

func (e *EventError) Unwrap() error { return e.Cause }
