package domain

import "time"

// EventKind classifies a progress event.
type EventKind string

// Progress event kinds, in rough lifecycle order.
const (
	// EventConnected confirms a subscriber attached to a session stream.
	EventConnected EventKind = "connected"

	// EventStart announces the beginning of a search.
	EventStart EventKind = "start"

	// EventInfo carries informational messages (branch counts, empty
	// branches).
	EventInfo EventKind = "info"

	// EventProgress carries coarse progress updates.
	EventProgress EventKind = "progress"

	// EventBranch announces the start of a single branch search.
	EventBranch EventKind = "branch"

	// EventResults announces that a branch produced results.
	EventResults EventKind = "results"

	// EventMatch delivers one search result, in discovery order.
	EventMatch EventKind = "match"

	// EventWarning reports a non-fatal problem (failed branch, low quota).
	EventWarning EventKind = "warning"

	// EventComplete marks normal termination, carrying the result total.
	EventComplete EventKind = "complete"

	// EventSuccess reports an auxiliary operation succeeded.
	EventSuccess EventKind = "success"

	// EventError marks fatal termination.
	EventError EventKind = "error"

	// EventClose marks session teardown after the linger window.
	EventClose EventKind = "close"
)

// ProgressEvent is a typed, timestamped notification describing a state
// change of a running search session.
type ProgressEvent struct {
	Kind      EventKind      `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewEvent builds a ProgressEvent stamped with the current time.
func NewEvent(kind EventKind, message string, payload map[string]any) ProgressEvent {
	return ProgressEvent{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionStatus is the lifecycle state of a search session.
type SessionStatus string

const (
	// SessionRunning means orchestration is in progress.
	SessionRunning SessionStatus = "running"

	// SessionCompleted means the search finished, possibly with
	// per-branch warnings.
	SessionCompleted SessionStatus = "completed"

	// SessionFailed means branch enumeration failed and no search ran.
	SessionFailed SessionStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}
