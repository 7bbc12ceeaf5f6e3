// Package domain defines the core domain models for the interview engine.
package domain

// SessionStatus represents the lifecycle status of an interview session.
type SessionStatus string

const (
	SessionStatusNotStarted         SessionStatus = "NOT_STARTED"
	SessionStatusOngoing            SessionStatus = "ONGOING"
	SessionStatusEndedManually      SessionStatus = "ENDED_MANUALLY"
	SessionStatusEndedAutomatically SessionStatus = "ENDED_AUTOMATICALLY"
)

// IsTerminal reports whether the session can no longer be mutated.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusEndedManually, SessionStatusEndedAutomatically:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known statuses.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusNotStarted, SessionStatusOngoing, SessionStatusEndedManually, SessionStatusEndedAutomatically:
		return true
	}
	return false
}

// StreamEventType represents the type of an event on an answer stream.
type StreamEventType string

const (
	StreamEventMessage  StreamEventType = "message"
	StreamEventComplete StreamEventType = "complete"
	StreamEventError    StreamEventType = "error"
)

// StreamEvent is one item pushed on an answer stream. A terminal event
// (complete or error) is always the last one written before the stream
// is closed.
type StreamEvent struct {
	Type StreamEventType `json:"type"`
	Data string          `json:"data,omitempty"`
}
