package domain

import (
	"encoding/json"
	"time"
)

// Session represents one interview attempt by a user.
type Session struct {
	SessionID string          `json:"session_id"`
	UID       string          `json:"uid"`
	Status    SessionStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Extra     json.RawMessage `json:"extra,omitempty"`
}

// QuestionRecord represents one asked question and its eventual answer
// within a session. Answer and AnsweredAt are set together, once, when
// answer production completes; a record without an answer is a question
// whose production never finished.
type QuestionRecord struct {
	RecordID   int64      `json:"record_id"`
	SessionID  string     `json:"session_id"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SessionListItem is one row of a paged session listing.
type SessionListItem struct {
	SessionID     string        `json:"session_id"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	QuestionCount int           `json:"question_count"`
}
