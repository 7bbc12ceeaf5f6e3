package domain

import "time"

// CreateSessionRequest carries the options for a new interview session.
// The fields are stored verbatim as the session's extra blob.
type CreateSessionRequest struct {
	Position   string            `json:"position,omitempty"`
	Company    string            `json:"company,omitempty"`
	ResumeText string            `json:"resume_text,omitempty"`
	Options    map[string]string `json:"options,omitempty"`
}

// AskQuestionRequest carries one question for an ongoing session.
type AskQuestionRequest struct {
	Question string `json:"question"`
}

// CreateSessionResponse is returned after a session is created.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SessionSummary is returned when a session ends. Ending an already
// ended session returns the stored summary unchanged.
type SessionSummary struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
}

// SessionDetail is the full read-only view of one session. EndedAt is
// populated only when the session is in a terminal status.
type SessionDetail struct {
	SessionID string           `json:"session_id"`
	Status    SessionStatus    `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
	Records   []QuestionRecord `json:"records"`
}

// SessionPage is a paged session listing.
type SessionPage struct {
	Items    []SessionListItem `json:"items"`
	Total    int64             `json:"total"`
	PageNum  int               `json:"page_num"`
	PageSize int               `json:"page_size"`
}
