// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"time"

	"github.com/keji-green/lit-engine/internal/domain"
)

// Store defines the interface for data persistence. Status transitions
// use conditional updates keyed on the current status; the boolean
// result reports whether the transition was applied, so a caller that
// lost a race re-reads instead of locking.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	MarkSessionStarted(ctx context.Context, sessionID string, startedAt time.Time) (bool, error)
	MarkSessionEnded(ctx context.Context, sessionID string, status domain.SessionStatus, endedAt time.Time) (bool, error)

	// Question record operations
	CreateQuestionRecord(ctx context.Context, record *domain.QuestionRecord) error
	UpdateQuestionAnswer(ctx context.Context, recordID int64, answer string, answeredAt time.Time) error
	ListQuestionRecords(ctx context.Context, sessionID string, limit int) ([]domain.QuestionRecord, error)

	// Listing
	ListSessions(ctx context.Context, uid string, pageNum, pageSize int, status *domain.SessionStatus) ([]domain.SessionListItem, int64, error)

	// Lifecycle
	Close() error
}
