package service

import (
	"context"
	"fmt"

	"github.com/keji-green/lit-engine/internal/domain"
)

// GetSessionDetail returns the full view of one session, records most
// recent first. The end time is included only for ended sessions.
func (s *Service) GetSessionDetail(ctx context.Context, sessionID, uid string) (*domain.SessionDetail, error) {
	session, err := s.loadOwned(ctx, sessionID, uid)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListQuestionRecords(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: list question records: %v", domain.ErrPersistence, err)
	}
	if records == nil {
		records = []domain.QuestionRecord{}
	}

	detail := &domain.SessionDetail{
		SessionID: session.SessionID,
		Status:    session.Status,
		CreatedAt: session.CreatedAt,
		StartedAt: session.StartedAt,
		Records:   records,
	}
	if session.Status.IsTerminal() {
		detail.EndedAt = session.EndedAt
	}
	return detail, nil
}

// ListSessions returns one page of the caller's sessions, newest first.
// Out-of-range pagination fails with ErrInvalidArgument rather than
// being clamped.
func (s *Service) ListSessions(ctx context.Context, uid string, pageNum, pageSize int, status *domain.SessionStatus) (*domain.SessionPage, error) {
	if pageNum < 1 {
		return nil, fmt.Errorf("%w: page_num must be >= 1", domain.ErrInvalidArgument)
	}
	if pageSize < 1 || pageSize > s.config.MaxPageSize {
		return nil, fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, s.config.MaxPageSize)
	}
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, *status)
	}

	items, total, err := s.store.ListSessions(ctx, uid, pageNum, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrPersistence, err)
	}
	if items == nil {
		items = []domain.SessionListItem{}
	}

	return &domain.SessionPage{
		Items:    items,
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
	}, nil
}
