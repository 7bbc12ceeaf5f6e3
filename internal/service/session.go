package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keji-green/lit-engine/internal/domain"
)

// CreateSession allocates a new NOT_STARTED session for uid. The request
// options are serialized verbatim into the session's extra blob. Nothing
// is returned to the caller unless the store write succeeded.
func (s *Service) CreateSession(ctx context.Context, uid string, req domain.CreateSessionRequest) (*domain.Session, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", domain.ErrInvalidArgument)
	}

	extra, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize session options: %v", domain.ErrInvalidArgument, err)
	}

	session := &domain.Session{
		SessionID: uuid.New().String(),
		UID:       uid,
		Status:    domain.SessionStatusNotStarted,
		CreatedAt: time.Now(),
		Extra:     extra,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: create session: %v", domain.ErrPersistence, err)
	}

	log.Info().Str("session_id", session.SessionID).Str("uid", uid).Msg("session created")
	return session, nil
}

// loadOwned loads a session and verifies the caller owns it. Mandatory
// before any mutation or answer request.
func (s *Service) loadOwned(ctx context.Context, sessionID, uid string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrPersistence, err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, sessionID)
	}
	if session.UID != uid {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwned, sessionID)
	}
	return session, nil
}

// ensureOngoing transitions a NOT_STARTED session to ONGOING, stamping
// the start time. Already-ONGOING is a no-op; a terminal status fails
// with ErrAlreadyEnded. The transition is a conditional update, so a
// concurrent first question or end call resolves without locking.
func (s *Service) ensureOngoing(ctx context.Context, session *domain.Session) error {
	switch {
	case session.Status == domain.SessionStatusOngoing:
		return nil
	case session.Status.IsTerminal():
		return fmt.Errorf("%w: %s", domain.ErrAlreadyEnded, session.SessionID)
	}

	now := time.Now()
	applied, err := s.store.MarkSessionStarted(ctx, session.SessionID, now)
	if err != nil {
		return fmt.Errorf("%w: start session: %v", domain.ErrPersistence, err)
	}
	if !applied {
		// Lost the race; re-read to find out to whom.
		current, err := s.loadOwned(ctx, session.SessionID, session.UID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyEnded, session.SessionID)
		}
		*session = *current
		return nil
	}

	session.Status = domain.SessionStatusOngoing
	session.StartedAt = &now
	log.Info().Str("session_id", session.SessionID).Msg("session started")
	return nil
}

// EndSession transitions a session to ENDED_MANUALLY. Ending an already
// ended session is a no-op returning the stored state.
func (s *Service) EndSession(ctx context.Context, sessionID, uid string) (*domain.SessionSummary, error) {
	session, err := s.loadOwned(ctx, sessionID, uid)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return summaryOf(session), nil
	}

	now := time.Now()
	applied, err := s.store.MarkSessionEnded(ctx, sessionID, domain.SessionStatusEndedManually, now)
	if err != nil {
		return nil, fmt.Errorf("%w: end session: %v", domain.ErrPersistence, err)
	}
	if !applied {
		// A concurrent end won; the stored terminal state stands.
		session, err = s.loadOwned(ctx, sessionID, uid)
		if err != nil {
			return nil, err
		}
		return summaryOf(session), nil
	}

	session.Status = domain.SessionStatusEndedManually
	session.EndedAt = &now
	log.Info().Str("session_id", sessionID).Msg("session ended")
	return summaryOf(session), nil
}

func summaryOf(session *domain.Session) *domain.SessionSummary {
	return &domain.SessionSummary{
		SessionID: session.SessionID,
		Status:    session.Status,
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
}
