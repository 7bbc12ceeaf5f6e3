package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keji-green/lit-engine/internal/domain"
	"github.com/keji-green/lit-engine/policy"
)

// Sink is the output channel for one streaming exchange. Events arrive
// in production order, the terminal event (complete or error) is the
// last one sent, and Close is called exactly once, after the terminal
// event, on every exit path.
type Sink interface {
	Send(event domain.StreamEvent) error
	Close() error
}

// StreamAnswer drives one question/answer exchange. It validates the
// question and the caller's ownership, persists the question record,
// starts the session on its first question, then hands production off
// to a background goroutine that relays chunks to sink. Every error
// returned here is synchronous: when StreamAnswer returns non-nil, the
// sink was never written to or closed.
func (s *Service) StreamAnswer(ctx context.Context, sessionID, uid, question string, sink Sink) error {
	question = strings.TrimSpace(question)

	decision, reason, err := s.guard.Evaluate(ctx, map[string]interface{}{
		"uid":          uid,
		"question":     question,
		"question_len": len([]rune(question)),
	})
	if err != nil {
		return fmt.Errorf("question policy: %w", err)
	}
	if decision == policy.DecisionBlock {
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, reason)
	}

	session, err := s.loadOwned(ctx, sessionID, uid)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyEnded, sessionID)
	}

	// The most recent questions give the generator its context. History
	// is best-effort: a read failure degrades to an empty history.
	var prior []string
	history, err := s.store.ListQuestionRecords(ctx, sessionID, s.config.HistoryLimit)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load question history")
	}
	for _, record := range history {
		if record.Question != "" {
			prior = append(prior, record.Question)
		}
	}

	record := &domain.QuestionRecord{
		SessionID: sessionID,
		Question:  question,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateQuestionRecord(ctx, record); err != nil {
		return fmt.Errorf("%w: insert question record: %v", domain.ErrPersistence, err)
	}

	// First question starts the session.
	if session.Status == domain.SessionStatusNotStarted {
		if err := s.ensureOngoing(ctx, session); err != nil {
			return err
		}
	}

	go s.produceAnswer(record.RecordID, sessionID, question, prior, sink)
	return nil
}

// produceAnswer runs answer production decoupled from the request that
// started it, bounded by the configured answer timeout. Chunks are
// relayed to sink in arrival order and accumulated; on success the full
// answer is persisted in one write before the complete event. A failed
// final persist is logged and leaves the record answerless; the chunks
// already streamed are not retracted.
func (s *Service) produceAnswer(recordID int64, sessionID, question string, prior []string, sink Sink) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.AnswerTimeout)
	defer cancel()

	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to close answer stream")
		}
	}()

	var answer strings.Builder
	err := s.answerer.Stream(ctx, question, prior, func(text string) error {
		if err := sink.Send(domain.StreamEvent{Type: domain.StreamEventMessage, Data: text}); err != nil {
			return fmt.Errorf("%w: stream write: %v", domain.ErrGeneration, err)
		}
		answer.WriteString(text)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Int64("record_id", recordID).Msg("answer production failed")
		msg := "failed to produce answer: " + err.Error()
		if ctx.Err() != nil {
			msg = "answer production timed out"
		}
		if sendErr := sink.Send(domain.StreamEvent{Type: domain.StreamEventError, Data: msg}); sendErr != nil {
			log.Warn().Err(sendErr).Str("session_id", sessionID).Msg("failed to deliver error event")
		}
		return
	}

	// The client already holds the streamed chunks, so a failed persist
	// only leaves the stored record answerless; operators reconcile from
	// the log.
	if err := s.store.UpdateQuestionAnswer(ctx, recordID, answer.String(), time.Now()); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Int64("record_id", recordID).Msg("failed to persist answer")
	}

	if err := sink.Send(domain.StreamEvent{Type: domain.StreamEventComplete}); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to deliver complete event")
	}
}
