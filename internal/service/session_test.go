package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keji-green/lit-engine/config"
	"github.com/keji-green/lit-engine/internal/adapter/answerer"
	"github.com/keji-green/lit-engine/internal/domain"
	"github.com/keji-green/lit-engine/internal/repository"
	"github.com/keji-green/lit-engine/policy"
	"github.com/keji-green/lit-engine/tests/helpers"
)

func newTestService(t *testing.T, gen answerer.Generator) (*Service, *store.SQLiteStore) {
	t.Helper()
	db := helpers.NewTestSQLiteStore(t)
	cfg := &config.Config{
		AnswerTimeout: 2 * time.Second,
		HistoryLimit:  5,
		MaxPageSize:   100,
	}
	guard, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return New(db, gen, guard, cfg), db
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, &answerer.Mock{})

	session, err := svc.CreateSession(ctx, "u1", domain.CreateSessionRequest{Position: "backend"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if session.Status != domain.SessionStatusNotStarted {
		t.Fatalf("expected NOT_STARTED, got %s", session.Status)
	}

	stored, err := db.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if stored == nil || stored.UID != "u1" {
		t.Fatalf("unexpected stored session: %+v", stored)
	}
	if string(stored.Extra) == "" {
		t.Fatalf("expected serialized options")
	}

	if _, err := svc.CreateSession(ctx, "", domain.CreateSessionRequest{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoadOwned(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &answerer.Mock{})

	session, err := svc.CreateSession(ctx, "u1", domain.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.loadOwned(ctx, session.SessionID, "u1"); err != nil {
		t.Fatalf("loadOwned failed: %v", err)
	}
	if _, err := svc.loadOwned(ctx, session.SessionID, "u2"); !errors.Is(err, domain.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	if _, err := svc.loadOwned(ctx, "missing", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &answerer.Mock{})

	session, err := svc.CreateSession(ctx, "u1", domain.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	first, err := svc.EndSession(ctx, session.SessionID, "u1")
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if first.Status != domain.SessionStatusEndedManually || first.EndedAt == nil {
		t.Fatalf("unexpected summary: %+v", first)
	}

	second, err := svc.EndSession(ctx, session.SessionID, "u1")
	if err != nil {
		t.Fatalf("second EndSession failed: %v", err)
	}
	if second.Status != first.Status {
		t.Fatalf("expected same terminal status, got %s and %s", first.Status, second.Status)
	}
	if second.EndedAt == nil || !second.EndedAt.Equal(*first.EndedAt) {
		t.Fatalf("expected same end time, got %v and %v", first.EndedAt, second.EndedAt)
	}
}

func TestEndSessionAlreadyEndedAutomaticallyIsPureRead(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, &answerer.Mock{})

	session, err := svc.CreateSession(ctx, "u1", domain.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	endedAt := time.Now().Add(-time.Minute)
	if _, err := db.MarkSessionEnded(ctx, session.SessionID, domain.SessionStatusEndedAutomatically, endedAt); err != nil {
		t.Fatalf("MarkSessionEnded failed: %v", err)
	}

	summary, err := svc.EndSession(ctx, session.SessionID, "u1")
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if summary.Status != domain.SessionStatusEndedAutomatically {
		t.Fatalf("expected ENDED_AUTOMATICALLY preserved, got %s", summary.Status)
	}
	if summary.EndedAt == nil || !summary.EndedAt.Equal(endedAt) {
		t.Fatalf("expected stored end time %v, got %v", endedAt, summary.EndedAt)
	}
}

func TestEndSessionOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &answerer.Mock{})

	session, err := svc.CreateSession(ctx, "u1", domain.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.EndSession(ctx, session.SessionID, "u2"); !errors.Is(err, domain.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}
