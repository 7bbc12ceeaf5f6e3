package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/keji-green/lit-engine/config"
	"github.com/keji-green/lit-engine/internal/adapter/answerer"
	"github.com/keji-green/lit-engine/internal/domain"
	"github.com/keji-green/lit-engine/internal/repository"
	"github.com/keji-green/lit-engine/internal/service"
	"github.com/keji-green/lit-engine/policy"
	"github.com/keji-green/lit-engine/tests/helpers"
)

func newTestHandler(t *testing.T, gen answerer.Generator) (*Handler, store.Store) {
	t.Helper()
	cfg := &config.Config{
		AnswerTimeout: time.Second,
		HistoryLimit:  5,
		MaxPageSize:   100,
	}
	db := helpers.NewTestSQLiteStore(t)
	guard, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	svc := service.New(db, gen, guard, cfg)
	return NewHandler(svc), db
}

func createTestSession(t *testing.T, e *echo.Echo, h *Handler, uid string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/interviews", bytes.NewBufferString(`{"position":"backend"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Uid", uid)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateInterview(c); err != nil {
		t.Fatalf("CreateInterview failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var resp domain.CreateSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.SessionID
}

func TestCreateInterview(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t, &answerer.Mock{})

	sessionID := createTestSession(t, e, h, "u1")
	assert.NotEmpty(t, sessionID)

	session, err := db.GetSession(context.Background(), sessionID)
	assert.NoError(t, err)
	assert.Equal(t, "u1", session.UID)
	assert.Equal(t, domain.SessionStatusNotStarted, session.Status)
}

func TestCreateInterviewMissingUID(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})

	req := httptest.NewRequest(http.MethodPost, "/v1/interviews", bytes.NewBufferString(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateInterview(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndInterview(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})
	sessionID := createTestSession(t, e, h, "u1")

	endOnce := func() *domain.SessionSummary {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Uid", "u1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/interviews/:interview_id/end")
		c.SetParamNames("interview_id")
		c.SetParamValues(sessionID)

		err := h.EndInterview(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var summary domain.SessionSummary
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		return &summary
	}

	first := endOnce()
	assert.Equal(t, domain.SessionStatusEndedManually, first.Status)
	assert.NotNil(t, first.EndedAt)

	second := endOnce()
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, second.EndedAt.Equal(*first.EndedAt))
}

func TestEndInterviewNotOwned(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})
	sessionID := createTestSession(t, e, h, "u1")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Uid", "u2")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/interviews/:interview_id/end")
	c.SetParamNames("interview_id")
	c.SetParamValues(sessionID)

	err := h.EndInterview(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")
}

func TestGetInterviewDetailUnknownSessionMatchesNotOwned(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})
	sessionID := createTestSession(t, e, h, "u1")

	fetch := func(id, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Uid", uid)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/interviews/:interview_id")
		c.SetParamNames("interview_id")
		c.SetParamValues(id)
		assert.NoError(t, h.GetInterviewDetail(c))
		return rec
	}

	// Unknown session and foreign session are indistinguishable.
	unknown := fetch("no-such-session", "u2")
	foreign := fetch(sessionID, "u2")
	assert.Equal(t, http.StatusForbidden, unknown.Code)
	assert.Equal(t, http.StatusForbidden, foreign.Code)
	assert.Equal(t, unknown.Body.String(), foreign.Body.String())
}

func TestListInterviews(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})
	createTestSession(t, e, h, "u1")
	createTestSession(t, e, h, "u1")

	req := httptest.NewRequest(http.MethodGet, "/v1/interviews?page_num=1&page_size=10", nil)
	req.Header.Set("X-Uid", "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListInterviews(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var page domain.SessionPage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestListInterviewsInvalidPagination(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, &answerer.Mock{})

	req := httptest.NewRequest(http.MethodGet, "/v1/interviews?page_num=0&page_size=10", nil)
	req.Header.Set("X-Uid", "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListInterviews(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
