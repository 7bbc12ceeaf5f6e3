package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keji-green/lit-engine/internal/domain"
)

// AskQuestion submits a question and streams the answer back over SSE.
// POST /v1/interviews/:interview_id/questions
//
// Preconditions are checked synchronously; a rejected request gets a
// JSON error and the SSE stream is never opened. Once the dispatcher
// accepts the question, the handler parks until the background producer
// closes the sink.
func (h *Handler) AskQuestion(c echo.Context) error {
	uid, err := callerUID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var req domain.AskQuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	sink, err := newSSESink(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if err := h.service.StreamAnswer(c.Request().Context(), c.Param("interview_id"), uid, req.Question, sink); err != nil {
		return errorResponse(c, err)
	}

	<-sink.done
	return nil
}

// sseSink writes stream events as SSE frames to one echo response.
// Headers are written lazily on the first event, so a request rejected
// before dispatch can still produce a JSON error response. Send and
// Close are only ever called from the single producer goroutine.
type sseSink struct {
	c       echo.Context
	flusher http.Flusher
	opened  bool
	done    chan struct{}
}

func newSSESink(c echo.Context) (*sseSink, error) {
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &sseSink{c: c, flusher: flusher, done: make(chan struct{})}, nil
}

func (s *sseSink) open() {
	if s.opened {
		return
	}
	s.opened = true
	s.c.Response().Header().Set("Content-Type", "text/event-stream")
	s.c.Response().Header().Set("Cache-Control", "no-cache")
	s.c.Response().Header().Set("Connection", "keep-alive")
	s.c.Response().Header().Set("X-Accel-Buffering", "no")
	s.c.Response().WriteHeader(http.StatusOK)
	s.flusher.Flush()
}

// Send writes one event in SSE format and flushes it. The payload is
// JSON-encoded so chunk text containing newlines stays inside a single
// data line instead of splitting the frame.
func (s *sseSink) Send(event domain.StreamEvent) error {
	s.open()
	data, err := json.Marshal(ssePayload(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.c.Response().Writer, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// ssePayload shapes the data object per event type, mirroring the wire
// format of the upstream answer service.
func ssePayload(event domain.StreamEvent) interface{} {
	switch event.Type {
	case domain.StreamEventMessage:
		return map[string]string{"text": event.Data}
	case domain.StreamEventError:
		return map[string]string{"message": event.Data}
	default:
		return map[string]string{}
	}
}

// Close releases the parked request handler. Called exactly once by the
// producer.
func (s *sseSink) Close() error {
	s.open()
	close(s.done)
	return nil
}
