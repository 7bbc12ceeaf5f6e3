// Package v1 provides HTTP handlers for the interview engine.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keji-green/lit-engine/internal/domain"
	"github.com/keji-green/lit-engine/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/interviews", h.CreateInterview)
	e.POST("/v1/interviews/:interview_id/questions", h.AskQuestion)
	e.POST("/v1/interviews/:interview_id/end", h.EndInterview)
	e.GET("/v1/interviews/:interview_id", h.GetInterviewDetail)
	e.GET("/v1/interviews", h.ListInterviews)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// callerUID returns the resolved owner identity for the request.
// Identity resolution happens upstream; the gateway injects the header.
func callerUID(c echo.Context) (string, error) {
	uid := c.Request().Header.Get("X-Uid")
	if uid == "" {
		return "", errors.New("missing X-Uid header")
	}
	return uid, nil
}

// errorResponse maps domain error kinds to HTTP responses. NotFound and
// NotOwned render identically so a caller cannot probe which sessions
// exist.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotOwned):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "not authorized for this session"})
	case errors.Is(err, domain.ErrAlreadyEnded):
		return c.JSON(http.StatusConflict, map[string]string{"error": "session already ended"})
	case errors.Is(err, domain.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
