package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keji-green/lit-engine/internal/domain"
)

// CreateInterview creates a new interview session.
// POST /v1/interviews
func (h *Handler) CreateInterview(c echo.Context) error {
	uid, err := callerUID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var req domain.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	session, err := h.service.CreateSession(c.Request().Context(), uid, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, domain.CreateSessionResponse{SessionID: session.SessionID})
}

// EndInterview ends an interview session.
// POST /v1/interviews/:interview_id/end
func (h *Handler) EndInterview(c echo.Context) error {
	uid, err := callerUID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	summary, err := h.service.EndSession(c.Request().Context(), c.Param("interview_id"), uid)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetInterviewDetail retrieves the detail view of an interview session.
// GET /v1/interviews/:interview_id
func (h *Handler) GetInterviewDetail(c echo.Context) error {
	uid, err := callerUID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	detail, err := h.service.GetSessionDetail(c.Request().Context(), c.Param("interview_id"), uid)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// ListInterviews retrieves one page of the caller's interview sessions.
// GET /v1/interviews?page_num=1&page_size=20&status=ONGOING
func (h *Handler) ListInterviews(c echo.Context) error {
	uid, err := callerUID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	pageNum := 1
	if p := c.QueryParam("page_num"); p != "" {
		val, err := strconv.Atoi(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid page_num"})
		}
		pageNum = val
	}
	pageSize := 20
	if p := c.QueryParam("page_size"); p != "" {
		val, err := strconv.Atoi(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid page_size"})
		}
		pageSize = val
	}

	var status *domain.SessionStatus
	if v := c.QueryParam("status"); v != "" {
		st := domain.SessionStatus(v)
		status = &st
	}

	page, err := h.service.ListSessions(c.Request().Context(), uid, pageNum, pageSize, status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, page)
}
