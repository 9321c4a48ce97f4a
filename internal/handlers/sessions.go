package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"slidecast-backend/internal/middleware"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/services"
)

// Sessions is the registry surface of services.SessionService.
type Sessions interface {
	CreateSession(ctx context.Context, title string, ownerID string) (*models.LiveSession, error)
	ListSessions(ctx context.Context) ([]models.LiveSession, error)
	StartSession(ctx context.Context, id string) (*models.LiveSession, error)
	EndSession(ctx context.Context, id string) (*models.LiveSession, error)
}

type SessionsHandler struct {
	sessions Sessions
	logger   zerolog.Logger
}

func NewSessionsHandler(sessions Sessions, logger zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{
		sessions: sessions,
		logger:   logger.With().Str("component", "sessions").Logger(),
	}
}

// CreateSession godoc
// @Summary     Create a session
// @Description Creates a live session owned by the caller. It starts out not started.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.CreateSessionRequest true "Session title"
// @Success     200 {object} models.CreateSessionResponse
// @Failure     400 {object} models.ValidationErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.InternalErrorResponse
// @Router      /session [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Message: "Validation errors",
			Errors:  bindingErrors(err),
		})
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), req.Title, userID)
	if err != nil {
		status := models.HTTPStatus(err)
		if status == http.StatusUnauthorized {
			c.JSON(status, models.ErrorResponse{Error: "invalid user id"})
			return
		}
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create session")
		}
		c.JSON(status, models.InternalErrorResponse{
			Error:   "failed to create session",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CreateSessionResponse{SessionID: session.ID.String()})
}

// ListSessions godoc
// @Summary     List sessions
// @Description Returns every session, newest first
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.SessionSummary
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.InternalErrorResponse
// @Router      /sessionsResponse [get]
func (h *SessionsHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListSessions(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list sessions")
		c.JSON(http.StatusInternalServerError, models.InternalErrorResponse{
			Error:   "failed to list sessions",
			Details: err.Error(),
		})
		return
	}

	out := make([]models.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summary := models.SessionSummary{
			SessionID: s.ID.String(),
			Title:     s.Title,
			Status:    s.Status,
		}
		if s.StartTime.Valid {
			t := s.StartTime.Time.UTC()
			summary.StartTime = &t
		}
		out = append(out, summary)
	}
	c.JSON(http.StatusOK, out)
}

// StartSession godoc
// @Summary     Start a session
// @Description Records the start time. A session can only be started once.
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Param       sessionId path string true "Session ID"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.MsgResponse
// @Failure     404 {object} models.MsgResponse
// @Failure     500 {object} models.MsgResponse
// @Router      /session/{sessionId}/start [post]
func (h *SessionsHandler) StartSession(c *gin.Context) {
	h.transition(c, h.sessions.StartSession, "Session started successfully")
}

// EndSession godoc
// @Summary     End a session
// @Description Ends a started session. Whether the end is stored depends on SESSION_END_MODE.
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Param       sessionId path string true "Session ID"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.MsgResponse
// @Failure     404 {object} models.MsgResponse
// @Failure     500 {object} models.MsgResponse
// @Router      /session/{sessionId}/end [post]
func (h *SessionsHandler) EndSession(c *gin.Context) {
	h.transition(c, h.sessions.EndSession, "Session ended successfully")
}

func (h *SessionsHandler) transition(c *gin.Context, apply func(context.Context, string) (*models.LiveSession, error), success string) {
	sessionID := c.Param("sessionId")

	_, err := apply(c.Request.Context(), sessionID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.MessageResponse{Message: success})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.MsgResponse{Msg: "session does not exist"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusBadRequest, models.MsgResponse{Msg: conflictMessage(err)})
	default:
		status := models.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("session_id", sessionID).Msg("session transition failed")
		}
		c.JSON(status, models.MsgResponse{Msg: http.StatusText(status)})
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrSessionAlreadyStarted):
		return "session already started"
	case errors.Is(err, services.ErrSessionNotStarted):
		return "session not started"
	case errors.Is(err, services.ErrSessionAlreadyEnded):
		return "session already ended"
	default:
		return "invalid session state"
	}
}

