package handler

import (
	app_errors "translator-go/internal/errors"
	"translator-go/internal/history"
	"translator-go/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HistoryResponse defines the conversation history payload.
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Limit     int             `json:"limit"`
	Entries   []history.Entry `json:"entries"`
}

// GetHistory returns a session's conversation history, oldest first.
// GET /api/history/:session_id
func (s *Server) GetHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.Error(c, app_errors.NewValidationError("session_id is required"))
		return
	}

	entries, err := s.HistoryService.Entries(sessionID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Error("Failed to read session history")
		response.Error(c, app_errors.ErrInternalServer)
		return
	}

	response.Success(c, HistoryResponse{
		SessionID: sessionID,
		Limit:     s.HistoryService.Limit(),
		Entries:   entries,
	})
}

// ClearHistory drops a session's conversation history.
// DELETE /api/history/:session_id
func (s *Server) ClearHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.Error(c, app_errors.NewValidationError("session_id is required"))
		return
	}

	if err := s.HistoryService.Clear(sessionID); err != nil {
		logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Error("Failed to clear session history")
		response.Error(c, app_errors.ErrInternalServer)
		return
	}

	response.Success(c, gin.H{"session_id": sessionID})
}
