package handler

import (
	"errors"
	"fmt"
	"strings"

	app_errors "translator-go/internal/errors"
	"translator-go/internal/history"
	"translator-go/internal/response"
	"translator-go/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TranslateRequest defines the payload for a translation request. Direction
// may be given explicitly or derived from source_lang/target_lang; when both
// are absent the configured defaults apply.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SessionID  string `json:"session_id"`
	Direction  string `json:"direction"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslateResponse defines the translation result payload. KeyID is present
// only when the remote engine served the request.
type TranslateResponse struct {
	SessionID      string `json:"session_id"`
	Direction      string `json:"direction"`
	TranslatedText string `json:"translated_text"`
	Engine         string `json:"engine"`
	KeyID          *int   `json:"key_id,omitempty"`
}

// Translate handles a translation request.
// POST /api/translate
func (s *Server) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		response.Error(c, app_errors.NewValidationError("text must not be blank"))
		return
	}

	direction, err := s.resolveDirection(req)
	if err != nil {
		response.Error(c, app_errors.NewValidationError(err.Error()))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// The handler owns the conversation history: it reads the prior turns
	// here and records the completed turn below. The router only consumes
	// the slice it is handed.
	turns, err := s.HistoryService.Entries(sessionID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Warn("Proceeding without conversation context")
		turns = nil
	}

	result, err := s.Translator.Translate(c.Request.Context(), sessionID, req.Text, direction, turns)
	if err != nil {
		var apiErr *app_errors.APIError
		if errors.As(err, &apiErr) {
			response.Error(c, apiErr)
			return
		}
		response.Error(c, app_errors.ErrInternalServer)
		return
	}

	if err := s.HistoryService.Append(sessionID, history.Entry{
		Direction:      direction,
		SourceText:     req.Text,
		TranslatedText: result.TranslatedText,
	}); err != nil {
		// The translation already succeeded; a history failure is logged,
		// not surfaced.
		logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Warn("Failed to record translation turn")
	}

	// Annotation picked up by the logging middleware
	c.Set("engine", string(result.Engine))

	response.Success(c, TranslateResponse{
		SessionID:      sessionID,
		Direction:      string(direction),
		TranslatedText: result.TranslatedText,
		Engine:         string(result.Engine),
		KeyID:          result.CredentialID,
	})
}

// resolveDirection determines the translation direction from the request,
// falling back to the configured default language pair.
func (s *Server) resolveDirection(req TranslateRequest) (types.Direction, error) {
	if req.Direction != "" {
		return types.ParseDirection(req.Direction)
	}
	if req.SourceLang != "" || req.TargetLang != "" {
		if req.SourceLang == "" || req.TargetLang == "" {
			return "", fmt.Errorf("source_lang and target_lang must be provided together")
		}
		return types.DirectionFromLangs(req.SourceLang, req.TargetLang)
	}

	cfg := s.ConfigManager.GetTranslateConfig()
	return types.DirectionFromLangs(cfg.DefaultSourceLang, cfg.DefaultTargetLang)
}
