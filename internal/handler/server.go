// Package handler provides the HTTP handlers for the translation API.
package handler

import (
	"translator-go/internal/history"
	"translator-go/internal/keypool"
	"translator-go/internal/translator"
	"translator-go/internal/types"

	"go.uber.org/dig"
)

// Server contains dependencies for the HTTP handlers.
type Server struct {
	ConfigManager  types.ConfigManager
	Translator     *translator.Router
	HistoryService *history.Service
	Pool           *keypool.Pool
}

// ServerParams defines the dependencies for the Server.
type ServerParams struct {
	dig.In
	ConfigManager  types.ConfigManager
	Translator     *translator.Router
	HistoryService *history.Service
	Pool           *keypool.Pool
}

// NewServer creates a new Server instance.
func NewServer(params ServerParams) *Server {
	return &Server{
		ConfigManager:  params.ConfigManager,
		Translator:     params.Translator,
		HistoryService: params.HistoryService,
		Pool:           params.Pool,
	}
}
