package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/memory"
)

// Server is the API server for a running character.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The bus and memory are injected so
// the server observes the same state as the agent loop.
func NewServer(config Config) (*Server, error) {
	if config.Bus == nil {
		return nil, errors.New("status bus is required")
	}
	if config.Memory == nil {
		return nil, errors.New("memory is required")
	}
	if config.Thresholds == (memory.Thresholds{}) {
		config.Thresholds = memory.DefaultThresholds()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger.OrNop(config.Logger),
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/status", s.handleStatus)
	app.Post("/switches", s.handleSwitches)
	app.Post("/input", s.handleInput)
	app.Post("/speaking", s.handleSpeaking)
	app.Post("/hotkey", s.handleHotkey)

	app.Get("/memory/recent", s.handleRecent)
	app.Get("/memory/search", s.handleMemorySearch)
	app.Get("/lore/search", s.handleLoreSearch)
	app.Get("/turns", s.handleListTurns)
	app.Get("/turns/:id", s.handleGetTurn)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
