// Package api provides an HTTP API server for inspecting and steering a
// running character.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/memory/longterm"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
	"github.com/Gorgooo61/AI-character/pkg/status"
	"github.com/Gorgooo61/AI-character/pkg/storage"
)

// Memory is the read side of the memory tiers.
type Memory interface {
	Recent() []shortterm.Turn
	SearchFacts(ctx context.Context, query string, t longterm.Thresholds) ([]string, error)
	SearchLore(query string, threshold float64, topK int) []string
}

// InputSink receives utterances posted to the API.
type InputSink interface {
	Submit(text string) error
	SetSpeaking(speaking bool)
}

// HotkeyTrigger fires avatar hotkeys by name.
type HotkeyTrigger interface {
	TriggerHotkey(name string) error
}

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Bus and Memory are required.
	Bus    *status.Bus
	Memory Memory

	// Thresholds tune /memory/search and /lore/search.
	Thresholds memory.Thresholds

	// Archive serves /turns when set.
	Archive storage.Driver

	// Input accepts /input and /speaking when capture runs in api mode.
	Input InputSink

	// Hotkeys serves /hotkey when the avatar worker runs.
	Hotkeys HotkeyTrigger

	// MCPHandler is mounted at /mcp when set.
	MCPHandler http.Handler

	Logger *slog.Logger
}
