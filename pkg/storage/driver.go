// Package storage archives completed conversation turns.
package storage

import (
	"context"
	"time"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Turn is one archived exchange. Autonomous turns have an empty UserText.
type Turn struct {
	ID            string    `json:"id"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Emotion       string    `json:"emotion"`
	Autonomous    bool      `json:"autonomous"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Driver persists archived turns.
type Driver interface {
	// Put stores a turn. Returns true if the turn was newly inserted,
	// false if a turn with the same ID already exists.
	Put(ctx context.Context, turn *Turn) (bool, error)

	// Get retrieves a turn by ID.
	Get(ctx context.Context, id string) (*Turn, error)

	// List returns up to limit turns, most recently completed first.
	// limit <= 0 uses DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Turn, error)

	// Close closes the store and releases any resources.
	Close() error
}
