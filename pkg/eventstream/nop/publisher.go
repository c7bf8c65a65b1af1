// Package nop is the publisher used when no event stream is configured.
// Events are validated, counted and dropped.
package nop

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

// Publisher drops every turn event.
type Publisher struct {
	dropped atomic.Int64
	logger  *slog.Logger
}

func NewPublisher(log *slog.Logger) *Publisher {
	return &Publisher{logger: logger.OrNop(log)}
}

func (p *Publisher) PublishTurn(_ context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	p.dropped.Add(1)
	p.logger.Debug("event stream disabled, dropping turn event",
		"event_id", event.EventID,
		"turn_id", event.Turn.ID,
	)
	return nil
}

// Dropped reports how many events have been discarded.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Publisher) Close() error {
	return nil
}
