package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gorgooo61/AI-character/pkg/storage"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCompleted is emitted after a conversation turn is archived.
	EventTypeTurnCompleted = "character.turn.completed"
)

// TurnCompletedEvent is a transport-neutral event payload for a completed turn.
type TurnCompletedEvent struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EmittedAt     time.Time    `json:"emitted_at"`
	Source        EventSource  `json:"source"`
	Timing        TurnTiming   `json:"timing"`
	Turn          storage.Turn `json:"turn"`
}

// EventSource identifies which character produced the turn.
type EventSource struct {
	Character string `json:"character,omitempty"`
	Generator string `json:"generator"`
}

// TurnTiming captures the turn lifecycle.
type TurnTiming struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// NewTurnCompletedEvent builds a v1 event for turn with a fresh id.
func NewTurnCompletedEvent(turn storage.Turn, source EventSource, now time.Time) *TurnCompletedEvent {
	return &TurnCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeTurnCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     now,
		Source:        source,
		Timing: TurnTiming{
			StartedAt:   turn.StartedAt,
			CompletedAt: turn.CompletedAt,
			DurationMs:  turn.CompletedAt.Sub(turn.StartedAt).Milliseconds(),
		},
		Turn: turn,
	}
}
