package eventstream

import "context"

// Publisher ships archived turns to an external consumer. PublishTurn is
// called from archive workers, so implementations must be safe for
// concurrent use. Close flushes anything buffered.
type Publisher interface {
	PublishTurn(ctx context.Context, event *TurnCompletedEvent) error
	Close() error
}
