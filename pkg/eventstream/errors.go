package eventstream

import "errors"

var (
	// ErrNilTurnEvent indicates a nil turn event payload was provided to a publisher.
	ErrNilTurnEvent = errors.New("nil turn event")

	// ErrUnknownProvider is returned for an unsupported event stream provider.
	ErrUnknownProvider = errors.New("unsupported eventstream provider")
)
