// Package playback voices generated replies. Engines run their own worker
// so Play never blocks the agent loop.
package playback

import "errors"

const (
	EngineConsole = "console"
	EngineNone    = "none"
)

// ErrUnknownEngine is returned for an unsupported playback engine.
var ErrUnknownEngine = errors.New("unknown playback engine")

// Player voices text with an emotion label. Play queues and returns
// immediately; Stop is idempotent.
type Player interface {
	Play(text, label string)
	Stop() error
}
