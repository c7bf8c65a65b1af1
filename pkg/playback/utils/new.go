// Package playbackutils builds the configured playback.Player.
package playbackutils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/playback"
	"github.com/Gorgooo61/AI-character/pkg/playback/console"
	"github.com/Gorgooo61/AI-character/pkg/playback/none"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

type NewPlayerOpts struct {
	Engine    string
	Name      string
	WordDelay time.Duration
	Plain     bool

	// Output defaults to os.Stdout.
	Output io.Writer

	Bus    *status.Bus
	Logger *slog.Logger
}

// NewPlayer returns playback.ErrUnknownEngine for unsupported engines.
func NewPlayer(o *NewPlayerOpts) (playback.Player, error) {
	switch o.Engine {
	case playback.EngineConsole:
		out := o.Output
		if out == nil {
			out = os.Stdout
		}
		return console.New(out, console.Config{
			Name:      o.Name,
			WordDelay: o.WordDelay,
			Plain:     o.Plain,
		}, o.Bus, o.Logger), nil
	case playback.EngineNone:
		return none.Player{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", playback.ErrUnknownEngine, o.Engine)
	}
}
