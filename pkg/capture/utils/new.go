// Package captureutils builds the configured capture.Capturer.
package captureutils

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/capture/api"
	"github.com/Gorgooo61/AI-character/pkg/capture/console"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

type NewCapturerOpts struct {
	Mode string

	// Input feeds console mode.
	Input io.Reader

	Bus    *status.Bus
	Logger *slog.Logger
}

// NewCapturer returns capture.ErrUnknownMode for unsupported modes.
func NewCapturer(o *NewCapturerOpts) (capture.Capturer, error) {
	switch o.Mode {
	case capture.ModeConsole:
		in := o.Input
		if in == nil {
			in = os.Stdin
		}
		return console.New(in, o.Bus, o.Logger), nil
	case capture.ModeAPI:
		return api.New(o.Bus, o.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", capture.ErrUnknownMode, o.Mode)
	}
}
