// Package none is the silent playback engine.
package none

import "github.com/Gorgooo61/AI-character/pkg/playback"

// Player discards everything.
type Player struct{}

func (Player) Play(string, string) {}

func (Player) Stop() error { return nil }

var _ playback.Player = Player{}
