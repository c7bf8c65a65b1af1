// Package logdriver is an animation driver that only records and logs the
// hotkeys it is asked to fire.
package logdriver

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/Gorgooo61/AI-character/pkg/animation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

type Driver struct {
	mu        sync.Mutex
	triggered []string
	logger    *slog.Logger
}

func New(log *slog.Logger) *Driver {
	return &Driver{logger: logger.OrNop(log)}
}

func (d *Driver) Trigger(_ context.Context, hotkey string) error {
	d.mu.Lock()
	d.triggered = append(d.triggered, hotkey)
	d.mu.Unlock()

	d.logger.Info("avatar hotkey", "hotkey", hotkey)
	return nil
}

// Triggered returns every hotkey fired so far, oldest first.
func (d *Driver) Triggered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.triggered)
}

func (d *Driver) Close() error { return nil }

var _ animation.Driver = (*Driver)(nil)
