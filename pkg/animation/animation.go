// Package animation maps emotion labels to avatar hotkeys and fires them
// from a background worker.
package animation

import (
	"context"
	"errors"
	"maps"
	"strings"
)

const (
	DriverLog         = "log"
	DriverVTubeStudio = "vtubestudio"
)

var (
	// ErrUnknownDriver is returned for an unsupported animation driver.
	ErrUnknownDriver = errors.New("unknown animation driver")

	// ErrStopped is returned when a command is queued after Stop.
	ErrStopped = errors.New("animation worker stopped")
)

// Driver fires a named hotkey on the avatar.
type Driver interface {
	Trigger(ctx context.Context, hotkey string) error
	Close() error
}

var defaultHotkeys = map[string]string{
	"anger":    "exp_anger",
	"disgust":  "exp_disgust",
	"fear":     "exp_fear",
	"joy":      "exp_joy",
	"neutral":  "exp_neutral",
	"sadness":  "exp_sadness",
	"surprise": "exp_surprise",
}

// DefaultHotkeys returns the built-in emotion to hotkey map.
func DefaultHotkeys() map[string]string {
	return maps.Clone(defaultHotkeys)
}

// Hotkeys merges overrides over the defaults. Keys are lowercased; blank
// keys or values are ignored.
func Hotkeys(overrides map[string]string) map[string]string {
	out := DefaultHotkeys()
	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// HotkeyFor resolves label against m, falling back to the neutral hotkey.
func HotkeyFor(m map[string]string, label string) string {
	if hk, ok := m[strings.ToLower(strings.TrimSpace(label))]; ok {
		return hk
	}
	return m["neutral"]
}
