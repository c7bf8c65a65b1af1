// Package capture turns user speech (or its stand-ins) into a stream of
// utterances for the agent loop.
package capture

import (
	"context"
	"errors"
	"time"
)

const (
	ModeConsole = "console"
	ModeAPI     = "api"

	// QueueSize is the buffer of every capturer's utterance channel.
	QueueSize = 64
)

var (
	// ErrUnknownMode is returned for an unsupported capture mode.
	ErrUnknownMode = errors.New("unknown capture mode")

	// ErrQueueFull is returned when an utterance cannot be queued.
	ErrQueueFull = errors.New("capture queue full")

	// ErrDisabled is returned when capture is switched off on the status bus.
	ErrDisabled = errors.New("capture disabled")

	// ErrStopped is returned when submitting to a stopped capturer.
	ErrStopped = errors.New("capture stopped")
)

// Utterance is one recognised piece of user input.
type Utterance struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
}

// Capturer produces utterances. Utterances is never closed; Stop only
// prevents new ones.
type Capturer interface {
	Utterances() <-chan Utterance

	// Speaking reports whether the user is mid-utterance.
	Speaking() bool

	Start(ctx context.Context) error
	Stop() error
}
