// Package api captures utterances submitted over the inspection API.
package api

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

// Source tags utterances submitted through the API.
const Source = "api"

// Capturer queues utterances handed to Submit.
type Capturer struct {
	bus      *status.Bus
	logger   *slog.Logger
	out      chan capture.Utterance
	speaking atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
}

// New creates a Capturer. bus may be nil.
func New(bus *status.Bus, log *slog.Logger) *Capturer {
	return &Capturer{
		bus:    bus,
		logger: logger.OrNop(log),
		out:    make(chan capture.Utterance, capture.QueueSize),
	}
}

func (c *Capturer) Utterances() <-chan capture.Utterance {
	return c.out
}

func (c *Capturer) Speaking() bool {
	return c.speaking.Load()
}

// SetSpeaking records whether the remote user is talking and mirrors it to
// the user_talking field.
func (c *Capturer) SetSpeaking(v bool) {
	c.speaking.Store(v)
	if c.bus != nil {
		c.bus.SetBool(status.UserTalking, v)
	}
}

// Submit queues text without blocking. Empty text is ignored.
func (c *Capturer) Submit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if c.stopped.Load() {
		return capture.ErrStopped
	}
	if c.bus != nil && !c.bus.Bool(status.CaptureEnabled) {
		return capture.ErrDisabled
	}

	select {
	case c.out <- capture.Utterance{Timestamp: time.Now(), Source: Source, Text: text}:
		c.logger.Debug("captured", "source", Source, "text", text)
		return nil
	default:
		return capture.ErrQueueFull
	}
}

func (c *Capturer) Start(context.Context) error {
	return nil
}

// Stop rejects further submissions.
func (c *Capturer) Stop() error {
	c.stopOnce.Do(func() {
		c.stopped.Store(true)
		c.SetSpeaking(false)
	})
	return nil
}

var _ capture.Capturer = (*Capturer)(nil)
