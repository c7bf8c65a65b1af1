// Package console captures user input line by line from a reader,
// typically stdin.
package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

// Source tags utterances read by this capturer.
const Source = "console"

// DefaultJoinTimeout bounds how long Stop waits for the reader goroutine. A
// read blocked on a terminal cannot be interrupted.
const DefaultJoinTimeout = 2 * time.Second

// Capturer reads one utterance per non-empty line.
type Capturer struct {
	r      io.Reader
	bus    *status.Bus
	logger *slog.Logger
	out    chan capture.Utterance

	joinTimeout time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Capturer over r. bus may be nil.
func New(r io.Reader, bus *status.Bus, log *slog.Logger) *Capturer {
	return &Capturer{
		r:      r,
		bus:    bus,
		logger: logger.OrNop(log),
		out:    make(chan capture.Utterance, capture.QueueSize),
		done:   make(chan struct{}),

		joinTimeout: DefaultJoinTimeout,
	}
}

func (c *Capturer) Utterances() <-chan capture.Utterance {
	return c.out
}

// Speaking is always false: a line arrives complete.
func (c *Capturer) Speaking() bool {
	return false
}

// Start begins reading in the background.
func (c *Capturer) Start(ctx context.Context) error {
	c.startOnce.Do(func() {
		ctx, c.cancel = context.WithCancel(ctx)
		go c.read(ctx)
		c.logger.Info("console capture ready, type to talk")
	})
	return nil
}

func (c *Capturer) read(ctx context.Context) {
	defer close(c.done)

	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if c.bus != nil && !c.bus.Bool(status.CaptureEnabled) {
			c.logger.Debug("capture disabled, dropping input", "text", text)
			continue
		}

		u := capture.Utterance{Timestamp: time.Now(), Source: Source, Text: text}
		select {
		case c.out <- u:
			c.logger.Debug("captured", "source", Source, "text", text)
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Error("console capture stopped", "error", err)
	}
}

// Stop cancels the reader, closes it when it is an io.Closer and waits for
// the reader goroutine to exit, up to the join timeout.
func (c *Capturer) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		if closer, ok := c.r.(io.Closer); ok {
			err = closer.Close()
		}
		if c.cancel == nil {
			return
		}

		select {
		case <-c.done:
		case <-time.After(c.joinTimeout):
			c.logger.Warn("console reader still blocked, not waiting for it", "timeout", c.joinTimeout)
		}
	})
	return err
}

var _ capture.Capturer = (*Capturer)(nil)
