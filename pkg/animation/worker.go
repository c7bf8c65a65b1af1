package animation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

const commandQueueSize = 32

// Config holds configuration for a Worker.
type Config struct {
	Driver Driver
	Bus    *status.Bus

	// Hotkeys maps emotion labels to hotkey names. Nil uses DefaultHotkeys.
	Hotkeys map[string]string

	Logger *slog.Logger
}

// Worker reacts to emotion_label transitions on the bus and to explicit
// hotkey commands. It is the sole consumer of the bus event log.
type Worker struct {
	driver  Driver
	bus     *status.Bus
	hotkeys map[string]string
	logger  *slog.Logger

	commands chan string

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
	stopOnce sync.Once
}

// NewWorker creates a Worker. Call Start to begin processing.
func NewWorker(c Config) *Worker {
	hk := c.Hotkeys
	if hk == nil {
		hk = DefaultHotkeys()
	}
	return &Worker{
		driver:   c.Driver,
		bus:      c.Bus,
		hotkeys:  hk,
		logger:   logger.OrNop(c.Logger),
		commands: make(chan string, commandQueueSize),
	}
}

// Start launches the worker goroutines. Calling it twice is a no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil || w.stopped {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	events := make(chan status.Event)
	go w.pump(ctx, events)
	go w.run(ctx, events)
}

// TriggerHotkey queues a hotkey by name. Blank names are ignored.
func (w *Worker) TriggerHotkey(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.commands <- name:
		return nil
	default:
		w.logger.Warn("animation queue full, dropping hotkey", "hotkey", name)
		return nil
	}
}

// TriggerEmotion queues the hotkey mapped to label.
func (w *Worker) TriggerEmotion(label string) error {
	return w.TriggerHotkey(HotkeyFor(w.hotkeys, label))
}

// pump forwards bus events to the run loop.
func (w *Worker) pump(ctx context.Context, out chan<- status.Event) {
	if w.bus == nil {
		return
	}
	for {
		ev, err := w.bus.Next(ctx)
		if err != nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) run(ctx context.Context, events <-chan status.Event) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case name := <-w.commands:
			w.fire(ctx, name)
		case ev := <-events:
			if ev.Field != status.EmotionLabel {
				continue
			}
			label, _ := ev.Value.(string)
			if strings.TrimSpace(label) == "" {
				continue
			}
			w.fire(ctx, HotkeyFor(w.hotkeys, label))
		}
	}
}

func (w *Worker) fire(ctx context.Context, hotkey string) {
	if hotkey == "" || w.driver == nil {
		return
	}
	if w.bus != nil && !w.bus.Bool(status.AvatarEnabled) {
		w.logger.Debug("avatar disabled, skipping hotkey", "hotkey", hotkey)
		return
	}
	if err := w.driver.Trigger(ctx, hotkey); err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("hotkey trigger failed", "hotkey", hotkey, "error", err)
		}
		return
	}
	if w.bus != nil {
		w.bus.SetString(status.LastTriggeredHotkey, hotkey)
	}
}

// Stop ends the worker and closes the driver. Queued commands are dropped.
func (w *Worker) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		cancel, done := w.cancel, w.done
		w.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}
		if w.driver != nil {
			err = w.driver.Close()
		}
	})
	return err
}
