// Package console "speaks" replies by printing styled lines to a terminal,
// holding ai_talking for a reading-speed delay per word.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/Gorgooo61/AI-character/pkg/emotion"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/playback"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

const queueSize = 16

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	labelColors = map[string]string{
		emotion.Anger:    "196",
		emotion.Disgust:  "106",
		emotion.Fear:     "141",
		emotion.Joy:      "220",
		emotion.Sadness:  "39",
		emotion.Surprise: "208",
	}
)

// Config holds configuration for the console player.
type Config struct {
	// Name prefixes every line.
	Name string

	// WordDelay is held per word while ai_talking is set.
	WordDelay time.Duration

	// Plain disables styling.
	Plain bool
}

type line struct {
	text  string
	label string
}

// Player renders queued lines from a background worker.
type Player struct {
	w      io.Writer
	cfg    Config
	bus    *status.Bus
	logger *slog.Logger

	queue    chan line
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New starts a Player writing to w. bus may be nil.
func New(w io.Writer, cfg Config, bus *status.Bus, log *slog.Logger) *Player {
	if cfg.Name == "" {
		cfg.Name = "character"
	}
	p := &Player{
		w:      w,
		cfg:    cfg,
		bus:    bus,
		logger: logger.OrNop(log),
		queue:  make(chan line, queueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Play queues text. Empty text and a full queue are dropped with a log
// line.
func (p *Player) Play(text, label string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	select {
	case <-p.stop:
		return
	default:
	}
	select {
	case p.queue <- line{text: text, label: emotion.Normalize(label)}:
	default:
		p.logger.Warn("playback queue full, dropping line", "text", text)
	}
}

func (p *Player) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		case l := <-p.queue:
			p.speak(l)
		}
	}
}

func (p *Player) speak(l line) {
	p.setTalking(true)
	defer p.setTalking(false)

	if _, err := fmt.Fprintln(p.w, p.render(l)); err != nil {
		p.logger.Error("playback write failed", "error", err)
		return
	}

	if p.cfg.WordDelay <= 0 {
		return
	}
	hold := time.Duration(len(strings.Fields(l.text))) * p.cfg.WordDelay
	select {
	case <-time.After(hold):
	case <-p.stop:
	}
}

func (p *Player) render(l line) string {
	if p.cfg.Plain {
		return fmt.Sprintf("%s (%s): %s", p.cfg.Name, l.label, l.text)
	}
	ls := labelStyle
	if c, ok := labelColors[l.label]; ok {
		ls = ls.Foreground(lipgloss.Color(c))
	}
	return nameStyle.Render(p.cfg.Name) + " " +
		ls.Render("("+l.label+")") + " " +
		textStyle.Render(l.text)
}

func (p *Player) setTalking(v bool) {
	if p.bus != nil {
		p.bus.SetBool(status.AITalking, v)
	}
}

// Stop ends the worker, dropping queued lines.
func (p *Player) Stop() error {
	p.stopOnce.Do(func() {
		close(p.stop)
		<-p.done
	})
	return nil
}

var _ playback.Player = (*Player)(nil)
