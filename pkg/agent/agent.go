// Package agent runs the character's conversation loop: it merges bursts of
// user input into turns, builds memory context, generates and voices a
// reply, and spends idle time distilling facts or speaking unprompted.
//
// The loop is single threaded. Capture, playback, animation and archiving
// run on their own workers and talk to the loop through channels and the
// status bus.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gorgooo61/AI-character/pkg/archive"
	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/emotion"
	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/playback"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

// Memory is the orchestrator surface the loop drives.
type Memory interface {
	StartTurn(raw string) string
	CompleteTurn(id, assistantText string) bool
	BuildContext(ctx context.Context, raw string, t memory.Thresholds) string
	ExtractAndStore(ctx context.Context, userText, assistantText string) ([]string, error)
}

// Archiver accepts completed turns for asynchronous persistence.
type Archiver interface {
	Enqueue(job archive.Job) bool
	Close() error
}

// Stopper is a background worker with an idempotent Stop.
type Stopper interface {
	Stop() error
}

// Config wires the loop's collaborators. Capture, Generator, Memory and Bus
// are required.
type Config struct {
	Capture    capture.Capturer
	Generator  generation.Generator
	Classifier emotion.Classifier
	Player     playback.Player
	Memory     Memory
	Bus        *status.Bus

	// Animation and Archive are optional.
	Animation Stopper
	Archive   Archiver

	Settings Settings

	// Now overrides the clock.
	Now func() time.Time

	Logger *slog.Logger
}

// Loop is the turn scheduler.
type Loop struct {
	capture    capture.Capturer
	generator  generation.Generator
	classifier emotion.Classifier
	player     playback.Player
	memory     Memory
	bus        *status.Bus
	animation  Stopper
	archive    Archiver

	settings Settings
	now      func() time.Time
	logger   *slog.Logger

	deferred     DeferredQueue
	lastActivity time.Time

	closeOnce sync.Once
	closeErr  error
}

// New validates c and creates a Loop.
func New(c Config) (*Loop, error) {
	switch {
	case c.Capture == nil:
		return nil, errors.New("agent: capture is required")
	case c.Generator == nil:
		return nil, errors.New("agent: generator is required")
	case c.Memory == nil:
		return nil, errors.New("agent: memory is required")
	case c.Bus == nil:
		return nil, errors.New("agent: status bus is required")
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Loop{
		capture:      c.Capture,
		generator:    c.Generator,
		classifier:   c.Classifier,
		player:       c.Player,
		memory:       c.Memory,
		bus:          c.Bus,
		animation:    c.Animation,
		archive:      c.Archive,
		settings:     c.Settings.withDefaults(),
		now:          now,
		logger:       logger.OrNop(c.Logger),
		lastActivity: now(),
	}, nil
}

// Deferred exposes the pending fact-extraction queue.
func (l *Loop) Deferred() *DeferredQueue {
	return &l.deferred
}

// Run ticks until ctx is cancelled, then returns ctx's error. It does not
// call Close.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("agent loop started",
		"input_timeout", l.settings.InputTimeout,
		"idle_silence", l.settings.IdleSilence,
		"autonomous", l.settings.Autonomous,
	)
	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("agent loop stopping", "reason", err)
			return err
		}
		l.Tick(ctx)
	}
}

// Tick runs one iteration: wait for input up to InputTimeout, then either
// take a turn or do idle work.
func (l *Loop) Tick(ctx context.Context) {
	timer := time.NewTimer(l.settings.InputTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case u := <-l.capture.Utterances():
		l.bus.SetBool(status.NewInputPending, true)
		l.takeTurn(ctx, u)
	case <-timer.C:
		l.idle(ctx)
	}
}

// idleEligible reports whether background work may run now.
func (l *Loop) idleEligible() bool {
	return !l.bus.Bool(status.AIGenerating) &&
		!l.bus.Bool(status.UserTalking) &&
		!l.bus.Bool(status.NewInputPending) &&
		len(l.capture.Utterances()) == 0
}

// idle runs at most one unit of background work: a deferred extraction,
// otherwise an autonomous utterance once the silence is long enough.
func (l *Loop) idle(ctx context.Context) {
	if !l.idleEligible() {
		return
	}

	if job, ok := l.deferred.Pop(); ok {
		l.extract(ctx, job)
		return
	}

	if l.settings.Autonomous && l.now().Sub(l.lastActivity) > l.settings.IdleSilence {
		l.speakUnprompted(ctx)
	}
}

func (l *Loop) extract(ctx context.Context, job DeferredJob) {
	l.bus.SetBool(status.MemoryGenerating, true)
	defer l.bus.SetBool(status.MemoryGenerating, false)

	stored, err := l.memory.ExtractAndStore(ctx, job.UserText, job.AssistantText)
	if err != nil {
		l.logger.Warn("fact extraction failed", "error", err)
	}
	if len(stored) > 0 {
		l.logger.Debug("facts extracted", "facts", stored)
	}
}

func (l *Loop) speakUnprompted(ctx context.Context) {
	started := l.now()
	text, err := l.generate(ctx, generation.Request{
		System:      l.settings.SystemPrompt,
		Prompt:      l.settings.AutonomousPrompt,
		MaxTokens:   l.settings.AutonomousMaxTokens,
		Temperature: l.settings.Temperature,
		TopP:        l.settings.TopP,
	})
	// A failed attempt still resets the clock so it is not retried every tick.
	l.lastActivity = l.now()
	if err != nil {
		l.logger.Warn("autonomous generation failed", "error", err)
		return
	}

	label := l.classify(ctx, text).Or(emotion.Neutral)
	l.bus.SetString(status.EmotionLabel, label)

	l.deferred.Push(DeferredJob{AssistantText: text})
	l.submit(archive.Job{
		TurnID:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		Assistant:   text,
		Emotion:     label,
		Autonomous:  true,
		StartedAt:   started,
		CompletedAt: l.now(),
	})
	l.play(text, label)
	l.lastActivity = l.now()
}

// takeTurn handles one user turn starting from first.
func (l *Loop) takeTurn(ctx context.Context, first capture.Utterance) {
	defer l.bus.SetBool(status.NewInputPending, false)

	l.awaitSpeechEnd(ctx)
	items := append([]string{first.Text}, l.drain()...)

	userText := MergeBurst(items)
	if userText == "" {
		return
	}
	if len(items) > 1 {
		l.logger.Debug("merged input burst", "count", len(items))
	}

	l.lastActivity = l.now()
	started := l.lastActivity
	id := l.memory.StartTurn(userText)
	prompt := l.memory.BuildContext(ctx, userText, l.settings.Thresholds)

	reply, err := l.generate(ctx, generation.Request{
		System:      l.settings.SystemPrompt,
		Prompt:      prompt,
		MaxTokens:   l.settings.MaxTokens,
		Temperature: l.settings.Temperature,
		TopP:        l.settings.TopP,
	})
	if err != nil {
		l.logger.Error("generation failed, skipping turn", "turn_id", id, "error", err)
		return
	}

	label := l.classify(ctx, reply).Or(emotion.Neutral)
	l.bus.SetString(status.EmotionLabel, label)

	if !l.memory.CompleteTurn(id, reply) {
		l.logger.Warn("turn expired before completion", "turn_id", id)
	}
	l.deferred.Push(DeferredJob{UserText: userText, AssistantText: reply})
	l.submit(archive.Job{
		TurnID:      id,
		UserText:    userText,
		Assistant:   reply,
		Emotion:     label,
		StartedAt:   started,
		CompletedAt: l.now(),
	})

	l.play(reply, label)
	l.lastActivity = l.now()
}

// awaitSpeechEnd polls the capturer while the user is still talking,
// bounded by SpeechPatience.
func (l *Loop) awaitSpeechEnd(ctx context.Context) {
	if l.settings.SpeechPatience <= 0 || !l.capture.Speaking() {
		return
	}
	deadline := time.NewTimer(l.settings.SpeechPatience)
	defer deadline.Stop()
	tick := time.NewTicker(l.settings.SpeechPoll)
	defer tick.Stop()

	for l.capture.Speaking() {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			l.logger.Debug("speech patience exhausted")
			return
		case <-tick.C:
		}
	}
}

// drain takes every utterance already queued without blocking.
func (l *Loop) drain() []string {
	var out []string
	for {
		select {
		case u := <-l.capture.Utterances():
			out = append(out, u.Text)
		default:
			return out
		}
	}
}

func (l *Loop) generate(ctx context.Context, req generation.Request) (string, error) {
	l.bus.SetBool(status.AIGenerating, true)
	defer l.bus.SetBool(status.AIGenerating, false)

	text, err := l.generator.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}

// classify wraps the classifier so a failure becomes a Result instead of
// aborting the turn.
func (l *Loop) classify(ctx context.Context, text string) Result[string] {
	if l.classifier == nil {
		return Ok(emotion.Neutral)
	}
	label, err := l.classifier.PredictLabel(ctx, text)
	if err != nil {
		l.logger.Warn("emotion classification failed", "error", err)
		return Fail[string](err)
	}
	label = emotion.Normalize(label)
	if !emotion.Known(label) {
		l.logger.Warn("unknown emotion label", "label", label)
		return Fail[string](fmt.Errorf("unknown emotion label %q", label))
	}
	return Ok(label)
}

func (l *Loop) submit(job archive.Job) {
	if l.archive == nil {
		return
	}
	if !l.archive.Enqueue(job) {
		l.logger.Error("turn not archived", "turn_id", job.TurnID)
	}
}

func (l *Loop) play(text, label string) {
	if l.player == nil {
		return
	}
	l.player.Play(text, label)
}

// Close stops capture, playback and animation and drains the archive. Each
// step runs even if an earlier one fails; errors are joined. Safe to call
// more than once.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		var errs []error
		if err := l.capture.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping capture: %w", err))
		}
		if l.player != nil {
			if err := l.player.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stopping playback: %w", err))
			}
		}
		if l.animation != nil {
			if err := l.animation.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stopping animation: %w", err))
			}
		}
		if l.archive != nil {
			if err := l.archive.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing archive: %w", err))
			}
		}
		l.closeErr = errors.Join(errs...)
		l.logger.Info("agent loop closed")
	})
	return l.closeErr
}
