package agent

import (
	"time"

	"github.com/Gorgooo61/AI-character/pkg/memory"
)

const (
	DefaultInputTimeout   = 500 * time.Millisecond
	DefaultIdleSilence    = 30 * time.Second
	DefaultSpeechPatience = 2 * time.Second
	DefaultSpeechPoll     = 50 * time.Millisecond

	DefaultMaxTokens           = 160
	DefaultAutonomousMaxTokens = 60
	DefaultTemperature         = 0.7
	DefaultTopP                = 0.9

	DefaultSystemPrompt = "You are a friendly virtual character chatting live with a viewer. " +
		"Answer in one or two short, natural sentences. " +
		"Lines tagged [LORE], [RECENT] or [FACT] are background you may use when relevant; never repeat the tags."

	DefaultAutonomousPrompt = "Nobody has said anything for a while. " +
		"Say one short, spontaneous sentence to keep the stream lively."
)

// Settings tunes the loop's timing and generation.
type Settings struct {
	// InputTimeout is how long one tick waits for input.
	InputTimeout time.Duration

	// IdleSilence is the quiet period before an autonomous utterance.
	IdleSilence time.Duration

	// Autonomous enables unprompted utterances.
	Autonomous bool

	// SpeechPatience bounds waiting for the user to finish speaking.
	SpeechPatience time.Duration
	SpeechPoll     time.Duration

	SystemPrompt     string
	AutonomousPrompt string

	MaxTokens           int
	AutonomousMaxTokens int
	Temperature         float64
	TopP                float64

	Thresholds memory.Thresholds
}

// DefaultSettings returns the standard loop settings.
func DefaultSettings() Settings {
	return Settings{
		InputTimeout:        DefaultInputTimeout,
		IdleSilence:         DefaultIdleSilence,
		Autonomous:          true,
		SpeechPatience:      DefaultSpeechPatience,
		SpeechPoll:          DefaultSpeechPoll,
		SystemPrompt:        DefaultSystemPrompt,
		AutonomousPrompt:    DefaultAutonomousPrompt,
		MaxTokens:           DefaultMaxTokens,
		AutonomousMaxTokens: DefaultAutonomousMaxTokens,
		Temperature:         DefaultTemperature,
		TopP:                DefaultTopP,
		Thresholds:          memory.DefaultThresholds(),
	}
}

// withDefaults fills zero durations and token limits.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.InputTimeout <= 0 {
		s.InputTimeout = d.InputTimeout
	}
	if s.IdleSilence <= 0 {
		s.IdleSilence = d.IdleSilence
	}
	if s.SpeechPatience < 0 {
		s.SpeechPatience = 0
	}
	if s.SpeechPoll <= 0 {
		s.SpeechPoll = d.SpeechPoll
	}
	if s.SystemPrompt == "" {
		s.SystemPrompt = d.SystemPrompt
	}
	if s.AutonomousPrompt == "" {
		s.AutonomousPrompt = d.AutonomousPrompt
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = d.MaxTokens
	}
	if s.AutonomousMaxTokens <= 0 {
		s.AutonomousMaxTokens = d.AutonomousMaxTokens
	}
	if s.Thresholds == (memory.Thresholds{}) {
		s.Thresholds = d.Thresholds
	}
	return s
}
