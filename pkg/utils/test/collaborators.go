package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/capture"
)

// MockClassifier returns Label, or Err when set, and records inputs.
type MockClassifier struct {
	mu     sync.Mutex
	inputs []string

	Label string
	Err   error
}

func (m *MockClassifier) PredictLabel(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, text)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Label, nil
}

// Inputs returns every classified text.
func (m *MockClassifier) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// Played is one MockPlayer.Play call.
type Played struct {
	Text  string
	Label string
}

// MockPlayer records Play calls.
type MockPlayer struct {
	mu      sync.Mutex
	played  []Played
	stopped int

	StopErr error
}

func (m *MockPlayer) Play(text, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, Played{Text: text, Label: label})
}

func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	return m.StopErr
}

// Played returns every Play call in order.
func (m *MockPlayer) Played() []Played {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Played(nil), m.played...)
}

// Stopped reports how many times Stop ran.
func (m *MockPlayer) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// MockCapturer is a capture.Capturer fed by tests.
type MockCapturer struct {
	mu       sync.Mutex
	ch       chan capture.Utterance
	speaking bool
	stopped  int

	StopErr error
}

func NewMockCapturer() *MockCapturer {
	return &MockCapturer{ch: make(chan capture.Utterance, 64)}
}

// Say queues an utterance.
func (m *MockCapturer) Say(text string) {
	m.ch <- capture.Utterance{Timestamp: time.Now(), Source: "test", Text: text}
}

// SetSpeaking sets what Speaking reports.
func (m *MockCapturer) SetSpeaking(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speaking = v
}

func (m *MockCapturer) Utterances() <-chan capture.Utterance { return m.ch }

func (m *MockCapturer) Speaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

func (m *MockCapturer) Start(context.Context) error { return nil }

func (m *MockCapturer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	return m.StopErr
}

// Stopped reports how many times Stop ran.
func (m *MockCapturer) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}
