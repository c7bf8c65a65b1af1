package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/Gorgooo61/AI-character/pkg/generation"
)

// ErrMockGeneration is returned by MockGenerator when Err is unset but a
// failure was requested.
var ErrMockGeneration = errors.New("mock generation failure")

// MockGenerator replays scripted responses and records every request.
type MockGenerator struct {
	mu        sync.Mutex
	requests  []generation.Request
	responses []string

	// Default is returned once the script is exhausted.
	Default string

	// Err is returned by every call when set.
	Err error

	// OnGenerate runs inside Generate before a response is chosen.
	OnGenerate func(req generation.Request)
}

// NewMockGenerator returns a generator that answers with responses in order.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{responses: responses}
}

func (m *MockGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	hook := m.OnGenerate
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.responses) == 0 {
		return m.Default, nil
	}
	out := m.responses[0]
	m.responses = m.responses[1:]
	return out, nil
}

// Requests returns a copy of the recorded requests.
func (m *MockGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Request(nil), m.requests...)
}

// Calls reports how many times Generate ran.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

var _ generation.Generator = (*MockGenerator)(nil)
