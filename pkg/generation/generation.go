// Package generation defines the text generation boundary used for replies,
// autonomous utterances and fact extraction.
package generation

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrGeneration wraps every provider failure.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyResponse is returned when a provider answers with no text.
	ErrEmptyResponse = errors.New("empty generation response")
)

// Request is a single-shot, non-streaming generation request.
type Request struct {
	// System is the system prompt. May be empty.
	System string

	// Prompt is the user message.
	Prompt string

	MaxTokens   int
	Temperature float64
	TopP        float64

	// Schema optionally constrains the output to JSON matching a schema.
	// Providers that cannot enforce it treat it as a hint.
	Schema json.RawMessage
}

// Generator produces text for a Request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to a Generator.
type Func func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
