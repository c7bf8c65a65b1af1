// Package llm classifies emotion by asking a generator to pick one label.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gorgooo61/AI-character/pkg/emotion"
	"github.com/Gorgooo61/AI-character/pkg/generation"
)

const systemPrompt = "You label the emotion of a short message. " +
	"Answer with exactly one word from this list: %s."

// Classifier delegates to a generation.Generator.
type Classifier struct {
	gen    generation.Generator
	system string
}

// New creates a Classifier.
func New(gen generation.Generator) *Classifier {
	return &Classifier{
		gen:    gen,
		system: fmt.Sprintf(systemPrompt, strings.Join(emotion.Labels(), ", ")),
	}
}

// PredictLabel returns the first known label found in the answer, or
// neutral when the answer names none.
func (c *Classifier) PredictLabel(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return emotion.Neutral, nil
	}

	out, err := c.gen.Generate(ctx, generation.Request{
		System:      c.system,
		Prompt:      text,
		MaxTokens:   5,
		Temperature: 0.01,
	})
	if err != nil {
		return "", fmt.Errorf("classifying emotion: %w", err)
	}

	for _, w := range strings.FieldsFunc(strings.ToLower(out), func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if emotion.Known(w) {
			return w, nil
		}
	}
	return emotion.Neutral, nil
}

var _ emotion.Classifier = (*Classifier)(nil)
