// Package emotion classifies generated text into one of a fixed set of
// emotion labels used to drive avatar expressions.
package emotion

import (
	"context"
	"slices"
	"strings"
)

const (
	Anger    = "anger"
	Disgust  = "disgust"
	Fear     = "fear"
	Joy      = "joy"
	Neutral  = "neutral"
	Sadness  = "sadness"
	Surprise = "surprise"
)

var labels = []string{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}

// Labels returns the supported labels in alphabetical order.
func Labels() []string {
	return slices.Clone(labels)
}

// Known reports whether label is a supported label.
func Known(label string) bool {
	return slices.Contains(labels, label)
}

// Normalize lowercases and trims label. Empty input becomes Neutral.
func Normalize(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return Neutral
	}
	return l
}

// Classifier predicts the emotion label of a piece of text. Empty text is
// always Neutral.
type Classifier interface {
	PredictLabel(ctx context.Context, text string) (string, error)
}
