// Package generationutils builds the configured generation.Generator.
package generationutils

import (
	"fmt"
	"log/slog"

	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/generation/anthropic"
	"github.com/Gorgooo61/AI-character/pkg/generation/ollama"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	KeepAlive    string
	Logger       *slog.Logger
}

func NewGenerator(o *NewGeneratorOpts) (generation.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL:   o.TargetURL,
			Model:     o.Model,
			KeepAlive: o.KeepAlive,
			Logger:    o.Logger,
		}), nil
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:  o.APIKey,
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Logger:  o.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", o.ProviderType)
	}
}
