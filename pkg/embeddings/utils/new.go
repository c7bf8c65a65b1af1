// Package embeddingutils builds the configured embeddings.Embedder.
package embeddingutils

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Gorgooo61/AI-character/pkg/embeddings"
	"github.com/Gorgooo61/AI-character/pkg/embeddings/cache"
	"github.com/Gorgooo61/AI-character/pkg/embeddings/ollama"
)

// ErrUnknownProvider is returned for an unsupported embedding provider.
var ErrUnknownProvider = errors.New("unsupported embedding provider")

const ProviderOllama = "ollama"

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string

	// CacheBytes enables the in-process embedding cache when > 0.
	CacheBytes int64

	Logger *slog.Logger
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	var (
		e   embeddings.Embedder
		err error
	)
	switch o.ProviderType {
	case ProviderOllama:
		e, err = ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Logger:  o.Logger,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, o.ProviderType)
	}
	if err != nil {
		return nil, err
	}

	if o.CacheBytes > 0 {
		return cache.New(e, o.CacheBytes)
	}
	return e, nil
}
