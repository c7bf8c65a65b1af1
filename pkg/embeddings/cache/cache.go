// Package cache wraps an embeddings.Embedder with an in-process ristretto
// cache so repeated texts (lore queries, re-stated facts) are embedded once.
package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/dgraph-io/ristretto"

	"github.com/Gorgooo61/AI-character/pkg/embeddings"
)

// DefaultMaxBytes bounds the cached embedding payload.
const DefaultMaxBytes = 64 << 20

// Embedder caches the results of an inner Embedder keyed by text.
type Embedder struct {
	inner embeddings.Embedder
	cache *ristretto.Cache
}

// New wraps inner. maxBytes <= 0 uses DefaultMaxBytes.
func New(inner embeddings.Embedder, maxBytes int64) (*Embedder, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		// Roughly 10x the expected number of entries at ~3KB per vector.
		NumCounters: max(maxBytes/300, 1000),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}

	return &Embedder{inner: inner, cache: c}, nil
}

// Embed returns a cached embedding for text or computes and stores one.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		if emb, ok := v.([]float32); ok {
			return slices.Clone(emb), nil
		}
	}

	emb, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(text, slices.Clone(emb), int64(len(emb)*4))
	return emb, nil
}

// Wait blocks until buffered writes are visible to Get.
func (e *Embedder) Wait() {
	e.cache.Wait()
}

// Close closes the cache and the inner embedder.
func (e *Embedder) Close() error {
	e.cache.Close()
	return e.inner.Close()
}

var _ embeddings.Embedder = (*Embedder)(nil)
