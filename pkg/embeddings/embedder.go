// Package embeddings turns fact text into vectors for the long-term store.
// Providers live in subpackages; cache wraps any of them.
package embeddings

import "context"

// Embedder maps text to a fixed-width vector. Every vector returned by one
// Embedder has the same length, which must match the vector store's
// configured dimensions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}
