// Package vector provides the vector storage interface used by long-term
// memory and its driver implementations.
package vector

import "context"

// Document represents a stored item with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document (the fact content hash).
	ID string

	// Hash is the content hash this document corresponds to.
	Hash string

	// Content is the text the embedding was computed from.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// QueryResult represents a search result with its cosine distance to the
// query embedding.
type QueryResult struct {
	Document

	// Distance is the cosine distance to the query (0 = same direction,
	// 1 = orthogonal, 2 = opposite).
	Distance float32
}

// Similarity converts Distance into a cosine similarity (1 - distance).
func (r QueryResult) Similarity() float32 {
	return 1 - r.Distance
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers must
	// replace it so repeated adds never duplicate.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK documents closest to the given embedding,
	// ordered by ascending cosine distance.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs. Unknown IDs are skipped.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
