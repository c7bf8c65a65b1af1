// Package chromem provides an embedded, pure Go vector driver backed by
// chromem-go. It needs no external service, which makes it the default for
// local runs.
package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/vector"
)

// DefaultCollectionName is the collection used when none is configured.
const DefaultCollectionName = "character_facts"

// Config holds configuration for the chromem driver.
type Config struct {
	// Path persists the database to disk. Empty keeps it in memory only.
	Path string

	// Compress gzips persisted files.
	Compress bool

	CollectionName string
}

// Driver implements vector.Driver on a chromem-go collection.
type Driver struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	logger     *slog.Logger
}

// NewDriver opens (or creates) the configured collection.
func NewDriver(c Config, log *slog.Logger) (*Driver, error) {
	log = logger.OrNop(log)

	var (
		db  *chromem.DB
		err error
	)
	if c.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(c.Path, c.Compress)
		if err != nil {
			return nil, fmt.Errorf("%w: opening chromem db at %s: %w", vector.ErrConnection, c.Path, err)
		}
	}

	name := c.CollectionName
	if name == "" {
		name = DefaultCollectionName
	}

	// Embeddings are always supplied by the caller, so no embedding func.
	collection, err := db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("getting or creating collection %q: %w", name, err)
	}

	log.Info("opened chromem collection",
		"path", c.Path,
		"collection", name,
		"documents", collection.Count(),
	)

	return &Driver{
		db:         db,
		collection: collection,
		logger:     log,
	}, nil
}

// Add upserts documents. chromem replaces documents that share an ID.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		err := d.collection.AddDocument(ctx, chromem.Document{
			ID:        doc.ID,
			Metadata:  map[string]string{"hash": doc.Hash},
			Embedding: doc.Embedding,
			Content:   doc.Content,
		})
		if err != nil {
			return fmt.Errorf("adding document %s: %w", doc.ID, err)
		}
	}

	d.logger.Debug("added documents to chromem", "count", len(docs))
	return nil
}

// Query returns up to topK documents ordered by ascending cosine distance.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// chromem rejects nResults larger than the collection.
	n := min(topK, d.collection.Count())
	if n == 0 {
		return nil, nil
	}

	found, err := d.collection.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying chromem: %w", err)
	}

	results := make([]vector.QueryResult, 0, len(found))
	for _, r := range found {
		results = append(results, vector.QueryResult{
			Document: vector.Document{
				ID:        r.ID,
				Hash:      hashOf(r.ID, r.Metadata),
				Content:   r.Content,
				Embedding: r.Embedding,
			},
			Distance: 1 - r.Similarity,
		})
	}
	return results, nil
}

// Get retrieves documents by ID, skipping unknown IDs.
func (d *Driver) Get(ctx context.Context, ids []string) ([]vector.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	docs := make([]vector.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := d.collection.GetByID(ctx, id)
		if err != nil {
			continue
		}
		docs = append(docs, vector.Document{
			ID:        doc.ID,
			Hash:      hashOf(doc.ID, doc.Metadata),
			Content:   doc.Content,
			Embedding: doc.Embedding,
		})
	}
	return docs, nil
}

// Delete removes documents by ID.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// Close is a no-op; persistent databases write through on every change.
func (d *Driver) Close() error {
	return nil
}

func hashOf(id string, metadata map[string]string) string {
	if h, ok := metadata["hash"]; ok && h != "" {
		return h
	}
	return id
}

var _ vector.Driver = (*Driver)(nil)
