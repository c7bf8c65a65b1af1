// Package longterm is the persistent fact store. Facts are content
// addressed by the sha256 of their trimmed text and retrieved by embedding
// similarity with a two-tier threshold fallback.
package longterm

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Gorgooo61/AI-character/pkg/embeddings"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/vector"
)

const (
	DefaultPrimaryThreshold  = 0.80
	DefaultPrimaryTopK       = 5
	DefaultFallbackThreshold = 0.50
	DefaultFallbackTopK      = 1

	// minCandidatePool is the smallest number of neighbours fetched per
	// search, whatever the tiers ask for.
	minCandidatePool = 10
)

var (
	// ErrEmptyFact is returned when a fact is empty after trimming.
	ErrEmptyFact = errors.New("fact text is empty")
)

// Fact is a stored long-term fact.
type Fact struct {
	Hash      string    `json:"hash"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// Thresholds configures the two search tiers. Similarities are in [0, 1].
type Thresholds struct {
	Primary      float64 `json:"primary"`
	PrimaryTopK  int     `json:"primary_top_k"`
	Fallback     float64 `json:"fallback"`
	FallbackTopK int     `json:"fallback_top_k"`
}

// DefaultThresholds returns 0.80/top5 primary and 0.50/top1 fallback.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Primary:      DefaultPrimaryThreshold,
		PrimaryTopK:  DefaultPrimaryTopK,
		Fallback:     DefaultFallbackThreshold,
		FallbackTopK: DefaultFallbackTopK,
	}
}

// Store persists facts through a vector.Driver using an embeddings.Embedder.
type Store struct {
	driver   vector.Driver
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// New creates a Store.
func New(driver vector.Driver, embedder embeddings.Embedder, log *slog.Logger) *Store {
	return &Store{
		driver:   driver,
		embedder: embedder,
		logger:   logger.OrNop(log),
	}
}

// Hash returns the content address of text: the lowercase hex sha256 of the
// trimmed text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// AddFact embeds and upserts text, returning its hash. Re-adding the same
// text (modulo surrounding whitespace) keeps exactly one record.
func (s *Store) AddFact(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyFact
	}

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embedding fact: %w", err)
	}

	hash := Hash(text)
	err = s.driver.Add(ctx, []vector.Document{{
		ID:        hash,
		Hash:      hash,
		Content:   text,
		Embedding: emb,
	}})
	if err != nil {
		return "", fmt.Errorf("storing fact %s: %w", hash, err)
	}

	s.logger.Debug("stored long-term fact", "hash", hash, "text", text)
	return hash, nil
}

// Get returns the fact stored under hash.
func (s *Store) Get(ctx context.Context, hash string) (Fact, error) {
	docs, err := s.driver.Get(ctx, []string{hash})
	if err != nil {
		return Fact{}, fmt.Errorf("getting fact %s: %w", hash, err)
	}
	if len(docs) == 0 {
		return Fact{}, fmt.Errorf("%w: %s", vector.ErrNotFound, hash)
	}
	return Fact{Hash: docs[0].ID, Text: docs[0].Content, Embedding: docs[0].Embedding}, nil
}

// SearchWithThresholds returns the texts of facts similar to query. The
// primary tier applies when any candidate reaches t.Primary; otherwise the
// fallback tier applies; otherwise the result is empty. Results are ordered
// by descending similarity.
func (s *Store) SearchWithThresholds(ctx context.Context, query string, t Thresholds) ([]string, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	pool := max(t.PrimaryTopK, t.FallbackTopK, minCandidatePool)
	candidates, err := s.driver.Query(ctx, emb, pool)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}

	texts := selectTier(candidates, t)
	s.logger.Debug("long-term search",
		"candidates", len(candidates),
		"results", len(texts),
	)
	return texts, nil
}

// selectTier applies the two-tier rule to candidates.
func selectTier(candidates []vector.QueryResult, t Thresholds) []string {
	candidates = slices.Clone(candidates)
	slices.SortStableFunc(candidates, func(a, b vector.QueryResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	primary := filter(candidates, t.Primary, t.PrimaryTopK)
	if len(primary) > 0 {
		return primary
	}
	return filter(candidates, t.Fallback, t.FallbackTopK)
}

func filter(candidates []vector.QueryResult, threshold float64, topK int) []string {
	var out []string
	for _, c := range candidates {
		if len(out) >= topK {
			break
		}
		if float64(c.Similarity()) >= threshold {
			out = append(out, c.Content)
		}
	}
	return out
}
