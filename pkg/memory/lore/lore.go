// Package lore holds the static knowledge base: a fixed list of background
// facts loaded once at startup and searched by fuzzy partial match.
package lore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/Gorgooo61/AI-character/pkg/fuzzy"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

const (
	DefaultThreshold = 80
	DefaultTopK      = 1
)

// Store is an immutable list of lore entries.
type Store struct {
	entries []string
}

// New creates a Store over entries.
func New(entries []string) *Store {
	return &Store{entries: slices.Clone(entries)}
}

// LoadFile reads a JSON array of strings. A missing file yields an empty
// store and a warning; a malformed file is an error.
func LoadFile(path string, log *slog.Logger) (*Store, error) {
	log = logger.OrNop(log)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("lore file not found, starting with empty lore", "path", path)
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lore file %s: %w", path, err)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing lore file %s: %w", path, err)
	}

	log.Info("loaded lore", "path", path, "entries", len(entries))
	return New(entries), nil
}

// Search scores every entry against query with a partial ratio, keeps those
// scoring at least threshold, and returns the best topK, highest first. Ties
// keep file order.
func (s *Store) Search(query string, threshold float64, topK int) []string {
	if topK <= 0 {
		return nil
	}
	q := strings.TrimSpace(query)

	type scored struct {
		text  string
		score float64
	}
	var hits []scored
	for _, e := range s.entries {
		if score := fuzzy.PartialRatio(q, e); score >= threshold {
			hits = append(hits, scored{text: e, score: score})
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out
}

// Entries returns a copy of all entries.
func (s *Store) Entries() []string {
	return slices.Clone(s.entries)
}

// Len reports the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}
