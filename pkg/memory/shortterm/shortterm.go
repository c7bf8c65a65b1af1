// Package shortterm keeps the recent conversation transcript in memory.
//
// Turns are kept in insertion order and dropped once they are older than the
// retention window. Every mutating call sweeps expired turns first, so after
// any AddPending or Complete no remaining turn is older than the window.
package shortterm

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gorgooo61/AI-character/pkg/fuzzy"
)

const (
	// DefaultTTL is the default retention window.
	DefaultTTL = 300 * time.Second

	// DefaultThreshold is the default minimum fuzzy score for FuzzySearch.
	DefaultThreshold = 70.0
)

// Turn is one user utterance and, once completed, the assistant's reply.
type Turn struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
}

// Pending reports whether the turn still awaits its assistant text.
func (t Turn) Pending() bool {
	return t.AssistantText == ""
}

// Config holds configuration for the store.
type Config struct {
	// TTL is the retention window. Defaults to DefaultTTL if zero.
	TTL time.Duration

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time

	// NewID overrides turn id generation. Defaults to random uuid hex.
	NewID func() string
}

// Store is the in-memory turn log.
//
// The store does not enforce a single pending turn: callers complete the
// current turn before starting the next one.
type Store struct {
	ttl   time.Duration
	now   func() time.Time
	newID func() string

	mu    sync.RWMutex
	turns []Turn
}

// NewStore creates an empty store.
func NewStore(c Config) *Store {
	s := &Store{
		ttl:   c.TTL,
		now:   c.Now,
		newID: c.NewID,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		}
	}
	return s
}

// TTL returns the retention window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// AddPending appends a turn with no assistant text and returns its id.
func (s *Store) AddPending(userText string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	id := s.newID()
	s.turns = append(s.turns, Turn{
		ID:        id,
		CreatedAt: now,
		UserText:  userText,
	})
	return id
}

// Complete fills in the assistant text of the pending turn with the given id.
// It returns false when the id is unknown (never added or already evicted),
// when the turn was already completed, or when assistantText is empty.
func (s *Store) Complete(id, assistantText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())

	if assistantText == "" {
		return false
	}

	for i := range s.turns {
		if s.turns[i].ID != id {
			continue
		}
		if !s.turns[i].Pending() {
			return false
		}
		s.turns[i].AssistantText = assistantText
		return true
	}
	return false
}

// LatestPendingID returns the id of the newest turn still awaiting its
// assistant text.
func (s *Store) LatestPendingID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestPendingLocked()
}

// FuzzySearch returns the turn whose user text best matches query, scoring
// with fuzzy.PartialRatio on a 0-100 scale. Only scores at or above threshold
// qualify; on equal scores the oldest turn wins. With excludeLatestPending the
// newest pending turn is skipped so a just-started turn never matches itself.
// Turns past the retention window never match, swept or not.
func (s *Store) FuzzySearch(query string, threshold float64, excludeLatestPending bool) (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var skip string
	if excludeLatestPending {
		skip, _ = s.latestPendingLocked()
	}

	var (
		now   = s.now()
		best  Turn
		score = -1.0
		found bool
	)
	for _, t := range s.turns {
		if skip != "" && t.ID == skip {
			continue
		}
		if now.Sub(t.CreatedAt) >= s.ttl {
			continue
		}
		sc := fuzzy.PartialRatio(query, t.UserText)
		if sc >= threshold && sc > score {
			best, score, found = t, sc, true
		}
	}
	return best, found
}

// Sweep drops expired turns and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Turns returns a copy of the log, oldest first.
func (s *Store) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

func (s *Store) latestPendingLocked() (string, bool) {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Pending() {
			return s.turns[i].ID, true
		}
	}
	return "", false
}

func (s *Store) sweepLocked(now time.Time) int {
	kept := s.turns[:0]
	for _, t := range s.turns {
		if now.Sub(t.CreatedAt) < s.ttl {
			kept = append(kept, t)
		}
	}
	removed := len(s.turns) - len(kept)
	for i := len(kept); i < len(s.turns); i++ {
		s.turns[i] = Turn{}
	}
	s.turns = kept
	return removed
}
