// Package memory composes the three memory tiers behind one orchestrator:
//
//   - short-term: the recent transcript held in process (shortterm)
//   - long-term: embedded facts in a vector store (longterm)
//   - lore: the static knowledge base (lore)
//
// A turn is opened with StartTurn, the prompt context is assembled with
// BuildContext, and facts are distilled from completed exchanges later,
// off the hot path, with ExtractAndStore.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/memory/facts"
	"github.com/Gorgooo61/AI-character/pkg/memory/longterm"
	"github.com/Gorgooo61/AI-character/pkg/memory/lore"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
)

// Section labels used in the assembled context.
const (
	UserTag   = "[USER]"
	LoreTag   = "[LORE]"
	RecentTag = "[RECENT]"
	FactTag   = "[FACT]"
)

// FactStore is the long-term tier.
type FactStore interface {
	AddFact(ctx context.Context, text string) (string, error)
	SearchWithThresholds(ctx context.Context, query string, t longterm.Thresholds) ([]string, error)
}

// LoreSearcher is the static knowledge tier.
type LoreSearcher interface {
	Search(query string, threshold float64, topK int) []string
}

// Extractor distills facts from an exchange.
type Extractor interface {
	Extract(ctx context.Context, userText, assistantText string) ([]string, error)
}

// Thresholds gathers every retrieval knob used by BuildContext.
type Thresholds struct {
	Long longterm.Thresholds `json:"long"`

	LoreThreshold float64 `json:"lore_threshold"`
	LoreTopK      int     `json:"lore_top_k"`

	ShortThreshold float64 `json:"short_threshold"`
}

// DefaultThresholds returns the standard retrieval settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Long:           longterm.DefaultThresholds(),
		LoreThreshold:  lore.DefaultThreshold,
		LoreTopK:       lore.DefaultTopK,
		ShortThreshold: shortterm.DefaultThreshold,
	}
}

// Config wires the orchestrator's collaborators. Short is required; Facts,
// Lore and Extractor may be nil, which disables their tier.
type Config struct {
	Short     *shortterm.Store
	Facts     FactStore
	Lore      LoreSearcher
	Extractor Extractor
	Logger    *slog.Logger
}

// Orchestrator owns the memory tiers for the single ongoing conversation.
type Orchestrator struct {
	short     *shortterm.Store
	facts     FactStore
	lore      LoreSearcher
	extractor Extractor
	logger    *slog.Logger
}

// New creates an Orchestrator.
func New(c Config) *Orchestrator {
	short := c.Short
	if short == nil {
		short = shortterm.NewStore(shortterm.Config{})
	}
	return &Orchestrator{
		short:     short,
		facts:     c.Facts,
		lore:      c.Lore,
		extractor: c.Extractor,
		logger:    logger.OrNop(c.Logger),
	}
}

// Short returns the short-term store.
func (o *Orchestrator) Short() *shortterm.Store {
	return o.short
}

// Recent returns the short-term turns still inside the retention window,
// oldest first.
func (o *Orchestrator) Recent() []shortterm.Turn {
	o.short.Sweep()
	return o.short.Turns()
}

// TagUser prefixes raw user text with the user tag.
func TagUser(raw string) string {
	return UserTag + ": " + strings.TrimSpace(raw)
}

// StartTurn records raw as a pending turn and returns its id.
func (o *Orchestrator) StartTurn(raw string) string {
	return o.short.AddPending(TagUser(raw))
}

// CompleteTurn attaches the assistant reply to a pending turn.
func (o *Orchestrator) CompleteTurn(id, assistantText string) bool {
	return o.short.Complete(id, assistantText)
}

// BuildContext assembles the labelled context for raw. Sections appear in
// the order user, lore, recent, fact and are omitted when empty. A failing
// long-term search drops the fact section and is only logged.
func (o *Orchestrator) BuildContext(ctx context.Context, raw string, t Thresholds) string {
	raw = strings.TrimSpace(raw)
	parts := []string{TagUser(raw)}

	if o.lore != nil {
		if text := joinNonEmpty(o.lore.Search(raw, t.LoreThreshold, t.LoreTopK)); text != "" {
			parts = append(parts, LoreTag+": "+text)
		}
	}

	if turn, ok := o.short.FuzzySearch(raw, t.ShortThreshold, true); ok {
		u := facts.StripUserTag(turn.UserText)
		a := strings.TrimSpace(turn.AssistantText)
		if u != "" || a != "" {
			parts = append(parts, RecentTag+":\nUser: "+u+"\nAssistant: "+a)
		}
	}

	if o.facts != nil {
		hits, err := o.facts.SearchWithThresholds(ctx, raw, t.Long)
		if err != nil {
			o.logger.Warn("long-term search failed, omitting facts", "error", err)
		} else if text := joinNonEmpty(hits); text != "" {
			parts = append(parts, FactTag+": "+text)
		}
	}

	return strings.Join(parts, "\n")
}

// ExtractAndStore distills facts from an exchange and stores each one. It
// returns the stored facts. Errors are for logging; the caller never needs
// to retry.
func (o *Orchestrator) ExtractAndStore(ctx context.Context, userText, assistantText string) ([]string, error) {
	if o.extractor == nil || o.facts == nil {
		return nil, ErrNotConfigured
	}

	extracted, err := o.extractor.Extract(ctx, strings.TrimSpace(userText), strings.TrimSpace(assistantText))
	if err != nil {
		return nil, err
	}

	var (
		stored []string
		errs   []error
	)
	for _, f := range extracted {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, err := o.facts.AddFact(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("storing fact %q: %w", f, err))
			continue
		}
		stored = append(stored, f)
	}

	if len(stored) > 0 {
		o.logger.Info("stored long-term facts", "count", len(stored))
	}
	return stored, errors.Join(errs...)
}

// SearchFacts runs the tiered long-term search directly.
func (o *Orchestrator) SearchFacts(ctx context.Context, query string, t longterm.Thresholds) ([]string, error) {
	if o.facts == nil {
		return nil, ErrNotConfigured
	}
	return o.facts.SearchWithThresholds(ctx, query, t)
}

// SearchLore runs the lore search directly.
func (o *Orchestrator) SearchLore(query string, threshold float64, topK int) []string {
	if o.lore == nil {
		return nil
	}
	return o.lore.Search(query, threshold, topK)
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ". ")
}
