// Package inmemory is a process-local turn archive.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/Gorgooo61/AI-character/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu guards turns and order
	mu sync.RWMutex

	turns map[string]*storage.Turn

	// order keeps insertion order for stable listing
	order []string
}

// NewDriver creates a new in-memory archive.
func NewDriver() *Driver {
	return &Driver{
		turns: make(map[string]*storage.Turn),
	}
}

func (d *Driver) Put(_ context.Context, turn *storage.Turn) (bool, error) {
	if turn == nil {
		return false, storage.ErrNilTurn
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.turns[turn.ID]; ok {
		return false, nil
	}

	cp := *turn
	d.turns[turn.ID] = &cp
	d.order = append(d.order, turn.ID)
	return true, nil
}

func (d *Driver) Get(_ context.Context, id string) (*storage.Turn, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.turns[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}
	cp := *t
	return &cp, nil
}

func (d *Driver) List(_ context.Context, limit int) ([]*storage.Turn, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	d.mu.RLock()
	out := make([]*storage.Turn, 0, len(d.order))
	for i := len(d.order) - 1; i >= 0; i-- {
		cp := *d.turns[d.order[i]]
		out = append(out, &cp)
	}
	d.mu.RUnlock()

	// newest insert first already; stable sort keeps that for equal times
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *Driver) Close() error {
	return nil
}

var _ storage.Driver = (*Driver)(nil)
