package testutils

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/Gorgooo61/AI-character/pkg/vector"
)

// MockVectorDriver is an in-memory vector.Driver that ranks by cosine
// distance. Insertion order breaks ties.
type MockVectorDriver struct {
	mu    sync.Mutex
	order []string
	docs  map[string]vector.Document

	// FailQuery and FailAdd make the matching operation return an error.
	FailQuery bool
	FailAdd   bool
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		docs: make(map[string]vector.Document),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAdd {
		return errors.New("mock add failure")
	}
	for _, d := range docs {
		if _, ok := m.docs[d.ID]; !ok {
			m.order = append(m.order, d.ID)
		}
		d.Embedding = slices.Clone(d.Embedding)
		m.docs[d.ID] = d
	}
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailQuery {
		return nil, errors.New("mock query failure")
	}
	if topK <= 0 {
		topK = 10
	}

	results := make([]vector.QueryResult, 0, len(m.order))
	for _, id := range m.order {
		d := m.docs[id]
		results = append(results, vector.QueryResult{
			Document: d,
			Distance: vector.CosineDistance(embedding, d.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *MockVectorDriver) Get(_ context.Context, ids []string) ([]vector.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []vector.Document
	for _, id := range ids {
		if d, ok := m.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockVectorDriver) Delete(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if _, ok := m.docs[id]; !ok {
			continue
		}
		delete(m.docs, id)
		m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	}
	return nil
}

// Len reports how many documents are stored.
func (m *MockVectorDriver) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *MockVectorDriver) Close() error {
	return nil
}
