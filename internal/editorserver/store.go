package editorserver

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
)

// ErrDocumentNotFound is returned by a Store when no document has the id.
var ErrDocumentNotFound = errors.New("document not found")

// Store persists graph documents.
type Store interface {
	Get(ctx context.Context, id string) (*roomgraph.Document, error)
	Save(ctx context.Context, doc *roomgraph.Document) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*roomgraph.Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*roomgraph.Document)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*roomgraph.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, doc *roomgraph.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}
