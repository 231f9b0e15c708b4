package permissions

import (
	"context"
	"sync"
)

var _ StoreAPI = (*MemoryStore)(nil)

// MemoryStore keeps the document in memory. It serves tests and runs without
// a database.
type MemoryStore struct {
	mu        sync.Mutex
	doc       Document
	updatedBy string
	loads     int
	saveErr   error
}

// NewMemoryStore returns a store seeded with doc. A nil doc behaves like a
// database that has never stored one.
func NewMemoryStore(doc Document) *MemoryStore {
	if doc == nil {
		return &MemoryStore{}
	}
	return &MemoryStore{doc: doc.Clone()}
}

func (m *MemoryStore) LoadDocument(context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.doc == nil {
		return nil, ErrNotStored
	}
	return m.doc.Clone(), nil
}

func (m *MemoryStore) SaveDocument(_ context.Context, doc Document, updatedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = doc.Clone()
	m.updatedBy = updatedBy
	return nil
}
