package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
)

// MemoryStore is an in-process Store used by tests. Like the modeled
// document store it has no unique-constraint primitive.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// collection lazily creates the named collection. Callers must hold the
// write lock; read paths index s.collections directly so they never mutate
// the map under RLock.
func (s *MemoryStore) collection(name string) map[string]Document {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]Document)
		s.collections[name] = col
	}
	return col
}

func (s *MemoryStore) Create(ctx context.Context, collection, id string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Storage("context cancelled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	col := s.collection(collection)
	if _, exists := col[id]; exists {
		return "", apperr.Conflict("document already exists")
	}
	col[id] = cloneDoc(doc)
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Storage("context cancelled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return withID(doc, id), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	if err := ctx.Err(); err != nil {
		return apperr.Storage("context cancelled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	doc, ok := col[id]
	if !ok {
		return apperr.NotFound("document not found")
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return apperr.Storage("context cancelled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, limit int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Storage("context cancelled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, doc := range s.collections[collection] {
		if limit > 0 && int64(len(docs)) >= limit {
			break
		}
		docs = append(docs, withID(doc, id))
	}
	return docs, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field string, op Operator, value any, limit int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Storage("context cancelled", err)
	}
	if op != OpEqual {
		return nil, apperr.Storage("unsupported query operator "+string(op), nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, doc := range s.collections[collection] {
		if doc[field] != value {
			continue
		}
		if limit > 0 && int64(len(docs)) >= limit {
			break
		}
		docs = append(docs, withID(doc, id))
	}
	return docs, nil
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func withID(doc Document, id string) Document {
	out := cloneDoc(doc)
	out["id"] = id
	return out
}
