package persistence

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

// MemoryDocumentStore keeps documents in process memory. It backs the "memory"
// driver for local runs and the use case tests.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	ops         map[string]int
}

var _ service.DocumentStore = (*MemoryDocumentStore)(nil)

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]map[string]map[string]any),
		ops:         make(map[string]int),
	}
}

func (s *MemoryDocumentStore) Get(_ context.Context, path document.Path) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["get"]++

	docs := s.collections[path.Parent().String()]
	data, ok := docs[path.ID()]
	if !ok {
		return nil, apperror.NewNotFound("document", path.String())
	}
	return &document.Document{ID: path.ID(), Path: path, Data: maps.Clone(data)}, nil
}

func (s *MemoryDocumentStore) List(_ context.Context, collection document.Path) ([]*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["list"]++

	docs := s.collections[collection.String()]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*document.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, &document.Document{ID: id, Path: collection.Child(id), Data: maps.Clone(docs[id])})
	}
	return out, nil
}

func (s *MemoryDocumentStore) Set(_ context.Context, path document.Path, data map[string]any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["set"]++

	docs := s.collection(path.Parent().String())
	current, ok := docs[path.ID()]
	if !merge || !ok {
		docs[path.ID()] = maps.Clone(data)
		return nil
	}
	maps.Copy(current, data)
	return nil
}

func (s *MemoryDocumentStore) Create(_ context.Context, collection document.Path, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["create"]++

	id := uuid.NewString()
	s.collection(collection.String())[id] = maps.Clone(data)
	return id, nil
}

// Delete is a no-op for a missing document.
func (s *MemoryDocumentStore) Delete(_ context.Context, path document.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["delete"]++

	delete(s.collections[path.Parent().String()], path.ID())
	return nil
}

// Writes counts Set, Create and Delete calls.
func (s *MemoryDocumentStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops["set"] + s.ops["create"] + s.ops["delete"]
}

// Lists counts List calls.
func (s *MemoryDocumentStore) Lists() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops["list"]
}

func (s *MemoryDocumentStore) collection(key string) map[string]map[string]any {
	docs, ok := s.collections[key]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[key] = docs
	}
	return docs
}
