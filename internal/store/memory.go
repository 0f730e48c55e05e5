package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory builds an in-memory store used in tests and dev mode.
func NewMemory() Store {
	return &memoryStore{records: make(map[string]Record)}
}

func (s *memoryStore) Load(_ context.Context, identifier string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identifier]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Identifier] = rec
	return nil
}

func (s *memoryStore) Exists(_ context.Context, identifier string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[identifier]
	return ok, nil
}

func (s *memoryStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[identifier]; !ok {
		return ErrNotFound
	}
	delete(s.records, identifier)
	return nil
}
