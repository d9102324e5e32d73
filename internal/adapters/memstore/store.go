package memstore

// Package memstore provides the session-scoped state store: values live
// only for the process lifetime, the analog of tab-scoped browser storage.

import (
	"context"
	"sync"

	"github.com/mediwound/wardview/internal/ports"
)

// Store is an in-memory ports.StateStore safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[ports.Key]string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[ports.Key]string)}
}

func (s *Store) Get(_ context.Context, key ports.Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key ports.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...ports.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len returns the number of stored keys. Used by tests asserting that a
// scope holds no leftover state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
