package service

import (
	"context"
	"sync"

	"omnibox_backend/internal/history"
)

// memoryStore is a minimal in-process history.Store for tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]history.Entry
}

func (s *memoryStore) Record(_ context.Context, clientID string, entry history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string][]history.Entry)
	}
	s.entries[clientID] = append([]history.Entry{entry}, s.entries[clientID]...)
	return nil
}

func (s *memoryStore) Recent(_ context.Context, clientID string, limit int) ([]history.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[clientID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return append([]history.Entry(nil), entries...), nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }
