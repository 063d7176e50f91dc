package repositories

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryStore is a process local KeyValueStore
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a value by key
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.value, ok, nil
}

// GetMany returns the present keys under one read lock
func (s *MemoryStore) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			out[k] = e.value
		}
	}
	return out, nil
}

// Set stores a value
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, updatedAt: s.now()}
	return nil
}

// SetMany stores all values under one write lock
func (s *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range values {
		s.entries[k] = memoryEntry{value: v, updatedAt: now}
	}
	return nil
}

// Remove deletes keys; missing keys are ignored
func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// DeleteOlderThan drops entries under prefix not written since cutoff
func (s *MemoryStore) DeleteOlderThan(_ context.Context, prefix string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, e := range s.entries {
		if strings.HasPrefix(k, prefix) && e.updatedAt.Before(cutoff) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}
