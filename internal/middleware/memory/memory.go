// Package memory contains in-process implementation of middleware.Storage.
package memory

import (
	"context"
	"sync"
	"time"
)

type item struct {
	content   []byte
	expiresAt time.Time
}

// Storage keeps responses in a map. Expired items are removed on access and by Set.
type Storage struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// NewStorage creates new instance of Storage.
func NewStorage() *Storage {
	return &Storage{
		items: make(map[string]item),
		now:   time.Now,
	}
}

// Get returns content by key or nil.
func (s *Storage) Get(_ context.Context, key string) []byte {
	s.mu.RLock()
	i, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if !s.now().Before(i.expiresAt) {
		s.mu.Lock()
		if i, ok := s.items[key]; ok && !s.now().Before(i.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil
	}

	return i.content
}

// Set puts content for duration.
func (s *Storage) Set(_ context.Context, key string, content []byte, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.items {
		if !now.Before(v.expiresAt) {
			delete(s.items, k)
		}
	}

	s.items[key] = item{
		content:   content,
		expiresAt: now.Add(duration),
	}
}

// Len returns number of stored items including expired ones.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
