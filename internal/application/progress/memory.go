package progress

import (
	"context"
	"sync"

	"glassbird/internal/domain"
)

type MemoryStorage struct {
	mu        sync.Mutex
	snapshots map[string]domain.CompletionMap
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{snapshots: map[string]domain.CompletionMap{}}
}

func (s *MemoryStorage) Load(_ context.Context, owner string) (domain.CompletionMap, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[owner]
	if !ok {
		return domain.NewCompletionMap(), false, nil
	}
	return snapshot.Clone(), true, nil
}

func (s *MemoryStorage) Save(_ context.Context, owner string, snapshot domain.CompletionMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[owner] = snapshot.Clone()
	return nil
}
