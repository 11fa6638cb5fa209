package store

import (
	"context"
	"sync"

	"contactbook/internal/contact/models"
)

// InMemory keeps a private copy of the last saved snapshot.
type InMemory struct {
	mu       sync.RWMutex
	snapshot *models.Snapshot
	saves    int
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Load(_ context.Context) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return models.EmptySnapshot(), nil
	}
	return cloneSnapshot(*s.snapshot), nil
}

func (s *InMemory) Save(_ context.Context, snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneSnapshot(snapshot)
	s.snapshot = &c
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *InMemory) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
