package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryAdapter keeps the snapshot in process memory. Tests use it as a fake backend.
type MemoryAdapter struct {
	mu      sync.Mutex
	blob    []byte
	saves   int
	saveErr error
	loadErr error
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

// Seed stores blob as if it had been saved by an earlier session.
func (m *MemoryAdapter) Seed(blob []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = slices.Clone(blob)
}

// FailSaves makes every following Save return err. A nil err restores normal behaviour.
func (m *MemoryAdapter) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// FailLoads makes every following Load return err.
func (m *MemoryAdapter) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// Clear drops the stored snapshot.
func (m *MemoryAdapter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
}

// Saves counts successful saves.
func (m *MemoryAdapter) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryAdapter) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.blob == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(m.blob), nil
}

func (m *MemoryAdapter) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.blob = slices.Clone(blob)
	m.saves++
	return nil
}

func (m *MemoryAdapter) Close() error { return nil }
