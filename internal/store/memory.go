// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"

	"superpage/internal/models"
)

// MemoryStore is an in-process HistoryStore and ThemeStore. It backs
// tests and runs without a Valkey instance in development.
type MemoryStore struct {
	mu      sync.Mutex
	history []models.Artifact
	theme   string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load(_ context.Context) ([]models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Artifact, len(s.history))
	copy(out, s.history)
	return out, nil
}

// Save replaces the stored history with a copy of the snapshot.
func (s *MemoryStore) Save(_ context.Context, history []models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make([]models.Artifact, len(history))
	copy(s.history, history)
	return nil
}

// Clear drops the stored history.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

// Theme returns the stored theme preference.
func (s *MemoryStore) Theme(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

// SetTheme stores the theme preference.
func (s *MemoryStore) SetTheme(_ context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}
