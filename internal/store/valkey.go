// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"superpage/internal/models"
)

const (
	historyKey = "superpage:history"
	themeKey   = "superpage:theme"
)

// ValkeyStore keeps history and theme in Valkey. Values have no TTL;
// they live until explicitly cleared.
type ValkeyStore struct {
	client *redis.Client
}

// NewValkeyStore returns a ValkeyStore backed by the given client.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// Load reads the stored history. A missing key or a value that no
// longer parses yields an empty history, not an error; a corrupt blob
// is logged and treated as absent.
func (s *ValkeyStore) Load(ctx context.Context) ([]models.Artifact, error) {
	raw, err := s.client.Get(ctx, historyKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var history []models.Artifact
	if err := json.Unmarshal(raw, &history); err != nil {
		slog.Warn("stored history unreadable, starting fresh", "error", err)
		return nil, nil
	}
	return history, nil
}

// Save overwrites the stored history with the given snapshot.
func (s *ValkeyStore) Save(ctx context.Context, history []models.Artifact) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.client.Set(ctx, historyKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Clear removes the stored history.
func (s *ValkeyStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, historyKey).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Theme returns the stored theme preference, or "" when none is set.
func (s *ValkeyStore) Theme(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, themeKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return val, nil
}

// SetTheme stores the theme preference.
func (s *ValkeyStore) SetTheme(ctx context.Context, theme string) error {
	if err := s.client.Set(ctx, themeKey, theme, 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
