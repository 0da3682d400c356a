// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists session state. History and theme live in
// Valkey as single JSON values, loaded once at startup and written
// back after every mutation. The optional Postgres archive keeps a
// permanent copy of generated pages.
package store

import (
	"context"

	"superpage/internal/models"
)

// HistoryStore persists the ordered page history, newest first.
// Load returns an empty slice when nothing is stored or the stored
// value is unreadable; a missing history is never an error.
type HistoryStore interface {
	Load(ctx context.Context) ([]models.Artifact, error)
	Save(ctx context.Context, history []models.Artifact) error
	Clear(ctx context.Context) error
}

// ThemeStore persists the UI theme preference.
type ThemeStore interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}
