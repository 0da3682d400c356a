// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"superpage/internal/models"
)

// ArchiveStore keeps a permanent copy of every generated page in
// Postgres. Unlike the Valkey history it is never capped or cleared by
// the user; it exists for auditing what the system produced.
type ArchiveStore struct {
	db *sql.DB
}

// NewArchiveStore creates an ArchiveStore with the given database connection.
func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Create inserts an archived copy of the artifact. The brief, sources
// and score travel as JSON so the schema never chases the model shapes.
func (s *ArchiveStore) Create(a *models.Artifact) error {
	brief, err := json.Marshal(a.Brief)
	if err != nil {
		return fmt.Errorf("encode brief: %w", err)
	}
	sources, err := json.Marshal(a.Sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	score, err := json.Marshal(a.Score)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO artifacts (id, created_at, title, html_content, hero_image_url, brief, sources, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET html_content = EXCLUDED.html_content, score = EXCLUDED.score`,
		a.ID, a.CreatedAt, a.Title, a.HTMLContent, a.HeroImageURL, brief, sources, score,
	)
	if err != nil {
		return fmt.Errorf("archive artifact: %w", err)
	}
	return nil
}

// FindByID retrieves an archived artifact. Returns nil if not found.
func (s *ArchiveStore) FindByID(id uuid.UUID) (*models.Artifact, error) {
	a := &models.Artifact{}
	var brief, sources, score []byte

	err := s.db.QueryRow(`
		SELECT id, created_at, title, html_content, hero_image_url, brief, sources, score
		FROM artifacts WHERE id = $1
	`, id).Scan(&a.ID, &a.CreatedAt, &a.Title, &a.HTMLContent, &a.HeroImageURL, &brief, &sources, &score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find archived artifact: %w", err)
	}

	if err := json.Unmarshal(brief, &a.Brief); err != nil {
		return nil, fmt.Errorf("decode brief: %w", err)
	}
	if err := json.Unmarshal(sources, &a.Sources); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	if err := json.Unmarshal(score, &a.Score); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	return a, nil
}

// List returns summaries of all archived artifacts, newest first.
func (s *ArchiveStore) List() ([]models.Summary, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, title
		FROM artifacts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	defer rows.Close()

	var items []models.Summary
	for rows.Next() {
		var sm models.Summary
		if err := rows.Scan(&sm.ID, &sm.CreatedAt, &sm.Title); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		items = append(items, sm)
	}
	return items, rows.Err()
}
