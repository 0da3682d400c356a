// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrValidation marks user-input errors that block the pipeline before any
// remote call is made. Recoverable by editing the brief.
var ErrValidation = errors.New("validation")

// Source is one citation returned by the grounded generation call.
// Order is preserved as returned by the model; no dedup is performed.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Artifact is one completed generation result: the page HTML, the brief
// snapshot that produced it, its citations and audit score. HTML is
// immutable after creation except through an explicit chat revision,
// which swaps the body in place but keeps ID and CreatedAt.
type Artifact struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	HTMLContent  string    `json:"html_content"`
	HeroImageURL string    `json:"hero_image_url"`
	Brief        Brief     `json:"brief"`
	Sources      []Source  `json:"sources"`
	Score        *Score    `json:"score,omitempty"`
}

// NewArtifact assembles a fully-formed artifact from a completed pipeline
// run. Artifacts are never partially constructed: callers must hold the
// final HTML, image URL, sources and score before calling this.
func NewArtifact(brief Brief, html, heroURL string, sources []Source, score *Score) *Artifact {
	return &Artifact{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		Title:        brief.Topic,
		HTMLContent:  html,
		HeroImageURL: heroURL,
		Brief:        brief,
		Sources:      sources,
		Score:        score,
	}
}

// Summary is the lightweight artifact view used in history listings.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Score     float64   `json:"score,omitempty"`
}

// Summarize returns the listing view of the artifact.
func (a *Artifact) Summarize() Summary {
	s := Summary{ID: a.ID, CreatedAt: a.CreatedAt, Title: a.Title}
	if a.Score != nil {
		s.Score = a.Score.Overall
	}
	return s
}
