// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the core domain types shared across the
// SuperPage service: the generation brief, the generated artifact,
// citation sources, audit scores, and chat messages.
package models

import (
	"fmt"
	"strings"
)

// SearchIntent classifies what the reader is trying to accomplish.
type SearchIntent string

const (
	IntentInformational SearchIntent = "Informational"
	IntentTransactional SearchIntent = "Transactional"
	IntentCommercial    SearchIntent = "Commercial"
	IntentNavigational  SearchIntent = "Navigational"
)

// ImageSource selects how the hero image for a page is acquired.
type ImageSource string

const (
	// ImageSourceGenerated requests a native image-generation call.
	ImageSourceGenerated ImageSource = "generated"
	// ImageSourceStock asks the model to locate a stock photo URL.
	ImageSourceStock ImageSource = "stock"
	// ImageSourceCustom uses the URL supplied in Brief.ImageURL as-is.
	ImageSourceCustom ImageSource = "custom"
)

// GlobalRegion is the sentinel country value meaning "no local targeting".
// When selected, city and country lines are omitted from the prompt.
const GlobalRegion = "Global"

// Brief is the user-authored generation request. It is read-only once a
// generation starts: the pipeline copies it verbatim onto the Artifact.
type Brief struct {
	Topic              string       `json:"topic"`
	SecondaryKeywords  string       `json:"secondary_keywords"`
	Country            string       `json:"country"`
	City               string       `json:"city"`
	Intent             SearchIntent `json:"intent"`
	Niche              string       `json:"niche"`
	Language           string       `json:"language"`
	Tone               string       `json:"tone"`
	Audience           string       `json:"audience"`
	ImageSource        ImageSource  `json:"image_source"`
	ImageURL           string       `json:"image_url"`
	PromotionLink      string       `json:"promotion_link"`
	CustomInstructions string       `json:"custom_instructions"`
}

// Validate checks the brief before a generation request may be issued.
// The only hard requirement is a non-empty topic.
func (b *Brief) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return fmt.Errorf("%w: focus keyword required", ErrValidation)
	}
	return nil
}

// IsGlobal reports whether local SEO targeting is disabled.
func (b *Brief) IsGlobal() bool {
	return b.Country == "" || b.Country == GlobalRegion
}
