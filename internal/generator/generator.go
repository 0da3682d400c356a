// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator runs the page generation pipeline: hero image
// acquisition, the grounded main generation call, and the single
// non-grounded fallback against the flash model.
package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"superpage/internal/ai"
	"superpage/internal/models"
	"superpage/internal/prompt"
)

// FallbackHeroImageURL is the fixed stock photo used whenever image
// acquisition fails or produces nothing usable. Image failures never abort
// a generation.
const FallbackHeroImageURL = "https://loremflickr.com/1200/675/business,professional,tech/all"

// ModelClient is the slice of the AI client the pipeline needs. A fresh
// client is obtained from the factory for every remote call.
type ModelClient interface {
	Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	GenerateGrounded(ctx context.Context, model, systemPrompt, userPrompt string) (*ai.GroundedResult, error)
	GenerateImage(ctx context.Context, model, prompt string) ([]byte, string, error)
}

// ImageStore persists generated hero images and returns a public URL.
// Optional: without one, generated images are embedded as data URIs.
type ImageStore interface {
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// Models names the model variants the pipeline calls.
type Models struct {
	Pro   string // grounded long-form generation
	Flash string // fallback generation and stock photo lookup
	Image string // native image generation
}

// Result is one completed generation: the page body with code fences
// stripped, the resolved hero image reference (URL or data URI), and the
// grounding citations (empty when the fallback path produced the page).
type Result struct {
	HTML         string
	HeroImageURL string
	Sources      []models.Source
}

// Generator orchestrates the generation pipeline.
type Generator struct {
	clients func() ModelClient
	builder *prompt.Builder
	models  Models
	images  ImageStore // nil when no object storage is configured
}

// New creates a Generator. The clients function is invoked once per remote
// call so each call sees current credentials. images may be nil.
func New(clients func() ModelClient, builder *prompt.Builder, m Models, images ImageStore) *Generator {
	return &Generator{clients: clients, builder: builder, models: m, images: images}
}

// Generate runs the full pipeline for one brief. Image acquisition always
// completes (or falls back) before the main call, because the resolved
// image URL is interpolated into the generation prompt. On a primary-call
// failure exactly one fallback is attempted; if that also fails the error
// is returned classified for the caller.
//
// progress, when non-nil, receives human-readable step descriptions.
func (g *Generator) Generate(ctx context.Context, brief models.Brief, progress func(string)) (*Result, error) {
	step(progress, "Mapping visual strategy...")
	heroURL := g.resolveHeroImage(ctx, brief)

	step(progress, "Researching and composing the page...")
	page := g.builder.BuildPage(brief, heroURL)

	grounded, err := g.clients().GenerateGrounded(ctx, g.models.Pro, page.SystemInstruction, page.UserMessage)
	if err == nil {
		return &Result{
			HTML:         StripFences(grounded.Text),
			HeroImageURL: heroURL,
			Sources:      grounded.Sources,
		}, nil
	}

	slog.Warn("primary generation failed, attempting fallback", "error", err)
	step(progress, "Recovering context...")

	fb := g.builder.BuildFallbackPage(brief)
	text, fbErr := g.clients().Generate(ctx, g.models.Flash, fb.SystemInstruction, fb.UserMessage)
	if fbErr != nil {
		return nil, fmt.Errorf("generate page: %w", fbErr)
	}

	return &Result{
		HTML:         StripFences(text),
		HeroImageURL: heroURL,
		Sources:      nil,
	}, nil
}

// ResearchKeywords asks the flash model for secondary keyword suggestions.
// Failures degrade to a fixed generic list rather than an error: keyword
// research is a convenience, not a pipeline stage.
func (g *Generator) ResearchKeywords(ctx context.Context, topic string) string {
	text, err := g.clients().Generate(ctx, g.models.Flash, "", prompt.Research(topic))
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("keyword research failed", "error", err)
		return "innovation, guide, advanced, performance, results"
	}
	return strings.TrimSpace(text)
}

// resolveHeroImage acquires the hero image per the brief's image source.
// Every failure path lands on the fixed fallback URL; nothing here can
// abort the pipeline.
func (g *Generator) resolveHeroImage(ctx context.Context, brief models.Brief) string {
	switch brief.ImageSource {
	case models.ImageSourceCustom:
		if strings.TrimSpace(brief.ImageURL) != "" {
			return brief.ImageURL
		}
		return FallbackHeroImageURL

	case models.ImageSourceStock:
		text, err := g.clients().GenerateGrounded(ctx, g.models.Flash, "", prompt.StockImageQuery(brief))
		if err != nil {
			slog.Warn("stock image lookup failed", "error", err)
			return FallbackHeroImageURL
		}
		if url, ok := ExtractImageURL(text.Text); ok {
			return url
		}
		return FallbackHeroImageURL

	case models.ImageSourceGenerated:
		imgBytes, contentType, err := g.clients().GenerateImage(ctx, g.models.Image, prompt.HeroImagePrompt(brief))
		if err != nil {
			slog.Warn("image generation failed", "error", err)
			return FallbackHeroImageURL
		}
		if g.images != nil {
			url, err := g.images.UploadImage(ctx, imgBytes, contentType)
			if err == nil {
				return url
			}
			slog.Warn("hero image upload failed, embedding inline", "error", err)
		}
		return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(imgBytes))

	default:
		return FallbackHeroImageURL
	}
}

// StripFences removes enclosing markdown code fences (```html ... ```)
// that models sometimes wrap around raw HTML output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```html")
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}

func step(progress func(string), msg string) {
	if progress != nil {
		progress(msg)
	}
}
