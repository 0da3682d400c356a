// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package chat drives the follow-up refinement conversation for the
// current page. Each exchange is a single model round trip that either
// revises the page HTML in place or answers conversationally.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"superpage/internal/generator"
	"superpage/internal/prompt"
)

// OfflineReply is the fixed assistant message appended when the model
// call fails. Chat failures are never escalated to a page-level error.
const OfflineReply = "Connection lost or quota reached. Try again in a minute."

// revisionApplied is the assistant message shown when the model returned
// an updated page rather than prose.
const revisionApplied = "Done — I've applied that revision to the page."

// revisionMarker distinguishes a page replacement from a conversational
// reply. A response without it leaves the stored HTML untouched.
const revisionMarker = "<h1"

// ModelClient is the slice of the AI client the reviser needs.
type ModelClient interface {
	Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Outcome is the result of one chat exchange. Revised reports whether
// HTML carries a replacement page body; Reply is always non-empty so the
// transcript never lacks an assistant response.
type Outcome struct {
	Reply   string
	HTML    string
	Revised bool
}

// Reviser performs chat-driven page revisions.
type Reviser struct {
	clients func() ModelClient
	model   string
	budget  int // max chars of current HTML embedded in the prompt
}

// New creates a Reviser using the given model, truncating the current
// page to budget characters per exchange.
func New(clients func() ModelClient, model string, budget int) *Reviser {
	return &Reviser{clients: clients, model: model, budget: budget}
}

// Revise sends the current page plus the user's instruction to the model.
// The response, after fence stripping, replaces the page only when it
// contains the structural marker; otherwise it is returned as a
// conversational reply and the page is left byte-for-byte unchanged.
func (r *Reviser) Revise(ctx context.Context, title, currentHTML, instruction string) Outcome {
	text, err := r.clients().Generate(ctx, r.model,
		prompt.ChatSystem(title),
		prompt.Revision(currentHTML, instruction, r.budget),
	)
	if err != nil {
		slog.Warn("chat exchange failed", "error", err)
		return Outcome{Reply: OfflineReply}
	}

	stripped := generator.StripFences(text)
	if strings.Contains(stripped, revisionMarker) {
		return Outcome{Reply: revisionApplied, HTML: stripped, Revised: true}
	}

	reply := strings.TrimSpace(stripped)
	if reply == "" {
		reply = OfflineReply
	}
	return Outcome{Reply: reply}
}
