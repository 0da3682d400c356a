// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt assembles the instruction strings sent to the model.
// Every function here is a pure transform of its inputs: no I/O, no
// randomness, identical output for identical input.
package prompt

import (
	"fmt"
	"strings"

	"superpage/internal/models"
)

// bannedPhrases is the fixed denylist of AI-sounding phrases injected as
// negative instructions into every page generation.
var bannedPhrases = []string{
	"In the digital age",
	"Unlock your potential",
	"Revolutionize",
	"Navigate",
	"Moreover",
	"In conclusion",
	"Delve",
}

// Builder renders the prompt templates for the generation pipeline.
// The word target is advisory: it is stated to the model, never enforced.
type Builder struct {
	WordTarget int
}

// Page is the prompt pair for the main grounded generation call. The
// resolved hero image URL is interpolated so the model embeds it at the
// top of the page.
type Page struct {
	SystemInstruction string
	UserMessage       string
}

// BuildPage assembles the system instruction and user message for the
// primary generation request. Locale lines are omitted entirely when the
// brief targets the Global region.
func (b *Builder) BuildPage(brief models.Brief, heroImageURL string) Page {
	var sys strings.Builder

	sys.WriteString("Act as a Master Content Strategist and senior SEO editor.\n")
	fmt.Fprintf(&sys, "TASK: Generate an exhaustive, %d-word authoritative page for %q.\n\n", b.WordTarget, brief.Topic)

	fmt.Fprintf(&sys, "AUDIENCE & VOICE:\n- Search intent: %s.\n- Tone: %s.\n- Target audience: %s.\n- Output language: %s.\n",
		orDefault(string(brief.Intent), string(models.IntentInformational)),
		orDefault(brief.Tone, "Professional expert"),
		orDefault(brief.Audience, "General"),
		orDefault(brief.Language, "English"),
	)
	if brief.Niche != "" {
		fmt.Fprintf(&sys, "- Niche: %s.\n", brief.Niche)
	}
	sys.WriteString("\n")

	if !brief.IsGlobal() {
		sys.WriteString("LOCAL SEO:\n")
		fmt.Fprintf(&sys, "- Target region: %s.\n", brief.Country)
		if brief.City != "" {
			fmt.Fprintf(&sys, "- City focus: %s. Weave in locally relevant references naturally.\n", brief.City)
		}
		sys.WriteString("\n")
	}

	if brief.SecondaryKeywords != "" {
		fmt.Fprintf(&sys, "SECONDARY KEYWORDS (use naturally, do not stuff): %s\n\n", brief.SecondaryKeywords)
	}

	if brief.PromotionLink != "" {
		fmt.Fprintf(&sys, "MONETIZATION: Embed %s as a contextual recommendation inside the narrative where it genuinely helps the reader. Never drop it in as a bare link.\n\n", brief.PromotionLink)
	}

	sys.WriteString("ANTI-AI SHIELD:\n- Absolute ban on: ")
	sys.WriteString(strings.Join(bannedPhrases, ", "))
	sys.WriteString(".\n- Avoid predictable AI list structures. Weave information into a compelling narrative flow.\n\n")

	sys.WriteString("ARCHITECTURE:\n")
	sys.WriteString("- Output raw HTML only: a single <h1>, 15+ semantic <h2>/<h3> headers, short paragraphs.\n")
	if heroImageURL != "" {
		fmt.Fprintf(&sys, "- Open with the hero image: <img src=%q class=\"hero-image\">.\n", heroImageURL)
	}
	sys.WriteString("- Grounding: use Google Search for current-year accuracy.\n")

	if brief.CustomInstructions != "" {
		fmt.Fprintf(&sys, "\nADDITIONAL INSTRUCTIONS:\n%s\n", brief.CustomInstructions)
	}

	user := fmt.Sprintf("Construct the %d-word authoritative page for %q. Output the raw HTML only.",
		b.WordTarget, brief.Topic)

	return Page{SystemInstruction: sys.String(), UserMessage: user}
}

// BuildFallbackPage is the reduced prompt for the single non-grounded
// retry against the flash model: shorter target, no tool use, no image
// or monetization instructions.
func (b *Builder) BuildFallbackPage(brief models.Brief) Page {
	target := b.WordTarget - 500
	if target < 500 {
		target = 500
	}
	return Page{
		SystemInstruction: "SEO Architect. Direct and expert.",
		UserMessage: fmt.Sprintf("Generate a %d-word high-end SEO article for %q as raw HTML. Tone: %s.",
			target, brief.Topic, orDefault(brief.Tone, "Professional")),
	}
}

// HeroImagePrompt is the short creative prompt for native image generation,
// derived from the topic and niche only.
func HeroImagePrompt(brief models.Brief) string {
	if brief.Niche != "" {
		return fmt.Sprintf("A professional, high-definition hero photograph for an article about %s in the %s space. No text, no watermarks.",
			brief.Topic, brief.Niche)
	}
	return fmt.Sprintf("A professional, high-definition hero photograph for an article about %s. No text, no watermarks.", brief.Topic)
}

// StockImageQuery asks the model to locate a single stock photo URL. The
// response is pattern-matched by the caller; the model is told the exact
// shape expected.
func StockImageQuery(brief models.Brief) string {
	return fmt.Sprintf("Find one high-quality, royalty-free stock photo matching %q. Reply with the bare image URL only — it must end in .jpg, .jpeg, .png or .webp. No markdown, no commentary.", brief.Topic)
}

// ChatSystem is the system instruction for the refinement chat, scoped to
// the current page.
func ChatSystem(title string) string {
	return fmt.Sprintf("You are an SEO Strategist helping optimize the page %q. Use a human, professional tone. When the user asks for a change to the page itself, return ONLY the full updated HTML. For questions or discussion, answer conversationally.", title)
}

// Revision builds the user message for a chat-driven page revision: the
// current HTML truncated to budget characters plus the user's instruction.
func Revision(currentHTML, instruction string, budget int) string {
	return fmt.Sprintf("Current page HTML (may be truncated):\n```html\n%s\n```\n\nRequest: %s\n\nIf this request changes the page, return ONLY the full updated HTML, starting with the <h1> section. Otherwise reply conversationally.",
		Truncate(currentHTML, budget), instruction)
}

// Research asks the flash model for comma-separated secondary keywords for
// a topic.
func Research(topic string) string {
	return fmt.Sprintf("Generate 15 realistic SEO LSI keywords for a long-form authoritative page on %q. Include varied intent terms. Comma separated only.", topic)
}

// Truncate cuts s to at most max characters. A plain prefix cut — not
// content aware — used to bound request sizes.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
