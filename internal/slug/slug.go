// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug and download filename
// generation from page titles.
package slug

import (
	"regexp"
	"strings"
)

// maxFilenameStem bounds the slug portion of a download filename.
const maxFilenameStem = 80

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Filename builds a safe download filename from a page title. Titles
// that slug to nothing fall back to "page"; long titles are cut at the
// stem limit without splitting a word segment mid-hyphen.
func Filename(title, ext string) string {
	stem := Generate(title)
	if stem == "" {
		stem = "page"
	}
	if len(stem) > maxFilenameStem {
		stem = stem[:maxFilenameStem]
		stem = strings.Trim(stem, "-")
	}
	return stem + "." + strings.TrimPrefix(ext, ".")
}
