// Package web provides the embedded app shell and PWA assets: the
// index page, the web manifest, and the service worker. Everything is
// compiled into the binary so the server ships as a single file.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
