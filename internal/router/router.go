// Package router sets up all HTTP routes and middleware chains for the
// SuperPage server: the JSON API, the embedded app shell, and the
// service worker assets.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"superpage/internal/handlers"
	"superpage/internal/middleware"
	"superpage/web"
)

// Options carries router configuration.
type Options struct {
	APITokenHash string // empty disables API auth
	RateLimit    int    // generation requests per minute per IP
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	limit := opts.RateLimit
	if limit <= 0 {
		limit = 10
	}
	generateLimiter := middleware.NewRateLimiter(limit, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireToken(opts.APITokenHash))

		// Model-backed endpoints carry the tight per-IP limit.
		r.Group(func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Post("/generate", api.Generate)
			r.Post("/research", api.Research)
			r.Post("/chat", api.Chat)
		})

		r.Get("/current", api.Current)
		r.Get("/history", api.History)
		r.Delete("/history", api.ClearHistory)
		r.Post("/history/{id}/select", api.SelectPage)
		r.Get("/pages/{id}/download", api.Download)
		r.Get("/theme", api.Theme)
		r.Put("/theme", api.SetTheme)
		r.Get("/archive", api.Archive)
	})

	// The app shell and service worker are served from the embedded
	// static tree, with the shell at the root.
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing from binary: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(static))

	r.Get("/", serveIndex(static))
	r.Get("/manifest.json", fileServer.ServeHTTP)
	r.Get("/service-worker.js", fileServer.ServeHTTP)
	r.Get("/static/*", http.StripPrefix("/static/", fileServer).ServeHTTP)

	return r
}

// serveIndex serves the app shell for the root path.
func serveIndex(static fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := fs.ReadFile(static, "index.html")
		if err != nil {
			http.Error(w, "app shell missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(index)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
