// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API consumed by the SuperPage
// app shell. Handlers translate session outcomes into HTTP status codes
// and user-facing error messages; all domain logic lives in the session
// manager.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"superpage/internal/ai"
	"superpage/internal/models"
	"superpage/internal/session"
	"superpage/internal/slug"
	"superpage/internal/store"
)

// API holds the handler dependencies.
type API struct {
	session *session.Manager
	archive *store.ArchiveStore // nil when no database is configured
}

// NewAPI creates the API handler set. archive may be nil.
func NewAPI(sess *session.Manager, archive *store.ArchiveStore) *API {
	return &API{session: sess, archive: archive}
}

type errorResponse struct {
	Error string `json:"error"`
}

type pageResponse struct {
	Page       *models.Artifact     `json:"page"`
	Transcript []models.ChatMessage `json:"transcript"`
}

// Generate runs the full pipeline for a submitted brief.
// POST /api/generate
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	var brief models.Brief
	if err := json.NewDecoder(r.Body).Decode(&brief); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	artifact, err := a.session.SubmitBrief(r.Context(), brief)
	if err != nil {
		a.writeError(w, err)
		return
	}

	_, transcript := a.session.Current()
	writeJSON(w, http.StatusCreated, pageResponse{Page: artifact, Transcript: transcript})
}

type researchRequest struct {
	Topic string `json:"topic"`
}

type researchResponse struct {
	Keywords string `json:"keywords"`
}

// Research suggests secondary keywords for a topic.
// POST /api/research
func (a *API) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
		return
	}

	keywords := a.session.ResearchKeywords(r.Context(), req.Topic)
	writeJSON(w, http.StatusOK, researchResponse{Keywords: keywords})
}

// History lists all pages, newest first.
// GET /api/history
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"pages": a.session.History()})
}

// SelectPage makes a history entry the current page.
// POST /api/history/{id}/select
func (a *API) SelectPage(w http.ResponseWriter, r *http.Request) {
	artifact, err := a.session.Select(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	_, transcript := a.session.Current()
	writeJSON(w, http.StatusOK, pageResponse{Page: artifact, Transcript: transcript})
}

// ClearHistory removes every page from the session.
// DELETE /api/history
func (a *API) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.session.ClearHistory(r.Context()); err != nil {
		slog.Error("clear history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear history"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Current returns the selected page and chat transcript. An empty
// session yields a null page rather than an error.
// GET /api/current
func (a *API) Current(w http.ResponseWriter, r *http.Request) {
	page, transcript := a.session.Current()
	writeJSON(w, http.StatusOK, pageResponse{Page: page, Transcript: transcript})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Transcript []models.ChatMessage `json:"transcript"`
	Page       *models.Artifact     `json:"page"`
}

// Chat runs one revision exchange against the current page.
// POST /api/chat
func (a *API) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	transcript, err := a.session.SendChat(r.Context(), req.Message)
	if err != nil {
		a.writeError(w, err)
		return
	}

	page, _ := a.session.Current()
	writeJSON(w, http.StatusOK, chatResponse{Transcript: transcript, Page: page})
}

// Download serves a page's HTML as a file attachment.
// GET /api/pages/{id}/download
func (a *API) Download(w http.ResponseWriter, r *http.Request) {
	artifact, err := a.session.Find(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	filename := slug.Filename(artifact.Title, "html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(artifact.HTMLContent))
}

type themePayload struct {
	Theme string `json:"theme"`
}

// Theme returns the stored theme preference.
// GET /api/theme
func (a *API) Theme(w http.ResponseWriter, r *http.Request) {
	theme, err := a.session.Theme(r.Context())
	if err != nil {
		slog.Error("load theme failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load theme"})
		return
	}
	writeJSON(w, http.StatusOK, themePayload{Theme: theme})
}

// SetTheme stores the theme preference.
// PUT /api/theme
func (a *API) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "theme must be light or dark"})
		return
	}

	if err := a.session.SetTheme(r.Context(), req.Theme); err != nil {
		slog.Error("save theme failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save theme"})
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Archive lists all permanently archived pages.
// GET /api/archive
func (a *API) Archive(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "archive is not configured"})
		return
	}

	items, err := a.archive.List()
	if err != nil {
		slog.Error("list archive failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list archive"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": items})
}

// writeError maps a session or pipeline error to a status code and a
// message the UI can show directly.
func (a *API) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "a generation is already in progress"})
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "page not found"})
	case errors.Is(err, session.ErrNoPage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "generate or select a page before chatting"})
	case ai.IsRateLimited(err):
		slog.Warn("generation rate limited", "error", err)
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "API quota exceeded. Wait about a minute and try again.",
		})
	case ai.IsModelAccess(err):
		slog.Warn("model access rejected", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "The configured model rejected the request. Check the API key and model names.",
		})
	default:
		slog.Error("generation failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "generation failed, please try again"})
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
