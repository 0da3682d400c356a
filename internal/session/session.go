// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session holds the single working session: the page history,
// the currently selected page with its chat transcript, and the theme
// preference. Every mutation is written through to the backing store
// before it is visible to callers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"superpage/internal/chat"
	"superpage/internal/generator"
	"superpage/internal/markdown"
	"superpage/internal/models"
	"superpage/internal/store"
)

// ErrBusy is returned when a generation is already in flight. Only one
// pipeline run is allowed at a time.
var ErrBusy = errors.New("a generation is already in progress")

// ErrNotFound is returned when a history selection names an unknown page.
var ErrNotFound = errors.New("page not found in history")

// ErrNoPage is returned for chat requests when no page is selected.
var ErrNoPage = errors.New("no page selected")

// PageGenerator runs the generation pipeline for one brief.
type PageGenerator interface {
	Generate(ctx context.Context, brief models.Brief, progress func(string)) (*generator.Result, error)
	ResearchKeywords(ctx context.Context, topic string) string
}

// PageAuditor scores a generated page. It never fails.
type PageAuditor interface {
	Audit(ctx context.Context, topic, secondaryKeywords, country, city, html string) *models.Score
}

// PageReviser performs one chat exchange against the current page.
type PageReviser interface {
	Revise(ctx context.Context, title, currentHTML, instruction string) chat.Outcome
}

// Archiver keeps permanent copies of generated pages. Optional; archive
// failures are logged and never surface to the user.
type Archiver interface {
	Create(a *models.Artifact) error
}

// Manager owns all mutable session state. All exported methods are safe
// for concurrent use; state mutations happen under one mutex while
// remote calls run outside it, guarded by the in-flight flag.
type Manager struct {
	gen     PageGenerator
	auditor PageAuditor
	reviser PageReviser
	history store.HistoryStore
	themes  store.ThemeStore
	archive Archiver // nil when no database is configured
	cap     int

	mu           sync.Mutex
	inFlight     bool
	chatInFlight bool
	pages        []models.Artifact // newest first
	current      *models.Artifact
	transcript   []models.ChatMessage
}

// NewManager wires the session manager. cap bounds the history length;
// archive may be nil.
func NewManager(gen PageGenerator, auditor PageAuditor, reviser PageReviser,
	history store.HistoryStore, themes store.ThemeStore, archive Archiver, cap int) *Manager {
	return &Manager{
		gen:     gen,
		auditor: auditor,
		reviser: reviser,
		history: history,
		themes:  themes,
		archive: archive,
		cap:     cap,
	}
}

// Load restores persisted history at startup. The newest page becomes
// the current selection. An unreadable store starts the session empty.
func (m *Manager) Load(ctx context.Context) error {
	pages, err := m.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = pages
	if len(pages) > 0 {
		m.current = &m.pages[0]
		m.transcript = seedTranscript(m.pages[0].Title)
	}
	return nil
}

// SubmitBrief runs the full pipeline: validate, generate, audit, record.
// The brief is validated before any remote call, and only one pipeline
// may run at a time. On success the new page is prepended to history
// (evicting the oldest beyond the cap), selected, and persisted.
func (m *Manager) SubmitBrief(ctx context.Context, brief models.Brief) (*models.Artifact, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.inFlight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	result, err := m.gen.Generate(ctx, brief, nil)
	if err != nil {
		return nil, err
	}

	score := m.auditor.Audit(ctx, brief.Topic, brief.SecondaryKeywords, brief.Country, brief.City, result.HTML)
	artifact := models.NewArtifact(brief, result.HTML, result.HeroImageURL, result.Sources, score)

	m.mu.Lock()
	m.pages = append([]models.Artifact{*artifact}, m.pages...)
	if len(m.pages) > m.cap {
		m.pages = m.pages[:m.cap]
	}
	m.current = &m.pages[0]
	m.transcript = seedTranscript(artifact.Title)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.history.Save(ctx, snapshot); err != nil {
		slog.Error("failed to persist history", "error", err)
	}
	m.archiveCopy(artifact)

	return artifact, nil
}

// ResearchKeywords suggests secondary keywords for a topic. It runs
// outside the in-flight guard; research is independent of generation.
func (m *Manager) ResearchKeywords(ctx context.Context, topic string) string {
	return m.gen.ResearchKeywords(ctx, topic)
}

// History returns summaries of all pages, newest first.
func (m *Manager) History() []models.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := make([]models.Summary, 0, len(m.pages))
	for i := range m.pages {
		summaries = append(summaries, m.pages[i].Summarize())
	}
	return summaries
}

// Select makes a history entry the current page and resets the chat
// transcript to a fresh seed for it.
func (m *Manager) Select(id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pages {
		if m.pages[i].ID.String() == id {
			m.current = &m.pages[i]
			m.transcript = seedTranscript(m.pages[i].Title)
			page := m.pages[i]
			return &page, nil
		}
	}
	return nil, ErrNotFound
}

// Find returns a history entry without selecting it.
func (m *Manager) Find(id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pages {
		if m.pages[i].ID.String() == id {
			page := m.pages[i]
			return &page, nil
		}
	}
	return nil, ErrNotFound
}

// Current returns the selected page and its transcript, or nil when the
// session is empty.
func (m *Manager) Current() (*models.Artifact, []models.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, nil
	}
	page := *m.current
	transcript := make([]models.ChatMessage, len(m.transcript))
	copy(transcript, m.transcript)
	return &page, transcript
}

// ClearHistory drops all pages, the selection and the transcript, and
// clears the backing store. The archive is untouched.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	m.pages = nil
	m.current = nil
	m.transcript = nil
	m.mu.Unlock()

	if err := m.history.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// SendChat runs one chat exchange against the current page. Exactly one
// user and one assistant message are appended per call, and only one
// exchange may be outstanding at a time. When the model returns a
// revision the page HTML is replaced in place, keeping its ID and
// creation time, and the history is re-persisted.
func (m *Manager) SendChat(ctx context.Context, instruction string) ([]models.ChatMessage, error) {
	m.mu.Lock()
	if m.inFlight || m.chatInFlight {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	if m.current == nil {
		m.mu.Unlock()
		return nil, ErrNoPage
	}
	m.chatInFlight = true
	pageID := m.current.ID
	title := m.current.Title
	html := m.current.HTMLContent
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.chatInFlight = false
		m.mu.Unlock()
	}()

	outcome := m.reviser.Revise(ctx, title, html, instruction)

	m.mu.Lock()
	// The page the exchange ran against may no longer be current: a
	// generation or selection can land while the model call is out. The
	// outcome then has no target, so it is discarded rather than written
	// onto a page it was never about.
	if m.current == nil || m.current.ID != pageID {
		transcript := make([]models.ChatMessage, len(m.transcript))
		copy(transcript, m.transcript)
		m.mu.Unlock()
		return transcript, nil
	}

	m.transcript = append(m.transcript,
		models.ChatMessage{Role: models.ChatRoleUser, Content: instruction},
		assistantMessage(outcome.Reply),
	)

	var revised *models.Artifact
	if outcome.Revised {
		m.current.HTMLContent = outcome.HTML
		page := *m.current
		revised = &page
	}
	transcript := make([]models.ChatMessage, len(m.transcript))
	copy(transcript, m.transcript)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	if revised != nil {
		if err := m.history.Save(ctx, snapshot); err != nil {
			slog.Error("failed to persist revised page", "error", err)
		}
		m.archiveCopy(revised)
	}
	return transcript, nil
}

// Theme returns the persisted theme preference.
func (m *Manager) Theme(ctx context.Context) (string, error) {
	return m.themes.Theme(ctx)
}

// SetTheme persists the theme preference.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	return m.themes.SetTheme(ctx, theme)
}

// snapshotLocked copies the history for persistence. Callers must hold mu.
func (m *Manager) snapshotLocked() []models.Artifact {
	snapshot := make([]models.Artifact, len(m.pages))
	copy(snapshot, m.pages)
	return snapshot
}

func (m *Manager) archiveCopy(a *models.Artifact) {
	if m.archive == nil {
		return
	}
	if err := m.archive.Create(a); err != nil {
		slog.Warn("failed to archive page", "error", err, "id", a.ID)
	}
}

func seedTranscript(title string) []models.ChatMessage {
	content := fmt.Sprintf("Your page %q is ready. Ask me for any revision and I will update it in place.", title)
	return []models.ChatMessage{assistantMessage(content)}
}

// assistantMessage builds an assistant transcript entry with a rendered
// HTML variant. Replies are plain prose or Markdown; a render failure
// just leaves the HTML variant empty.
func assistantMessage(content string) models.ChatMessage {
	msg := models.ChatMessage{Role: models.ChatRoleAssistant, Content: content}
	if html, err := markdown.ToHTML(content); err == nil {
		msg.HTML = html
	} else {
		slog.Warn("failed to render chat reply", "error", err)
	}
	return msg
}
