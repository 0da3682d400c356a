// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"superpage/internal/chat"
	"superpage/internal/generator"
	"superpage/internal/models"
	"superpage/internal/store"
)

type fakeGen struct {
	mu       sync.Mutex
	calls    int
	fn       func(brief models.Brief) (*generator.Result, error)
	research string
	release  chan struct{} // when set, Generate blocks until closed
}

func (f *fakeGen) Generate(_ context.Context, brief models.Brief, _ func(string)) (*generator.Result, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if f.fn == nil {
		return &generator.Result{HTML: "<h1>" + brief.Topic + "</h1>", HeroImageURL: "https://img.example/h.jpg"}, nil
	}
	return f.fn(brief)
}

func (f *fakeGen) ResearchKeywords(context.Context, string) string { return f.research }

type fakeAudit struct{ calls int }

func (f *fakeAudit) Audit(_ context.Context, topic, _, _, _, _ string) *models.Score {
	f.calls++
	return &models.Score{Overall: 90, Terms: []models.KeywordMetric{{Keyword: topic}}}
}

type fakeReviser struct {
	mu      sync.Mutex
	outcome chat.Outcome
	calls   int
	release chan struct{} // when set, Revise blocks until closed
}

func (f *fakeReviser) Revise(context.Context, string, string, string) chat.Outcome {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.outcome
}

func (f *fakeReviser) started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls > 0
}

type fakeArchive struct {
	mu    sync.Mutex
	items []models.Artifact
}

func (f *fakeArchive) Create(a *models.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *a)
	return nil
}

func newManager(gen *fakeGen, reviser *fakeReviser) (*Manager, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	return NewManager(gen, &fakeAudit{}, reviser, mem, mem, nil, 20), mem
}

func validBrief(topic string) models.Brief {
	return models.Brief{Topic: topic, Country: models.GlobalRegion}
}

func TestSubmitBrief_ValidationBlocksRemoteCalls(t *testing.T) {
	gen := &fakeGen{}
	m, _ := newManager(gen, &fakeReviser{})

	_, err := m.SubmitBrief(context.Background(), models.Brief{Topic: "   "})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator was invoked for an invalid brief")
	}
	if len(m.History()) != 0 {
		t.Error("invalid brief produced a history entry")
	}
}

func TestSubmitBrief_RecordsArtifactAndSelectsIt(t *testing.T) {
	gen := &fakeGen{}
	m, mem := newManager(gen, &fakeReviser{})

	brief := models.Brief{
		Topic:             "Best Budget Laptops 2025",
		SecondaryKeywords: "cheap laptops",
		Country:           "Germany",
		City:              "Berlin",
		ImageSource:       models.ImageSourceCustom,
		ImageURL:          "https://cdn.example/h.png",
	}

	artifact, err := m.SubmitBrief(context.Background(), brief)
	if err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}

	// The stored brief is a full snapshot of what was submitted.
	if !reflect.DeepEqual(artifact.Brief, brief) {
		t.Errorf("brief snapshot mismatch:\ngot  %+v\nwant %+v", artifact.Brief, brief)
	}
	if artifact.Score == nil || artifact.Score.Overall != 90 {
		t.Errorf("audit score not attached: %+v", artifact.Score)
	}

	current, transcript := m.Current()
	if current == nil || current.ID != artifact.ID {
		t.Fatal("new page was not selected")
	}
	if len(transcript) != 1 || transcript[0].Role != models.ChatRoleAssistant {
		t.Errorf("transcript not seeded with an assistant message: %+v", transcript)
	}

	// Persisted immediately, not on shutdown.
	saved, _ := mem.Load(context.Background())
	if len(saved) != 1 || saved[0].ID != artifact.ID {
		t.Error("history was not persisted after the submission")
	}
}

func TestSubmitBrief_GenerationFailureRecordsNothing(t *testing.T) {
	gen := &fakeGen{fn: func(models.Brief) (*generator.Result, error) {
		return nil, errors.New("both models down")
	}}
	m, mem := newManager(gen, &fakeReviser{})

	_, err := m.SubmitBrief(context.Background(), validBrief("t"))
	if err == nil {
		t.Fatal("expected the pipeline error to surface")
	}
	if len(m.History()) != 0 {
		t.Error("failed generation produced a history entry")
	}
	saved, _ := mem.Load(context.Background())
	if len(saved) != 0 {
		t.Error("failed generation was persisted")
	}
}

func TestSubmitBrief_SecondSubmissionWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGen{release: release}
	m, _ := newManager(gen, &fakeReviser{})

	done := make(chan error, 1)
	go func() {
		_, err := m.SubmitBrief(context.Background(), validBrief("first"))
		done <- err
	}()

	// Wait for the first submission to enter the pipeline.
	for {
		gen.mu.Lock()
		started := gen.calls > 0
		gen.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	gen.mu.Lock()
	gen.release = nil
	gen.mu.Unlock()

	_, err := m.SubmitBrief(context.Background(), validBrief("second"))
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for a concurrent submission, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if len(m.History()) != 1 {
		t.Errorf("history: got %d entries, want 1", len(m.History()))
	}
}

func TestHistoryCapEvictsOldestFirst(t *testing.T) {
	gen := &fakeGen{}
	m, _ := newManager(gen, &fakeReviser{})

	for i := 0; i < 21; i++ {
		if _, err := m.SubmitBrief(context.Background(), validBrief(fmt.Sprintf("topic %d", i))); err != nil {
			t.Fatalf("SubmitBrief %d: %v", i, err)
		}
	}

	history := m.History()
	if len(history) != 20 {
		t.Fatalf("history length: got %d, want 20", len(history))
	}
	if history[0].Title != "topic 20" {
		t.Errorf("newest first violated: head is %q", history[0].Title)
	}
	for _, sm := range history {
		if sm.Title == "topic 0" {
			t.Error("oldest entry survived past the cap")
		}
	}
}

func TestLoadRestoresPersistedSession(t *testing.T) {
	mem := store.NewMemoryStore()
	a := models.NewArtifact(validBrief("restored"), "<h1>r</h1>", "", nil, nil)
	if err := mem.Save(context.Background(), []models.Artifact{*a}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewManager(&fakeGen{}, &fakeAudit{}, &fakeReviser{}, mem, mem, nil, 20)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	current, transcript := m.Current()
	if current == nil || current.ID != a.ID {
		t.Fatal("restored session did not select the newest page")
	}
	if len(transcript) != 1 {
		t.Errorf("restored session transcript: %+v", transcript)
	}
}

func TestSelectResetsTranscript(t *testing.T) {
	gen := &fakeGen{}
	reviser := &fakeReviser{outcome: chat.Outcome{Reply: "noted"}}
	m, _ := newManager(gen, reviser)

	first, _ := m.SubmitBrief(context.Background(), validBrief("first"))
	if _, err := m.SubmitBrief(context.Background(), validBrief("second")); err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}

	if _, err := m.SendChat(context.Background(), "a question"); err != nil {
		t.Fatalf("SendChat: %v", err)
	}

	selected, err := m.Select(first.ID.String())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if selected.ID != first.ID {
		t.Error("wrong page selected")
	}

	_, transcript := m.Current()
	if len(transcript) != 1 {
		t.Errorf("selecting a page must reset the transcript, got %d messages", len(transcript))
	}
}

func TestSelectUnknownID(t *testing.T) {
	m, _ := newManager(&fakeGen{}, &fakeReviser{})
	if _, err := m.Select("1f6c5d1e-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClearHistoryEmptiesEverything(t *testing.T) {
	m, mem := newManager(&fakeGen{}, &fakeReviser{})

	if _, err := m.SubmitBrief(context.Background(), validBrief("t")); err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}
	if err := m.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}

	if len(m.History()) != 0 {
		t.Error("history not empty after clear")
	}
	current, _ := m.Current()
	if current != nil {
		t.Error("selection survived the clear")
	}
	saved, _ := mem.Load(context.Background())
	if len(saved) != 0 {
		t.Error("persisted history survived the clear")
	}
}

func TestSendChat_ConversationalExchange(t *testing.T) {
	reviser := &fakeReviser{outcome: chat.Outcome{Reply: "It already covers that."}}
	m, _ := newManager(&fakeGen{}, reviser)

	artifact, _ := m.SubmitBrief(context.Background(), validBrief("t"))

	transcript, err := m.SendChat(context.Background(), "does it cover X?")
	if err != nil {
		t.Fatalf("SendChat: %v", err)
	}

	// Seed + exactly one user/assistant pair.
	if len(transcript) != 3 {
		t.Fatalf("transcript length: got %d, want 3", len(transcript))
	}
	if transcript[1].Role != models.ChatRoleUser || transcript[1].Content != "does it cover X?" {
		t.Errorf("user message wrong: %+v", transcript[1])
	}
	if transcript[2].Role != models.ChatRoleAssistant {
		t.Errorf("assistant message wrong: %+v", transcript[2])
	}
	if !strings.Contains(transcript[2].HTML, "<p>") {
		t.Errorf("assistant reply missing rendered HTML variant: %+v", transcript[2])
	}
	if transcript[1].HTML != "" {
		t.Errorf("user message should carry no HTML variant: %+v", transcript[1])
	}

	current, _ := m.Current()
	if current.HTMLContent != artifact.HTMLContent {
		t.Error("conversational exchange modified the page")
	}
}

func TestSendChat_RevisionKeepsIdentity(t *testing.T) {
	reviser := &fakeReviser{outcome: chat.Outcome{
		Reply:   "Done.",
		HTML:    "<h1>Revised</h1>",
		Revised: true,
	}}
	m, mem := newManager(&fakeGen{}, reviser)

	artifact, _ := m.SubmitBrief(context.Background(), validBrief("t"))

	if _, err := m.SendChat(context.Background(), "revise it"); err != nil {
		t.Fatalf("SendChat: %v", err)
	}

	current, _ := m.Current()
	if current.HTMLContent != "<h1>Revised</h1>" {
		t.Errorf("revision not applied: %q", current.HTMLContent)
	}
	if current.ID != artifact.ID || !current.CreatedAt.Equal(artifact.CreatedAt) {
		t.Error("revision must keep the page's ID and creation time")
	}

	// The revised HTML is persisted into the history entry.
	saved, _ := mem.Load(context.Background())
	if saved[0].HTMLContent != "<h1>Revised</h1>" {
		t.Error("revision not persisted")
	}
}

func TestSendChat_RevisionOfReplacedPageIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	reviser := &fakeReviser{
		outcome: chat.Outcome{Reply: "Done.", HTML: "<h1>Revised OLD page</h1>", Revised: true},
		release: release,
	}
	m, _ := newManager(&fakeGen{}, reviser)

	if _, err := m.SubmitBrief(context.Background(), validBrief("old page")); err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.SendChat(context.Background(), "revise it")
		done <- err
	}()
	for !reviser.started() {
		time.Sleep(time.Millisecond)
	}

	// A new generation lands while the revision call is still out.
	fresh, err := m.SubmitBrief(context.Background(), validBrief("new page"))
	if err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("SendChat: %v", err)
	}

	current, transcript := m.Current()
	if current.ID != fresh.ID {
		t.Fatal("new page is not current")
	}
	if current.HTMLContent != "<h1>new page</h1>" {
		t.Errorf("stale revision written onto the new page: %q", current.HTMLContent)
	}
	if len(transcript) != 1 {
		t.Errorf("stale exchange leaked into the new page's transcript: %+v", transcript)
	}
}

func TestSendChat_SecondExchangeWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	reviser := &fakeReviser{outcome: chat.Outcome{Reply: "thinking"}, release: release}
	m, _ := newManager(&fakeGen{}, reviser)

	if _, err := m.SubmitBrief(context.Background(), validBrief("t")); err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.SendChat(context.Background(), "first")
		done <- err
	}()
	for !reviser.started() {
		time.Sleep(time.Millisecond)
	}

	if _, err := m.SendChat(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for a concurrent exchange, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}
}

func TestSendChat_WithoutPage(t *testing.T) {
	m, _ := newManager(&fakeGen{}, &fakeReviser{})
	if _, err := m.SendChat(context.Background(), "hello"); !errors.Is(err, ErrNoPage) {
		t.Errorf("expected ErrNoPage, got %v", err)
	}
}

func TestArchiveReceivesCopies(t *testing.T) {
	archive := &fakeArchive{}
	mem := store.NewMemoryStore()
	reviser := &fakeReviser{outcome: chat.Outcome{Reply: "Done.", HTML: "<h1>v2</h1>", Revised: true}}
	m := NewManager(&fakeGen{}, &fakeAudit{}, reviser, mem, mem, archive, 20)

	artifact, err := m.SubmitBrief(context.Background(), validBrief("t"))
	if err != nil {
		t.Fatalf("SubmitBrief: %v", err)
	}
	if _, err := m.SendChat(context.Background(), "revise"); err != nil {
		t.Fatalf("SendChat: %v", err)
	}

	if len(archive.items) != 2 {
		t.Fatalf("archive writes: got %d, want 2", len(archive.items))
	}
	if archive.items[0].ID != artifact.ID || archive.items[1].ID != artifact.ID {
		t.Error("archive entries must share the page ID")
	}
	if archive.items[1].HTMLContent != "<h1>v2</h1>" {
		t.Error("revision not archived")
	}
}

func TestThemePersistence(t *testing.T) {
	m, mem := newManager(&fakeGen{}, &fakeReviser{})

	if err := m.SetTheme(context.Background(), "dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err := m.Theme(context.Background())
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != "dark" {
		t.Errorf("theme: got %q, want dark", theme)
	}

	stored, _ := mem.Theme(context.Background())
	if stored != "dark" {
		t.Error("theme not written through to the store")
	}
}

func TestResearchKeywordsDelegates(t *testing.T) {
	m, _ := newManager(&fakeGen{research: "a, b, c"}, &fakeReviser{})
	if got := m.ResearchKeywords(context.Background(), "t"); got != "a, b, c" {
		t.Errorf("research: got %q", got)
	}
}
