// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeClient struct {
	fn       func(model, system, user string) (string, error)
	calls    int
	lastSys  string
	lastUser string
}

func (f *fakeClient) Generate(_ context.Context, model, system, user string) (string, error) {
	f.calls++
	f.lastSys = system
	f.lastUser = user
	return f.fn(model, system, user)
}

func newReviser(f *fakeClient) *Reviser {
	return New(func() ModelClient { return f }, "flash", 6000)
}

func TestRevise_AppliesRevision(t *testing.T) {
	f := &fakeClient{
		fn: func(model, system, user string) (string, error) {
			return "```html\n<h1>Updated</h1><p>Better.</p>\n```", nil
		},
	}

	out := newReviser(f).Revise(context.Background(), "My Page", "<h1>Old</h1>", "make it better")

	if !out.Revised {
		t.Fatal("response with a heading must be treated as a revision")
	}
	if out.HTML != "<h1>Updated</h1><p>Better.</p>" {
		t.Errorf("revision not fence-stripped: %q", out.HTML)
	}
	if out.Reply == "" {
		t.Error("a revision exchange still needs an assistant reply")
	}
}

func TestRevise_ConversationalReplyLeavesPageUntouched(t *testing.T) {
	f := &fakeClient{
		fn: func(model, system, user string) (string, error) {
			return "The page already covers that in the second section.", nil
		},
	}

	out := newReviser(f).Revise(context.Background(), "My Page", "<h1>Old</h1>", "does it cover X?")

	if out.Revised {
		t.Fatal("prose without a heading must not replace the page")
	}
	if out.HTML != "" {
		t.Errorf("conversational outcome must carry no HTML, got %q", out.HTML)
	}
	if out.Reply != "The page already covers that in the second section." {
		t.Errorf("reply: got %q", out.Reply)
	}
}

func TestRevise_FailureYieldsOfflineReply(t *testing.T) {
	f := &fakeClient{
		fn: func(model, system, user string) (string, error) {
			return "", errors.New("boom")
		},
	}

	out := newReviser(f).Revise(context.Background(), "My Page", "<h1>Old</h1>", "anything")

	if out.Revised || out.HTML != "" {
		t.Error("a failed exchange must not touch the page")
	}
	if out.Reply != OfflineReply {
		t.Errorf("reply: got %q, want the fixed offline message", out.Reply)
	}
}

func TestRevise_PromptCarriesPageAndInstruction(t *testing.T) {
	f := &fakeClient{
		fn: func(model, system, user string) (string, error) {
			return "ok, noted", nil
		},
	}

	newReviser(f).Revise(context.Background(), "My Page", "<h1>Old</h1>", "shorten the intro")

	if !strings.Contains(f.lastSys, "My Page") {
		t.Error("page title missing from system prompt")
	}
	if !strings.Contains(f.lastUser, "<h1>Old</h1>") {
		t.Error("current HTML missing from user prompt")
	}
	if !strings.Contains(f.lastUser, "shorten the intro") {
		t.Error("instruction missing from user prompt")
	}
	if f.calls != 1 {
		t.Errorf("calls: got %d, want exactly 1", f.calls)
	}
}

func TestRevise_EmptyReplyFallsBack(t *testing.T) {
	f := &fakeClient{
		fn: func(model, system, user string) (string, error) {
			return "   \n", nil
		},
	}

	out := newReviser(f).Revise(context.Background(), "My Page", "<h1>Old</h1>", "hm")
	if out.Reply != OfflineReply {
		t.Errorf("blank model output should fall back to the offline reply, got %q", out.Reply)
	}
}
