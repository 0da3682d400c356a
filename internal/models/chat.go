// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the refinement transcript. The transcript is
// append-only and scoped to the currently displayed artifact; it resets
// whenever a different artifact becomes current. HTML carries the
// Markdown-rendered variant of assistant replies; it is empty for user
// messages.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
	HTML    string   `json:"html,omitempty"`
}
