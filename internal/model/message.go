// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core conversation types shared by the UI,
// storage, and client layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleNotice marks transient in-panel notices, such as a context read
	// failure. Notices are displayed but not persisted.
	RoleNotice Role = "notice"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleNotice
}

// Persistent reports whether turns with this role belong in the durable
// transcript.
func (r Role) Persistent() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user turn.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant turn.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewNoticeMessage creates a transient notice turn.
func NewNoticeMessage(content string) Message {
	return NewMessage(RoleNotice, content)
}
