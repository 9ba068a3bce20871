// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation panel for the TUI.
//
// This file defines the Bubble Tea message types used by the panel.
package chat

import (
	"github.com/vaultchat/vaultchat/internal/model"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg delivers the outcome of an inference request. Exactly one
// ReplyMsg is produced per submitted message.
type ReplyMsg struct {
	// MessageID is the ID of the user turn this reply answers. Replies
	// whose ID does not match the pending request are dropped.
	MessageID string
	Reply     string
	Err       error
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg delivers persisted turns loaded at startup.
type HistoryLoadedMsg struct {
	Messages []model.Message
	Err      error
}

// HistoryClearedMsg signals that the durable transcript was cleared.
type HistoryClearedMsg struct {
	Err error
}

// =============================================================================
// SERVER MESSAGES
// =============================================================================

// ServerStatusMsg reports whether the inference server is reachable.
type ServerStatusMsg struct {
	Reachable bool
	Err       error
}
