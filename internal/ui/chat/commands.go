// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation panel for the TUI.
//
// This file defines the Bubble Tea commands that perform I/O off the
// update loop.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/storage"
)

// GenerateCmd sends one prompt to the inference server and delivers the
// outcome as a ReplyMsg tagged with the user turn's ID.
func GenerateCmd(client *ollama.Client, messageID, prompt string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Generate(context.Background(), prompt)
		return ReplyMsg{MessageID: messageID, Reply: reply, Err: err}
	}
}

// LoadHistoryCmd loads up to the configured cap of persisted turns.
// A nil store yields an empty load.
func LoadHistoryCmd(history *storage.History) tea.Cmd {
	return func() tea.Msg {
		if history == nil {
			return HistoryLoadedMsg{}
		}
		msgs, err := history.Recent(config.Global().Chat.MaxHistory)
		return HistoryLoadedMsg{Messages: msgs, Err: err}
	}
}

// ClearHistoryCmd clears the durable transcript.
func ClearHistoryCmd(history *storage.History) tea.Cmd {
	return func() tea.Msg {
		if history == nil {
			return HistoryClearedMsg{}
		}
		return HistoryClearedMsg{Err: history.Clear()}
	}
}

// CheckServerCmd checks whether the inference server answers at all.
func CheckServerCmd(client *ollama.Client) tea.Cmd {
	return func() tea.Msg {
		err := client.CheckReachable(context.Background())
		return ServerStatusMsg{Reachable: err == nil, Err: err}
	}
}
