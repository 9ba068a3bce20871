// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/ui/chat"
	"github.com/vaultchat/vaultchat/internal/ui/components"
	"github.com/vaultchat/vaultchat/internal/ui/settings"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
	"github.com/vaultchat/vaultchat/internal/vault"
)

func newTestApp(t *testing.T) App {
	t.Helper()

	cfg := config.Default()
	cfg.Chat.Endpoint = "http://localhost:1/api/generate"
	config.SetGlobal(cfg)
	t.Cleanup(config.ResetGlobalForTesting)

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		Endpoint: cfg.Chat.Endpoint,
		Model:    "llama2",
		Timeout:  5 * time.Second,
	})

	return NewApp(styles.NewTheme(), client, vault.NewWorkspace(), nil)
}

func appUpdate(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next, cmd
}

// A reply that arrives while the settings panel is open must still
// reach the conversation panel, and the panel must accept new submits
// afterwards.
func TestReplyDeliveredWhileSettingsOpen(t *testing.T) {
	a := newTestApp(t)

	a.chat.SetInputValue("hello")
	a, _ = appUpdate(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.chat.State() != chat.StateAwaiting {
		t.Fatalf("state = %v after submit, want StateAwaiting", a.chat.State())
	}
	userTurn, ok := a.chat.Conversation().Last()
	if !ok {
		t.Fatal("no user turn recorded")
	}

	a, _ = appUpdate(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.active != viewSettings {
		t.Fatal("Tab did not open settings")
	}

	a, _ = appUpdate(t, a, chat.ReplyMsg{MessageID: userTurn.ID, Reply: "hi there"})

	if got := a.chat.Conversation().Len(); got != 2 {
		t.Errorf("transcript has %d turns, want 2", got)
	}
	if a.chat.State() != chat.StateReady {
		t.Errorf("state = %v, want StateReady", a.chat.State())
	}

	a, _ = appUpdate(t, a, settings.DoneMsg{})
	if a.active != viewChat {
		t.Fatal("DoneMsg did not return to chat")
	}

	a.chat.SetInputValue("again")
	_, cmd := appUpdate(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("subsequent submit produced no command")
	}
}

// The toast ticker re-queues itself from the chat panel's handler, so
// the tick must reach it even while settings is on screen.
func TestToastTickReachesChatWhileSettingsOpen(t *testing.T) {
	a := newTestApp(t)

	a, _ = appUpdate(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.active != viewSettings {
		t.Fatal("Tab did not open settings")
	}

	_, cmd := appUpdate(t, a, components.ToastTickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("toast tick was not re-queued")
	}
}

func TestSettingsExitTriggersServerCheck(t *testing.T) {
	a := newTestApp(t)

	a, _ = appUpdate(t, a, tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := appUpdate(t, a, settings.DoneMsg{})
	if cmd == nil {
		t.Error("leaving settings should re-check the server")
	}
}
