// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the conversation and settings panels into one
// Bubble Tea program.
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/storage"
	"github.com/vaultchat/vaultchat/internal/ui/chat"
	"github.com/vaultchat/vaultchat/internal/ui/components"
	"github.com/vaultchat/vaultchat/internal/ui/settings"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
	"github.com/vaultchat/vaultchat/internal/vault"
)

// view identifies the active panel.
type view int

const (
	viewChat view = iota
	viewSettings
)

// App is the root Bubble Tea model.
type App struct {
	active view

	chat     chat.Model
	settings settings.Model

	theme  *styles.Theme
	width  int
	height int
}

// NewApp assembles the root model. history may be nil.
func NewApp(theme *styles.Theme, client *ollama.Client, workspace *vault.Workspace, history *storage.History) App {
	return App{
		active:   viewChat,
		chat:     chat.New(theme, client, workspace, history),
		settings: settings.New(theme),
		theme:    theme,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.Resize(msg.Width, msg.Height)
		a.chat.Resize(msg.Width, msg.Height)
		a.settings.Resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Tab opens settings from the chat panel; the settings panel
		// owns its exit keys.
		if a.active == viewChat && msg.String() == "tab" {
			// Re-seed the form so it reflects the live configuration.
			a.settings = settings.New(a.theme)
			a.settings.Resize(a.width, a.height)
			a.active = viewSettings
			return a, nil
		}

	case settings.DoneMsg:
		a.active = viewChat
		// The endpoint may have changed; check it again.
		return a, a.chat.ServerCheck()
	}

	// Asynchronous results and ticks belong to the chat panel no matter
	// which view is on screen. A reply arriving while settings is open
	// would otherwise be discarded, leaving the panel awaiting forever.
	switch msg.(type) {
	case chat.ReplyMsg, chat.HistoryLoadedMsg, chat.HistoryClearedMsg,
		chat.ServerStatusMsg, components.ToastTickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}

	// Key presses and everything else go to the active view.
	var cmd tea.Cmd
	switch a.active {
	case viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	default:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.active == viewSettings {
		return a.settings.View()
	}
	return a.chat.View()
}
