// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/ui/components"
)

// View renders the conversation panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.state == StateAwaiting {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(" waiting for reply..."))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	view := b.String()

	// Toasts overlay the bottom-right corner.
	if m.toasts.HasToasts() {
		view = lipgloss.JoinVertical(lipgloss.Left,
			view,
			components.RenderToastStack(m.toasts.GetToasts(), m.theme, m.width, 0))
	}

	return view
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("vaultchat")
	subtitle := m.theme.HeaderSubtitle.Render(" chat with your notes")
	return m.theme.Header.Width(m.width).Render(title + subtitle)
}

func (m Model) renderStatusBar() string {
	cfg := config.Global()
	bar := components.NewStatusBar(m.theme)
	bar.Width = m.width
	bar.Endpoint = cfg.Chat.Endpoint
	bar.Model = cfg.Chat.Model

	if note, ok := m.workspace.Active(); ok {
		bar.ActiveNote = filepath.Base(note)
	}

	if m.state == StateAwaiting {
		bar.Status = components.StatusThinking
	} else {
		bar.Status = components.StatusReady
	}

	bar.Shortcuts = []components.Shortcut{
		{Key: "Enter", Desc: "send"},
		{Key: "Tab", Desc: "settings"},
		{Key: "C-l", Desc: "clear"},
		{Key: "C-q", Desc: "quit"},
	}

	return bar.View()
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	turns := m.conversation.Messages()
	if len(turns) == 0 {
		m.viewport.SetContent(m.theme.FormHint.Render("No messages yet. Type below to start."))
		return
	}

	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		bubble := components.NewMessageBubble(turn, m.theme)
		bubble.SetWidth(m.viewport.Width)
		blocks = append(blocks, bubble.View())
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}
