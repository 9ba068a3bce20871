// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vaultchat/vaultchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status shown in the bar.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusBar renders the bottom status line: state, endpoint, model,
// active note, and key hints.
type StatusBar struct {
	Width      int
	Status     Status
	Endpoint   string
	Model      string
	ActiveNote string
	Shortcuts  []Shortcut
	theme      *styles.Theme
}

// Shortcut is a key hint shown on the right side of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:  80,
		Status: StatusReady,
		theme:  theme,
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var statusStyle lipgloss.Style
	switch s.Status {
	case StatusThinking:
		statusStyle = s.theme.StatusBusy
	case StatusError:
		statusStyle = s.theme.ErrorStyle
	default:
		statusStyle = s.theme.StatusReady
	}

	left := statusStyle.Render(s.Status.String())
	if s.Endpoint != "" {
		left += s.theme.InfoStyle.Render("  " + s.Endpoint)
	}
	if s.Model != "" {
		left += s.theme.ShortcutDesc.Render("  " + s.Model)
	}
	if s.ActiveNote != "" {
		left += s.theme.ShortcutDesc.Render("  " + s.ActiveNote)
	}

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).Render(
		fmt.Sprintf("%s%s%s", left, strings.Repeat(" ", gap), right))
}
