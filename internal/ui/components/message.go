// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vaultchat/vaultchat/internal/model"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation turn as a styled bubble.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for a turn.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	default:
		return b.renderNoticeBubble()
	}
}

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)
	role := b.theme.RoleLabel.Render("you")

	header := role
	if b.ShowTimestamp {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}

	// User turns sit on the right.
	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Right).Render(block)
}

func (b *MessageBubble) renderAssistantBubble() string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	// Assistant replies are markdown; render them when possible.
	content := renderMarkdown(b.Message.Content, maxContentWidth)
	content = strings.TrimRight(content, "\n")
	if content == "" {
		content = "..."
	}

	bubble := b.theme.AssistantBubble.MaxWidth(b.Width - 4).Render(content)
	role := b.theme.RoleLabel.Render("assistant")

	header := role
	if b.ShowTimestamp {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

func (b *MessageBubble) renderNoticeBubble() string {
	wrapped := wordWrap(b.Message.Content, b.Width-8)
	return b.theme.NoticeBubble.Render(wrapped)
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// wordWrap wraps text to fit within the specified display width,
// using go-runewidth so wide characters count correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
