// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings provides the settings panel for the TUI.
package settings

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/logging"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
)

// =============================================================================
// FIELDS
// =============================================================================

// Field identifies a focusable control in the settings form.
type Field int

const (
	FieldHistory Field = iota
	FieldEndpoint
	FieldInclude
	FieldTemplate

	fieldCount
)

func (f Field) label() string {
	switch f {
	case FieldHistory:
		return "History size"
	case FieldEndpoint:
		return "Server endpoint"
	case FieldInclude:
		return "Include note context"
	case FieldTemplate:
		return "Context template"
	default:
		return ""
	}
}

// =============================================================================
// FORM MODEL
// =============================================================================

// Model is the Bubble Tea model for the settings form. Every change is
// applied to the live configuration and written to disk immediately;
// there is no separate save step.
type Model struct {
	theme  *styles.Theme
	width  int
	height int

	focus Field

	maxHistory int
	include    bool
	endpoint   textinput.Model
	template   textarea.Model

	// endpointErr holds the current validation failure, if any. An
	// invalid endpoint is shown but not applied.
	endpointErr string

	keyMap KeyMap
}

// KeyMap defines the keyboard bindings for the settings form.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Toggle   key.Binding
	Back     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "previous field"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "increase"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "decrease"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("Space", "toggle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("Esc", "back to chat"),
		),
	}
}

// New creates the settings form seeded from the live configuration.
func New(theme *styles.Theme) Model {
	cfg := config.Global()

	endpoint := textinput.New()
	endpoint.SetValue(cfg.Chat.Endpoint)
	endpoint.CharLimit = 512
	endpoint.Width = 60

	template := textarea.New()
	template.SetValue(cfg.Context.Template)
	template.SetWidth(60)
	template.SetHeight(4)
	template.CharLimit = 2048

	return Model{
		theme:      theme,
		width:      80,
		height:     24,
		focus:      FieldHistory,
		maxHistory: cfg.Chat.MaxHistory,
		include:    cfg.Context.Include,
		endpoint:   endpoint,
		template:   template,
		keyMap:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Focus returns the currently focused field.
func (m Model) Focus() Field {
	return m.focus
}

// Resize updates the form layout.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height
	w := width - 20
	if w < 30 {
		w = 30
	}
	m.endpoint.Width = w
	m.template.SetWidth(w)
}

// =============================================================================
// UPDATE
// =============================================================================

// DoneMsg is emitted when the user leaves the settings form.
type DoneMsg struct{}

// Update handles Bubble Tea messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Back):
		m.applyText()
		return m, func() tea.Msg { return DoneMsg{} }

	case key.Matches(keyMsg, m.keyMap.Next):
		m.applyText()
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case key.Matches(keyMsg, m.keyMap.Prev):
		m.applyText()
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case FieldHistory:
		switch {
		case key.Matches(keyMsg, m.keyMap.Increase):
			m.stepHistory(config.HistoryStep)
		case key.Matches(keyMsg, m.keyMap.Decrease):
			m.stepHistory(-config.HistoryStep)
		}
		return m, nil

	case FieldInclude:
		if key.Matches(keyMsg, m.keyMap.Toggle) {
			m.include = !m.include
			m.apply(func(cfg *config.Config) {
				cfg.Context.Include = m.include
			})
		}
		return m, nil

	case FieldEndpoint:
		var cmd tea.Cmd
		m.endpoint, cmd = m.endpoint.Update(msg)
		return m, cmd

	case FieldTemplate:
		var cmd tea.Cmd
		m.template, cmd = m.template.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) setFocus(f Field) {
	m.focus = f

	m.endpoint.Blur()
	m.template.Blur()
	switch f {
	case FieldEndpoint:
		m.endpoint.Focus()
	case FieldTemplate:
		m.template.Focus()
	}
}

// stepHistory moves the history cap by delta, clamped to the allowed range.
func (m *Model) stepHistory(delta int) {
	next := m.maxHistory + delta
	if next < config.MinHistory {
		next = config.MinHistory
	}
	if next > config.MaxHistory {
		next = config.MaxHistory
	}
	if next == m.maxHistory {
		return
	}
	m.maxHistory = next
	m.apply(func(cfg *config.Config) {
		cfg.Chat.MaxHistory = next
	})
}

// applyText commits the free-text fields. The endpoint is validated
// first; an invalid URL is kept in the input for correction but the
// stored configuration is left untouched.
func (m *Model) applyText() {
	endpoint := strings.TrimSpace(m.endpoint.Value())
	if err := validateEndpoint(endpoint); err != nil {
		m.endpointErr = err.Error()
	} else {
		m.endpointErr = ""
		m.apply(func(cfg *config.Config) {
			cfg.Chat.Endpoint = endpoint
		})
	}

	m.apply(func(cfg *config.Config) {
		cfg.Context.Template = m.template.Value()
	})
}

// apply mutates the live configuration and persists it.
func (m *Model) apply(mutate func(*config.Config)) {
	cfg := config.Global()
	mutate(cfg)
	config.SetGlobal(cfg)
	if err := config.Save(cfg); err != nil {
		logging.L().Warn("failed to save settings", zap.Error(err))
	}
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint must include a host")
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the settings form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("Settings"))
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel(FieldHistory))
	b.WriteString("\n")
	b.WriteString(m.renderHistorySlider())
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel(FieldEndpoint))
	b.WriteString("\n")
	b.WriteString(m.endpoint.View())
	if m.endpointErr != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorStyle.Render(m.endpointErr))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel(FieldInclude))
	b.WriteString("  ")
	if m.include {
		b.WriteString(m.theme.ToggleOn.Render("on"))
	} else {
		b.WriteString(m.theme.ToggleOff.Render("off"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel(FieldTemplate))
	b.WriteString("\n")
	b.WriteString(m.template.View())
	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render("{context} is the active note, {prompt} is your message"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("up/down move  left/right adjust  Esc back"))

	return m.theme.FormBox.Width(m.width - 4).Render(b.String())
}

func (m Model) renderLabel(f Field) string {
	if m.focus == f {
		return m.theme.FormLabelFocused.Render("▸ " + f.label())
	}
	return m.theme.FormLabel.Render("  " + f.label())
}

// renderHistorySlider draws the history cap as a filled track.
func (m Model) renderHistorySlider() string {
	const trackWidth = 40
	span := config.MaxHistory - config.MinHistory
	filled := (m.maxHistory - config.MinHistory) * trackWidth / span
	if filled > trackWidth {
		filled = trackWidth
	}

	track := m.theme.SliderFill.Render(strings.Repeat("█", filled)) +
		m.theme.SliderTrack.Render(strings.Repeat("░", trackWidth-filled))

	value := m.theme.FormValue.Render(fmt.Sprintf(" %d messages", m.maxHistory))
	return lipgloss.JoinHorizontal(lipgloss.Center, track, value)
}
