// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation panel for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultchat/vaultchat/internal/model"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/storage"
	"github.com/vaultchat/vaultchat/internal/ui/components"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
	"github.com/vaultchat/vaultchat/internal/vault"
)

// =============================================================================
// PANEL STATE
// =============================================================================

// State represents the current state of the conversation panel.
type State int

const (
	// StateReady accepts input; submitting sends a request.
	StateReady State = iota
	// StateAwaiting has one request in flight; submits are rejected
	// until its reply arrives.
	StateAwaiting
)

// =============================================================================
// PANEL MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation panel.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// pendingID is the user turn awaiting a reply; empty when ready.
	pendingID string

	// Dependencies
	client    *ollama.Client
	workspace *vault.Workspace
	history   *storage.History

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	toasts   *components.ToastManager
	keyMap   KeyMap
}

// New creates the conversation panel. history may be nil, in which case
// turns are kept only in memory.
func New(theme *styles.Theme, client *ollama.Client, workspace *vault.Workspace, history *storage.History) Model {
	input := textinput.New()
	input.Placeholder = "Ask about your note..."
	input.Prompt = "> "
	input.CharLimit = 4096
	input.PromptStyle = theme.InputPrompt
	input.TextStyle = theme.InputText
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	return Model{
		state:        StateReady,
		theme:        theme,
		width:        80,
		height:       24,
		conversation: model.NewConversation(),
		client:       client,
		workspace:    workspace,
		history:      history,
		viewport:     vp,
		input:        input,
		spinner:      sp,
		toasts:       components.NewToastManager(),
		keyMap:       DefaultKeyMap(),
	}
}

// Init starts the cursor blink, the toast ticker, and a reachability
// check against the inference server. The panel always opens with an
// empty transcript; Ctrl+R restores the saved one.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		components.ToastTickCmd(),
		CheckServerCmd(m.client),
	)
}

// ServerCheck tests whether the inference server answers and reports
// the outcome as a ServerStatusMsg.
func (m Model) ServerCheck() tea.Cmd {
	return CheckServerCmd(m.client)
}

// State returns the current panel state.
func (m Model) State() State {
	return m.state
}

// Conversation returns the in-memory transcript.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the input text.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// Resize updates the panel layout.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height

	// Header, input, and status bar take fixed rows.
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4
	m.refreshViewport()
}
