// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/logging"
	"github.com/vaultchat/vaultchat/internal/model"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/ui/components"
	"github.com/vaultchat/vaultchat/internal/vault"
)

// Update handles Bubble Tea messages for the conversation panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Submit):
			return m.handleSubmit()

		case key.Matches(msg, m.keyMap.Clear):
			m.conversation.Clear()
			// A reply still in flight answers a turn that no longer
			// exists; forget it so it cannot land in the fresh
			// transcript as an orphan assistant turn.
			m.pendingID = ""
			m.state = StateReady
			m.refreshViewport()
			return m, ClearHistoryCmd(m.history)

		case key.Matches(msg, m.keyMap.Resume):
			return m, LoadHistoryCmd(m.history)

		case key.Matches(msg, m.keyMap.PageUp):
			m.viewport.HalfViewUp()
			return m, nil

		case key.Matches(msg, m.keyMap.PageDown):
			m.viewport.HalfViewDown()
			return m, nil

		case key.Matches(msg, m.keyMap.Up):
			m.viewport.LineUp(1)
			return m, nil

		case key.Matches(msg, m.keyMap.Down):
			m.viewport.LineDown(1)
			return m, nil
		}

	case ReplyMsg:
		return m.handleReply(msg)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			logging.L().Warn("failed to load history", zap.Error(msg.Err))
			m.toasts.AddWarning("Could not load saved conversation")
			return m, nil
		}
		// Restoring replaces the visible transcript so repeating it
		// cannot duplicate turns. The replacement also invalidates any
		// in-flight request.
		m.conversation.Clear()
		m.pendingID = ""
		m.state = StateReady
		for _, turn := range msg.Messages {
			m.conversation.Append(turn)
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case HistoryClearedMsg:
		if msg.Err != nil {
			logging.L().Warn("failed to clear history", zap.Error(msg.Err))
			m.toasts.AddWarning("Could not clear saved conversation")
		}
		return m, nil

	case ServerStatusMsg:
		if !msg.Reachable {
			m.toasts.AddWarning("Inference server is not reachable")
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		if m.state == StateAwaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Everything else feeds the text input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// SUBMIT FLOW
// =============================================================================

// handleSubmit processes Enter: validates state, assembles the prompt,
// appends the user turn, and fires the request.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	// One request in flight at a time. The rejected submit leaves the
	// input and transcript untouched.
	if m.state == StateAwaiting {
		m.toasts.AddWarning("Still waiting for a reply")
		return m, nil
	}

	cfg := config.Global()

	prompt, notice := m.assemblePrompt(cfg, text)
	if notice != "" {
		m.conversation.Append(model.NewNoticeMessage(notice))
	}

	userTurn := model.NewUserMessage(text)
	m.conversation.Append(userTurn)
	m.persist(userTurn)
	m.enforceCap(cfg.Chat.MaxHistory)

	m.input.Reset()
	m.state = StateAwaiting
	m.pendingID = userTurn.ID
	m.refreshViewport()
	m.viewport.GotoBottom()

	logging.L().Debug("submitting prompt",
		zap.String("message_id", userTurn.ID),
		zap.Int("prompt_len", len(prompt)))

	return m, tea.Batch(
		GenerateCmd(m.client, userTurn.ID, prompt),
		m.spinner.Tick,
	)
}

// assemblePrompt splices the active note into the prompt template. A
// context failure never blocks the send: the prompt falls back to the
// bare message and the returned notice explains why.
func (m Model) assemblePrompt(cfg *config.Config, text string) (prompt, notice string) {
	if !cfg.Context.Include || !vault.HasContextMarker(cfg.Context.Template) {
		return text, ""
	}

	noteText, err := m.workspace.ActiveNoteText()
	if err != nil {
		logging.L().Warn("context unavailable", zap.Error(err))
		if errors.Is(err, vault.ErrNoActiveNote) {
			return text, "No note is open; sending your message without note context."
		}
		return text, "Could not read the active note; sending your message without note context."
	}

	return vault.BuildPrompt(cfg.Context.Template, noteText, text), ""
}

// =============================================================================
// REPLY FLOW
// =============================================================================

// handleReply consumes the outcome of an inference request.
func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	// A reply for anything but the pending request is stale; drop it.
	if msg.MessageID != m.pendingID {
		return m, nil
	}

	m.state = StateReady
	m.pendingID = ""

	if msg.Err != nil {
		m.showRequestError(msg.Err)
		m.refreshViewport()
		return m, nil
	}

	reply := model.NewAssistantMessage(msg.Reply)
	m.conversation.Append(reply)
	m.persist(reply)
	m.enforceCap(config.Global().Chat.MaxHistory)

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// showRequestError translates a client error into a user-facing toast.
func (m *Model) showRequestError(err error) {
	logging.L().Error("inference request failed", zap.Error(err))

	switch {
	case ollama.IsConnectionError(err):
		m.toasts.AddError("Cannot reach the inference server. Is Ollama running?")
	case ollama.IsMalformed(err):
		m.toasts.AddError("The inference server sent an unexpected response.")
	default:
		if bad, code := ollama.IsBadStatus(err); bad {
			m.toasts.AddError("The inference server returned status " + strconv.Itoa(code) + ".")
			return
		}
		m.toasts.AddError("The request failed: " + err.Error())
	}
}

// =============================================================================
// TRANSCRIPT MAINTENANCE
// =============================================================================

// persist appends a durable turn to the history store. Notices and
// storage failures never interrupt the conversation.
func (m *Model) persist(turn model.Message) {
	if m.history == nil || !turn.Role.Persistent() {
		return
	}
	if err := m.history.Append(turn); err != nil {
		logging.L().Warn("failed to persist turn", zap.Error(err))
	}
}

// enforceCap trims both the in-memory and durable transcripts to the
// configured maximum, oldest turns first.
func (m *Model) enforceCap(max int) {
	m.conversation.Trim(max)
	if m.history != nil {
		if err := m.history.Trim(max); err != nil {
			logging.L().Warn("failed to trim history", zap.Error(err))
		}
	}
}
