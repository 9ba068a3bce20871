// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
)

func newTestForm(t *testing.T) Model {
	t.Helper()
	// Keep saves inside the test sandbox.
	t.Setenv("HOME", t.TempDir())

	config.SetGlobal(config.Default())
	t.Cleanup(config.ResetGlobalForTesting)

	return New(styles.NewTheme())
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

func TestHistoryStepperClamps(t *testing.T) {
	m := newTestForm(t)

	// Default 100, step down to the floor.
	for i := 0; i < 20; i++ {
		m, _ = press(m, tea.KeyLeft)
	}
	if m.maxHistory != config.MinHistory {
		t.Errorf("expected floor %d, got %d", config.MinHistory, m.maxHistory)
	}
	if got := config.Global().Chat.MaxHistory; got != config.MinHistory {
		t.Errorf("expected config to track stepper, got %d", got)
	}

	// Step up to the ceiling.
	for i := 0; i < 200; i++ {
		m, _ = press(m, tea.KeyRight)
	}
	if m.maxHistory != config.MaxHistory {
		t.Errorf("expected ceiling %d, got %d", config.MaxHistory, m.maxHistory)
	}
}

func TestHistoryStepSize(t *testing.T) {
	m := newTestForm(t)
	m, _ = press(m, tea.KeyRight)
	if m.maxHistory != 100+config.HistoryStep {
		t.Errorf("expected one step of %d, got %d", config.HistoryStep, m.maxHistory)
	}
}

func TestIncludeToggle(t *testing.T) {
	m := newTestForm(t)

	// Move focus to the toggle.
	m, _ = press(m, tea.KeyDown) // endpoint
	m, _ = press(m, tea.KeyDown) // include
	if m.Focus() != FieldInclude {
		t.Fatalf("expected focus on include, got %v", m.Focus())
	}

	before := config.Global().Context.Include
	m, _ = press(m, tea.KeySpace)
	if config.Global().Context.Include == before {
		t.Error("toggle should flip the config value")
	}
	m, _ = press(m, tea.KeySpace)
	if config.Global().Context.Include != before {
		t.Error("second toggle should flip it back")
	}
}

func TestEndpointValidationRejectsBadURL(t *testing.T) {
	m := newTestForm(t)
	original := config.Global().Chat.Endpoint

	m, _ = press(m, tea.KeyDown) // focus endpoint
	m.endpoint.SetValue("not a url")
	m, _ = press(m, tea.KeyDown) // leaving the field commits

	if m.endpointErr == "" {
		t.Error("expected a validation error for a bad endpoint")
	}
	if config.Global().Chat.Endpoint != original {
		t.Error("invalid endpoint must not be applied")
	}
}

func TestEndpointApplied(t *testing.T) {
	m := newTestForm(t)

	m, _ = press(m, tea.KeyDown)
	m.endpoint.SetValue("http://127.0.0.1:9999/api/generate")
	m, _ = press(m, tea.KeyDown)

	if m.endpointErr != "" {
		t.Fatalf("unexpected validation error: %s", m.endpointErr)
	}
	if got := config.Global().Chat.Endpoint; got != "http://127.0.0.1:9999/api/generate" {
		t.Errorf("endpoint not applied, got %q", got)
	}
}

func TestTemplateApplied(t *testing.T) {
	m := newTestForm(t)

	// Focus the template field.
	for m.Focus() != FieldTemplate {
		m, _ = press(m, tea.KeyDown)
	}
	m.template.SetValue("Note: {context}\nAsk: {prompt}")

	var cmd tea.Cmd
	m, cmd = press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("expected DoneMsg command on Esc")
	}
	if _, ok := cmd().(DoneMsg); !ok {
		t.Error("expected DoneMsg from Esc")
	}

	if got := config.Global().Context.Template; got != "Note: {context}\nAsk: {prompt}" {
		t.Errorf("template not applied, got %q", got)
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		ok       bool
	}{
		{"http://localhost:11434/api/generate", true},
		{"https://inference.example.com/api/generate", true},
		{"", false},
		{"ftp://host/path", false},
		{"http://", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		err := validateEndpoint(tt.endpoint)
		if tt.ok && err != nil {
			t.Errorf("validateEndpoint(%q) unexpected error: %v", tt.endpoint, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("validateEndpoint(%q) expected an error", tt.endpoint)
		}
	}
}
