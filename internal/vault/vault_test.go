// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// WORKSPACE TESTS
// =============================================================================

func TestWorkspaceLastOpenedWins(t *testing.T) {
	ws := NewWorkspace()

	if _, ok := ws.Active(); ok {
		t.Fatal("empty workspace should have no active note")
	}

	ws.Open("a.md")
	ws.Open("b.md")
	ws.Open("c.md")

	active, ok := ws.Active()
	if !ok || active != "c.md" {
		t.Errorf("expected active c.md, got %q %v", active, ok)
	}

	// Closing the active note falls back to the previously opened one.
	ws.Close("c.md")
	active, _ = ws.Active()
	if active != "b.md" {
		t.Errorf("expected fallback to b.md, got %q", active)
	}

	// Closing a non-active note leaves the active note alone.
	ws.Close("a.md")
	active, _ = ws.Active()
	if active != "b.md" {
		t.Errorf("expected b.md to stay active, got %q", active)
	}

	ws.Close("b.md")
	if _, ok := ws.Active(); ok {
		t.Error("workspace should be empty after closing everything")
	}
}

func TestWorkspaceReopenPromotes(t *testing.T) {
	ws := NewWorkspace()
	ws.Open("a.md")
	ws.Open("b.md")
	ws.Open("a.md")

	active, _ := ws.Active()
	if active != "a.md" {
		t.Errorf("reopening should promote a.md, got %q", active)
	}
	if ws.Len() != 2 {
		t.Errorf("reopening should not duplicate, got %d notes", ws.Len())
	}
}

func TestActiveNoteText(t *testing.T) {
	dir := t.TempDir()
	notePath := filepath.Join(dir, "note.md")
	if err := os.WriteFile(notePath, []byte("# My Note\n\nsome text"), 0644); err != nil {
		t.Fatal(err)
	}

	ws := NewWorkspace()

	if _, err := ws.ActiveNoteText(); !errors.Is(err, ErrNoActiveNote) {
		t.Errorf("expected ErrNoActiveNote, got %v", err)
	}

	ws.Open(notePath)
	text, err := ws.ActiveNoteText()
	if err != nil {
		t.Fatalf("ActiveNoteText failed: %v", err)
	}
	if text != "# My Note\n\nsome text" {
		t.Errorf("unexpected note text: %q", text)
	}

	// Unreadable note surfaces the read error.
	ws.Open(filepath.Join(dir, "missing.md"))
	if _, err := ws.ActiveNoteText(); err == nil {
		t.Error("expected error for missing note file")
	}
}

// =============================================================================
// TEMPLATE TESTS
// =============================================================================

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		context  string
		prompt   string
		want     string
	}{
		{
			name:     "both markers",
			template: "This is my note:\n\n{context}\n\n{prompt}",
			context:  "doc",
			prompt:   "hello",
			want:     "This is my note:\n\ndoc\n\nhello",
		},
		{
			name:     "only prompt marker",
			template: "Answer: {prompt}",
			context:  "doc",
			prompt:   "hello",
			want:     "Answer: hello",
		},
		{
			name:     "no markers",
			template: "static text",
			context:  "doc",
			prompt:   "hello",
			want:     "static text",
		},
		{
			name:     "first occurrence only",
			template: "{prompt} and again {prompt}",
			context:  "",
			prompt:   "hi",
			want:     "hi and again {prompt}",
		},
		{
			name:     "context containing marker text is not re-expanded",
			template: "{context}|{prompt}",
			context:  "note says {context}",
			prompt:   "q",
			want:     "note says {context}|q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.template, tt.context, tt.prompt)
			if got != tt.want {
				t.Errorf("BuildPrompt:\nwant %q\ngot  %q", tt.want, got)
			}
		})
	}
}

func TestHasContextMarker(t *testing.T) {
	if !HasContextMarker("{context}") {
		t.Error("expected marker to be detected")
	}
	if HasContextMarker("{prompt} only") {
		t.Error("expected no context marker")
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcherEvictsDeletedNote(t *testing.T) {
	dir := t.TempDir()
	notePath := filepath.Join(dir, "note.md")
	if err := os.WriteFile(notePath, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	ws := NewWorkspace()
	ws.Open(notePath)

	w, err := NewWatcher(ws)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Add(notePath); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.Remove(notePath); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := ws.Active(); !ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("deleted note was not evicted from workspace")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
