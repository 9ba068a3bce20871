// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vault tracks the set of open notes and assembles note context
// into prompts.
package vault

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNoActiveNote is returned when context is requested but no note is open.
var ErrNoActiveNote = errors.New("no active note")

// =============================================================================
// WORKSPACE
// =============================================================================

// Workspace tracks open notes in the order they were opened. The active
// note is the most recently opened one still open; closing it promotes
// the next most recently opened note.
//
// Workspace is safe for concurrent use.
type Workspace struct {
	mu sync.RWMutex

	// opened holds note paths in open order; the active note is the last
	// element.
	opened []string
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// Open records path as opened, making it the active note. Re-opening an
// already open note moves it to the front.
func (w *Workspace) Open(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.remove(path)
	w.opened = append(w.opened, path)
}

// Close removes path from the open set. Closing the active note makes
// the previously opened note active.
func (w *Workspace) Close(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.remove(path)
}

func (w *Workspace) remove(path string) {
	for i, p := range w.opened {
		if p == path {
			w.opened = append(w.opened[:i], w.opened[i+1:]...)
			return
		}
	}
}

// Active returns the active note path, or false when nothing is open.
func (w *Workspace) Active() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.opened) == 0 {
		return "", false
	}
	return w.opened[len(w.opened)-1], true
}

// Len returns the number of open notes.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.opened)
}

// ActiveNoteText reads the active note's contents from disk. It returns
// ErrNoActiveNote when nothing is open, and a wrapped read error when
// the file cannot be read.
func (w *Workspace) ActiveNoteText() (string, error) {
	path, ok := w.Active()
	if !ok {
		return "", ErrNoActiveNote
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read note %s: %w", path, err)
	}
	return string(data), nil
}
