// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vaultchat/vaultchat/internal/logging"
)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher evicts deleted or renamed notes from the workspace so the
// active-note fallback never points at a file that is gone. Content
// writes are ignored: note text is read fresh at prompt time.
type Watcher struct {
	workspace *Workspace
	fsw       *fsnotify.Watcher
}

// NewWatcher creates a watcher bound to the workspace.
func NewWatcher(workspace *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{workspace: workspace, fsw: fsw}, nil
}

// Add starts watching a note path.
func (w *Watcher) Add(path string) error {
	return w.fsw.Add(path)
}

// Remove stops watching a note path. Errors from paths already dropped
// by the OS watcher are ignored.
func (w *Watcher) Remove(path string) {
	_ = w.fsw.Remove(path)
}

// Run processes filesystem events until the context is cancelled.
// It is meant to run in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	log := logging.L()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Debug("note removed from disk, closing",
					zap.String("path", event.Name))
				w.workspace.Close(event.Name)
				w.Remove(event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}
