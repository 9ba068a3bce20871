// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zap logger.
//
// The TUI owns the terminal, so logs always go to a file under the
// vaultchat data directory rather than stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// Init builds the file-backed logger and installs it as the package global.
// With verbose set the level drops to debug. The returned logger should be
// Synced before process exit.
func Init(path string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	return l, nil
}

// L returns the current global logger. Before Init it is a no-op logger,
// so callers never need a nil check.
func L() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetForTesting swaps the global logger, returning a restore func.
func SetForTesting(l *zap.Logger) func() {
	loggerMu.Lock()
	prev := logger
	logger = l
	loggerMu.Unlock()
	return func() {
		loggerMu.Lock()
		logger = prev
		loggerMu.Unlock()
	}
}
