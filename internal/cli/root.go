// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli defines the vaultchat command line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/logging"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/storage"
	"github.com/vaultchat/vaultchat/internal/ui"
	"github.com/vaultchat/vaultchat/internal/ui/styles"
	"github.com/vaultchat/vaultchat/internal/vault"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagVerbose bool
	flagNote    string
)

// rootCmd launches the interactive chat panel.
var rootCmd = &cobra.Command{
	Use:   "vaultchat",
	Short: "Chat with a local model about your notes",
	Long: `vaultchat is a terminal chat panel for your notes vault.

It talks to a locally running Ollama server, optionally splicing the
note you are working on into each prompt. Nothing ever leaves your
machine.

Run without arguments to open the interactive panel.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// setup loads configuration and initializes the file logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if flagVerbose {
		cfg.Log.Verbose = true
	}
	config.SetGlobal(cfg)

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	if err := config.EnsureDir(); err != nil {
		return err
	}
	logger, err := logging.Init(logPath, cfg.Log.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Debug("starting",
		zap.String("version", Version),
		zap.String("commit", GitCommit))
	return nil
}

// runTUI opens the interactive conversation panel.
func runTUI() error {
	cfg := config.Global()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		Endpoint: cfg.Chat.Endpoint,
		Model:    cfg.Chat.Model,
	})

	workspace := vault.NewWorkspace()
	if flagNote != "" {
		workspace.Open(flagNote)
	}

	watcher, err := vault.NewWatcher(workspace)
	if err != nil {
		return fmt.Errorf("failed to start note watcher: %w", err)
	}
	defer watcher.Stop()
	if flagNote != "" {
		if err := watcher.Add(flagNote); err != nil {
			logging.L().Warn("cannot watch note", zap.Error(err))
		}
	}
	// Watching the vault root catches deletions of any note inside it.
	if cfg.Vault.Dir != "" {
		if err := watcher.Add(cfg.Vault.Dir); err != nil {
			logging.L().Warn("cannot watch vault directory", zap.Error(err))
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	history, err := openHistory()
	if err != nil {
		// The panel still works without persistence.
		logging.L().Warn("history unavailable", zap.Error(err))
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	app := ui.NewApp(styles.NewTheme(), client, workspace, history)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// openHistory opens the durable transcript store.
func openHistory() (*storage.History, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// newClient builds an inference client from the live configuration.
func newClient(timeout time.Duration) *ollama.Client {
	cfg := config.Global()
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		Endpoint: cfg.Chat.Endpoint,
		Model:    cfg.Chat.Model,
		Timeout:  timeout,
	})
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagNote, "note", "", "open with this note as context")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
