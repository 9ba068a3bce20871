// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for vaultchat.
//
// Settings live in a single TOML file with sensible defaults, environment
// variable overrides, and validation.
//
// Configuration file location:
//   - ~/.vaultchat/config.toml
//   - Built-in defaults when the file is absent
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/vaultchat/vaultchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete vaultchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Chat holds inference endpoint settings
	Chat ChatConfig `toml:"chat"`

	// Context holds note-context settings
	Context ContextConfig `toml:"context"`

	// Vault holds notes-directory settings
	Vault VaultConfig `toml:"vault"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// ChatConfig contains the inference endpoint configuration.
type ChatConfig struct {
	// Endpoint is the URL of the local inference server's generate API
	Endpoint string `toml:"endpoint"`
	// Model is the model identifier sent with every request
	Model string `toml:"model"`
	// MaxHistory caps the number of turns kept in the conversation.
	// Valid range is 10-1000; values outside are clamped.
	MaxHistory int `toml:"max_history"`
}

// ContextConfig controls splicing the active note into the prompt.
type ContextConfig struct {
	// Include enables sending the active note's text with each prompt
	Include bool `toml:"include"`
	// Template is the prompt template. The first {context} marker is
	// replaced with the note text and the first {prompt} marker with the
	// user's message. Missing markers are skipped.
	Template string `toml:"template"`
}

// VaultConfig contains notes-directory configuration.
type VaultConfig struct {
	// Dir is the root directory of the notes vault
	Dir string `toml:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Verbose lowers the log level to debug
	Verbose bool `toml:"verbose"`
}

// History cap bounds. The settings form steps in increments of HistoryStep.
const (
	MinHistory  = 10
	MaxHistory  = 1000
	HistoryStep = 10
)

// DefaultTemplate is the context template used when none is configured.
const DefaultTemplate = "This is my note:\n\n{context}\n\n{prompt}"

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Chat: ChatConfig{
			Endpoint:   "http://localhost:11434/api/generate",
			Model:      "llama2",
			MaxHistory: 100,
		},

		Context: ContextConfig{
			Include:  false,
			Template: DefaultTemplate,
		},

		Vault: VaultConfig{
			Dir: "",
		},

		UI: UIConfig{
			Theme: "dark",
		},

		Log: LogConfig{
			Verbose: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the vaultchat configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".vaultchat"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the path to the log file.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vaultchat.log"), nil
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when the file is absent. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults and clamps the
// history cap to its valid range.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Chat.Endpoint == "" {
		c.Chat.Endpoint = defaults.Chat.Endpoint
	}
	if c.Chat.Model == "" {
		c.Chat.Model = defaults.Chat.Model
	}
	if c.Chat.MaxHistory == 0 {
		c.Chat.MaxHistory = defaults.Chat.MaxHistory
	}
	if c.Chat.MaxHistory < MinHistory {
		c.Chat.MaxHistory = MinHistory
	}
	if c.Chat.MaxHistory > MaxHistory {
		c.Chat.MaxHistory = MaxHistory
	}
	if c.Context.Template == "" {
		c.Context.Template = defaults.Context.Template
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("VAULTCHAT_ENDPOINT"); endpoint != "" {
		c.Chat.Endpoint = endpoint
	}
	if model := os.Getenv("VAULTCHAT_MODEL"); model != "" {
		c.Chat.Model = model
	}
	if vault := os.Getenv("VAULTCHAT_VAULT"); vault != "" {
		c.Vault.Dir = vault
	}
	if verbose := os.Getenv("VAULTCHAT_VERBOSE"); verbose != "" {
		c.Log.Verbose = verbose == "1" || strings.ToLower(verbose) == "true"
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo saves the configuration to a TOML file. The file is written
// atomically and created with 0600 permissions (owner read/write only).
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# vaultchat configuration file")
	fmt.Fprintln(&buf, "# Generated by vaultchat - edit with care")
	fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns the first error found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Chat.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{
			Field:   "chat.endpoint",
			Message: fmt.Sprintf("must be an absolute URL, got %q", c.Chat.Endpoint),
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{
			Field:   "chat.endpoint",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		}
	}

	if c.Chat.MaxHistory < MinHistory || c.Chat.MaxHistory > MaxHistory {
		return ValidationError{
			Field:   "chat.max_history",
			Message: fmt.Sprintf("must be between %d and %d", MinHistory, MaxHistory),
		}
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be dark, light or auto, got %q", c.UI.Theme),
		}
	}

	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value by its dotted key, e.g. "chat.endpoint".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "chat.endpoint":
		return c.Chat.Endpoint, nil
	case "chat.model":
		return c.Chat.Model, nil
	case "chat.max_history":
		return strconv.Itoa(c.Chat.MaxHistory), nil
	case "context.include":
		return strconv.FormatBool(c.Context.Include), nil
	case "context.template":
		return c.Context.Template, nil
	case "vault.dir":
		return c.Vault.Dir, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "log.verbose":
		return strconv.FormatBool(c.Log.Verbose), nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set updates a configuration value by its dotted key and re-validates.
func (c *Config) Set(key, value string) error {
	switch key {
	case "chat.endpoint":
		c.Chat.Endpoint = value
	case "chat.model":
		c.Chat.Model = value
	case "chat.max_history":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("chat.max_history must be an integer: %w", err)
		}
		c.Chat.MaxHistory = n
	case "context.include":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("context.include must be a boolean: %w", err)
		}
		c.Context.Include = b
	case "context.template":
		c.Context.Template = value
	case "vault.dir":
		c.Vault.Dir = value
	case "ui.theme":
		c.UI.Theme = value
	case "log.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("log.verbose must be a boolean: %w", err)
		}
		c.Log.Verbose = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

// Keys lists the dotted keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"chat.endpoint",
		"chat.model",
		"chat.max_history",
		"context.include",
		"context.template",
		"vault.dir",
		"ui.theme",
		"log.verbose",
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Fall back to defaults rather than failing startup.
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	// Consume the lazy load so a later Global() cannot overwrite cfg.
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
