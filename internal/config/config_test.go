// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Chat.Endpoint != "http://localhost:11434/api/generate" {
		t.Errorf("Endpoint = %q", cfg.Chat.Endpoint)
	}
	if cfg.Chat.Model != "llama2" {
		t.Errorf("Model = %q, want 'llama2'", cfg.Chat.Model)
	}
	if cfg.Chat.MaxHistory != 100 {
		t.Errorf("MaxHistory = %d, want 100", cfg.Chat.MaxHistory)
	}
	if cfg.Context.Include {
		t.Error("Include should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Chat.Endpoint = "http://127.0.0.1:9999/api/generate"
	cfg.Chat.MaxHistory = 250
	cfg.Context.Include = true
	cfg.Context.Template = "CTX:{context} Q:{prompt}"
	cfg.Vault.Dir = "/notes"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if loaded.Chat.Endpoint != cfg.Chat.Endpoint {
		t.Errorf("Endpoint = %q, want %q", loaded.Chat.Endpoint, cfg.Chat.Endpoint)
	}
	if loaded.Chat.MaxHistory != 250 {
		t.Errorf("MaxHistory = %d, want 250", loaded.Chat.MaxHistory)
	}
	if !loaded.Context.Include {
		t.Error("Include not persisted")
	}
	if loaded.Context.Template != cfg.Context.Template {
		t.Errorf("Template = %q, want %q", loaded.Context.Template, cfg.Context.Template)
	}
	if loaded.Vault.Dir != "/notes" {
		t.Errorf("Vault.Dir = %q, want '/notes'", loaded.Vault.Dir)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Chat.Endpoint != Default().Chat.Endpoint {
		t.Errorf("missing file should yield defaults, got %q", cfg.Chat.Endpoint)
	}
}

func TestHistoryCapClamped(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"below minimum", 5, MinHistory},
		{"above maximum", 5000, MaxHistory},
		{"within range", 500, 500},
		{"zero takes default", 0, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Chat.MaxHistory = tc.input
			cfg.fillDefaults()
			if cfg.Chat.MaxHistory != tc.want {
				t.Errorf("MaxHistory = %d, want %d", cfg.Chat.MaxHistory, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Chat.Endpoint = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid endpoint")
	}

	cfg = Default()
	cfg.Chat.Endpoint = "ftp://example.com/api"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}

	cfg = Default()
	cfg.UI.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VAULTCHAT_ENDPOINT", "http://10.0.0.5:11434/api/generate")
	t.Setenv("VAULTCHAT_MODEL", "mistral")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.Endpoint != "http://10.0.0.5:11434/api/generate" {
		t.Errorf("Endpoint override not applied: %q", cfg.Chat.Endpoint)
	}
	if cfg.Chat.Model != "mistral" {
		t.Errorf("Model override not applied: %q", cfg.Chat.Model)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("chat.model", "codellama"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cfg.Get("chat.model")
	if err != nil || got != "codellama" {
		t.Errorf("Get = %q, %v; want 'codellama'", got, err)
	}

	if err := cfg.Set("context.include", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !cfg.Context.Include {
		t.Error("Set did not update Include")
	}

	if err := cfg.Set("chat.max_history", "banana"); err == nil {
		t.Error("expected error for non-integer max_history")
	}
	if err := cfg.Set("no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}

	// Set re-validates, so an out-of-range value is rejected.
	if err := cfg.Set("chat.max_history", "9999"); err == nil {
		t.Error("expected validation error for out-of-range max_history")
	}
}

// TestGlobalConcurrentAccess exercises Global/SetGlobal under concurrency.
// Run with: go test -race ./internal/config/
func TestGlobalConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	SetGlobal(Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
