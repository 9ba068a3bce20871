// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/vaultchat/vaultchat/internal/ollama"
)

func TestDescribeClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "connection",
			err:  &ollama.ClientError{Type: ollama.ErrTypeConnection, Message: "refused"},
			want: "is Ollama running",
		},
		{
			name: "bad status",
			err:  &ollama.ClientError{Type: ollama.ErrTypeBadStatus, Message: "status", StatusCode: 503},
			want: "503",
		},
		{
			name: "malformed",
			err:  &ollama.ClientError{Type: ollama.ErrTypeMalformed, Message: "junk"},
			want: "unexpected response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeClientError(tt.err)
			if got == nil || !strings.Contains(got.Error(), tt.want) {
				t.Errorf("describeClientError(%v) = %v, want containing %q", tt.err, got, tt.want)
			}
		})
	}

	// Unclassified errors pass through untouched.
	plain := errors.New("boom")
	if got := describeClientError(plain); got != plain {
		t.Errorf("expected passthrough, got %v", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ask", "history", "config", "version"} {
		if !names[want] {
			t.Errorf("expected %q subcommand to be registered", want)
		}
	}
}
