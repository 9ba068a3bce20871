// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/ollama"
	"github.com/vaultchat/vaultchat/internal/vault"
)

var askNote string

// askCmd sends a single question and prints the reply.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question without opening the panel",
	Long: `Sends a single question to the inference server and prints the reply.

With --note, the note's text is spliced into the prompt using the
configured context template.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	cfg := config.Global()

	prompt := question
	if askNote != "" {
		data, err := os.ReadFile(askNote)
		if err != nil {
			return fmt.Errorf("failed to read note: %w", err)
		}
		prompt = vault.BuildPrompt(cfg.Context.Template, string(data), question)
	}

	client := newClient(5 * time.Minute)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	reply, err := client.Generate(ctx, prompt)
	if err != nil {
		return describeClientError(err)
	}

	displayReply(reply)
	return nil
}

// describeClientError turns a client error into a short actionable message.
func describeClientError(err error) error {
	switch {
	case ollama.IsConnectionError(err):
		return fmt.Errorf("cannot reach the inference server; is Ollama running? (%w)", err)
	case ollama.IsMalformed(err):
		return fmt.Errorf("the inference server sent an unexpected response: %w", err)
	default:
		if bad, code := ollama.IsBadStatus(err); bad {
			return fmt.Errorf("the inference server returned status %d", code)
		}
		return err
	}
}

// displayReply renders markdown when stdout is a terminal; piped output
// stays plain.
func displayReply(reply string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(reply)
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(reply)
		return
	}
	out, err := renderer.Render(reply)
	if err != nil {
		fmt.Println(reply)
		return
	}
	fmt.Print(out)
}

func init() {
	askCmd.Flags().StringVar(&askNote, "note", "", "splice this note into the prompt")
}
