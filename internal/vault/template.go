// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import "strings"

// Template placeholders. Only the first occurrence of each is replaced,
// so note text containing the literal markers cannot trigger a second
// substitution.
const (
	ContextMarker = "{context}"
	PromptMarker  = "{prompt}"
)

// BuildPrompt splices the note context and the user's message into the
// template. Each marker is replaced at its first occurrence only; a
// template lacking a marker simply omits that part.
func BuildPrompt(template, context, prompt string) string {
	out := strings.Replace(template, ContextMarker, context, 1)
	out = strings.Replace(out, PromptMarker, prompt, 1)
	return out
}

// HasContextMarker reports whether the template references note context
// at all. Templates without it skip context assembly entirely.
func HasContextMarker(template string) bool {
	return strings.Contains(template, ContextMarker)
}
