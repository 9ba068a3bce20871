// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the conversation panel for the vaultchat TUI.

The panel implements a two-state request loop on top of Bubble Tea: it is
either ready for input or awaiting exactly one reply. Submitting while a
request is in flight is rejected with a toast; the pending request is
never duplicated and its reply is matched back by message ID, so stale
replies are dropped rather than misattributed.

# Key Components

## Model (model.go)

The central Bubble Tea model holding the transcript, the inference
client, the notes workspace, and the optional history store.

## Update (update.go)

The submit and reply flows: prompt assembly (with note context when
enabled), transcript appends, history cap enforcement, and error
classification into user-facing toasts.

## Commands (commands.go)

tea.Cmd constructors that perform network and database I/O off the
update loop.

Notices about context assembly (no note open, unreadable note) appear in
the transcript but are never persisted.
*/
package chat
