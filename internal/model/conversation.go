// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Conversation is an ordered, append-only transcript. Turns are never
// edited or reordered; the only mutation besides Append is trimming the
// oldest turns to honor the history cap.
type Conversation struct {
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the transcript.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns the transcript in order. The caller must not mutate
// the returned slice.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent turn, or false when the transcript is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Trim drops the oldest turns until at most max remain. A non-positive
// max clears the transcript.
func (c *Conversation) Trim(max int) {
	if max <= 0 {
		c.messages = nil
		return
	}
	if len(c.messages) > max {
		c.messages = c.messages[len(c.messages)-max:]
	}
}

// Clear removes all turns.
func (c *Conversation) Clear() {
	c.messages = nil
}
