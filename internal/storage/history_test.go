// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultchat/vaultchat/internal/model"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAppendAndRecent(t *testing.T) {
	h := openTestHistory(t)

	require.NoError(t, h.Append(model.NewUserMessage("first")))
	require.NoError(t, h.Append(model.NewAssistantMessage("second")))
	require.NoError(t, h.Append(model.NewUserMessage("third")))

	msgs, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// Transcript order, oldest first.
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "third", msgs[2].Content)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestRecentLimit(t *testing.T) {
	h := openTestHistory(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, h.Append(model.NewUserMessage(strconv.Itoa(i))))
	}

	msgs, err := h.Recent(3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "7", msgs[0].Content)
	assert.Equal(t, "9", msgs[2].Content)

	msgs, err = h.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestTrimKeepsNewest(t *testing.T) {
	h := openTestHistory(t)
	for i := 0; i < 20; i++ {
		require.NoError(t, h.Append(model.NewUserMessage(strconv.Itoa(i))))
	}

	require.NoError(t, h.Trim(5))

	n, err := h.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	msgs, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, "15", msgs[0].Content)
	assert.Equal(t, "19", msgs[4].Content)

	// Trimming below an already-small count is a no-op.
	require.NoError(t, h.Trim(100))
	n, err = h.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestClear(t *testing.T) {
	h := openTestHistory(t)
	require.NoError(t, h.Append(model.NewUserMessage("x")))
	require.NoError(t, h.Clear())

	n, err := h.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	h, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, h.Append(model.NewUserMessage("durable")))
	require.NoError(t, h.Close())

	h2, err := Open(path)
	require.NoError(t, err)
	defer h2.Close()

	msgs, err := h2.Recent(10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "durable", msgs[0].Content)
}
