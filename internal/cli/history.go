// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vaultchat/vaultchat/internal/config"
	"github.com/vaultchat/vaultchat/internal/util"
)

// historyCmd inspects the durable transcript.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversation turns",
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved conversation turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHistory()
		if err != nil {
			return err
		}
		defer h.Close()
		if err := h.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

var historyLimit int

func runHistoryShow(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = config.Global().Chat.MaxHistory
	}

	msgs, err := h.Recent(limit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("No saved conversation.")
		return nil
	}

	for _, msg := range msgs {
		fmt.Printf("[%s] %-9s %s\n",
			msg.Timestamp.Format("2006-01-02 15:04"),
			string(msg.Role),
			util.Truncate(util.FirstLine(msg.Content), 100))
	}
	fmt.Println(strconv.Itoa(len(msgs)) + " turn(s).")
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of turns to show (default: history cap)")
	historyCmd.AddCommand(historyClearCmd)
}
