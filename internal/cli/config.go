// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultchat/vaultchat/internal/config"
)

// configCmd reads and writes configuration values.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change configuration",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Global().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Global()
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		config.SetGlobal(cfg)
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg := config.Global()
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%-20s %s\n", key, value)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
