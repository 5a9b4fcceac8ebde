// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/dsweb/gamegate/internal/config"
	"github.com/dsweb/gamegate/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the gamegate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamegate",
		Short: "gamegate - session-authenticated game API gateway",
		Long: `gamegate serves JSON operations over HTTP, keeping sessions and
per-session locks in Redis and user records in PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/gamegate/config.yaml if present)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig reads the config file named by --config, or the XDG default,
// with cmd's flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configFile
	if path == "" {
		var err error
		if path, err = xdg.DefaultConfigFile(); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path, cmd.Flags())
}
