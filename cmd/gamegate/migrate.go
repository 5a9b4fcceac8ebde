// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dsweb/gamegate/internal/store"
)

// migratorFactory is replaced in tests.
var migratorFactory = func(url string) (Migrator, error) {
	return (&ServeDeps{}).withDefaults().MigratorFactory(url)
}

// NewMigrateCmd creates the migrate command and its subcommands.
func NewMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back and inspect the user store schema in PostgreSQL.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default: $DATABASE_URL)")

	open := func(cmd *cobra.Command) (Migrator, error) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		if cfg.Database.URL == "" {
			return nil, oops.Code("CONFIG_INVALID").Errorf("database URL is required")
		}
		m, err := migratorFactory(cfg.Database.URL)
		if err != nil {
			return nil, oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
		}
		return m, nil
	}

	run := func(fn func(cmd *cobra.Command, m Migrator, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()
			return fn(cmd, m, args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: run(func(cmd *cobra.Command, m Migrator, _ []string) error {
			cmd.Println("Running migrations...")
			if err := m.Up(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "up").Wrap(err)
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: run(func(cmd *cobra.Command, m Migrator, _ []string) error {
			if err := m.Down(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "down").Wrap(err)
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply (N > 0) or roll back (N < 0) N migrations",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, m Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n == 0 {
				return oops.Code("INVALID_ARGUMENT").With("steps", args[0]).Errorf("steps must be a non-zero integer")
			}
			if err := m.Steps(n); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "steps").With("steps", n).Wrap(err)
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, m Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return oops.Code("INVALID_ARGUMENT").With("version", args[0]).Errorf("version must be a non-negative integer")
			}
			if err := m.Force(v); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "force").Wrap(err)
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the schema version and pending migrations",
		RunE: run(func(cmd *cobra.Command, m Migrator, _ []string) error {
			if err := printVersion(cmd, m); err != nil {
				return err
			}
			pending, err := m.PendingMigrations()
			if err != nil {
				return oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
			}
			for _, v := range pending {
				name, nameErr := store.MigrationName(v)
				if nameErr != nil || name == "" {
					name = strconv.FormatUint(uint64(v), 10)
				}
				cmd.Printf("pending: %s\n", name)
			}
			return nil
		}),
	})

	return cmd
}

func printVersion(cmd *cobra.Command, m Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	if dirty {
		cmd.Printf("schema version: %d (dirty)\n", v)
		return nil
	}
	cmd.Printf("schema version: %d\n", v)
	return nil
}
