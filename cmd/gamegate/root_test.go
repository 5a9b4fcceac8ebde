// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "status"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := NewServeCmd()
	for _, name := range []string{"listen-addr", "redis-addr", "database-url", "lock-ttl", "session-ttl", "log-level", "metrics-addr", "auto-migrate"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestRootCmd_Help(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--help"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "serve")
	assert.Contains(t, buf.String(), "Redis")
}

func TestLoadConfig_UsesXDGDefault(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "gamegate"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(base, "gamegate", "config.yaml"),
		[]byte("redis:\n  addr: cache:6379\n"), 0o600))

	cfg, err := loadConfig(NewServeCmd())
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}
