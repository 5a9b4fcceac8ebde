// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package config loads gamegate configuration from a YAML file and
// command-line flags.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment variables consulted when the secret is not configured.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvRedisPassword = "REDIS_PASSWORD"
)

// Config is the complete gamegate configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Redis    RedisConfig    `koanf:"redis"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Startup  StartupConfig  `koanf:"startup"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig configures the API listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig configures the session store connection.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// DatabaseConfig configures the user store connection.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// SessionConfig sets session and lock lifetimes.
type SessionConfig struct {
	TTL     time.Duration `koanf:"ttl"`
	LockTTL time.Duration `koanf:"lock_ttl"`
}

// StartupConfig bounds connection attempts at startup.
type StartupConfig struct {
	Attempts    uint64        `koanf:"attempts"`
	BaseBackoff time.Duration `koanf:"base_backoff"`
	MaxBackoff  time.Duration `koanf:"max_backoff"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures the metrics and health server. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxBodyBytes:    64 << 10,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    40 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:        "127.0.0.1:6379",
			DialTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{},
		Session: SessionConfig{
			TTL:     30 * time.Minute,
			LockTTL: 30 * time.Second,
		},
		Startup: StartupConfig{
			Attempts:    8,
			BaseBackoff: 500 * time.Millisecond,
			MaxBackoff:  5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9100",
		},
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	invalid := func(key, format string, args ...any) error {
		return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr", "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes", "server.max_body_bytes must be positive")
	}
	if c.Redis.Addr == "" {
		return invalid("redis.addr", "redis.addr is required")
	}
	if c.Database.URL == "" {
		return invalid("database.url", "database.url or %s is required", EnvDatabaseURL)
	}
	if c.Session.TTL <= 0 {
		return invalid("session.ttl", "session.ttl must be positive")
	}
	if c.Session.LockTTL <= 0 {
		return invalid("session.lock_ttl", "session.lock_ttl must be positive")
	}
	if c.Session.LockTTL >= c.Session.TTL {
		return invalid("session.lock_ttl", "session.lock_ttl must be shorter than session.ttl")
	}
	// Requires a valid session.lock_ttl.
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < c.Session.LockTTL {
		return invalid("server.write_timeout",
			"server.write_timeout (%s) must not be shorter than session.lock_ttl (%s)",
			c.Server.WriteTimeout, c.Session.LockTTL)
	}
	if c.Startup.Attempts == 0 {
		return invalid("startup.attempts", "startup.attempts must be at least 1")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"listen-addr":  "server.addr",
	"redis-addr":   "redis.addr",
	"redis-db":     "redis.db",
	"database-url": "database.url",
	"auto-migrate": "database.auto_migrate",
	"session-ttl":  "session.ttl",
	"lock-ttl":     "session.lock_ttl",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"metrics-addr": "metrics.addr",
}

// RegisterFlags adds the overridable settings to fs. Defaults are only shown
// in help; unset flags never override the file.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("listen-addr", d.Server.Addr, "API listen address")
	fs.String("redis-addr", d.Redis.Addr, "Redis address")
	fs.Int("redis-db", d.Redis.DB, "Redis database number")
	fs.String("database-url", "", "PostgreSQL URL (default: $"+EnvDatabaseURL+")")
	fs.Bool("auto-migrate", d.Database.AutoMigrate, "apply pending migrations at startup")
	fs.Duration("session-ttl", d.Session.TTL, "session lifetime from login")
	fs.Duration("lock-ttl", d.Session.LockTTL, "per-session lock lease")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error, fatal)")
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when empty), then flags in fs that were set explicitly, then
// environment secrets that are still unset. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = strings.TrimSpace(os.Getenv(EnvDatabaseURL))
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = os.Getenv(EnvRedisPassword)
	}
	return cfg, nil
}
