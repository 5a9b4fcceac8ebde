// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"context"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	authpg "github.com/dsweb/gamegate/internal/auth/postgres"
	"github.com/dsweb/gamegate/internal/observability"
	"github.com/dsweb/gamegate/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// RedisOpener connects to Redis, retrying until it answers.
	// Default: store.OpenRedis
	RedisOpener func(ctx context.Context, opts *goredis.Options, policy store.RetryPolicy) (goredis.UniversalClient, error)

	// DatabaseOpener connects to PostgreSQL, retrying until it answers.
	// Default: store.OpenPostgres
	DatabaseOpener func(ctx context.Context, url string, policy store.RetryPolicy) (Database, error)

	// MigratorFactory creates a migrator for auto-migration.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)
}

// Database is the part of *pgxpool.Pool used by serve.
type Database interface {
	authpg.DB
	Ping(ctx context.Context) error
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Registerer() prometheus.Registerer
	Metrics() *observability.Metrics
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.RedisOpener == nil {
		out.RedisOpener = func(ctx context.Context, opts *goredis.Options, policy store.RetryPolicy) (goredis.UniversalClient, error) {
			client, err := store.OpenRedis(ctx, opts, policy)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}
	if out.DatabaseOpener == nil {
		out.DatabaseOpener = func(ctx context.Context, url string, policy store.RetryPolicy) (Database, error) {
			pool, err := store.OpenPostgres(ctx, url, policy)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if out.ListenerFactory == nil {
		out.ListenerFactory = net.Listen
	}
	return &out
}
