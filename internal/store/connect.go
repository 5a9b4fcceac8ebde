// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package store opens the backend connections and owns the database schema.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the startup connection attempts.
type RetryPolicy struct {
	Attempts uint64        // retries after the first attempt
	Base     time.Duration // first fibonacci step
	Cap      time.Duration // longest single wait
}

// DefaultRetryPolicy waits 0.5s, 0.5s, 1s, 1.5s, 2.5s... up to 5s per step.
var DefaultRetryPolicy = RetryPolicy{Attempts: 8, Base: 500 * time.Millisecond, Cap: 5 * time.Second}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.Base
	if base <= 0 {
		base = DefaultRetryPolicy.Base
	}
	b := retry.NewFibonacci(base)
	if p.Cap > 0 {
		b = retry.WithCappedDuration(p.Cap, b)
	}
	return retry.WithMaxRetries(p.Attempts, b)
}

// pinger is satisfied by *pgxpool.Pool and the Redis client wrapper below.
type pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct{ client goredis.UniversalClient }

func (r redisPinger) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func waitReady(ctx context.Context, name string, p pinger, policy RetryPolicy) error {
	attempt := 0
	return retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		attempt++
		if err := p.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "backend not ready", "backend", name, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// OpenPostgres creates a pool for dsn and waits until it answers a ping.
func OpenPostgres(ctx context.Context, dsn string, policy RetryPolicy) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("POSTGRES_CONFIG_INVALID").With("operation", "parse dsn").Wrap(err)
	}
	if err := waitReady(ctx, "postgres", pool, policy); err != nil {
		pool.Close()
		return nil, oops.Code("POSTGRES_UNAVAILABLE").With("operation", "connect").Wrap(err)
	}
	return pool, nil
}

// OpenRedis creates a client and waits until it answers a ping.
func OpenRedis(ctx context.Context, opts *goredis.Options, policy RetryPolicy) (*goredis.Client, error) {
	client := goredis.NewClient(opts)
	if err := waitReady(ctx, "redis", redisPinger{client}, policy); err != nil {
		_ = client.Close() //nolint:errcheck // connect error takes precedence
		return nil, oops.Code("REDIS_UNAVAILABLE").
			With("operation", "connect").
			With("addr", opts.Addr).
			Wrap(err)
	}
	return client, nil
}

// PingRedis reports whether client answers within ctx.
func PingRedis(ctx context.Context, client goredis.UniversalClient) error {
	return redisPinger{client}.Ping(ctx)
}
