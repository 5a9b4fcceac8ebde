// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dsweb/gamegate/internal/observability"
)

// Default readiness probe timings.
const (
	probeInterval = 5 * time.Second
	probeTimeout  = 2 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// backendProbe pings every backend on an interval and caches the result,
// so readiness requests never wait on Redis or PostgreSQL.
type backendProbe struct {
	backends map[string]pinger
	metrics  *observability.Metrics
	logger   *slog.Logger
	ready    atomic.Bool
}

func newBackendProbe(backends map[string]pinger, logger *slog.Logger) *backendProbe {
	return &backendProbe{backends: backends, logger: logger}
}

// Ready reports the result of the last probe.
func (p *backendProbe) Ready() bool {
	return p.ready.Load()
}

// check pings all backends once.
func (p *backendProbe) check(ctx context.Context) bool {
	allUp := true
	for name, b := range p.backends {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := b.Ping(pctx)
		cancel()

		up := err == nil
		if !up {
			allUp = false
			p.logger.WarnContext(ctx, "backend probe failed", "backend", name, "error", err)
		}
		if p.metrics != nil {
			p.metrics.SetBackendUp(name, up)
		}
	}
	p.ready.Store(allUp)
	return allUp
}

// run probes until ctx is done.
func (p *backendProbe) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}
