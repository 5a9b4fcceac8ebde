// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dsweb/gamegate/internal/logging"
	"github.com/dsweb/gamegate/internal/protocol"
)

const (
	liveToken  = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	ghostToken = "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
)

func scopedBody(token, text string) []byte {
	return []byte(fmt.Sprintf(`{"token":%q,"text":%q}`, token, text))
}

type echoRequest struct {
	protocol.Envelope
	Text string `json:"text" jsonschema:"required,maxLength=16"`
}

type echoResponse struct {
	protocol.Base
	Text  string `json:"text"`
	Owner string `json:"owner,omitempty"`
}

// noTokenRequest cannot carry a session token.
type noTokenRequest struct {
	Text string `json:"text"`
}

func echo(_ context.Context, req *echoRequest) (*echoResponse, error) {
	return &echoResponse{Text: req.Text}, nil
}

func echoOwner(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	owner, _ := OwnerFromContext(ctx)
	return &echoResponse{Text: req.Text, Owner: owner}, nil
}

// fakeGuard is an in-memory SessionGuard.
type fakeGuard struct {
	mu       sync.Mutex
	sessions map[string]string
	locks    map[string]bool

	lookupErr  error
	acquireErr error
	releaseErr error

	acquireDelay time.Duration
	acquireAt    time.Time

	lookups  int
	acquires int
	releases int
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{
		sessions: make(map[string]string),
		locks:    make(map[string]bool),
	}
}

func (g *fakeGuard) add(token, owner string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[token] = owner
}

func (g *fakeGuard) hold(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locks[token] = true
}

func (g *fakeGuard) held(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locks[token]
}

func (g *fakeGuard) counts() (lookups, acquires, releases int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookups, g.acquires, g.releases
}

func (g *fakeGuard) Lookup(_ context.Context, token string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if g.lookupErr != nil {
		return "", false, g.lookupErr
	}
	owner, ok := g.sessions[token]
	return owner, ok, nil
}

func (g *fakeGuard) acquireStartedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acquireAt
}

func (g *fakeGuard) LockAcquire(_ context.Context, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.acquireAt = time.Now()
	time.Sleep(g.acquireDelay)
	g.acquires++
	if g.acquireErr != nil {
		return false, g.acquireErr
	}
	if g.locks[token] {
		return false, nil
	}
	g.locks[token] = true
	return true, nil
}

func (g *fakeGuard) LockRelease(ctx context.Context, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releases++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.releaseErr != nil {
		return false, g.releaseErr
	}
	had := g.locks[token]
	delete(g.locks, token)
	return had, nil
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: logging.RenameFatal,
	})), &buf
}
