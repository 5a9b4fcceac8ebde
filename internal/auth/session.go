// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"

	"github.com/dsweb/gamegate/internal/result"
)

// Session and lock configuration.
const (
	SessionTokenBytes = 32               // 32 bytes = 64 hex chars
	SessionTTL        = 30 * time.Minute // fixed from creation, never renewed
	LockTTL           = 30 * time.Second
)

// Session binds an opaque token to the user name that owns it.
type Session struct {
	Token     string
	Owner     string
	ExpiresAt time.Time
}

// IsExpiredAt returns true if the session would be expired at the given time.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// GenerateSessionToken returns a hex-encoded token built from
// SessionTokenBytes bytes of crypto/rand output.
func GenerateSessionToken() (string, error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", oops.Code(result.Fail).
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// SessionStore holds sessions and per-token locks.
//
// Implementations must report backend failures as errors carrying
// result.Fail and never as "absent".
type SessionStore interface {
	// Create issues a new token owned by owner that expires after ttl.
	Create(ctx context.Context, owner string, ttl time.Duration) (string, error)

	// Lookup returns the owner of token. It does not extend the expiry.
	Lookup(ctx context.Context, token string) (owner string, found bool, err error)

	// Delete removes the session. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error

	// ActiveToken returns the live token most recently issued to owner.
	ActiveToken(ctx context.Context, owner string) (token string, found bool, err error)

	// LockAcquire takes the exclusive lock for token. It returns false
	// without error when another holder has it.
	LockAcquire(ctx context.Context, token string) (bool, error)

	// LockRelease deletes the lock only if it still holds token's value.
	LockRelease(ctx context.Context, token string) (bool, error)
}
