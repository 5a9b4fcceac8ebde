// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package redis implements auth.SessionStore on Redis.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dsweb/gamegate/internal/auth"
	"github.com/dsweb/gamegate/internal/result"
)

// Key layout. The three prefixes are disjoint so no token or user name can
// address another kind of key.
const (
	SessionKeyPrefix = "session:" // session:{token} -> owner
	OwnerKeyPrefix   = "owner:"   // owner:{owner} -> token
	LockKeyPrefix    = "lock:"    // lock:{token} -> token
)

// ErrUnavailable is wrapped into every backend failure.
var ErrUnavailable = errors.New("redis unavailable")

// deleteSessionLua removes a session and its owner index entry, the latter
// only while it still names this token.
var deleteSessionLua = goredis.NewScript(`
local owner = redis.call("GET", KEYS[1])
if not owner then
  return 0
end
redis.call("DEL", KEYS[1])
local idx = ARGV[1] .. owner
if redis.call("GET", idx) == ARGV[2] then
  redis.call("DEL", idx)
end
return 1
`)

var releaseLockLua = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionStore implements auth.SessionStore using Redis.
type SessionStore struct {
	client   goredis.UniversalClient
	lockTTL  time.Duration
	newToken func() (string, error)
}

// Option configures a SessionStore.
type Option func(*SessionStore)

// WithLockTTL overrides auth.LockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithTokenGenerator replaces auth.GenerateSessionToken. Intended for tests.
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(s *SessionStore) {
		if gen != nil {
			s.newToken = gen
		}
	}
}

// NewSessionStore creates a SessionStore on client.
func NewSessionStore(client goredis.UniversalClient, opts ...Option) *SessionStore {
	s := &SessionStore{
		client:   client,
		lockTTL:  auth.LockTTL,
		newToken: auth.GenerateSessionToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ auth.SessionStore = (*SessionStore)(nil)

func sessionKey(token string) string { return SessionKeyPrefix + token }
func ownerKey(owner string) string   { return OwnerKeyPrefix + owner }
func lockKey(token string) string    { return LockKeyPrefix + token }

func unavailable(operation string, err error) error {
	return result.Failure(result.Fail, operation).
		With("backend", "redis").
		Wrap(errors.Join(ErrUnavailable, err))
}

// Create stores token -> owner and the owner index in one transaction.
func (s *SessionStore) Create(ctx context.Context, owner string, ttl time.Duration) (string, error) {
	token, err := s.newToken()
	if err != nil {
		return "", err
	}

	var created *goredis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		created = pipe.SetNX(ctx, sessionKey(token), owner, ttl)
		pipe.Set(ctx, ownerKey(owner), token, ttl)
		return nil
	})
	if err != nil {
		return "", unavailable("session.create", err)
	}
	if !created.Val() {
		return "", result.Failure(result.Fail, "session.create").
			With("backend", "redis").
			Errorf("session token collision")
	}
	return token, nil
}

// Lookup returns the owner of token without touching its expiry.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, bool, error) {
	owner, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("session.lookup", err)
	}
	return owner, true, nil
}

// Delete removes token's session. Absent tokens are a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	err := deleteSessionLua.Run(ctx, s.client, []string{sessionKey(token)}, OwnerKeyPrefix, token).Err()
	if err != nil {
		return unavailable("session.delete", err)
	}
	return nil
}

// ActiveToken returns owner's indexed token if its session is still live.
func (s *SessionStore) ActiveToken(ctx context.Context, owner string) (string, bool, error) {
	token, err := s.client.Get(ctx, ownerKey(owner)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("session.active_token", err)
	}

	current, found, err := s.Lookup(ctx, token)
	if err != nil || !found || current != owner {
		return "", false, err
	}
	return token, true, nil
}

// LockAcquire sets lock:{token} if absent, expiring after the lock TTL.
func (s *SessionStore) LockAcquire(ctx context.Context, token string) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(token), token, s.lockTTL).Result()
	if err != nil {
		return false, unavailable("session.lock_acquire", err)
	}
	return ok, nil
}

// LockRelease deletes lock:{token} only while it holds token.
func (s *SessionStore) LockRelease(ctx context.Context, token string) (bool, error) {
	n, err := releaseLockLua.Run(ctx, s.client, []string{lockKey(token)}, token).Int64()
	if err != nil {
		return false, unavailable("session.lock_release", err)
	}
	return n == 1, nil
}

// Ping checks connectivity.
func (s *SessionStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("session.ping", err)
	}
	return nil
}
