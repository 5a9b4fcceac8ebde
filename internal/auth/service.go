// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/dsweb/gamegate/internal/result"
)

// Service runs the user workflows against a SessionStore and a UserGateway.
type Service struct {
	sessions   SessionStore
	users      UserGateway
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewService creates a Service that logs through slog.Default.
func NewService(sessions SessionStore, users UserGateway) (*Service, error) {
	return NewServiceWithLogger(sessions, users, slog.Default())
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSessionTTL sets the lifetime of sessions issued at login. Values <= 0
// keep SessionTTL.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(sessions SessionStore, users UserGateway, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("session store is required")
	}
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("user gateway is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("logger is required")
	}
	s := &Service{
		sessions:   sessions,
		users:      users,
		logger:     logger,
		sessionTTL: SessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login verifies credentials and issues a new session token. A session
// recorded on the user from a previous login is removed first; a session
// whose token was never recorded on the user survives.
func (s *Service) Login(ctx context.Context, userName, userPass string) (string, result.Code, error) {
	user, err := s.users.SelectByUserName(ctx, userName)
	if err != nil {
		return "", result.CodeOf(err), err
	}
	if user == nil {
		return "", result.UserNotFindDBInfo, nil
	}
	if !user.PasswordMatches(userPass) {
		return "", result.UserPassNotMatch, nil
	}

	if user.Token != "" {
		if err := s.evict(ctx, user.Token); err != nil {
			return "", result.CodeOf(err), err
		}
	}

	token, err := s.sessions.Create(ctx, userName, s.sessionTTL)
	if err != nil {
		return "", result.CodeOf(err), err
	}

	// The new session is valid whether or not the record is updated; a
	// missed update only weakens eviction on the next login.
	ok, err := s.users.UpdateToken(ctx, userName, token)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "failed to record session token",
			"user_name", userName,
			"error", err)
	case !ok:
		s.logger.WarnContext(ctx, "session token not recorded",
			"user_name", userName)
	}

	return token, result.Success, nil
}

func (s *Service) evict(ctx context.Context, token string) error {
	_, found, err := s.sessions.Lookup(ctx, token)
	if err != nil || !found {
		return err
	}
	return s.sessions.Delete(ctx, token)
}

// CreateUser registers a user. No session is issued.
func (s *Service) CreateUser(ctx context.Context, userName, userPass string, charType int) (result.Code, error) {
	_, loggedIn, err := s.sessions.ActiveToken(ctx, userName)
	if err != nil {
		return result.CodeOf(err), err
	}
	if loggedIn {
		return result.UserAlreadyLoggedIn, nil
	}

	existing, err := s.users.SelectByUserName(ctx, userName)
	if err != nil {
		return result.CodeOf(err), err
	}
	if existing != nil {
		return result.UserAlreadyExistInfo, nil
	}

	inserted, err := s.users.InsertUser(ctx, userName, userPass, charType)
	if err != nil {
		return result.CodeOf(err), err
	}
	if inserted {
		return result.Success, nil
	}

	// Nothing inserted: either a concurrent registration won, or the store
	// failed without saying so.
	existing, err = s.users.SelectByUserName(ctx, userName)
	if err != nil {
		return result.CodeOf(err), err
	}
	if existing != nil {
		return result.UserAlreadyExistInfo, nil
	}
	err = result.Failure(result.Fail, "INSERT_USER_INFO").
		With("user_name", userName).
		Errorf("insert affected no rows")
	return result.Fail, err
}

// Logout ends the session for token. It succeeds whether or not the session
// still exists.
func (s *Service) Logout(ctx context.Context, token string) (result.Code, error) {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return result.CodeOf(err), err
	}
	return result.Success, nil
}

// UserInfo returns the record owned by owner.
func (s *Service) UserInfo(ctx context.Context, owner string) (*UserRecord, result.Code, error) {
	user, err := s.users.SelectByUserName(ctx, owner)
	if err != nil {
		return nil, result.CodeOf(err), err
	}
	if user == nil {
		return nil, result.UserNotFindDBInfo, nil
	}
	return user, result.Success, nil
}
