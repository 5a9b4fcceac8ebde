// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package auth

import (
	"context"
	"crypto/subtle"
	"time"
)

// UserRecord is a persistent user as returned by SELECT_USER_INFO.
type UserRecord struct {
	UserID     int64
	Token      string // last token issued at login; may be stale or empty
	UserName   string // unique, case-sensitive
	UserPass   string
	CharType   int
	UserPoint  int
	MaxScore   int
	CreateDate time.Time
	LatestDate time.Time
}

// PasswordMatches reports whether pass equals the stored password.
func (u *UserRecord) PasswordMatches(pass string) bool {
	return subtle.ConstantTimeCompare([]byte(u.UserPass), []byte(pass)) == 1
}

// UserGateway reads and writes user records through named procedures.
//
// Transport failures are returned as errors carrying result.DBError and
// the procedure name.
type UserGateway interface {
	// SelectByUserName returns (nil, nil) when no record exists.
	SelectByUserName(ctx context.Context, userName string) (*UserRecord, error)

	// InsertUser returns false when no row was inserted, including when the
	// name is already taken.
	InsertUser(ctx context.Context, userName, userPass string, charType int) (bool, error)

	// UpdateToken records the last token issued to userName.
	UpdateToken(ctx context.Context, userName, token string) (bool, error)
}
