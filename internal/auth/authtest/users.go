// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package authtest provides test helpers for the auth workflows.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/dsweb/gamegate/internal/auth"
	"github.com/dsweb/gamegate/internal/result"
)

// Users is an in-memory auth.UserGateway with the same uniqueness rule as
// the stored procedures.
type Users struct {
	mu      sync.Mutex
	records map[string]auth.UserRecord
	nextID  int64
	inserts int
	err     error // returned by every call as a DBError failure when set
}

// NewUsers creates an empty store.
func NewUsers() *Users {
	return &Users{records: make(map[string]auth.UserRecord)}
}

// SelectByUserName returns a copy of the record or (nil, nil).
func (u *Users) SelectByUserName(_ context.Context, userName string) (*auth.UserRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return nil, result.Failure(result.DBError, "SELECT_USER_INFO").Wrap(u.err)
	}
	rec, ok := u.records[userName]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// InsertUser adds a record unless the name is taken.
func (u *Users) InsertUser(_ context.Context, userName, userPass string, charType int) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return false, result.Failure(result.DBError, "INSERT_USER_INFO").Wrap(u.err)
	}
	if _, ok := u.records[userName]; ok {
		return false, nil
	}
	u.nextID++
	u.inserts++
	now := time.Now().UTC()
	u.records[userName] = auth.UserRecord{
		UserID:     u.nextID,
		UserName:   userName,
		UserPass:   userPass,
		CharType:   charType,
		CreateDate: now,
		LatestDate: now,
	}
	return true, nil
}

// UpdateToken records token on the user.
func (u *Users) UpdateToken(_ context.Context, userName, token string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return false, result.Failure(result.DBError, "UPDATE_USER_TOKEN").Wrap(u.err)
	}
	rec, ok := u.records[userName]
	if !ok {
		return false, nil
	}
	rec.Token = token
	rec.LatestDate = time.Now().UTC()
	u.records[userName] = rec
	return true, nil
}

// Inserts returns how many inserts succeeded.
func (u *Users) Inserts() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inserts
}

// Put stores rec directly, replacing any existing record of the same name.
func (u *Users) Put(rec auth.UserRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.records[rec.UserName] = rec
}

// SetErr makes every following call fail with err; nil clears it.
func (u *Users) SetErr(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.err = err
}
