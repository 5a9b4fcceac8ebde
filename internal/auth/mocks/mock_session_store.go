// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package mocks provides testify mocks of the auth interfaces.
package mocks

import (
	"context"
	"time"

	mock "github.com/stretchr/testify/mock"
)

// MockSessionStore is a mock type for the SessionStore type
type MockSessionStore struct {
	mock.Mock
}

// ActiveToken provides a mock function with given fields: ctx, owner
func (_m *MockSessionStore) ActiveToken(ctx context.Context, owner string) (string, bool, error) {
	ret := _m.Called(ctx, owner)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// Create provides a mock function with given fields: ctx, owner, ttl
func (_m *MockSessionStore) Create(ctx context.Context, owner string, ttl time.Duration) (string, error) {
	ret := _m.Called(ctx, owner, ttl)
	return ret.String(0), ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, token
func (_m *MockSessionStore) Delete(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// LockAcquire provides a mock function with given fields: ctx, token
func (_m *MockSessionStore) LockAcquire(ctx context.Context, token string) (bool, error) {
	ret := _m.Called(ctx, token)
	return ret.Bool(0), ret.Error(1)
}

// LockRelease provides a mock function with given fields: ctx, token
func (_m *MockSessionStore) LockRelease(ctx context.Context, token string) (bool, error) {
	ret := _m.Called(ctx, token)
	return ret.Bool(0), ret.Error(1)
}

// Lookup provides a mock function with given fields: ctx, token
func (_m *MockSessionStore) Lookup(ctx context.Context, token string) (string, bool, error) {
	ret := _m.Called(ctx, token)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// NewMockSessionStore creates a new instance of MockSessionStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockSessionStore {
	m := &MockSessionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
