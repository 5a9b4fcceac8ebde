// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	auth "github.com/dsweb/gamegate/internal/auth"
)

// MockUserGateway is a mock type for the UserGateway type
type MockUserGateway struct {
	mock.Mock
}

// InsertUser provides a mock function with given fields: ctx, userName, userPass, charType
func (_m *MockUserGateway) InsertUser(ctx context.Context, userName string, userPass string, charType int) (bool, error) {
	ret := _m.Called(ctx, userName, userPass, charType)
	return ret.Bool(0), ret.Error(1)
}

// SelectByUserName provides a mock function with given fields: ctx, userName
func (_m *MockUserGateway) SelectByUserName(ctx context.Context, userName string) (*auth.UserRecord, error) {
	ret := _m.Called(ctx, userName)

	var r0 *auth.UserRecord
	if rf, ok := ret.Get(0).(func(context.Context, string) *auth.UserRecord); ok {
		r0 = rf(ctx, userName)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*auth.UserRecord)
	}

	return r0, ret.Error(1)
}

// UpdateToken provides a mock function with given fields: ctx, userName, token
func (_m *MockUserGateway) UpdateToken(ctx context.Context, userName string, token string) (bool, error) {
	ret := _m.Called(ctx, userName, token)
	return ret.Bool(0), ret.Error(1)
}

// NewMockUserGateway creates a new instance of MockUserGateway. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockUserGateway(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockUserGateway {
	m := &MockUserGateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
