// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package protocol defines the JSON envelopes exchanged on /api/{operation}.
package protocol

import (
	"time"

	"github.com/dsweb/gamegate/internal/result"
)

// Envelope is embedded in every request.
type Envelope struct {
	// Token is the session token; required only by session-scoped operations.
	// When present it must be the 64 lower-case hex characters that
	// auth.GenerateSessionToken produces.
	Token string `json:"token,omitempty" jsonschema:"maxLength=64,pattern=^([0-9a-f]{64})?$"`
	// Sequence is assigned by the client and echoed nowhere.
	Sequence int `json:"sequence,omitempty"`
}

// SessionToken returns the token carried by the envelope.
func (e Envelope) SessionToken() string { return e.Token }

// Base is embedded in every response.
type Base struct {
	ResultCode int `json:"resultCode"`
}

// SetResult records the outcome code.
func (b *Base) SetResult(code result.Code) { b.ResultCode = code.Int() }

// Result returns the recorded outcome code.
func (b *Base) Result() result.Code { return result.Code(b.ResultCode) }

// Failure builds the body returned when dispatch fails before or outside a
// handler.
func Failure(code result.Code) *Base {
	b := &Base{}
	b.SetResult(code)
	return b
}

// LoginRequest authenticates with credentials.
type LoginRequest struct {
	Envelope
	UserName string `json:"userName" jsonschema:"required,minLength=1,maxLength=64"`
	UserPass string `json:"userPass" jsonschema:"required,minLength=1,maxLength=128"`
}

// LoginResponse carries the new session token on success.
type LoginResponse struct {
	Base
	Token string `json:"token,omitempty"`
}

// LogOutRequest ends the session named by the envelope token.
type LogOutRequest struct {
	Envelope
}

// LogOutResponse is always Success.
type LogOutResponse struct {
	Base
}

// CreateUserRequest registers a new user.
type CreateUserRequest struct {
	Envelope
	UserName string `json:"userName" jsonschema:"required,minLength=1,maxLength=64"`
	UserPass string `json:"userPass" jsonschema:"required,minLength=1,maxLength=128"`
	CharType int    `json:"charType" jsonschema:"minimum=0"`
}

// CreateUserResponse reports the registration outcome.
type CreateUserResponse struct {
	Base
}

// UserInfoRequest fetches the caller's profile.
type UserInfoRequest struct {
	Envelope
}

// UserInfoResponse carries the profile of the session owner.
type UserInfoResponse struct {
	Base
	UserName   string    `json:"userName,omitempty"`
	CharType   int       `json:"charType"`
	UserPoint  int       `json:"userPoint"`
	MaxScore   int       `json:"maxScore"`
	LatestDate time.Time `json:"latestDate,omitzero"`
	CreateDate time.Time `json:"createDate,omitzero"`
}
