// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package auth provides session-authenticated user workflows for GameGate.
//
// # Contracts
//
// Two backends are reached only through interfaces:
//   - SessionStore - opaque session tokens and per-token locks (see auth/redis)
//   - UserGateway - user records behind named stored procedures (see auth/postgres)
//
// # Workflows
//
// Service implements Login, CreateUser, Logout and UserInfo. Domain outcomes
// are reported as result codes; only infrastructure failures are returned as
// errors. Register exposes the workflows as gateway operations.
package auth
