// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package gateway routes JSON requests to registered operations.
//
// Operations are registered once at startup in a Registry and the registry
// is sealed when a Dispatcher is built from it. Each request body is checked
// against the JSON Schema of the operation's request type before decoding.
//
// Session-scoped operations additionally require a live session token and
// run while holding the token's exclusive lock. The lock is released on
// every exit path. A request that finds the lock held is rejected, never
// queued.
package gateway
