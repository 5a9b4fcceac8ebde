// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import "context"

type ownerKey struct{}

// WithOwner returns a context carrying the session owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner of the session that authorized the
// current request. ok is false outside a session-scoped operation.
func OwnerFromContext(ctx context.Context) (owner string, ok bool) {
	owner, ok = ctx.Value(ownerKey{}).(string)
	return owner, ok
}
