// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes for registry and request failures.
const (
	CodeInvalidEntry       = "INVALID_ENTRY"
	CodeDuplicateOperation = "DUPLICATE_OPERATION"
	CodeRegistrySealed     = "REGISTRY_SEALED"
	CodeMalformedRequest   = "MALFORMED_REQUEST"
	CodeSchemaCompile      = "SCHEMA_COMPILE_FAILED"
)

// ErrDuplicateOperation creates an error for a second registration of name.
func ErrDuplicateOperation(name string) error {
	return oops.Code(CodeDuplicateOperation).
		With("operation", name).
		Errorf("operation %s already registered", name)
}

// ErrRegistrySealed creates an error for a registration after Seal.
func ErrRegistrySealed(name string) error {
	return oops.Code(CodeRegistrySealed).
		With("operation", name).
		Errorf("registry is sealed; cannot register %s", name)
}

// ErrMalformedRequest creates an error for a body that is not valid JSON or
// does not match the operation's request shape.
func ErrMalformedRequest(name string, cause error) error {
	return oops.Code(CodeMalformedRequest).
		With("operation", name).
		Wrap(cause)
}

// Sentinel errors for dispatcher construction.
var (
	ErrNilRegistry = errors.New("registry is required")
	ErrNilSessions = errors.New("session guard is required")
)
