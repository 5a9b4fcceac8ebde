// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package result

import (
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/samber/oops"
)

// Context keys attached to every failure.
const (
	KeyOperation = "operation"
	KeySource    = "source"
)

// Failure starts an oops error carrying code as its oops code, the name of
// the operation that failed, and the file:line of the caller.
//
//	return result.Failure(result.DBError, "SELECT_USER_INFO").Wrap(err)
func Failure(code Code, operation string) oops.OopsErrorBuilder {
	return oops.Code(code).
		With(KeyOperation, operation).
		With(KeySource, callerLocation(2))
}

// CodeOf returns the Code carried by err. Errors that carry no Code map to
// Fail; a nil error maps to Success.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return Fail
	}
	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}
	return Fail
}

// OperationOf returns the operation name recorded by Failure, or "" if err
// was not raised through Failure.
func OperationOf(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	op, _ := oopsErr.Context()[KeyOperation].(string)
	return op
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
