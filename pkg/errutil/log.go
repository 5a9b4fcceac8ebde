// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package errutil logs and asserts on oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/dsweb/gamegate/internal/logging"
)

// LogError logs err at error level after attrs. Oops errors contribute
// their code and context; other errors only their text.
func LogError(logger *slog.Logger, msg string, err error, attrs ...any) {
	logger.Error(msg, append(attrs, errorAttrs(err)...)...)
}

// LogFatal logs err at logging.LevelFatal with the same structure as
// LogError plus any extra attrs. It does not exit.
func LogFatal(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	logger.Log(ctx, logging.LevelFatal, msg, append(attrs, errorAttrs(err)...)...)
}

func errorAttrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{
		"error", oopsErr.Error(),
	}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}
