// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
