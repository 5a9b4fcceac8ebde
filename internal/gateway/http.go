// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/dsweb/gamegate/internal/logging"
	"github.com/dsweb/gamegate/internal/observability"
	"github.com/dsweb/gamegate/internal/protocol"
	"github.com/dsweb/gamegate/internal/result"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 64 << 10

// Handler serves POST /api/{operation}.
type Handler struct {
	dispatcher   *Dispatcher
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewHandler creates an HTTP handler for dispatcher. maxBodyBytes <= 0
// selects DefaultMaxBodyBytes.
func NewHandler(dispatcher *Dispatcher, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		dispatcher:   dispatcher,
		logger:       dispatcher.logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes returns a mux with the operation route registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/{operation}", h.serveOperation)
	return mux
}

func (h *Handler) serveOperation(w http.ResponseWriter, r *http.Request) {
	id := ulid.Make().String()
	w.Header().Set(RequestIDHeader, id)
	ctx := logging.WithRequestID(r.Context(), id)
	operation := r.PathValue("operation")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.DebugContext(ctx, "request body unreadable", "operation", operation, "error", err)
		h.write(ctx, w, operation, reject(status, result.Fail))
		return
	}

	h.write(ctx, w, operation, h.dispatcher.Dispatch(ctx, operation, body))
}

func (h *Handler) write(ctx context.Context, w http.ResponseWriter, operation string, out Outcome) {
	data, err := json.Marshal(out.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "response encoding failed", "operation", operation, "error", err)
		out = reject(http.StatusInternalServerError, result.Fail)
		data, _ = json.Marshal(protocol.Failure(result.Fail)) //nolint:errchkjson // fixed shape
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(out.Status)
	if _, err := w.Write(data); err != nil {
		label := operation
		if _, ok := h.dispatcher.registry.Get(operation); !ok {
			label = unknownOperationLabel
		}
		observability.RecordResponseWriteFailure(label)
		h.logger.DebugContext(ctx, "response write failed", "operation", operation, "error", err)
	}
}
