// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dsweb/gamegate/internal/protocol"
	"github.com/dsweb/gamegate/internal/result"
	"github.com/dsweb/gamegate/pkg/errutil"
)

var tracer = otel.Tracer("gamegate/gateway")

// Default timings for session-scoped operations.
const (
	DefaultHandlerDeadline = 30 * time.Second // matches the session lock TTL
	DefaultReleaseTimeout  = 2 * time.Second
)

// SessionGuard is the part of the session store the dispatcher needs.
type SessionGuard interface {
	Lookup(ctx context.Context, token string) (owner string, found bool, err error)
	LockAcquire(ctx context.Context, token string) (bool, error)
	LockRelease(ctx context.Context, token string) (bool, error)
}

// Outcome is the HTTP status and JSON body produced for one request.
type Outcome struct {
	Status int
	Body   any
	Code   result.Code
}

func reject(status int, code result.Code) Outcome {
	return Outcome{Status: status, Body: protocol.Failure(code), Code: code}
}

// resultCarrier is implemented by response types that embed protocol.Base.
type resultCarrier interface {
	Result() result.Code
}

// Dispatcher resolves operations, validates requests and runs handlers.
type Dispatcher struct {
	registry        *Registry
	schemas         *Schemas
	sessions        SessionGuard
	logger          *slog.Logger
	handlerDeadline time.Duration
	releaseTimeout  time.Duration
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithHandlerDeadline bounds how long a session-scoped handler may run.
// It should not exceed the session lock TTL.
func WithHandlerDeadline(deadline time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if deadline > 0 {
			d.handlerDeadline = deadline
		}
	}
}

// NewDispatcher seals registry, compiles its request schemas and returns a
// dispatcher. Returns an error if registry or sessions is nil.
func NewDispatcher(registry *Registry, sessions SessionGuard, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if sessions == nil {
		return nil, ErrNilSessions
	}
	registry.Seal()

	schemas, err := BuildSchemas(registry.All())
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		registry:        registry,
		schemas:         schemas,
		sessions:        sessions,
		logger:          slog.Default(),
		handlerDeadline: DefaultHandlerDeadline,
		releaseTimeout:  DefaultReleaseTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Schemas returns the compiled request schemas.
func (d *Dispatcher) Schemas() *Schemas {
	return d.schemas
}

// Dispatch runs operation with the raw JSON body.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, body []byte) (out Outcome) {
	rec := newMetricsRecorder(operation)

	ctx, span := tracer.Start(ctx, "gateway.dispatch",
		trace.WithAttributes(attribute.String("gateway.operation", operation)),
	)
	defer func() {
		span.SetAttributes(
			attribute.Int("http.status_code", out.Status),
			attribute.Int("gateway.result_code", out.Code.Int()),
		)
		if out.Status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, out.Code.String())
		}
		span.End()
		rec.record(out)
	}()

	entry, ok := d.registry.Get(operation)
	if !ok {
		rec.setStatus(StatusUnknown)
		d.logger.DebugContext(ctx, "unknown operation", "operation", operation)
		return reject(http.StatusNotFound, result.Fail)
	}
	span.SetAttributes(attribute.String("gateway.scope", entry.Scope.String()))

	if err := d.schemas.Validate(operation, body); err != nil {
		rec.setStatus(StatusMalformed)
		d.logger.DebugContext(ctx, "malformed request", "operation", operation, "error", err)
		return reject(http.StatusBadRequest, result.Fail)
	}
	req, err := entry.decode(body)
	if err != nil {
		rec.setStatus(StatusMalformed)
		d.logger.DebugContext(ctx, "malformed request",
			"operation", operation,
			"error", ErrMalformedRequest(operation, err))
		return reject(http.StatusBadRequest, result.Fail)
	}

	if entry.Scope == ScopeSession {
		return d.dispatchScoped(ctx, rec, entry, req)
	}
	return d.invoke(ctx, rec, entry, req)
}

func (d *Dispatcher) dispatchScoped(ctx context.Context, rec *metricsRecorder, entry Entry, req any) Outcome {
	token := req.(tokenCarrier).SessionToken()
	if token == "" {
		rec.setStatus(StatusNoSession)
		return reject(http.StatusBadRequest, result.Fail)
	}

	owner, found, err := d.sessions.Lookup(ctx, token)
	if err != nil {
		return d.backendFailure(ctx, rec, entry, "session lookup failed", err)
	}
	if !found {
		rec.setStatus(StatusNoSession)
		return reject(http.StatusBadRequest, result.Fail)
	}

	// The lease starts on the backend during acquire.
	deadline := time.Now().Add(d.handlerDeadline)
	acquired, err := d.sessions.LockAcquire(ctx, token)
	if err != nil {
		return d.backendFailure(ctx, rec, entry, "session lock failed", err)
	}
	if !acquired {
		rec.setStatus(StatusLockContended)
		LockContentions.WithLabelValues(entry.Name).Inc()
		d.logger.InfoContext(ctx, "session lock held; request rejected", "operation", entry.Name)
		return reject(http.StatusBadRequest, result.Fail)
	}
	defer d.release(ctx, entry.Name, token)

	ctx = WithOwner(ctx, owner)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	return d.invoke(ctx, rec, entry, req)
}

// release runs on a context detached from the request so a cancelled
// request still frees its lock.
func (d *Dispatcher) release(ctx context.Context, operation, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.releaseTimeout)
	defer cancel()

	released, err := d.sessions.LockRelease(ctx, token)
	switch {
	case err != nil:
		d.logger.WarnContext(ctx, "session lock release failed",
			"operation", operation,
			"error", err)
	case !released:
		d.logger.WarnContext(ctx, "session lock expired before release",
			"operation", operation)
	}
}

func (d *Dispatcher) invoke(ctx context.Context, rec *metricsRecorder, entry Entry, req any) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			rec.setStatus(StatusPanic)
			err := result.Failure(result.Fail, entry.Name).
				With("panic", fmt.Sprint(r)).
				Errorf("operation handler panicked")
			errutil.LogFatal(ctx, d.logger, "operation failed", err, "gateway_operation", entry.Name)
			out = reject(http.StatusInternalServerError, result.Fail)
		}
	}()

	res, err := entry.invoke(ctx, req)
	if err != nil {
		return d.backendFailure(ctx, rec, entry, "operation failed", err)
	}

	rec.setStatus(StatusOK)
	out = Outcome{Status: http.StatusOK, Body: res, Code: result.Success}
	if rc, ok := res.(resultCarrier); ok {
		out.Code = rc.Result()
	}
	return out
}

// backendFailure maps an infrastructure error to a 500 with a generic Fail.
// The error text and its own result code stay in the log.
func (d *Dispatcher) backendFailure(ctx context.Context, rec *metricsRecorder, entry Entry, msg string, err error) Outcome {
	rec.setStatus(StatusError)
	errutil.LogFatal(ctx, d.logger, msg, err, "gateway_operation", entry.Name)
	return reject(http.StatusInternalServerError, result.Fail)
}
