// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/dsweb/gamegate/internal/result"
)

// Scope says whether an operation needs a session.
type Scope int

// Operation scopes.
const (
	ScopePublic Scope = iota
	ScopeSession
)

// String returns the scope name used in logs and metrics.
func (s Scope) String() string {
	if s == ScopeSession {
		return "session"
	}
	return "public"
}

// HandlerFunc handles one decoded request.
type HandlerFunc[Req, Res any] func(ctx context.Context, req *Req) (*Res, error)

// tokenCarrier is implemented by request types that embed protocol.Envelope.
type tokenCarrier interface {
	SessionToken() string
}

// Entry is a registered operation.
type Entry struct {
	Name  string
	Scope Scope

	// sample is a zero request used to build the request schema.
	sample any
	decode func(body []byte) (any, error)
	invoke func(ctx context.Context, req any) (any, error)
}

// Public builds an entry that runs without a session.
func Public[Req, Res any](name string, fn HandlerFunc[Req, Res]) Entry {
	return newEntry(name, ScopePublic, fn)
}

// SessionScoped builds an entry that runs only with a live session and
// while holding that session's lock. Req must carry a session token.
func SessionScoped[Req, Res any](name string, fn HandlerFunc[Req, Res]) Entry {
	return newEntry(name, ScopeSession, fn)
}

func newEntry[Req, Res any](name string, scope Scope, fn HandlerFunc[Req, Res]) Entry {
	e := Entry{
		Name:   name,
		Scope:  scope,
		sample: new(Req),
		decode: func(body []byte) (any, error) {
			req := new(Req)
			if err := json.Unmarshal(body, req); err != nil {
				return nil, err //nolint:wrapcheck // wrapped by the dispatcher
			}
			return req, nil
		},
	}
	if fn != nil {
		e.invoke = func(ctx context.Context, req any) (any, error) {
			res, err := fn(ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			if res == nil {
				return nil, result.Failure(result.Fail, name).Errorf("handler returned no response")
			}
			return res, nil
		}
	}
	return e
}

func (e Entry) validate() error {
	if e.Name == "" {
		return oops.Code(CodeInvalidEntry).Errorf("operation name cannot be empty")
	}
	if e.invoke == nil || e.decode == nil {
		return oops.Code(CodeInvalidEntry).
			With("operation", e.Name).
			Errorf("operation %s has no handler", e.Name)
	}
	if e.Scope == ScopeSession {
		if _, ok := e.sample.(tokenCarrier); !ok {
			return oops.Code(CodeInvalidEntry).
				With("operation", e.Name).
				Errorf("session-scoped operation %s has no session token in its request", e.Name)
		}
	}
	return nil
}

// Registry is the static table of operations. Registration is only allowed
// until Seal; lookups are safe for concurrent use at any time.
type Registry struct {
	entries map[string]Entry
	sealed  bool
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds an operation. Names are case-sensitive and unique.
func (r *Registry) Register(entry Entry) error {
	if err := entry.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed(entry.Name)
	}
	if _, ok := r.entries[entry.Name]; ok {
		return ErrDuplicateOperation(entry.Name)
	}
	r.entries[entry.Name] = entry
	return nil
}

// MustRegister registers every entry and panics on the first failure.
func (r *Registry) MustRegister(entries ...Entry) {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

// Seal stops further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Get retrieves an operation by name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// All returns all registered operations sorted by name.
// The returned slice is a copy and safe to modify.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
