// Package requestctx carries the authenticated tenant and user identity
// of one in-flight request through its whole call chain, including any
// goroutines it spawns, without threading the pair through every
// function signature.
//
// Each request gets its own scope cell installed into its
// context.Context; the tenant resolver and authentication middleware
// fill it in, and the tenancy guard reads it back when rewriting store
// filters. Two concurrent requests hold two independent cells, so
// context written while handling one request can never be observed by
// another. Code running outside any scope (startup, background
// consumers) reads an empty context and must arrange its own tenant
// filtering explicitly.
package requestctx

import (
	"context"
	"sync"
)

// Context is the per-request identity snapshot. Zero values mean "not
// authenticated yet" (or "no scope at all").
type Context struct {
	TenantID string
	UserID   string
}

type scope struct {
	mu  sync.RWMutex
	ctx Context
}

type scopeKey struct{}

// Scope derives a context carrying a fresh, empty scope cell. Installed
// once per inbound request, before anything else runs.
func Scope(parent context.Context) context.Context {
	return context.WithValue(parent, scopeKey{}, &scope{})
}

// RunScoped runs fn inside a new scope seeded with initial. Used by
// jobs that need a tenant context outside of request handling.
func RunScoped(parent context.Context, initial Context, fn func(ctx context.Context)) {
	ctx := Scope(parent)
	Update(ctx, initial)
	fn(ctx)
}

// Update merges the non-empty fields of partial into the current scope.
// A no-op when no scope is installed; scope-free code must stay
// tenant-less rather than fail.
func Update(ctx context.Context, partial Context) {
	s, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if partial.TenantID != "" {
		s.ctx.TenantID = partial.TenantID
	}
	if partial.UserID != "" {
		s.ctx.UserID = partial.UserID
	}
}

// Current returns a copy of the active scope's context, or a zero
// Context when called outside any scope. Never panics.
func Current(ctx context.Context) Context {
	s, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok {
		return Context{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}
