package session

import (
	"context"
	"sync"
)

// Scope is the lifetime of a view. Calls made with its context are
// cancelled, and their late responses dropped, once the view closes.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewScope starts a scope bound to parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the context for calls made on behalf of the view
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Close cancels outstanding calls. Safe to call more than once.
func (s *Scope) Close() {
	s.once.Do(s.cancel)
}

// Closed reports whether Close was called or the parent ended
func (s *Scope) Closed() bool {
	return s.ctx.Err() != nil
}
