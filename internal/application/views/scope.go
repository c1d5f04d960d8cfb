package views

import (
	"context"
	"sync/atomic"
)

// Scope is the lifetime of one view. Closing it cancels every request started
// through it and turns late completions into no-ops.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// NewScope creates a scope tied to parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope's context
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Alive reports whether the scope is still open
func (s *Scope) Alive() bool {
	return !s.closed.Load() && s.ctx.Err() == nil
}

// Bind derives a context that is cancelled when either ctx or the scope ends
func (s *Scope) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Close ends the scope. It is safe to call more than once.
func (s *Scope) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cancel()
	}
}
