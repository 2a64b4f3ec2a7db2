package background

import (
	"context"
	"sync"
)

// Scope - joins goroutines sharing the same lifetime.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScope - concurrency scope builder.
// Returned stop func cancels scope context and waits all members are done.
func NewScope(parent context.Context) (scope *Scope, stop func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancel}
	return s,
		func() {
			s.Cancel()
			s.Wait()
		}
}

// Context - return scope context, it is done after Cancel.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - launches f as a scope member.
func (s *Scope) Go(f func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f(s.ctx)
	}()
}

// Cancel - notifies members to stop, does not wait them.
func (s *Scope) Cancel() {
	s.cancel()
}

// Wait - blocks until every member launched with Go is done.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Expired - reports scope was cancelled.
func (s *Scope) Expired() bool {
	return s.ctx.Err() != nil
}
