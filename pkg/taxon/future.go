// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: Single-assignment result of an asynchronous accessor
// Created:     2025-12-15
// License:     MIT
// ============================================================================

package taxon

import "context"

// Future holds the eventual result of one accessor call. It settles
// exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the result or for ctx to end. Giving up on ctx does not
// cancel the underlying call.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the result is available
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}
