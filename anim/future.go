package anim

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrInterrupted marks an animation that was stopped without finishing or
// whose target stopped being live.
var ErrInterrupted = errors.New("animation interrupted")

// ErrTickPanicked is the Cause of an interruption raised by a panicking
// TickFunc.
var ErrTickPanicked = errors.New("tick panicked")

// InterruptedError carries the target of a rejected animation. Cause is
// set when the animation failed rather than being stopped.
type InterruptedError[T any] struct {
	Target T
	Cause  error
}

func (e *InterruptedError[T]) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v: %v", ErrInterrupted, e.Target, e.Cause)
	}
	return fmt.Sprintf("%v: %v", ErrInterrupted, e.Target)
}

// Unwrap returns Cause.
func (e *InterruptedError[T]) Unwrap() error {
	return e.Cause
}

// Is reports ErrInterrupted so callers can use errors.Is.
func (e *InterruptedError[T]) Is(target error) bool {
	return target == ErrInterrupted
}

// A Future settles once with either a value or an error.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

func (f *Future[T]) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled value and error. ok is false while pending.
func (f *Future[T]) Result() (v T, ok bool, err error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		return v, false, nil
	}
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
