// Package queue serialises callbacks per target: for any target at most one
// callback runs at a time, in enqueue order.
package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Callback is a unit of queued work. Its return, or panic, settles it;
// either way the next callback for the target runs.
type Callback[T any] func(ctx context.Context, target T) error

// Option configures a Queue.
type Option func(*config)

type config struct {
	ctx      context.Context
	logger   *zap.Logger
	observer func(target any, res Result)
}

// WithContext sets the context passed to every callback.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithLogger sets the queue's logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithObserver registers fn to receive every callback's Result.
func WithObserver(fn func(target any, res Result)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// Queue holds a FIFO of pending callbacks for each target.
type Queue[T comparable] struct {
	ctx      context.Context
	logger   *zap.Logger
	observer func(target any, res Result)

	mu      sync.Mutex
	entries map[T][]Callback[T]
}

// New creates an empty Queue.
func New[T comparable](opts ...Option) *Queue[T] {
	c := config{ctx: context.Background(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}

	q := new(Queue[T])
	q.ctx = c.ctx
	q.logger = c.logger
	q.observer = c.observer
	q.entries = make(map[T][]Callback[T])
	return q
}

// Enqueue appends cb to target's queue, starting a drain if the target had
// nothing pending or running.
func (q *Queue[T]) Enqueue(target T, cb Callback[T]) {
	q.mu.Lock()
	pending, active := q.entries[target]
	q.entries[target] = append(pending, cb)
	q.mu.Unlock()

	if !active {
		go q.drain(target)
	}
}

// Clear discards every callback for target that has not started. A running
// callback is left to finish.
func (q *Queue[T]) Clear(target T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.entries[target]; ok {
		q.entries[target] = nil
	}
}

// Pending returns the number of callbacks waiting to start for target.
func (q *Queue[T]) Pending(target T) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries[target])
}

// Active reports whether target has a pending or running callback.
func (q *Queue[T]) Active(target T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.entries[target]
	return ok
}

// Len returns the number of active targets.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue[T]) next(target T) (Callback[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.entries[target]
	if len(pending) == 0 {
		delete(q.entries, target)
		return nil, false
	}

	q.entries[target] = pending[1:]
	return pending[0], true
}

func (q *Queue[T]) drain(target T) {
	for {
		cb, ok := q.next(target)
		if !ok {
			return
		}

		res := settle(q.ctx, cb, target)
		if !res.OK() {
			q.logger.Debug("queued callback failed", zap.Error(res.Err))
		}
		if q.observer != nil {
			q.observer(target, res)
		}
	}
}

// Delay returns a callback that holds the queue for d, or until the
// context is done.
func Delay[T any](d time.Duration) Callback[T] {
	return func(ctx context.Context, _ T) error {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
