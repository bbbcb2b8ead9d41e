package queue

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrPanicked wraps a panic recovered from a callback.
var ErrPanicked = errors.New("queued callback panicked")

// Result is the settlement of one callback.
type Result struct {
	Err error
}

// OK reports whether the callback returned without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// settle runs cb and captures its outcome, including panics, as a Result.
func settle[T any](ctx context.Context, cb Callback[T], target T) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: errors.Wrap(ErrPanicked, fmt.Sprint(p))}
		}
	}()

	return Result{Err: cb(ctx, target)}
}
