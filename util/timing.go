package util

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Debounce returns a call function that postpones fn until wait has passed
// since the most recent call, and a cancel function that discards a pending
// run.
func Debounce(wait time.Duration, fn func()) (call func(), cancel func()) {
	var mu sync.Mutex
	var timer *time.Timer

	call = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, fn)
	}

	cancel = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return call, cancel
}

// Throttle returns a function that runs fn on the leading edge and drops
// further calls until wait has elapsed.
func Throttle(wait time.Duration, fn func()) func() {
	s := &rate.Sometimes{Interval: wait}
	return func() {
		s.Do(fn)
	}
}
