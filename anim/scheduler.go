package anim

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// FrameFunc is invoked once per requested frame with the frame timestamp.
type FrameFunc func(now time.Time)

// A Scheduler runs one-shot frame callbacks, in request order.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// TickerScheduler runs pending frame callbacks on every tick of a
// time.Ticker.
type TickerScheduler struct {
	interval time.Duration
	mu       sync.Mutex
	pending  []FrameFunc
}

// NewTickerScheduler creates a TickerScheduler. A non-positive interval
// uses DefaultFrameInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	s := new(TickerScheduler)
	s.interval = interval
	return s
}

// Interval returns the frame period.
func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// RequestFrame queues fn for the next tick.
func (s *TickerScheduler) RequestFrame(fn FrameFunc) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Run drives frames until ctx is done.
func (s *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.flush(now)
		}
	}
}

func (s *TickerScheduler) flush(now time.Time) {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
}

// ManualScheduler only runs frames when Pump is called.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []FrameFunc
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return new(ManualScheduler)
}

// RequestFrame queues fn until the next Pump.
func (s *ManualScheduler) RequestFrame(fn FrameFunc) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Pump runs the callbacks pending at call time. Callbacks requested while
// pumping wait for the next Pump.
func (s *ManualScheduler) Pump(now time.Time) {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
}

// Pending returns the number of callbacks waiting for a Pump.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
