// Package anim drives progress-based tick callbacks for many targets from a
// single shared frame loop.
//
// Each Animate call registers one tick for a target. Every frame the driver
// computes progress from the tick's captured start time, eases it and hands
// it to the caller's TickFunc. Ticks that complete, are stopped, or whose
// target is no longer live are pruned, and the loop stops requesting frames
// once nothing is registered.
package anim

import (
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/matt-g-everett/frostcore/util"
	"go.uber.org/zap"
)

// TickFunc receives the eased progress of an animation, in [0, 1].
type TickFunc[T any] func(target T, progress float64)

type loopState int

const (
	idle loopState = iota
	scheduled
)

// Option configures a Driver.
type Option func(*config)

type config struct {
	now    func() time.Time
	logger *zap.Logger
}

// WithClock replaces time.Now as the source of animation start times.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithLogger sets the driver's logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Driver owns the animation registry for targets of type T.
//
// TickFuncs run on the scheduler's goroutine, or on the caller's goroutine
// during Stop. A TickFunc must not call Stop for its own target. A TickFunc
// that panics rejects its own future and leaves the frame loop running.
type Driver[T comparable] struct {
	scheduler Scheduler
	live      func(T) bool
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.Mutex
	state    loopState
	registry map[T][]*tick[T]
}

// NewDriver creates a Driver that requests frames from scheduler. live
// reports whether a target can still be animated; nil treats every target
// as live.
func NewDriver[T comparable](scheduler Scheduler, live func(T) bool, opts ...Option) *Driver[T] {
	c := config{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}

	if live == nil {
		live = func(T) bool { return true }
	}

	d := new(Driver[T])
	d.scheduler = scheduler
	d.live = live
	d.now = c.now
	d.logger = c.logger
	d.registry = make(map[T][]*tick[T])
	return d
}

// Animate registers onTick for target and returns a future that resolves
// with target once the animation finishes, or rejects with an
// *InterruptedError when it is stopped without finishing or the target
// stops being live.
//
// A zero Duration or Easing in opts takes the default. A negative Duration
// completes on the next frame.
func (d *Driver[T]) Animate(target T, onTick TickFunc[T], opts Options) *Future[T] {
	t := &tick[T]{
		target: target,
		onTick: onTick,
		start:  d.now(),
		opts:   opts.withDefaults(),
		future: newFuture[T](),
	}

	d.mu.Lock()
	d.registry[target] = append(d.registry[target], t)
	arm := d.state == idle
	if arm {
		d.state = scheduled
	}
	d.mu.Unlock()

	if arm {
		d.logger.Debug("frame loop started")
		d.scheduler.RequestFrame(d.frame)
	}

	return t.future
}

// Stop settles every tick registered for target. With finish set, each
// tick runs once more at progress 1 and resolves; otherwise each future
// rejects and no further tick runs.
func (d *Driver[T]) Stop(target T, finish bool) {
	d.mu.Lock()
	ticks := d.registry[target]
	delete(d.registry, target)
	d.mu.Unlock()

	for _, t := range ticks {
		t.settle(finish)
	}

	if len(ticks) > 0 {
		d.logger.Debug("animations stopped",
			zap.Int("ticks", len(ticks)),
			zap.Bool("finish", finish))
	}
}

// IsAnimating reports whether target has any registered tick.
func (d *Driver[T]) IsAnimating(target T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.registry[target]
	return ok
}

// Targets returns the number of targets with registered ticks.
func (d *Driver[T]) Targets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.registry)
}

// Running reports whether a frame is currently requested.
func (d *Driver[T]) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == scheduled
}

type pass[T any] struct {
	target T
	ticks  []*tick[T]
}

func (d *Driver[T]) frame(now time.Time) {
	d.mu.Lock()
	batch := make([]pass[T], 0, len(d.registry))
	for target, ticks := range d.registry {
		batch = append(batch, pass[T]{target, append([]*tick[T](nil), ticks...)})
	}
	d.mu.Unlock()

	for _, p := range batch {
		live := d.live(p.target)
		for _, t := range p.ticks {
			t.step(now, live)
		}
	}

	d.mu.Lock()
	for target, ticks := range d.registry {
		active := make([]*tick[T], 0, len(ticks))
		for _, t := range ticks {
			if !t.isSettled() {
				active = append(active, t)
			}
		}

		if len(active) == 0 {
			delete(d.registry, target)
		} else {
			d.registry[target] = active
		}
	}

	if len(d.registry) == 0 {
		d.state = idle
		d.mu.Unlock()
		d.logger.Debug("frame loop idle")
		return
	}
	d.mu.Unlock()

	d.scheduler.RequestFrame(d.frame)
}

type tick[T any] struct {
	target T
	onTick TickFunc[T]
	start  time.Time
	opts   Options
	future *Future[T]

	mu      sync.Mutex
	settled bool
}

// progress returns raw progress at now and whether the tick is complete.
func (t *tick[T]) progress(now time.Time) (float64, bool) {
	if t.opts.Duration < 0 {
		return 1, true
	}

	p := float64(now.Sub(t.start)) / float64(t.opts.Duration)
	if t.opts.Infinite {
		return util.Clamp(math.Mod(p, 1), 0, 1), false
	}

	p = util.Clamp(p, 0, 1)
	return p, p >= 1
}

// call runs onTick, turning a panic into an error.
func (t *tick[T]) call(p float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrTickPanicked, "%v", r)
		}
	}()

	t.onTick(t.target, p)
	return nil
}

// finish runs the final tick at progress 1 and settles the future.
func (t *tick[T]) finish() {
	if err := t.call(1); err != nil {
		t.future.reject(&InterruptedError[T]{Target: t.target, Cause: err})
		return
	}
	t.future.resolve(t.target)
}

func (t *tick[T]) step(now time.Time, live bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settled {
		return
	}

	if !live {
		t.settled = true
		t.future.reject(&InterruptedError[T]{Target: t.target})
		return
	}

	p, complete := t.progress(now)
	if complete {
		t.settled = true
		t.finish()
		return
	}

	if err := t.call(t.opts.Easing.Apply(p)); err != nil {
		t.settled = true
		t.future.reject(&InterruptedError[T]{Target: t.target, Cause: err})
	}
}

func (t *tick[T]) settle(finish bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settled {
		return
	}
	t.settled = true

	if finish {
		t.finish()
	} else {
		t.future.reject(&InterruptedError[T]{Target: t.target})
	}
}

func (t *tick[T]) isSettled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settled
}
