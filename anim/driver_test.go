package anim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	name     string
	attached bool
}

type recorder struct {
	calls []float64
}

func (r *recorder) tick(_ *node, p float64) {
	r.calls = append(r.calls, p)
}

func (r *recorder) last() float64 {
	return r.calls[len(r.calls)-1]
}

func newTestDriver(t0 time.Time) (*Driver[*node], *ManualScheduler) {
	s := NewManualScheduler()
	d := NewDriver(s, func(n *node) bool { return n.attached }, WithClock(func() time.Time { return t0 }))
	return d, s
}

func at(t0 time.Time, ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestAnimateLinearScenario(t *testing.T) {
	t0 := time.Unix(1000, 0)
	d, s := newTestDriver(t0)
	n := &node{name: "a", attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: 100 * time.Millisecond, Easing: Linear})
	assert.True(t, d.Running())
	assert.Equal(t, 1, s.Pending())

	s.Pump(at(t0, 50))
	require.Len(t, r.calls, 1)
	assert.Equal(t, 0.5, r.calls[0])
	_, ok, _ := f.Result()
	assert.False(t, ok)

	s.Pump(at(t0, 100))
	require.Len(t, r.calls, 2)
	assert.Equal(t, 1.0, r.calls[1])

	v, ok, err := f.Result()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Same(t, n, v)

	assert.False(t, d.Running())
	assert.False(t, d.IsAnimating(n))
	assert.Equal(t, 0, s.Pending())
}

func TestAnimateFinalTickIsOneForEveryEasing(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut} {
		t.Run(string(e), func(t *testing.T) {
			t0 := time.Unix(0, 0)
			d, s := newTestDriver(t0)
			n := &node{attached: true}
			r := &recorder{}

			f := d.Animate(n, r.tick, Options{Duration: 300 * time.Millisecond, Easing: e})
			for ms := 16; ms < 400; ms += 16 {
				s.Pump(at(t0, ms))
			}

			assert.Equal(t, 1.0, r.last())
			_, err := f.Wait(context.Background())
			assert.NoError(t, err)
			for _, p := range r.calls[:len(r.calls)-1] {
				assert.GreaterOrEqual(t, p, 0.0)
				assert.Less(t, p, 1.0)
			}
		})
	}
}

func TestAnimateDefaults(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{})

	s.Pump(at(t0, 250))
	assert.InDelta(t, EaseInOut.Apply(0.25), r.last(), 1e-9)

	s.Pump(at(t0, 1000))
	assert.Equal(t, 1.0, r.last())
	_, ok, err := f.Result()
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestStopWithoutFinishRejects(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: time.Second, Easing: Linear})
	s.Pump(at(t0, 100))
	require.Len(t, r.calls, 1)

	d.Stop(n, false)
	assert.False(t, d.IsAnimating(n))

	v, ok, err := f.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Nil(t, v)

	var interrupted *InterruptedError[*node]
	require.ErrorAs(t, err, &interrupted)
	assert.Same(t, n, interrupted.Target)

	s.Pump(at(t0, 200))
	s.Pump(at(t0, 2000))
	assert.Len(t, r.calls, 1)
	assert.False(t, d.Running())
}

func TestStopWithFinishTicksOnceAtOne(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: time.Second, Easing: Linear})
	s.Pump(at(t0, 100))

	d.Stop(n, true)
	require.Len(t, r.calls, 2)
	assert.Equal(t, 1.0, r.calls[1])

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, n, v)

	s.Pump(at(t0, 200))
	assert.Len(t, r.calls, 2)
}

func TestStopUnknownTargetIsNoop(t *testing.T) {
	d, _ := newTestDriver(time.Unix(0, 0))
	d.Stop(&node{}, true)
	assert.Equal(t, 0, d.Targets())
}

func TestConcurrentAnimationsAreIndependent(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	short, long := &recorder{}, &recorder{}

	f1 := d.Animate(n, short.tick, Options{Duration: 100 * time.Millisecond, Easing: Linear})
	f2 := d.Animate(n, long.tick, Options{Duration: 400 * time.Millisecond, Easing: Linear})
	assert.Equal(t, 1, s.Pending(), "one shared frame loop")

	s.Pump(at(t0, 100))
	_, ok, err := f1.Result()
	require.True(t, ok)
	assert.NoError(t, err)
	_, ok, _ = f2.Result()
	assert.False(t, ok)
	assert.True(t, d.IsAnimating(n))
	assert.Equal(t, 0.25, long.last())

	d.Stop(n, false)
	_, ok, err = f2.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrInterrupted)

	_, _, err = f1.Result()
	assert.NoError(t, err)
}

func TestDetachedTargetRejects(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: time.Second})
	s.Pump(at(t0, 100))
	n.attached = false
	s.Pump(at(t0, 200))

	_, ok, err := f.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Len(t, r.calls, 1)
	assert.False(t, d.IsAnimating(n))
	assert.False(t, d.Running())
}

func TestInfiniteWrapsProgress(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: 100 * time.Millisecond, Easing: Linear, Infinite: true})
	s.Pump(at(t0, 250))
	assert.InDelta(t, 0.5, r.last(), 1e-9)
	s.Pump(at(t0, 1025))
	assert.InDelta(t, 0.25, r.last(), 1e-9)

	_, ok, _ := f.Result()
	assert.False(t, ok)
	assert.True(t, d.Running())

	d.Stop(n, true)
	assert.Equal(t, 1.0, r.last())
	_, ok, err := f.Result()
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestNegativeDurationCompletesOnFirstFrame(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	r := &recorder{}

	f := d.Animate(n, r.tick, Options{Duration: -1, Infinite: true})
	s.Pump(t0)

	assert.Equal(t, []float64{1}, r.calls)
	_, ok, err := f.Result()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.False(t, d.Running())
}

func TestLoopRearmsAfterIdle(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	a, b := &node{attached: true}, &node{attached: true}

	d.Animate(a, func(*node, float64) {}, Options{Duration: 10 * time.Millisecond})
	s.Pump(at(t0, 10))
	assert.False(t, d.Running())
	assert.Equal(t, 0, s.Pending())

	d.Animate(b, func(*node, float64) {}, Options{Duration: 10 * time.Millisecond})
	assert.True(t, d.Running())
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, d.Targets())
}

func TestFutureWaitHonoursContext(t *testing.T) {
	d, _ := newTestDriver(time.Unix(0, 0))
	f := d.Animate(&node{attached: true}, func(*node, float64) {}, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTickerSchedulerDrivesFrames(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond)
	d := NewDriver[*node](s, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	f := d.Animate(&node{}, func(*node, float64) {}, Options{Duration: 20 * time.Millisecond})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	_, err := f.Wait(waitCtx)
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return !d.Running() }, time.Second, time.Millisecond)
}

func TestPanickingTickRejectsAndLoopKeepsRunning(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	bad, good := &node{attached: true}, &node{attached: true}

	f := d.Animate(bad, func(*node, float64) { panic("bad tick") }, Options{Duration: time.Second})
	require.NotPanics(t, func() { s.Pump(at(t0, 100)) })

	_, ok, err := f.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, ErrTickPanicked)
	assert.Contains(t, err.Error(), "bad tick")
	assert.False(t, d.IsAnimating(bad))
	assert.False(t, d.Running())

	r := &recorder{}
	f2 := d.Animate(good, r.tick, Options{Duration: 100 * time.Millisecond, Easing: Linear})
	assert.Equal(t, 1, s.Pending())
	s.Pump(at(t0, 200))

	assert.Equal(t, []float64{1}, r.calls)
	_, ok, err = f2.Result()
	require.True(t, ok)
	assert.NoError(t, err)
}

func TestPanickingFinalTickRejects(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}
	boom := func(_ *node, p float64) {
		if p == 1 {
			panic("final")
		}
	}

	f1 := d.Animate(n, boom, Options{Duration: 100 * time.Millisecond})
	s.Pump(at(t0, 100))
	_, ok, err := f1.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrTickPanicked)

	f2 := d.Animate(n, boom, Options{Duration: time.Second})
	require.NotPanics(t, func() { d.Stop(n, true) })
	_, ok, err = f2.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrTickPanicked)
}

func TestTicksRunInRegistrationOrder(t *testing.T) {
	t0 := time.Unix(0, 0)
	d, s := newTestDriver(t0)
	n := &node{attached: true}

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		d.Animate(n, func(*node, float64) { order = append(order, i) }, Options{Duration: time.Second})
	}

	s.Pump(at(t0, 100))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)

	s.Pump(at(t0, 200))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4}, order)

	d.Stop(n, true)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4, 0, 1, 2, 3, 4}, order)
}
