// Package effects provides segment animations built on the frame driver,
// and sequences them per segment through a callback queue.
package effects

import (
	"context"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/frostcore/anim"
	"github.com/matt-g-everett/frostcore/queue"
	"github.com/matt-g-everett/frostcore/strip"
	"github.com/matt-g-everett/frostcore/util"
)

// Future settles when a segment animation finishes or is interrupted.
type Future = *anim.Future[*strip.Segment]

// A Step starts one animation on seg.
type Step func(seg *strip.Segment) Future

// Animator pairs a driver with a per-segment queue.
type Animator struct {
	Driver *anim.Driver[*strip.Segment]
	Queue  *queue.Queue[*strip.Segment]
}

// NewAnimator creates an Animator over an existing driver and queue.
func NewAnimator(d *anim.Driver[*strip.Segment], q *queue.Queue[*strip.Segment]) *Animator {
	a := new(Animator)
	a.Driver = d
	a.Queue = q
	return a
}

// FadeIn raises opacity from 0 to 1.
func (a *Animator) FadeIn(seg *strip.Segment, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetOpacity(p)
	}, opts)
}

// FadeOut lowers opacity from 1 to 0.
func (a *Animator) FadeOut(seg *strip.Segment, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetOpacity(1 - p)
	}, opts)
}

// SlideIn reveals the segment from origin.
func (a *Animator) SlideIn(seg *strip.Segment, origin strip.Origin, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.Reveal(p, origin)
	}, opts)
}

// SlideOut hides the segment back towards origin.
func (a *Animator) SlideOut(seg *strip.Segment, origin strip.Origin, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.Reveal(1-p, origin)
	}, opts)
}

// SqueezeIn reveals the segment outwards from its centre.
func (a *Animator) SqueezeIn(seg *strip.Segment, opts anim.Options) Future {
	return a.SlideIn(seg, strip.FromCentre, opts)
}

// SqueezeOut hides the segment inwards to its centre.
func (a *Animator) SqueezeOut(seg *strip.Segment, opts anim.Options) Future {
	return a.SlideOut(seg, strip.FromCentre, opts)
}

// DropIn moves the segment from distance pixels away to its place.
func (a *Animator) DropIn(seg *strip.Segment, distance float64, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetOffset(util.Lerp(distance, 0, p))
	}, opts)
}

// DropOut moves the segment distance pixels away from its place.
func (a *Animator) DropOut(seg *strip.Segment, distance float64, opts anim.Options) Future {
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetOffset(util.Lerp(0, distance, p))
	}, opts)
}

// Pulse breathes opacity between 0 and 1 once per Duration until stopped.
func (a *Animator) Pulse(seg *strip.Segment, opts anim.Options) Future {
	opts.Infinite = true
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetOpacity(0.5 - 0.5*math.Cos(2*math.Pi*p))
	}, opts)
}

// ColourTo blends the segment colour towards to.
func (a *Animator) ColourTo(seg *strip.Segment, to colorful.Color, opts anim.Options) Future {
	from := seg.Colour()
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetColour(from.BlendHcl(to, p))
	}, opts)
}

// Cycle walks the segment colour around a gradient once per Duration until
// stopped.
func (a *Animator) Cycle(seg *strip.Segment, gradient strip.GradientTable, opts anim.Options) Future {
	opts.Infinite = true
	_, chroma, luminance := seg.Colour().Hcl()
	return a.Driver.Animate(seg, func(s *strip.Segment, p float64) {
		s.SetColour(gradient.GetColor(p, chroma, luminance))
	}, opts)
}

// Then queues step to start once every earlier queued step for seg has
// settled. An interrupted step does not hold up the ones after it.
func (a *Animator) Then(seg *strip.Segment, step Step) {
	a.Queue.Enqueue(seg, func(ctx context.Context, s *strip.Segment) error {
		_, err := step(s).Wait(ctx)
		return err
	})
}

// Sequence queues steps for seg in order.
func (a *Animator) Sequence(seg *strip.Segment, steps ...Step) {
	for _, step := range steps {
		a.Then(seg, step)
	}
}

// Delay queues a pause for seg.
func (a *Animator) Delay(seg *strip.Segment, d time.Duration) {
	a.Queue.Enqueue(seg, queue.Delay[*strip.Segment](d))
}

// Stop discards queued steps for seg and stops its running animations.
func (a *Animator) Stop(seg *strip.Segment, finish bool) {
	a.Queue.Clear(seg)
	a.Driver.Stop(seg, finish)
}
