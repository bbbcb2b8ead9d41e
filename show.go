package main

import (
	"context"
	"time"

	"github.com/matt-g-everett/frostcore/anim"
	"github.com/matt-g-everett/frostcore/effects"
	"github.com/matt-g-everett/frostcore/strip"
	"github.com/matt-g-everett/frostcore/util"
	"go.uber.org/zap"
)

// program queues one round of effects on a segment.
type program func(a *effects.Animator, seg *strip.Segment, opts anim.Options)

var programs = []program{
	func(a *effects.Animator, seg *strip.Segment, opts anim.Options) {
		a.Sequence(seg,
			func(s *strip.Segment) effects.Future { return a.FadeOut(s, opts) },
			func(s *strip.Segment) effects.Future { return a.FadeIn(s, opts) })
	},
	func(a *effects.Animator, seg *strip.Segment, opts anim.Options) {
		a.Sequence(seg,
			func(s *strip.Segment) effects.Future { return a.SlideOut(s, strip.FromEnd, opts) },
			func(s *strip.Segment) effects.Future { return a.SlideIn(s, strip.FromStart, opts) })
	},
	func(a *effects.Animator, seg *strip.Segment, opts anim.Options) {
		a.Sequence(seg,
			func(s *strip.Segment) effects.Future { return a.SqueezeOut(s, opts) },
			func(s *strip.Segment) effects.Future { return a.SqueezeIn(s, opts) })
	},
	func(a *effects.Animator, seg *strip.Segment, opts anim.Options) {
		distance := float64(seg.Length)
		a.Sequence(seg,
			func(s *strip.Segment) effects.Future { return a.DropOut(s, distance, opts) })
		a.Delay(seg, opts.Duration)
		a.Then(seg, func(s *strip.Segment) effects.Future { return a.DropIn(s, -distance, opts) })
	},
	func(a *effects.Animator, seg *strip.Segment, opts anim.Options) {
		h, c, l := seg.Colour().Hcl()
		next := strip.GradientTable{{h, 0}, {h + 120, 1}}.GetColor(1, c, l)
		a.Then(seg, func(s *strip.Segment) effects.Future { return a.ColourTo(s, next, opts) })
	},
}

// show cycles every segment through the programs, like a tree controller
// cycling animations.
type show struct {
	animator *effects.Animator
	strip    *strip.Strip
	opts     anim.Options
	interval time.Duration
	logger   *zap.Logger
	round    int
	report   func()
}

func newShow(a *effects.Animator, s *strip.Strip, opts anim.Options, interval time.Duration, logger *zap.Logger) *show {
	sh := new(show)
	sh.animator = a
	sh.strip = s
	sh.opts = opts
	sh.interval = interval
	sh.logger = logger
	sh.report = util.Throttle(time.Minute, func() {
		logger.Info("show running",
			zap.Int("round", sh.round),
			zap.Int("animating", a.Driver.Targets()),
			zap.Int("queued", a.Queue.Len()))
	})
	return sh
}

// cycle starts the next program on every segment that has finished its
// previous one. Busy segments skip the round.
func (sh *show) cycle() {
	for i, seg := range sh.strip.Segments() {
		if sh.animator.Queue.Active(seg) {
			continue
		}
		p := programs[(sh.round+i)%len(programs)]
		p(sh.animator, seg, sh.opts)
	}
	sh.round++
	sh.report()
}

// Run cycles programs until ctx is done, then settles every segment.
func (sh *show) Run(ctx context.Context) error {
	ticker := time.NewTicker(sh.interval)
	defer ticker.Stop()

	sh.cycle()
	for {
		select {
		case <-ctx.Done():
			for _, seg := range sh.strip.Segments() {
				sh.animator.Stop(seg, true)
			}
			return ctx.Err()
		case <-ticker.C:
			sh.cycle()
		}
	}
}
