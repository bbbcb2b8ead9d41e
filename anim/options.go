package anim

import "time"

// DefaultDuration is used when Options.Duration is zero.
const DefaultDuration = time.Second

// Options configures a single Animate call.
type Options struct {
	Duration time.Duration `yaml:"duration"`
	Easing   Easing        `yaml:"easing"`
	Infinite bool          `yaml:"infinite"`
}

// DefaultOptions returns a one second ease-in-out animation.
func DefaultOptions() Options {
	return Options{
		Duration: DefaultDuration,
		Easing:   EaseInOut,
	}
}

func (o Options) withDefaults() Options {
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.Easing == "" {
		o.Easing = EaseInOut
	}

	return o
}
