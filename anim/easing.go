package anim

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/fogleman/ease"
)

// Easing names a progress transform applied before each tick.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "ease-in"
	EaseOut   Easing = "ease-out"
	EaseInOut Easing = "ease-in-out"
)

// ErrUnknownEasing is returned by ParseEasing for unrecognised names.
var ErrUnknownEasing = errors.New("unknown easing")

// ParseEasing converts a name into an Easing. An empty name yields the
// default, EaseInOut.
func ParseEasing(name string) (Easing, error) {
	switch e := Easing(name); e {
	case "":
		return EaseInOut, nil
	case Linear, EaseIn, EaseOut, EaseInOut:
		return e, nil
	}

	return "", errors.WithHintf(errors.Wrapf(ErrUnknownEasing, "%q", name),
		"use one of %s, %s, %s or %s", Linear, EaseIn, EaseOut, EaseInOut)
}

// Apply transforms raw progress p in [0, 1].
func (e Easing) Apply(p float64) float64 {
	switch e {
	case Linear:
		return ease.Linear(p)
	case EaseIn:
		return ease.InQuad(p)
	case EaseOut:
		return math.Sqrt(p)
	default:
		return ease.InOutQuad(p)
	}
}

// UnmarshalYAML validates easing names read from config.
func (e *Easing) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseEasing(name)
	if err != nil {
		return err
	}

	*e = parsed
	return nil
}
