// Package strip models an addressable LED strip as a set of named segments
// rendered over a background colour, and streams rendered frames to an
// ledrx device over MQTT.
package strip

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrOutOfRange is returned when a segment does not fit on the strip.
	ErrOutOfRange = errors.New("segment out of range")
	// ErrDuplicateSegment is returned when a segment name is already attached.
	ErrDuplicateSegment = errors.New("duplicate segment")
)

// A Strip owns the attached segments and renders them into Frames.
type Strip struct {
	pixels     int
	background colorful.Color

	mu       sync.RWMutex
	segments []*Segment
}

// New creates an empty strip.
func New(pixels int, background colorful.Color) *Strip {
	s := new(Strip)
	s.pixels = pixels
	s.background = background
	return s
}

// Pixels returns the strip length.
func (s *Strip) Pixels() int {
	return s.pixels
}

// Attach adds seg to the strip.
func (s *Strip) Attach(seg *Segment) error {
	if seg.Start < 0 || seg.Length < 0 || seg.Start+seg.Length > s.pixels {
		return errors.Wrapf(ErrOutOfRange, "%s on %d pixels", seg, s.pixels)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.segments {
		if existing.Name == seg.Name {
			return errors.Wrapf(ErrDuplicateSegment, "%s", seg)
		}
	}

	s.segments = append(s.segments, seg)
	return nil
}

// Detach removes seg. Animations on a detached segment are interrupted on
// their next frame.
func (s *Strip) Detach(seg *Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.segments {
		if existing == seg {
			s.segments = append(s.segments[:i], s.segments[i+1:]...)
			return
		}
	}
}

// Attached reports whether seg is currently on the strip.
func (s *Strip) Attached(seg *Segment) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.segments {
		if existing == seg {
			return true
		}
	}
	return false
}

// Segment finds an attached segment by name.
func (s *Strip) Segment(name string) (*Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seg := range s.segments {
		if seg.Name == name {
			return seg, true
		}
	}
	return nil, false
}

// Segments returns the attached segments in attach order.
func (s *Strip) Segments() []*Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Segment(nil), s.segments...)
}

// Render blends every attached segment over the background. Later segments
// draw over earlier ones.
func (s *Strip) Render() *Frame {
	f := NewFrame(s.pixels)
	f.Fill(s.background)

	for _, seg := range s.Segments() {
		st := seg.state()
		from, to := seg.lit(st)
		for i := max(from, 0); i < min(to, s.pixels); i++ {
			f.pixels[i] = f.pixels[i].BlendHcl(st.colour, st.opacity)
		}
	}

	return f
}
