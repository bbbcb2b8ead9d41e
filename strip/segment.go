package strip

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/frostcore/util"
)

// Origin is the edge a partially visible segment grows from.
type Origin int

const (
	FromStart Origin = iota
	FromEnd
	FromCentre
)

// A Segment is a run of pixels on a Strip that effects animate.
type Segment struct {
	Name   string
	Start  int
	Length int

	mu      sync.Mutex
	colour  colorful.Color
	opacity float64
	visible float64
	origin  Origin
	offset  float64
}

// NewSegment creates a fully visible, opaque segment.
func NewSegment(name string, start, length int, colour colorful.Color) *Segment {
	s := new(Segment)
	s.Name = name
	s.Start = start
	s.Length = length
	s.colour = colour
	s.opacity = 1
	s.visible = 1
	return s
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment %q [%d+%d]", s.Name, s.Start, s.Length)
}

// Colour returns the segment colour.
func (s *Segment) Colour() colorful.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colour
}

// SetColour changes the segment colour.
func (s *Segment) SetColour(c colorful.Color) {
	s.mu.Lock()
	s.colour = c
	s.mu.Unlock()
}

// Opacity returns how strongly the segment covers the background.
func (s *Segment) Opacity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

// SetOpacity sets opacity, clamped to [0, 1].
func (s *Segment) SetOpacity(o float64) {
	s.mu.Lock()
	s.opacity = util.Clamp(o, 0, 1)
	s.mu.Unlock()
}

// Visible returns the shown fraction and the edge it grows from.
func (s *Segment) Visible() (float64, Origin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible, s.origin
}

// Reveal shows fraction of the segment, growing from origin.
func (s *Segment) Reveal(fraction float64, origin Origin) {
	s.mu.Lock()
	s.visible = util.Clamp(fraction, 0, 1)
	s.origin = origin
	s.mu.Unlock()
}

// Offset returns the pixel shift applied when rendering.
func (s *Segment) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// SetOffset shifts the rendered segment by offset pixels.
func (s *Segment) SetOffset(offset float64) {
	s.mu.Lock()
	s.offset = offset
	s.mu.Unlock()
}

type segmentState struct {
	colour  colorful.Color
	opacity float64
	visible float64
	origin  Origin
	offset  float64
}

func (s *Segment) state() segmentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segmentState{s.colour, s.opacity, s.visible, s.origin, s.offset}
}

// lit returns the strip indices covered by the visible part of the segment.
func (s *Segment) lit(st segmentState) (from, to int) {
	shown := int(util.ToStep(st.visible*float64(s.Length), 1))
	switch st.origin {
	case FromEnd:
		from = s.Start + s.Length - shown
	case FromCentre:
		from = s.Start + (s.Length-shown)/2
	default:
		from = s.Start
	}

	shift := int(util.ToStep(st.offset, 1))
	return from + shift, from + shift + shown
}
