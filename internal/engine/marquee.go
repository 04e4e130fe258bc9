package engine

import (
	"math"

	"github.com/inamate/rectboard/internal/document"
)

// MarqueeState is the phase of a rubber-band drag.
type MarqueeState int

const (
	MarqueeIdle MarqueeState = iota
	MarqueeDragging
)

func (s MarqueeState) String() string {
	switch s {
	case MarqueeIdle:
		return "idle"
	case MarqueeDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// MarqueeSelector tracks a drag across empty surface and turns it into the
// bounds of a new shape on release.
type MarqueeSelector struct {
	state   MarqueeState
	anchor  document.Point
	rect    document.Marquee
	minSize float64
}

// NewMarqueeSelector creates an idle selector. Releases whose floored width or
// height is below minSize produce nothing; 0 accepts any visible marquee.
func NewMarqueeSelector(minSize float64) *MarqueeSelector {
	return &MarqueeSelector{minSize: minSize}
}

// Begin anchors a new drag at p. A drag already in progress is restarted.
func (m *MarqueeSelector) Begin(p document.Point) {
	m.state = MarqueeDragging
	m.anchor = p
	m.rect = document.Marquee{X: p.X, Y: p.Y}
}

// Move stretches the marquee to p. It reports false when no drag is in progress.
func (m *MarqueeSelector) Move(p document.Point) bool {
	if m.state != MarqueeDragging {
		return false
	}
	r := Spanning(m.anchor, p)
	m.rect = document.Marquee{
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
		Visible: true,
	}
	return true
}

// End finishes the drag and returns the floored bounds of the final marquee.
// ok is false if the pointer never moved or the box is below the minimum size.
func (m *MarqueeSelector) End() (g document.Geometry, ok bool) {
	if m.state != MarqueeDragging {
		return document.Geometry{}, false
	}
	r := m.rect
	m.Abort()

	if !r.Visible {
		return document.Geometry{}, false
	}
	g = document.Geometry{
		X:      math.Floor(r.X),
		Y:      math.Floor(r.Y),
		Width:  math.Floor(r.Width),
		Height: math.Floor(r.Height),
	}
	if g.IsDegenerate() || g.Width < m.minSize || g.Height < m.minSize {
		return document.Geometry{}, false
	}
	return g, true
}

// Abort drops the current drag, if any, without producing a shape.
func (m *MarqueeSelector) Abort() {
	m.state = MarqueeIdle
	m.rect = document.Marquee{}
}

func (m *MarqueeSelector) State() MarqueeState {
	return m.state
}

// Rect returns the marquee as it should currently be drawn.
func (m *MarqueeSelector) Rect() document.Marquee {
	return m.rect
}
