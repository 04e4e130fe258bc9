package engine

import (
	"math"

	"github.com/inamate/rectboard/internal/document"
)

// DefaultMinResize is the smallest width or height a resize may produce.
const DefaultMinResize = 5

// Anchor names a resize handle on the edited shape.
type Anchor string

const (
	AnchorMiddleRight  Anchor = "middle-right"
	AnchorBottomRight  Anchor = "bottom-right"
	AnchorBottomCenter Anchor = "bottom-center"
)

// EnabledAnchors lists the handles a renderer should offer, in drawing order.
// Resizes only ever grow or shrink from the top-left corner.
var EnabledAnchors = []Anchor{AnchorMiddleRight, AnchorBottomRight, AnchorBottomCenter}

// Position returns the anchor's location relative to the shape's origin.
func (a Anchor) Position(g document.Geometry) (float64, float64) {
	switch a {
	case AnchorMiddleRight:
		return g.Width, g.Height / 2
	case AnchorBottomRight:
		return g.Width, g.Height
	case AnchorBottomCenter:
		return g.Width / 2, g.Height
	}
	return 0, 0
}

// ResizeCommand tells the renderer what to do once a handle drag ends: take the
// new width/height and reset the node's scale multiplier to ScaleX/ScaleY (always 1),
// so the next drag scales the stored size instead of compounding.
type ResizeCommand struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScaleX  float64 `json:"scaleX"`
	ScaleY  float64 `json:"scaleY"`
	Applied bool    `json:"applied"`
}

// NodeTransform is the transform the renderer's node should carry afterwards.
func (c ResizeCommand) NodeTransform() Matrix2D {
	return Scale(c.ScaleX, c.ScaleY)
}

// Normalizer converts a handle's scale factors back into integral width/height.
type Normalizer struct {
	MinSize float64
}

// Normalize applies scaleX/scaleY to width/height. A box narrower or shorter than
// MinSize (before rounding) is rejected with ErrDegenerateResize, and the returned
// command carries the unchanged size. Non-positive or non-finite factors are
// rejected the same way since handles can't flip a shape.
func (n Normalizer) Normalize(width, height, scaleX, scaleY float64) (ResizeCommand, error) {
	keep := ResizeCommand{Width: width, Height: height, ScaleX: 1, ScaleY: 1}
	if !validScale(scaleX) || !validScale(scaleY) {
		return keep, ErrDegenerateResize
	}

	box := Scale(scaleX, scaleY).TransformRect(Rect{Width: width, Height: height})
	if math.Abs(box.Width) < n.MinSize || math.Abs(box.Height) < n.MinSize {
		return keep, ErrDegenerateResize
	}

	size := document.Geometry{Width: math.Round(box.Width), Height: math.Round(box.Height)}
	if size.IsDegenerate() {
		return keep, ErrDegenerateResize
	}

	return ResizeCommand{Width: size.Width, Height: size.Height, ScaleX: 1, ScaleY: 1, Applied: true}, nil
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}
