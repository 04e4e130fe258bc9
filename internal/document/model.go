package document

// Default geometry for shapes created by the "add" control.
const (
	DefaultX      = 50
	DefaultY      = 50
	DefaultWidth  = 100
	DefaultHeight = 100
)

// Geometry is the mutable part of a shape, in surface units.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Shape is a positioned rectangle. ID never changes after creation.
type Shape struct {
	ID string `json:"id"`
	Geometry
}

// Point is a pointer position in surface space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marquee is the rubber-band rectangle of an in-progress drag over empty surface.
type Marquee struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

// BoardState is everything a renderer needs to draw the board.
type BoardState struct {
	Shapes     []Shape `json:"shapes"`
	SelectedID string  `json:"selectedId,omitempty"`
	Editing    bool    `json:"editing"`
	Marquee    Marquee `json:"marquee"`
}

// DefaultGeometry returns the geometry used by the "add" control.
func DefaultGeometry() Geometry {
	return Geometry{
		X:      DefaultX,
		Y:      DefaultY,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// IsDegenerate reports whether g has no positive area.
func (g Geometry) IsDegenerate() bool {
	return g.Width <= 0 || g.Height <= 0
}
