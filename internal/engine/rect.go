package engine

import "github.com/inamate/rectboard/internal/document"

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectOf returns the bounding box of a shape's geometry.
func RectOf(g document.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Spanning returns the smallest rect containing both points.
func Spanning(a, b document.Point) Rect {
	minX := min(a.X, b.X)
	minY := min(a.Y, b.Y)
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  max(a.X, b.X) - minX,
		Height: max(a.Y, b.Y) - minY,
	}
}
