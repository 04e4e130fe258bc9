package engine

import "github.com/inamate/rectboard/internal/document"

// Matrix2D is a 2D affine transform [a, b, c, d, e, f]:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
//
// Shapes never rotate or skew, so b and c stay zero.
type Matrix2D [6]float64

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRect maps r through m. Without skew the two opposite corners are
// enough; Spanning re-orders them when a factor is negative.
func (m Matrix2D) TransformRect(r Rect) Rect {
	x0, y0 := m.TransformPoint(r.X, r.Y)
	x1, y1 := m.TransformPoint(r.X+r.Width, r.Y+r.Height)
	return Spanning(document.Point{X: x0, Y: y0}, document.Point{X: x1, Y: y1})
}

// ToSlice returns the matrix in renderer order.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}
