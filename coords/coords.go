package coords

import (
	"errors"
	"math"

	"github.com/hauspek/reportkit/geo"
)

// Matrix is a 2x3 affine transform in column-major PDF order
// [a b c d e f], mapping (x, y) to (a*x+c*y+e, b*x+d*y+f).
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Multiply composes m with o, applying m first.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Apply transforms the point p.
func (m Matrix) Apply(p geo.Point) geo.Point {
	return geo.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ErrSingular is returned when a matrix cannot be inverted.
var ErrSingular = errors.New("coords: matrix singular")

// Inverse returns the inverse transform.
func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, ErrSingular
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

// ScaleFactor returns the uniform scale component, assuming no rotation
// and aspect-preserving scaling.
func (m Matrix) ScaleFactor() float64 { return m[0] }

// ScreenToDoc converts a screen-space point into document units given the
// container width on screen and the page width in document units. The same
// ratio applies to both axes because page aspect is preserved on screen.
func ScreenToDoc(p geo.Point, containerWidth, docPageWidth float64) geo.Point {
	r := docPageWidth / containerWidth
	return geo.Point{X: p.X * r, Y: p.Y * r}
}

// DocToScreen is the inverse of ScreenToDoc.
func DocToScreen(p geo.Point, containerWidth, docPageWidth float64) geo.Point {
	r := containerWidth / docPageWidth
	return geo.Point{X: p.X * r, Y: p.Y * r}
}
