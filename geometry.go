package utopia

import "math"

// CanvasPoint is a position in canvas space. Screen (client) coordinates are
// converted to canvas space by the Viewport and never reach the strategies.
type CanvasPoint struct {
	X, Y float64
}

// CanvasVector is a displacement in canvas space, typically a drag delta.
type CanvasVector struct {
	X, Y float64
}

// Add returns p translated by v.
func (p CanvasPoint) Add(v CanvasVector) CanvasPoint {
	return CanvasPoint{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p CanvasPoint) Sub(o CanvasPoint) CanvasVector {
	return CanvasVector{X: p.X - o.X, Y: p.Y - o.Y}
}

// Length returns the magnitude of v.
func (v CanvasVector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// CanvasRectangle is an axis-aligned rectangle in canvas space. The origin is
// the top-left, with Y increasing downward. A well-formed frame never has a
// negative width or height.
type CanvasRectangle struct {
	X, Y, Width, Height float64
}

// RectFromPointAndSize builds a rectangle with its top-left corner at p.
func RectFromPointAndSize(p CanvasPoint, s Size) CanvasRectangle {
	return CanvasRectangle{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// RectCenteredOn builds a rectangle of the given size whose center is p.
func RectCenteredOn(p CanvasPoint, s Size) CanvasRectangle {
	return CanvasRectangle{
		X:      p.X - s.Width/2,
		Y:      p.Y - s.Height/2,
		Width:  s.Width,
		Height: s.Height,
	}
}

// Valid reports whether the rectangle has non-negative dimensions and finite
// coordinates.
func (r CanvasRectangle) Valid() bool {
	for _, f := range [4]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r CanvasRectangle) Contains(p CanvasPoint) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r CanvasRectangle) Intersects(other CanvasRectangle) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the center point of the rectangle.
func (r CanvasRectangle) Center() CanvasPoint {
	return CanvasPoint{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Origin returns the top-left corner.
func (r CanvasRectangle) Origin() CanvasPoint {
	return CanvasPoint{X: r.X, Y: r.Y}
}

// Offset returns r translated by v.
func (r CanvasRectangle) Offset(v CanvasVector) CanvasRectangle {
	r.X += v.X
	r.Y += v.Y
	return r
}

// RelativeTo expresses r in the coordinate space whose origin is the top-left
// corner of parent.
func (r CanvasRectangle) RelativeTo(parent CanvasRectangle) CanvasRectangle {
	r.X -= parent.X
	r.Y -= parent.Y
	return r
}

// ApproximatelyEqual reports whether two rects are almost equal.
func ApproximatelyEqual(a, b CanvasRectangle, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Width-b.Width) <= tolerance && math.Abs(a.Height-b.Height) <= tolerance
}

// EdgePosition identifies a resize handle by the edges it moves. Each field is
// 0 (left/top edge), 1 (right/bottom edge) or 0.5 (edge not moved).
type EdgePosition struct {
	X, Y float64
}

// Common resize handles.
var (
	EdgeTopLeft     = EdgePosition{0, 0}
	EdgeTop         = EdgePosition{0.5, 0}
	EdgeTopRight    = EdgePosition{1, 0}
	EdgeRight       = EdgePosition{1, 0.5}
	EdgeBottomRight = EdgePosition{1, 1}
	EdgeBottom      = EdgePosition{0.5, 1}
	EdgeBottomLeft  = EdgePosition{0, 1}
	EdgeLeft        = EdgePosition{0, 0.5}
)

// ResizeRect moves the edges of r selected by edge by the drag vector.
// Dimensions are clamped at zero; when an edge is dragged past its opposite
// edge the frame collapses rather than flipping.
func ResizeRect(r CanvasRectangle, edge EdgePosition, drag CanvasVector) CanvasRectangle {
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height
	switch edge.X {
	case 0:
		left = math.Min(left+drag.X, right)
	case 1:
		right = math.Max(right+drag.X, left)
	}
	switch edge.Y {
	case 0:
		top = math.Min(top+drag.Y, bottom)
	case 1:
		bottom = math.Max(bottom+drag.Y, top)
	}
	return CanvasRectangle{X: left, Y: top, Width: right - left, Height: bottom - top}
}
