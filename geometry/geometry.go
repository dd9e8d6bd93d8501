// Package geometry contains the floating-point primitives used by the
// skema scene model: points, sizes and axis-aligned rectangles.
package geometry

import "math"

// Point represents a 2D coordinate in scene or parent-local space.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Size represents the dimensions of a rectangle.
type Size struct {
	W, H float64
}

// Positive reports whether both dimensions are greater than zero.
func (s Size) Positive() bool {
	return s.W > 0 && s.H > 0
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// NewRect constructs a rectangle from a top-left point and a size.
func NewRect(p Point, s Size) Rect {
	return Rect{p.X, p.Y, s.W, s.H}
}

// TopLeft returns the rectangle's origin corner.
func (r Rect) TopLeft() Point {
	return Point{r.X, r.Y}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains checks if a point lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// United returns the smallest rectangle containing both r and o.
// Uniting with an empty rectangle returns the other one unchanged.
func (r Rect) United(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.W, o.X+o.W)
	y2 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{x1, y1, x2 - x1, y2 - y1}
}

// Expanded grows the rectangle by m units on each side.
func (r Rect) Expanded(m float64) Rect {
	return Rect{r.X - m, r.Y - m, r.W + 2*m, r.H + 2*m}
}

// Translated returns the rectangle shifted by d.
func (r Rect) Translated(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H}
}

// SegmentDistance returns the distance from p to the segment a-b.
// Used for hit-testing connection lines.
func SegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Dist(p, Point{a.X + t*dx, a.Y + t*dy})
}
