// package geom implements the float64 point arithmetic used for
// logical drawing coordinates.
package geom

import (
	"fmt"
	"math"
)

type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Lerp interpolates between p0 and p1. The result is exactly p0
// for t = 0 and exactly p1 for t = 1.
func Lerp(p0, p1 Point, t float64) Point {
	return Point{
		X: p0.X*(1-t) + p1.X*t,
		Y: p0.Y*(1-t) + p1.Y*t,
	}
}

// Polar returns the point at radius r and angle deg (degrees)
// around center.
func Polar(center Point, r, deg float64) Point {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Point{center.X + r*cos, center.Y + r*sin}
}

// Rect is a closed rectangle, unlike image.Rectangle.
type Rect struct {
	Min, Max Point
}

func (r Rect) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X &&
		r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// Clamp moves p to the closest point inside r.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, r.Min.X, r.Max.X),
		Y: Clamp(p.Y, r.Min.Y, r.Max.Y),
	}
}

func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
