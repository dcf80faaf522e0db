// Package bezier implements the curve math used to trace paths:
// evaluation of quadratic and cubic Bézier curves, approximate arc length,
// length to parameter lookup tables and de Casteljau subdivision.
//
// All functions are pure. Malformed input (NaN coordinates) propagates
// NaN instead of panicking; validation is the parser's job.
package bezier

import (
	"fmt"
	"math"
)

// Point is an immutable 2D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales both coordinates by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Lerp returns the linear interpolation between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Dist is the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Reflect mirrors p about center, as needed by the smooth
// curve commands S and T.
func (p Point) Reflect(center Point) Point {
	return Point{2*center.X - p.X, 2*center.Y - p.Y}
}

func (p Point) IsNaN() bool { return math.IsNaN(p.X) || math.IsNaN(p.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis aligned rectangle. The zero value is the empty
// rectangle at the origin.
type Rect struct {
	Min, Max Point
}

// rectOf returns the smallest rectangle containing all the points.
func rectOf(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Extend(p)
	}
	return r
}

// Extend grows r to contain p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return r.Extend(o.Min).Extend(o.Max)
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
