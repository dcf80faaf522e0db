package bezier

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Curve.
type Kind uint8

const (
	Cubic Kind = iota
	Quadratic
)

func (k Kind) String() string {
	switch k {
	case Cubic:
		return "Cubic"
	case Quadratic:
		return "Quadratic"
	default:
		return "<unknown Kind>"
	}
}

// Curve is either a cubic curve (P[0] start, P[1] and P[2] controls,
// P[3] end) or a quadratic curve (P[0] start, P[1] control, P[2] end).
// Kind decides which points are meaningful; P[3] is unused for quadratics.
type Curve struct {
	Kind Kind
	P    [4]Point
}

// NewCubic returns the cubic curve from start to end.
func NewCubic(start, c1, c2, end Point) Curve {
	return Curve{Kind: Cubic, P: [4]Point{start, c1, c2, end}}
}

// NewQuadratic returns the quadratic curve from start to end.
func NewQuadratic(start, c, end Point) Curve {
	return Curve{Kind: Quadratic, P: [4]Point{start, c, end}}
}

func (c Curve) Start() Point { return c.P[0] }

func (c Curve) End() Point {
	if c.Kind == Quadratic {
		return c.P[2]
	}
	return c.P[3]
}

// Controls returns the control points, without the end points.
func (c Curve) Controls() []Point {
	if c.Kind == Quadratic {
		return []Point{c.P[1]}
	}
	return []Point{c.P[1], c.P[2]}
}

// Points returns every defining point of the curve, in order.
func (c Curve) Points() []Point {
	if c.Kind == Quadratic {
		return c.P[:3:3]
	}
	return c.P[:]
}

func (c Curve) String() string {
	if c.Kind == Quadratic {
		return fmt.Sprintf("Q[%v %v %v]", c.P[0], c.P[1], c.P[2])
	}
	return fmt.Sprintf("C[%v %v %v %v]", c.P[0], c.P[1], c.P[2], c.P[3])
}

// ToCubic returns the equivalent cubic curve. Cubic curves are
// returned unchanged; a quadratic with control q is elevated with
//
//	c1 = start + 2/3 (q - start)
//	c2 = end + 2/3 (q - end)
func (c Curve) ToCubic() Curve {
	if c.Kind == Cubic {
		return c
	}
	start, q, end := c.P[0], c.P[1], c.P[2]
	return NewCubic(start,
		start.Add(q.Sub(start).Mul(2.0/3)),
		end.Add(q.Sub(end).Mul(2.0/3)),
		end)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// quadratic polynomial in Bernstein form
func bezierQuad(p0, p1, p2, t float64) float64 {
	mt := 1 - t
	return mt*mt*p0 + 2*mt*t*p1 + t*t*p2
}

// cubic polynomial in Bernstein form
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	mt := 1 - t
	return mt*mt*mt*p0 + 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t*p3
}

// Evaluate returns the point of c at parameter t, which is clamped
// to [0,1]. Evaluate(c, 0) is exactly c.Start() and Evaluate(c, 1)
// exactly c.End().
func Evaluate(c Curve, t float64) Point {
	t = clamp01(t)
	switch t {
	case 0:
		return c.Start()
	case 1:
		return c.End()
	}
	p := c.P
	if c.Kind == Quadratic {
		return Point{bezierQuad(p[0].X, p[1].X, p[2].X, t), bezierQuad(p[0].Y, p[1].Y, p[2].Y, t)}
	}
	return Point{
		bezierSpline(p[0].X, p[1].X, p[2].X, p[3].X, t),
		bezierSpline(p[0].Y, p[1].Y, p[2].Y, p[3].Y, t),
	}
}

// DefaultSamples is the sampling count used for arc lengths
// throughout the module.
const DefaultSamples = 10

// ArcLength approximates the length of c by summing the chords between
// samples+1 points uniformly spaced in t. A non positive samples
// falls back to DefaultSamples.
func ArcLength(c Curve, samples int) float64 {
	if samples < 1 {
		samples = DefaultSamples
	}
	var length float64
	prev := c.Start()
	for i := 1; i <= samples; i++ {
		pt := Evaluate(c, float64(i)/float64(samples))
		length += prev.Dist(pt)
		prev = pt
	}
	return length
}

// SplitCubic subdivides c at t with de Casteljau's algorithm. The
// first curve runs from c.Start() to Evaluate(c, t), the second from
// there to c.End(). Quadratic curves are elevated to cubics first.
func SplitCubic(c Curve, t float64) (Curve, Curve) {
	t = clamp01(t)
	c = c.ToCubic()
	p0, p1, p2, p3 := c.P[0], c.P[1], c.P[2], c.P[3]

	p01 := p0.Lerp(p1, t)
	p12 := p1.Lerp(p2, t)
	p23 := p2.Lerp(p3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)

	return NewCubic(p0, p01, p012, mid), NewCubic(mid, p123, p23, p3)
}

// HullBounds returns the bounding box of the defining points of c,
// which contains the curve but may be larger than its true extent.
func (c Curve) HullBounds() Rect {
	return rectOf(c.Points()...)
}

// derivative as at + b
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// derivative as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	switch {
	case d < 0:
		return nil
	case d == 0:
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// criticalPoints returns the parameters zeroing the derivative,
// per axis.
func (c Curve) criticalPoints() (tX, tY []float64) {
	p := c.P
	if c.Kind == Quadratic {
		aX, bX := quadraticDerivative(p[0].X, p[1].X, p[2].X)
		aY, bY := quadraticDerivative(p[0].Y, p[1].Y, p[2].Y)
		return linearRoots(aX, bX), linearRoots(aY, bY)
	}
	aX, bX, cX := cubicDerivative(p[0].X, p[1].X, p[2].X, p[3].X)
	aY, bY, cY := cubicDerivative(p[0].Y, p[1].Y, p[2].Y, p[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

// TightBounds returns the true extent of c, computed from its end points
// and the extrema of each coordinate.
func (c Curve) TightBounds() Rect {
	tX, tY := c.criticalPoints()
	r := rectOf(c.Start(), c.End())
	for _, t := range append(tX, tY...) {
		if !(0 < t && t < 1) {
			continue
		}
		r = r.Extend(Evaluate(c, t))
	}
	return r
}
