// Implements an abstract representation of
// svg paths, which can then be consumed
// by the tracing and painting drivers
package svgpath

import (
	"fmt"
	"strings"

	"github.com/sicmundu/cli-trace/bezier"
)

// Command is the kind of a path segment.
type Command uint8

// Human readable path constants
const (
	MoveTo Command = iota
	LineTo
	CubicTo
	QuadTo
	Close
)

func (c Command) String() string {
	switch c {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case CubicTo:
		return "CubicTo"
	case QuadTo:
		return "QuadTo"
	case Close:
		return "Close"
	default:
		return "<unknown Command>"
	}
}

// Segment is one drawing instruction.
// Points holds the end point for MoveTo and LineTo, the control points
// followed by the end point for CubicTo and QuadTo, and nothing for Close.
// Curve is only meaningful for CubicTo and QuadTo; its start is the end
// of the previous segment.
type Segment struct {
	Command Command
	Points  []bezier.Point
	Curve   bezier.Curve
}

// IsCurve reports whether s carries a Bézier curve.
func (s Segment) IsCurve() bool {
	return s.Command == CubicTo || s.Command == QuadTo
}

// End returns the last point of s, and false for Close.
func (s Segment) End() (bezier.Point, bool) {
	if len(s.Points) == 0 {
		return bezier.Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Path describes a sequence of basic SVG operations, in drawing order.
// Higher-level shapes may be reduced to a path.
type Path []Segment

// pen returns the current point after the last segment.
// Close does not move the pen.
func (p Path) pen() bezier.Point {
	for i := len(p) - 1; i >= 0; i-- {
		if end, ok := p[i].End(); ok {
			return end
		}
	}
	return bezier.Point{}
}

// ToSVGPath returns a string representation of the path.
// Since Close does not move the pen here, while it does in SVG, a
// segment following a Close is preceded by a move to the pen.
func (p Path) ToSVGPath() string {
	chunks := make([]string, 0, len(p))
	var pen bezier.Point
	closed := false
	for _, seg := range p {
		pts := seg.Points
		if closed && seg.Command != MoveTo && seg.Command != Close {
			chunks = append(chunks, fmt.Sprintf("M%4.3f,%4.3f", pen.X, pen.Y))
		}
		closed = seg.Command == Close
		switch seg.Command {
		case MoveTo:
			chunks = append(chunks, fmt.Sprintf("M%4.3f,%4.3f", pts[0].X, pts[0].Y))
		case LineTo:
			chunks = append(chunks, fmt.Sprintf("L%4.3f,%4.3f", pts[0].X, pts[0].Y))
		case QuadTo:
			chunks = append(chunks, fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", pts[0].X, pts[0].Y, pts[1].X, pts[1].Y))
		case CubicTo:
			chunks = append(chunks, fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f", pts[0].X, pts[0].Y,
				pts[1].X, pts[1].Y, pts[2].X, pts[2].Y))
		case Close:
			chunks = append(chunks, "Z")
		}
		if end, ok := seg.End(); ok {
			pen = end
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new subpath at the given point.
func (p *Path) Start(a bezier.Point) {
	*p = append(*p, Segment{Command: MoveTo, Points: []bezier.Point{a}})
}

// Line adds a linear segment to the current subpath.
func (p *Path) Line(b bezier.Point) {
	*p = append(*p, Segment{Command: LineTo, Points: []bezier.Point{b}})
}

// QuadBezier adds a quadratic segment to the current subpath.
func (p *Path) QuadBezier(b, c bezier.Point) {
	*p = append(*p, Segment{
		Command: QuadTo,
		Points:  []bezier.Point{b, c},
		Curve:   bezier.NewQuadratic(p.pen(), b, c),
	})
}

// CubeBezier adds a cubic segment to the current subpath.
func (p *Path) CubeBezier(b, c, d bezier.Point) {
	*p = append(*p, Segment{
		Command: CubicTo,
		Points:  []bezier.Point{b, c, d},
		Curve:   bezier.NewCubic(p.pen(), b, c, d),
	})
}

// Stop closes the current subpath if closeLoop is true
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Segment{Command: Close})
	}
}

// Normalize returns a copy of p where every quadratic segment is
// replaced by the equivalent cubic one. Other segments are kept as is.
func Normalize(p Path) Path {
	out := make(Path, len(p))
	for i, seg := range p {
		if seg.Command == QuadTo {
			c := seg.Curve.ToCubic()
			seg = Segment{Command: CubicTo, Points: []bezier.Point{c.P[1], c.P[2], c.P[3]}, Curve: c}
		}
		out[i] = seg
	}
	return out
}

// Bounds is an axis aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Empty reports whether b has no area.
func (b Bounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, o.MinX), MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX), MaxY: max(b.MaxY, o.MaxY),
	}
}

// ComputeBounds walks every point of p, control points included.
// This contains the path but may exceed its true extent. An empty
// path gives the zero Bounds.
func ComputeBounds(p Path) Bounds {
	var (
		b    Bounds
		seen bool
	)
	for _, seg := range p {
		for _, pt := range seg.Points {
			if !seen {
				b = Bounds{pt.X, pt.Y, pt.X, pt.Y}
				seen = true
				continue
			}
			b.MinX, b.MaxX = min(b.MinX, pt.X), max(b.MaxX, pt.X)
			b.MinY, b.MaxY = min(b.MinY, pt.Y), max(b.MaxY, pt.Y)
		}
	}
	return b
}

// TightBounds returns the geometric extent of p, taking curve
// extrema into account instead of control points.
func TightBounds(p Path) Bounds {
	var (
		r    bezier.Rect
		seen bool
	)
	add := func(o bezier.Rect) {
		if !seen {
			r, seen = o, true
			return
		}
		r = r.Union(o)
	}
	for _, seg := range p {
		switch {
		case seg.IsCurve():
			add(seg.Curve.TightBounds())
		case len(seg.Points) > 0:
			pt := seg.Points[0]
			add(bezier.Rect{Min: pt, Max: pt})
		}
	}
	return Bounds{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// ApproxLength sums the straight distances between consecutive anchor
// points. Jumps to a MoveTo and Close segments contribute nothing. It
// is cheaper than, and usually shorter than, the true arc length.
func ApproxLength(p Path) float64 {
	var (
		total float64
		pen   bezier.Point
	)
	for _, seg := range p {
		end, ok := seg.End()
		if !ok {
			continue
		}
		if seg.Command != MoveTo {
			total += pen.Dist(end)
		}
		pen = end
	}
	return total
}

// PathData is the result of parsing one path data string.
type PathData struct {
	Segments Path
	// TotalLength is the approximate length given by ApproxLength.
	TotalLength float64
	Bounds      Bounds
}

// NewPathData normalizes p and computes its bounds and approximate length.
func NewPathData(p Path) PathData {
	p = Normalize(p)
	return PathData{
		Segments:    p,
		TotalLength: ApproxLength(p),
		Bounds:      ComputeBounds(p),
	}
}

// Counts returns the number of segments per command.
func (pd PathData) Counts() map[Command]int {
	out := make(map[Command]int)
	for _, seg := range pd.Segments {
		out[seg.Command]++
	}
	return out
}
