package trace

import (
	"github.com/sicmundu/cli-trace/bezier"
	"github.com/sicmundu/cli-trace/svgpath"
)

// LUTResolution is the number of lookup table samples per unit of
// length used for curves.
const LUTResolution = 0.5

// Span is the fraction of the total length covered by one segment.
type Span struct {
	Start, End float64
}

type measuredSegment struct {
	svgpath.Segment
	from          bezier.Point // current point before the segment
	subpathStart  bezier.Point
	length        float64
	lut           bezier.LUT // curves only
	cumulativeEnd float64
}

// Measured is a path with the true length of each of its segments,
// as needed to draw it at a uniform speed. It is immutable.
type Measured struct {
	Data svgpath.PathData
	// Total is the arc length of the path. Contrary to
	// Data.TotalLength, it follows the curves and includes the
	// closing lines.
	Total float64

	segments []measuredSegment
}

// Measure computes the arc length of every segment of pd.
// MoveTo segments have no length and Close segments have the
// length of the line back to the start of their subpath.
func Measure(pd svgpath.PathData) Measured {
	m := Measured{Data: pd, segments: make([]measuredSegment, len(pd.Segments))}
	var pen, start bezier.Point
	for i, seg := range pd.Segments {
		ms := measuredSegment{Segment: seg, from: pen, subpathStart: start}
		switch seg.Command {
		case svgpath.MoveTo:
			pen, start = seg.Points[0], seg.Points[0]
			ms.subpathStart = start
		case svgpath.LineTo:
			ms.length = pen.Dist(seg.Points[0])
			pen = seg.Points[0]
		case svgpath.CubicTo, svgpath.QuadTo:
			ms.lut = bezier.BuildLUT(seg.Curve, LUTResolution)
			ms.length = ms.lut.TotalLength
			pen = seg.Curve.End()
		case svgpath.Close:
			// the pen does not move
			ms.length = pen.Dist(start)
		}
		m.Total += ms.length
		ms.cumulativeEnd = m.Total
		m.segments[i] = ms
	}
	return m
}

// Len returns the number of segments.
func (m Measured) Len() int { return len(m.segments) }

// SegmentLength returns the arc length of the i-th segment.
func (m Measured) SegmentLength(i int) float64 { return m.segments[i].length }

// Spans returns, for each segment, the range of progress values
// during which it is being drawn. A path without length has all its
// spans equal to [0,0].
func (m Measured) Spans() []Span {
	out := make([]Span, len(m.segments))
	var acc float64
	for i, ms := range m.segments {
		if m.Total > 0 {
			out[i] = Span{Start: acc / m.Total, End: ms.cumulativeEnd / m.Total}
		}
		acc = ms.cumulativeEnd
	}
	return out
}

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// Quadratic curves are always sent as cubic ones.
type Drawer interface {
	// Start starts a new path at the given point.
	Start(a bezier.Point)

	// Line adds a line for the current point to `b`
	Line(b bezier.Point)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d bezier.Point)

	// Stop closes the path to the start point if `closeLoop` is true
	Stop(closeLoop bool)
}

func clampProgress(p float64) float64 {
	if p != p { // NaN
		return 0
	}
	return max(0, min(1, p))
}

// Draw sends to d the part of m visible at progress p, in [0,1].
//
// Segments are walked in order: the ones whose span ends before p are
// drawn in full, the one containing p is cut so that the drawn length
// is exactly p times the total length, and the following ones are not
// drawn. Curves are cut at the parameter matching the required arc
// length, not at t = local progress. Nothing is drawn for p <= 0.
func Draw(d Drawer, m Measured, p float64) {
	p = clampProgress(p)
	if p == 0 || len(m.segments) == 0 {
		return
	}
	spans := m.Spans()
	open := false // a subpath is started on d
	ensureOpen := func(at bezier.Point) {
		if !open {
			d.Start(at)
			open = true
		}
	}
	for i, ms := range m.segments {
		span := spans[i]
		if p < span.Start {
			break
		}
		local := 1.
		if p < span.End {
			local = (p - span.Start) / (span.End - span.Start)
		}

		switch ms.Command {
		case svgpath.MoveTo:
			if open {
				d.Stop(false)
			}
			d.Start(ms.Points[0])
			open = true
		case svgpath.LineTo:
			ensureOpen(ms.from)
			d.Line(ms.from.Lerp(ms.Points[0], local))
		case svgpath.CubicTo, svgpath.QuadTo:
			ensureOpen(ms.from)
			c := ms.Curve.ToCubic()
			if local < 1 {
				t := ms.lut.LengthToParameter(local * ms.length)
				c, _ = bezier.SplitCubic(c, t)
			}
			d.CubeBezier(c.P[1], c.P[2], c.P[3])
		case svgpath.Close:
			if local >= 1 {
				if open {
					d.Stop(true)
					open = false
				}
				continue
			}
			ensureOpen(ms.from)
			d.Line(ms.from.Lerp(ms.subpathStart, local))
		}
		if local < 1 {
			break
		}
	}
	if open {
		d.Stop(false)
	}
}

// Partial returns the part of m visible at progress p, as a path.
func (m Measured) Partial(p float64) svgpath.Path {
	var out svgpath.Path
	Draw(&out, m, p)
	return out
}

// VisibleCount returns the number of segments drawn, fully or
// partially, at progress p. The visible segments are always the
// first ones.
func (m Measured) VisibleCount(p float64) int {
	p = clampProgress(p)
	if p == 0 {
		return 0
	}
	n := 0
	for _, span := range m.Spans() {
		if p < span.Start {
			break
		}
		n++
		if p < span.End {
			break
		}
	}
	return n
}

// penTracker is a Drawer recording the current point only.
type penTracker struct {
	pen, start bezier.Point
	drawn      bool
}

func (pt *penTracker) Start(a bezier.Point) { pt.pen, pt.start, pt.drawn = a, a, true }

func (pt *penTracker) Line(b bezier.Point) { pt.pen = b }

func (pt *penTracker) CubeBezier(_, _, d bezier.Point) { pt.pen = d }

func (pt *penTracker) Stop(closeLoop bool) {
	if closeLoop {
		pt.pen = pt.start
	}
}

// PointAt returns the end of the partial path at progress p, that is
// the position of the pen tip. It returns false if nothing is drawn.
func (m Measured) PointAt(p float64) (bezier.Point, bool) {
	var pt penTracker
	Draw(&pt, m, p)
	return pt.pen, pt.drawn
}
