package svgpath

import (
	"github.com/sicmundu/cli-trace/bezier"
	"github.com/sicmundu/cli-trace/internal/logging"
)

// ArcMode selects how elliptical arc commands are converted.
type ArcMode uint8

const (
	// ArcAsLine replaces an arc by a straight line to its end point.
	ArcAsLine ArcMode = iota
	// ArcAsCurves approximates the arc with cubic Bézier curves.
	ArcAsCurves
)

func (m ArcMode) String() string {
	switch m {
	case ArcAsLine:
		return "line"
	case ArcAsCurves:
		return "curves"
	default:
		return "<unknown ArcMode>"
	}
}

// Options tunes the parser.
type Options struct {
	Arcs ArcMode
}

// cursor is the parser state threaded through the token fold.
type cursor struct {
	path        Path
	current     bezier.Point
	lastControl bezier.Point
	hasControl  bool // lastControl is valid
}

func (c cursor) reflected() bezier.Point {
	if !c.hasControl {
		return c.current
	}
	return c.lastControl.Reflect(c.current)
}

// at resolves a coordinate pair, relative to the current point if rel is true.
func (c cursor) at(rel bool, x, y float64) bezier.Point {
	if rel {
		return bezier.Pt(c.current.X+x, c.current.Y+y)
	}
	return bezier.Pt(x, y)
}

// step applies one coordinate group of a command.
func (c cursor) step(cmd byte, rel bool, a []float64, opts Options) cursor {
	switch cmd {
	case 'M':
		c.current = c.at(rel, a[0], a[1])
		c.path.Start(c.current)
		c.hasControl = false
	case 'L':
		c.current = c.at(rel, a[0], a[1])
		c.path.Line(c.current)
		c.hasControl = false
	case 'H':
		x := a[0]
		if rel {
			x += c.current.X
		}
		c.current = bezier.Pt(x, c.current.Y)
		c.path.Line(c.current)
		c.hasControl = false
	case 'V':
		y := a[0]
		if rel {
			y += c.current.Y
		}
		c.current = bezier.Pt(c.current.X, y)
		c.path.Line(c.current)
		c.hasControl = false
	case 'C':
		c1, c2, end := c.at(rel, a[0], a[1]), c.at(rel, a[2], a[3]), c.at(rel, a[4], a[5])
		c.path.CubeBezier(c1, c2, end)
		c.current, c.lastControl, c.hasControl = end, c2, true
	case 'S':
		c1 := c.reflected()
		c2, end := c.at(rel, a[0], a[1]), c.at(rel, a[2], a[3])
		c.path.CubeBezier(c1, c2, end)
		c.current, c.lastControl, c.hasControl = end, c2, true
	case 'Q':
		ctrl, end := c.at(rel, a[0], a[1]), c.at(rel, a[2], a[3])
		c.path.QuadBezier(ctrl, end)
		c.current, c.lastControl, c.hasControl = end, ctrl, true
	case 'T':
		ctrl := c.reflected()
		end := c.at(rel, a[0], a[1])
		c.path.QuadBezier(ctrl, end)
		c.current, c.lastControl, c.hasControl = end, ctrl, true
	case 'A':
		end := c.at(rel, a[5], a[6])
		if opts.Arcs == ArcAsCurves {
			c.path.arcTo(c.current, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end)
		} else {
			c.path.Line(end)
		}
		c.current = end
		c.hasControl = false
	}
	return c
}

// apply folds one token into the cursor, expanding implicit repetitions.
func (c cursor) apply(tok Token, opts Options) cursor {
	cmd := upper(tok.Command)
	rel := tok.Command != cmd
	if cmd == 'Z' {
		if len(tok.Args) > 0 {
			logging.Logger().Warn("ignoring arguments after close command", "count", len(tok.Args))
		}
		c.path.Stop(true)
		c.hasControl = false
		return c
	}

	n := argCount[cmd]
	groups := len(tok.Args) / n
	if rest := len(tok.Args) % n; rest != 0 || groups == 0 {
		logging.Logger().Warn("dropping incomplete coordinate group",
			"command", string(tok.Command), "expected", n, "remaining", rest)
	}
	for g := 0; g < groups; g++ {
		step := cmd
		if cmd == 'M' && g > 0 {
			// extra pairs after a move are lines
			step = 'L'
		}
		c = c.step(step, rel, tok.Args[g*n:(g+1)*n], opts)
	}
	return c
}

// ParseSegments converts path data to a Path, without normalization.
// Curves keep the kind given in the source.
func ParseSegments(d string, opts Options) Path {
	var c cursor
	for _, tok := range Tokenize(d) {
		c = c.apply(tok, opts)
	}
	return c.path
}

// Parse is a shortcut for ParseWith with default options.
func Parse(d string) PathData {
	return ParseWith(d, Options{})
}

// ParseWith parses the path data string d, rewrites quadratic curves
// as cubic ones, and computes the bounding box and approximate length.
// Malformed input is never an error: the result for an empty or
// meaningless string has no segments.
func ParseWith(d string, opts Options) PathData {
	return NewPathData(ParseSegments(d, opts))
}

// FromStrings parses each path data string.
func FromStrings(ds []string, opts Options) []PathData {
	out := make([]PathData, len(ds))
	for i, d := range ds {
		out[i] = ParseWith(d, opts)
	}
	return out
}
