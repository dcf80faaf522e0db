package svgpath

import (
	"math"

	"github.com/sicmundu/cli-trace/bezier"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// AddRect adds a rectangle, with rounded corners of radius
// rx in the x axis and ry in the y axis when both are positive.
func (p *Path) AddRect(x, y, w, h, rx, ry float64) {
	minX, minY, maxX, maxY := x, y, x+w, y+h
	if rx <= 0 || ry <= 0 {
		p.Start(bezier.Pt(minX, minY))
		p.Line(bezier.Pt(maxX, minY))
		p.Line(bezier.Pt(maxX, maxY))
		p.Line(bezier.Pt(minX, maxY))
		p.Stop(true)
		return
	}
	rx, ry = min(rx, w/2), min(ry, h/2)

	p.Start(bezier.Pt(minX+rx, minY))
	p.Line(bezier.Pt(maxX-rx, minY))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(maxX, minY+ry))
	p.Line(bezier.Pt(maxX, maxY-ry))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(maxX-rx, maxY))
	p.Line(bezier.Pt(minX+rx, maxY))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(minX, maxY-ry))
	p.Line(bezier.Pt(minX, minY+ry))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(minX+rx, minY))
	p.Stop(true)
}

// AddEllipse adds a full ellipse, starting at its rightmost point and
// turning in the positive angle direction.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	p.Start(bezier.Pt(cx+rx, cy))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(cx-rx, cy))
	p.arcTo(p.pen(), rx, ry, 0, false, true, bezier.Pt(cx+rx, cy))
	p.Stop(true)
}

// AddPolyline adds straight lines through the given points,
// closing the loop if closed is true.
func (p *Path) AddPolyline(points []bezier.Point, closed bool) {
	if len(points) == 0 {
		return
	}
	p.Start(points[0])
	for _, pt := range points[1:] {
		p.Line(pt)
	}
	p.Stop(closed)
}

// arcTo adds the elliptical arc from `from` to `to`, given in the
// endpoint parametrization of the SVG 'A' command, with rot in degrees.
func (p *Path) arcTo(from bezier.Point, rx, ry, rot float64, largeArc, sweep bool, to bezier.Point) {
	if from == to {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.Line(to)
		return
	}
	rotX := rot * math.Pi / 180 // Convert degress to radians
	cx, cy := findEllipseCenter(&rx, &ry, rotX, from.X, from.Y, to.X, to.Y, !sweep, !largeArc)
	p.addArc(rx, ry, rotX, largeArc, sweep, to, cx, cy, from)
}

// addArc approximates the arc of center (cx, cy) from `from` to `to`
// with cubic Bézier curves.
func (p *Path) addArc(rx, ry, rotX float64, largeArc, sweep bool, to bezier.Point, cx, cy float64, from bezier.Point) {
	startAngle := math.Atan2(from.Y-cy, from.X-cx) - rotX
	endAngle := math.Atan2(to.Y-cy, to.X-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezeir splines
	etaStart := math.Atan2(math.Sin(startAngle)/ry, math.Cos(startAngle)/rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/ry, math.Cos(endAngle)/rx)
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the elipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	last := from
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ld := ellipsePrime(rx, ry, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var pt bezier.Point
		if i == segs {
			pt = to // Just makes the end point exact; no roundoff error
		} else {
			pt = ellipsePointAt(rx, ry, sinTheta, cosTheta, eta, cx, cy)
		}
		d := ellipsePrime(rx, ry, sinTheta, cosTheta, eta)
		p.CubeBezier(last.Add(ld.Mul(alpha)), pt.Sub(d.Mul(alpha)), pt)
		last, ld = pt, d
	}
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) bezier.Point {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	return bezier.Pt(-aSinEta*cosTheta-bCosEta*sinTheta, -aSinEta*sinTheta+bCosEta*cosTheta)
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) bezier.Point {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	return bezier.Pt(cx+aCosEta*cosTheta-bSinEta*sinTheta, cy+aCosEta*sinTheta+bSinEta*cosTheta)
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if sweep == smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
