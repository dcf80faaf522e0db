package svgpath

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sicmundu/cli-trace/bezier"
)

func TestAddRect(t *testing.T) {
	var p Path
	p.AddRect(1, 2, 10, 5, 0, 0)
	diff(t, []Command{MoveTo, LineTo, LineTo, LineTo, Close}, commands(p))
	diff(t, Bounds{1, 2, 11, 7}, ComputeBounds(p))
	if l := ApproxLength(p); l != 25 {
		t.Errorf("expected 25, got %g", l)
	}
}

func TestAddRoundRect(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 20, 10, 2, 2)
	diff(t, Bounds{0, 0, 20, 10}, TightBounds(p), cmpopts.EquateApprox(0, 1e-4))
	// radii larger than half the size are reduced
	p.Clear()
	p.AddRect(0, 0, 20, 10, 50, 50)
	diff(t, Bounds{0, 0, 20, 10}, TightBounds(p), cmpopts.EquateApprox(0, 1e-4))
}

func TestAddEllipse(t *testing.T) {
	var p Path
	p.AddEllipse(10, 10, 5, 5)
	checkOnCircle(t, p, bezier.Pt(10, 10), 5)
	diff(t, Bounds{5, 5, 15, 15}, TightBounds(p), cmpopts.EquateApprox(0, 1e-4))
	if seg := p[len(p)-1]; seg.Command != Close {
		t.Errorf("ellipse should be closed, got %s", seg.Command)
	}

	p.Clear()
	p.AddEllipse(0, 0, 0, 3)
	if len(p) != 0 {
		t.Errorf("expected nothing for a zero radius, got %s", p)
	}
}

func TestAddPolyline(t *testing.T) {
	var p Path
	pts := []bezier.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
	p.AddPolyline(pts, false)
	diff(t, []Command{MoveTo, LineTo, LineTo}, commands(p))
	p.Clear()
	p.AddPolyline(pts, true)
	diff(t, []Command{MoveTo, LineTo, LineTo, Close}, commands(p))
}
