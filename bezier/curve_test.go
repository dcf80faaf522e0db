package bezier

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

var testCurves = []Curve{
	NewCubic(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)),
	NewCubic(Pt(-3.5, 7.25), Pt(100, -20), Pt(0.1, 0.3), Pt(42, 42)),
	NewCubic(Pt(1, 1), Pt(1, 1), Pt(1, 1), Pt(1, 1)),
	NewQuadratic(Pt(0, 0), Pt(5, 10), Pt(10, 0)),
	NewQuadratic(Pt(0.3, 0.1), Pt(-7, 2), Pt(1e3, -1e3)),
}

func TestEvaluateEndpoints(t *testing.T) {
	for _, c := range testCurves {
		if got := Evaluate(c, 0); got != c.Start() {
			t.Errorf("%v: Evaluate(0) = %v, want %v", c, got, c.Start())
		}
		if got := Evaluate(c, 1); got != c.End() {
			t.Errorf("%v: Evaluate(1) = %v, want %v", c, got, c.End())
		}
		// out of range parameters are clamped
		if got := Evaluate(c, -2); got != c.Start() {
			t.Errorf("%v: Evaluate(-2) = %v", c, got)
		}
		if got := Evaluate(c, 7); got != c.End() {
			t.Errorf("%v: Evaluate(7) = %v", c, got)
		}
	}
}

func TestEvaluateMidpoint(t *testing.T) {
	c := NewCubic(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0))
	diff(t, Pt(5, 7.5), Evaluate(c, 0.5), approx)

	q := NewQuadratic(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	diff(t, Pt(5, 5), Evaluate(q, 0.5), approx)
}

func TestEvaluateNaN(t *testing.T) {
	c := NewCubic(Pt(0, 0), Pt(math.NaN(), 0), Pt(1, 1), Pt(2, 2))
	if p := Evaluate(c, 0.5); !p.IsNaN() {
		t.Errorf("expected NaN to propagate, got %v", p)
	}
}

func TestArcLengthLine(t *testing.T) {
	// a cubic with controls on the chord is a straight segment
	c := NewCubic(Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0))
	if l := ArcLength(c, DefaultSamples); math.Abs(l-3) > 1e-12 {
		t.Errorf("expected 3, got %g", l)
	}
	if l := ArcLength(c, 0); math.Abs(l-3) > 1e-12 {
		t.Errorf("default samples: expected 3, got %g", l)
	}
}

func TestArcLengthConverges(t *testing.T) {
	for _, c := range testCurves {
		prev := 0.
		for samples := 5; samples <= 5*1024; samples *= 2 {
			l := ArcLength(c, samples)
			if l < prev-1e-9 {
				t.Errorf("%v: length decreased from %g to %g at %d samples", c, prev, l, samples)
			}
			prev = l
		}
		fine := ArcLength(c, 1<<15)
		if math.Abs(fine-prev) > 1e-3*math.Max(1, fine) {
			t.Errorf("%v: no convergence, %g vs %g", c, prev, fine)
		}
	}
}

func TestToCubic(t *testing.T) {
	q := NewQuadratic(Pt(0, 0), Pt(3, 6), Pt(6, 0))
	c := q.ToCubic()
	diff(t, NewCubic(Pt(0, 0), Pt(2, 4), Pt(4, 4), Pt(6, 0)), c, approx)
	for _, tt := range []float64{0.1, 0.25, 0.5, 0.8} {
		diff(t, Evaluate(q, tt), Evaluate(c, tt), approx)
	}
	if c.ToCubic() != c {
		t.Error("ToCubic should be the identity on cubics")
	}
}

func TestSplitCubic(t *testing.T) {
	for _, c := range testCurves {
		for _, at := range []float64{0, 0.3, 0.5, 0.9, 1} {
			left, right := SplitCubic(c, at)
			if left.Start() != c.Start() || right.End() != c.End() {
				t.Errorf("%v: split at %g does not keep end points", c, at)
			}
			if left.End() != right.Start() {
				t.Errorf("%v: split halves are disjoint", c)
			}
			diff(t, Evaluate(c, at), left.End(), cmpopts.EquateApprox(0, 1e-9))
			// the halves reparametrize the original curve
			for _, s := range []float64{0.2, 0.6} {
				diff(t, Evaluate(c, s*at), Evaluate(left, s), cmpopts.EquateApprox(0, 1e-7))
				diff(t, Evaluate(c, at+s*(1-at)), Evaluate(right, s), cmpopts.EquateApprox(0, 1e-7))
			}
		}
	}
}

func TestBounds(t *testing.T) {
	c := NewCubic(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0))
	diff(t, Rect{Min: Pt(0, 0), Max: Pt(10, 10)}, c.HullBounds())
	diff(t, Rect{Min: Pt(0, 0), Max: Pt(10, 7.5)}, c.TightBounds(), approx)

	q := NewQuadratic(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	diff(t, Rect{Min: Pt(0, 0), Max: Pt(10, 5)}, q.TightBounds(), approx)
}
