package bezier

import (
	"math"
	"sort"
)

const (
	minLUTSamples = 10
	// upper bound on the table size, so that a huge curve
	// with a fine resolution can't exhaust memory
	maxLUTSamples = 1 << 14
)

// LUTEntry is one sample of a lookup table.
type LUTEntry struct {
	T      float64 // curve parameter
	Point  Point   // Evaluate(curve, T)
	Length float64 // cumulative chord length from the start of the curve
}

// LUT maps arc lengths back to curve parameters.
// It is immutable once built.
type LUT struct {
	Entries     []LUTEntry
	TotalLength float64
}

// BuildLUT samples c with a density of resolution points per unit of
// length. At least 10 samples are always taken, so that degenerate
// curves still give a usable table.
func BuildLUT(c Curve, resolution float64) LUT {
	n := minLUTSamples
	if want := math.Ceil(ArcLength(c, DefaultSamples) * resolution); want > float64(n) {
		n = int(math.Min(want, maxLUTSamples))
	}

	entries := make([]LUTEntry, n+1)
	entries[0] = LUTEntry{T: 0, Point: c.Start()}
	var acc float64
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		pt := Evaluate(c, t)
		acc += entries[i-1].Point.Dist(pt)
		entries[i] = LUTEntry{T: t, Point: pt, Length: acc}
	}
	return LUT{Entries: entries, TotalLength: acc}
}

// LengthToParameter returns the parameter t at which the curve
// reaches the arc length target: 0 for target <= 0, 1 for
// target >= TotalLength, and otherwise a linear interpolation between
// the two samples bracketing target. A NaN target or table gives NaN.
func (l LUT) LengthToParameter(target float64) float64 {
	if math.IsNaN(target) || math.IsNaN(l.TotalLength) {
		return math.NaN()
	}
	if target <= 0 || len(l.Entries) == 0 {
		return 0
	}
	if target >= l.TotalLength {
		return 1
	}
	// first entry with Length >= target; index 0 has Length 0 < target
	i := sort.Search(len(l.Entries), func(i int) bool { return l.Entries[i].Length >= target })
	if i == len(l.Entries) {
		return 1
	}
	lo, hi := l.Entries[i-1], l.Entries[i]
	gap := hi.Length - lo.Length
	if gap == 0 {
		return lo.T
	}
	return lo.T + (hi.T-lo.T)*(target-lo.Length)/gap
}

// PointAtLength returns the point of the curve sampled by l at the
// arc length target, interpolated between the bracketing samples.
// A NaN target or table gives a NaN point.
func (l LUT) PointAtLength(target float64) Point {
	if len(l.Entries) == 0 {
		return Point{}
	}
	if math.IsNaN(target) || math.IsNaN(l.TotalLength) {
		return Point{math.NaN(), math.NaN()}
	}
	if target <= 0 {
		return l.Entries[0].Point
	}
	last := l.Entries[len(l.Entries)-1]
	if target >= l.TotalLength {
		return last.Point
	}
	i := sort.Search(len(l.Entries), func(i int) bool { return l.Entries[i].Length >= target })
	if i == len(l.Entries) {
		return last.Point
	}
	lo, hi := l.Entries[i-1], l.Entries[i]
	gap := hi.Length - lo.Length
	if gap == 0 {
		return lo.Point
	}
	return lo.Point.Lerp(hi.Point, (target-lo.Length)/gap)
}
