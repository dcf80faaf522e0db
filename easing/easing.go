// Package easing provides timing curves remapping linear progress
// in [0,1] to animated progress.
package easing

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/sicmundu/cli-trace/internal/logging"
)

// Func maps a linear progress to an eased one.
// Both ends are fixed: f(0) = 0 and f(1) = 1.
type Func func(t float64) float64

// ErrMalformedSpec is returned by ParseSpec for text which is neither
// a known name nor four cubic-bezier parameters.
var ErrMalformedSpec = errors.New("malformed easing")

// Spec selects an easing curve, either by name or by the four
// control parameters of a CSS cubic-bezier. Bezier has precedence
// when not empty.
type Spec struct {
	Name   string
	Bezier []float64
}

// Named returns the spec for a named curve.
func Named(name string) Spec { return Spec{Name: name} }

// Bezier returns the spec of a cubic-bezier curve.
func Bezier(x1, y1, x2, y2 float64) Spec {
	return Spec{Bezier: []float64{x1, y1, x2, y2}}
}

// IsLinear reports whether s resolves to the identity.
func (s Spec) IsLinear() bool {
	if len(s.Bezier) != 0 {
		return len(s.Bezier) != 4
	}
	_, ok := named[s.Name]
	return !ok || s.Name == "linear"
}

// String returns s in CSS syntax when possible.
func (s Spec) String() string {
	if len(s.Bezier) != 0 {
		parts := make([]string, len(s.Bezier))
		for i, v := range s.Bezier {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return "cubic-bezier(" + strings.Join(parts, ", ") + ")"
	}
	if s.Name == "" {
		return "linear"
	}
	return s.Name
}

// Resolve returns the curve described by s. Unknown names and
// parameter lists whose length is not 4 resolve to Linear.
func (s Spec) Resolve() Func {
	if len(s.Bezier) != 0 {
		if len(s.Bezier) != 4 {
			logging.Logger().Warn("cubic-bezier needs 4 parameters, using linear", "count", len(s.Bezier))
			return Linear
		}
		b := s.Bezier
		return CubicBezier(b[0], b[1], b[2], b[3])
	}
	return Lookup(s.Name)
}

// Apply evaluates the curve described by s at t.
func Apply(t float64, s Spec) float64 {
	return s.Resolve()(t)
}

// Lookup returns the named curve, or Linear if name is unknown.
func Lookup(name string) Func {
	if f, ok := named[name]; ok {
		return f
	}
	if name != "" {
		logging.Logger().Debug("unknown easing, using linear", "name", name)
	}
	return Linear
}

// Names returns the sorted list of known easing names.
func Names() []string {
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ParseSpec reads a name, "cubic-bezier(x1, y1, x2, y2)" or
// "x1,y1,x2,y2".
func ParseSpec(text string) (Spec, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Spec{Name: "linear"}, nil
	}
	inner, isFunc := strings.CutPrefix(text, "cubic-bezier(")
	if isFunc {
		var ok bool
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return Spec{}, fmt.Errorf("%w: missing closing parenthesis in %q", ErrMalformedSpec, text)
		}
	} else if !strings.Contains(text, ",") {
		if _, ok := named[text]; !ok {
			return Spec{}, fmt.Errorf("%w: unknown name %q", ErrMalformedSpec, text)
		}
		return Spec{Name: text}, nil
	}

	fields := strings.Split(inner, ",")
	if len(fields) != 4 {
		return Spec{}, fmt.Errorf("%w: expected 4 parameters, got %d", ErrMalformedSpec, len(fields))
	}
	params := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %w", ErrMalformedSpec, err)
		}
		params[i] = v
	}
	return Spec{Bezier: params}, nil
}

// epsilon is the precision on x when solving cubic-bezier curves.
const epsilon = 1e-6

// maxIterations bounds the bisection; 1/2^30 is below epsilon.
const maxIterations = 30

// CubicBezier returns the CSS timing function with control points
// (x1, y1) and (x2, y2). x1 and x2 are clamped to [0,1] so that the
// curve is a function of x.
func CubicBezier(x1, y1, x2, y2 float64) Func {
	x1 = math.Max(0, math.Min(1, x1))
	x2 = math.Max(0, math.Min(1, x2))
	// B(t) = 3(1-t)²t P1 + 3(1-t)t² P2 + t³, starting at (0,0) and ending at (1,1)
	sample := func(p1, p2, t float64) float64 {
		d := 1 - t
		return 3*d*d*t*p1 + 3*d*t*t*p2 + t*t*t
	}
	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		// x(t) is non decreasing on [0,1]
		lo, hi := 0., 1.
		t := x
		for i := 0; i < maxIterations; i++ {
			t = (lo + hi) / 2
			v := sample(x1, x2, t)
			if math.Abs(v-x) < epsilon {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
		}
		return sample(y1, y2, t)
	}
}
