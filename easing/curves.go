package easing

import "math"

// Linear is the identity.
func Linear(t float64) float64 { return t }

func easeIn(t float64) float64 { return t * t }

func easeOut(t float64) float64 { return t * (2 - t) }

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func easeInCubic(t float64) float64 { return t * t * t }

func easeOutCubic(t float64) float64 {
	t2 := 1 - t
	return 1 - t2*t2*t2
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	t2 := -2*t + 2
	return 1 - t2*t2*t2/2
}

func easeInQuart(t float64) float64 { return t * t * t * t }

func easeOutQuart(t float64) float64 {
	t2 := 1 - t
	return 1 - t2*t2*t2*t2
}

func easeInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	t2 := -2*t + 2
	return 1 - t2*t2*t2*t2/2
}

func easeInSine(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

func easeOutSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

func easeInOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

const (
	backC1 = 1.70158
	backC2 = backC1 * 1.525
	backC3 = backC1 + 1
)

func easeInBack(t float64) float64 {
	return backC3*t*t*t - backC1*t*t
}

func easeOutBack(t float64) float64 {
	t2 := t - 1
	return 1 + backC3*t2*t2*t2 + backC1*t2*t2
}

func easeInOutBack(t float64) float64 {
	if t < 0.5 {
		return (math.Pow(2*t, 2) * ((backC2+1)*2*t - backC2)) / 2
	}
	return (math.Pow(2*t-2, 2)*((backC2+1)*(t*2-2)+backC2) + 2) / 2
}

func easeOutElastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	c4 := (2 * math.Pi) / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

func easeOutBounce(t float64) float64 {
	n1 := 7.5625
	d1 := 2.75
	if t < 1/d1 {
		return n1 * t * t
	} else if t < 2/d1 {
		t -= 1.5 / d1
		return n1*t*t + 0.75
	} else if t < 2.5/d1 {
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	} else {
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// named is the table of curves selectable by name. The CSS keywords
// are the presets of the cubic-bezier timing function.
var named = map[string]Func{
	"linear":         Linear,
	"easeIn":         easeIn,
	"easeOut":        easeOut,
	"easeInOut":      easeInOut,
	"easeInCubic":    easeInCubic,
	"easeOutCubic":   easeOutCubic,
	"easeInOutCubic": easeInOutCubic,
	"easeInQuart":    easeInQuart,
	"easeOutQuart":   easeOutQuart,
	"easeInOutQuart": easeInOutQuart,
	"easeInSine":     easeInSine,
	"easeOutSine":    easeOutSine,
	"easeInOutSine":  easeInOutSine,
	"easeInBack":     easeInBack,
	"easeOutBack":    easeOutBack,
	"easeInOutBack":  easeInOutBack,
	"easeOutElastic": easeOutElastic,
	"easeOutBounce":  easeOutBounce,

	"ease":        CubicBezier(0.25, 0.1, 0.25, 1),
	"ease-in":     CubicBezier(0.42, 0, 1, 1),
	"ease-out":    CubicBezier(0, 0, 0.58, 1),
	"ease-in-out": CubicBezier(0.42, 0, 0.58, 1),
}
