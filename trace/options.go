package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/sicmundu/cli-trace/easing"
	"github.com/sicmundu/cli-trace/timeline"
)

// ErrInvalidDuration is returned by Options.Validate for non positive durations.
var ErrInvalidDuration = errors.New("duration must be positive")

// Options configures an animation.
type Options struct {
	Duration time.Duration
	// Delay postpones the start of the animation.
	Delay     time.Duration
	Loop      bool
	Easing    easing.Spec
	Direction timeline.Direction
	// StrokeWidth is not used by the timing, only passed to the surfaces.
	StrokeWidth float64
	// GlobalTiming makes all paths share one progress value.
	// Otherwise each path has its own timeline, delayed by Stagger
	// times its index.
	GlobalTiming bool
	Stagger      time.Duration
}

// DefaultOptions returns a two seconds linear animation,
// with all paths sharing the same timeline.
func DefaultOptions() Options {
	return Options{
		Duration:     2 * time.Second,
		Easing:       easing.Named("linear"),
		StrokeWidth:  2,
		GlobalTiming: true,
	}
}

// Validate reports configuration errors, for callers which prefer
// failing to the fallbacks applied by Normalized.
func (o Options) Validate() error {
	if o.Duration <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDuration, o.Duration)
	}
	if o.Delay < 0 {
		return fmt.Errorf("negative delay %s", o.Delay)
	}
	if o.Stagger < 0 {
		return fmt.Errorf("negative stagger %s", o.Stagger)
	}
	if n := len(o.Easing.Bezier); n != 0 && n != 4 {
		return fmt.Errorf("%w: expected 4 cubic-bezier parameters, got %d", easing.ErrMalformedSpec, n)
	}
	if o.StrokeWidth < 0 {
		return fmt.Errorf("negative stroke width %g", o.StrokeWidth)
	}
	return nil
}

// Normalized replaces invalid values by safe defaults, so that the
// animation always completes.
func (o Options) Normalized() Options {
	if o.Duration <= 0 {
		o.Duration = timeline.MinDuration
	}
	o.Delay = max(0, o.Delay)
	o.Stagger = max(0, o.Stagger)
	if n := len(o.Easing.Bezier); n != 0 && n != 4 {
		o.Easing = easing.Named("linear")
	}
	o.StrokeWidth = max(0, o.StrokeWidth)
	return o
}

// Ease returns the easing function.
func (o Options) Ease() easing.Func {
	return o.Easing.Resolve()
}

// Timeline returns the idle timeline of the path at the given index.
// With global timing, the index is ignored.
func (o Options) Timeline(index int) timeline.State {
	delay := o.Delay
	if !o.GlobalTiming {
		delay += time.Duration(index) * o.Stagger
	}
	return timeline.New(o.Duration,
		timeline.WithDelay(delay),
		timeline.WithLoop(o.Loop),
		timeline.WithDirection(o.Direction))
}

// TotalDuration is the time needed for every path to complete once.
func (o Options) TotalDuration(paths int) time.Duration {
	total := o.Delay + o.Duration
	if !o.GlobalTiming && paths > 1 {
		total += time.Duration(paths-1) * o.Stagger
	}
	return total
}
