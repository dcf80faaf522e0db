package trace

import (
	"math"
	"slices"
	"time"

	"github.com/sicmundu/cli-trace/easing"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/timeline"
)

// Scene animates several paths together. It is a value: the
// transitions return an updated copy.
type Scene struct {
	Paths   []Measured
	Options Options

	ease easing.Func
	// one timeline with global timing, one per path otherwise
	timelines []timeline.State
}

// NewScene measures the paths and prepares idle timelines.
// Invalid options are normalized.
func NewScene(paths []svgpath.PathData, opts Options) Scene {
	opts = opts.Normalized()
	s := Scene{
		Paths:   make([]Measured, len(paths)),
		Options: opts,
		ease:    opts.Ease(),
	}
	for i, pd := range paths {
		s.Paths[i] = Measure(pd)
	}
	n := 1
	if !opts.GlobalTiming {
		n = max(1, len(paths))
	}
	s.timelines = make([]timeline.State, n)
	for i := range s.timelines {
		s.timelines[i] = opts.Timeline(i)
	}
	return s
}

func (s Scene) mapTimelines(f func(timeline.State) timeline.State) Scene {
	s.timelines = slices.Clone(s.timelines)
	for i, tl := range s.timelines {
		s.timelines[i] = f(tl)
	}
	return s
}

// Start starts every timeline at now.
func (s Scene) Start(now time.Time) Scene {
	return s.mapTimelines(func(tl timeline.State) timeline.State { return tl.Start(now) })
}

// Stop pauses every timeline.
func (s Scene) Stop() Scene {
	return s.mapTimelines(timeline.State.Stop)
}

// Reset puts every timeline back to idle.
func (s Scene) Reset() Scene {
	return s.mapTimelines(timeline.State.Reset)
}

// Update advances every timeline to now.
func (s Scene) Update(now time.Time) Scene {
	return s.mapTimelines(func(tl timeline.State) timeline.State { return tl.Update(now) })
}

// Timelines returns a copy of the timelines.
func (s Scene) Timelines() []timeline.State {
	return slices.Clone(s.timelines)
}

// Timeline returns the timeline driving the path at index i.
func (s Scene) Timeline(i int) timeline.State {
	if i < len(s.timelines) && len(s.timelines) > 1 {
		return s.timelines[i]
	}
	return s.timelines[0]
}

// Progresses returns the eased progress of each path.
func (s Scene) Progresses() []float64 {
	out := make([]float64, len(s.Paths))
	if len(s.timelines) == 0 {
		return out
	}
	for i := range out {
		out[i] = s.Timeline(i).Progress(s.ease)
	}
	return out
}

// CycleProgress returns the eased progress of path i at the fraction u
// of one cycle, ignoring the delay and looping.
func (s Scene) CycleProgress(i int, u float64) float64 {
	if len(s.timelines) == 0 {
		return 0
	}
	tl := s.Timeline(i)
	tl.Loop, tl.Delay = false, 0
	var t0 time.Time
	at := time.Duration(math.Round(u * float64(tl.Duration)))
	return tl.Start(t0).Update(t0.Add(at)).Progress(s.ease)
}

// Samples returns n instants evenly spread from the start of the scene
// to its completion. Looping scenes never complete: the last instant
// is then one step before the end of the first run.
func (s Scene) Samples(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	total := s.Options.TotalDuration(len(s.Paths))
	if n == 1 {
		return []time.Duration{total}
	}
	steps := n - 1
	if s.Options.Loop {
		steps = n
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = total * time.Duration(i) / time.Duration(steps)
	}
	return out
}

// ProgressesAt returns the progress of each path after elapsed time
// since the start, without changing s. It is used by exporters which
// sample the animation at fixed instants.
func (s Scene) ProgressesAt(elapsed time.Duration) []float64 {
	var t0 time.Time
	return s.Start(t0).Update(t0.Add(elapsed)).Progresses()
}

// Done reports whether every timeline completed.
// Looping scenes are never done.
func (s Scene) Done() bool {
	for _, tl := range s.timelines {
		if !tl.IsComplete {
			return false
		}
	}
	return true
}

// Playing reports whether at least one timeline is playing.
func (s Scene) Playing() bool {
	for _, tl := range s.timelines {
		if tl.IsPlaying {
			return true
		}
	}
	return false
}

// Bounds returns the union of the path bounding boxes.
func (s Scene) Bounds() svgpath.Bounds {
	var (
		b    svgpath.Bounds
		seen bool
	)
	for _, m := range s.Paths {
		if len(m.Data.Segments) == 0 {
			continue
		}
		if !seen {
			b, seen = m.Data.Bounds, true
			continue
		}
		b = b.Union(m.Data.Bounds)
	}
	return b
}

// DrawAll draws each path at its progress, with one call to begin
// per path so that drawers may flush between paths.
func DrawAll(d Drawer, paths []Measured, progresses []float64, begin func(i int)) {
	for i, m := range paths {
		if i >= len(progresses) {
			return
		}
		if begin != nil {
			begin(i)
		}
		Draw(d, m, progresses[i])
	}
}
