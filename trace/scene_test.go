package trace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sicmundu/cli-trace/easing"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func twoPaths() []svgpath.PathData {
	return svgpath.FromStrings([]string{"M 0 0 L 10 0", "M 0 5 L 20 25"}, svgpath.Options{})
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	o := DefaultOptions()
	o.Duration = 0
	assert.ErrorIs(t, o.Validate(), ErrInvalidDuration)

	o = DefaultOptions()
	o.Easing = easing.Spec{Bezier: []float64{1, 2}}
	assert.ErrorIs(t, o.Validate(), easing.ErrMalformedSpec)

	o = DefaultOptions()
	o.Delay = -time.Second
	assert.Error(t, o.Validate())
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Duration: -5, Delay: -1, Stagger: -1, Easing: easing.Spec{Bezier: []float64{1}}, StrokeWidth: -2}
	n := o.Normalized()
	assert.Equal(t, timeline.MinDuration, n.Duration)
	assert.Equal(t, time.Duration(0), n.Delay)
	assert.Equal(t, time.Duration(0), n.Stagger)
	assert.Equal(t, easing.Named("linear"), n.Easing)
	assert.Equal(t, 0., n.StrokeWidth)
	assert.NoError(t, n.Validate())
}

func TestSceneGlobalTiming(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	s := NewScene(twoPaths(), opts)
	require.Len(t, s.Timelines(), 1)

	s = s.Start(t0).Update(t0.Add(ms(400)))
	assert.Equal(t, []float64{0.4, 0.4}, s.Progresses())
	assert.True(t, s.Playing())
	assert.False(t, s.Done())

	s = s.Update(t0.Add(time.Second))
	assert.True(t, s.Done())
	assert.Equal(t, []float64{1, 1}, s.Progresses())

	s = s.Reset()
	assert.False(t, s.Done())
	assert.Equal(t, []float64{0, 0}, s.Progresses())
}

func TestScenePerPathTiming(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	opts.GlobalTiming = false
	opts.Stagger = ms(500)
	s := NewScene(twoPaths(), opts)
	require.Len(t, s.Timelines(), 2)
	assert.Equal(t, ms(1500), opts.TotalDuration(2))

	started := s.Start(t0)
	s = started.Update(t0.Add(ms(750)))
	assert.InDeltaSlice(t, []float64{0.75, 0.25}, s.Progresses(), 1e-12)
	assert.Equal(t, []float64{0, 0}, started.Progresses(), "Update must not modify its receiver")

	s = s.Update(t0.Add(ms(1200)))
	assert.False(t, s.Done())
	s = s.Update(t0.Add(ms(1500)))
	assert.True(t, s.Done())

	assert.InDeltaSlice(t, []float64{1, 0.5}, s.ProgressesAt(ms(1000)), 1e-12)
}

func TestSceneEasing(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	opts.Easing = easing.Named("easeIn")
	s := NewScene(twoPaths(), opts)
	assert.InDeltaSlice(t, []float64{0.25, 0.25}, s.ProgressesAt(ms(500)), 1e-12)
}

func TestSceneBounds(t *testing.T) {
	s := NewScene(twoPaths(), DefaultOptions())
	assert.Equal(t, svgpath.Bounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 25}, s.Bounds())
}

func TestDrawAll(t *testing.T) {
	s := NewScene(twoPaths(), DefaultOptions())
	var (
		out   svgpath.Path
		began []int
	)
	DrawAll(&out, s.Paths, []float64{1, 0.5}, func(i int) { began = append(began, i) })
	assert.Equal(t, []int{0, 1}, began)
	require.Len(t, out, 4)
	assert.InDelta(t, 10, out[3].Points[0].X, 1e-9)
	assert.InDelta(t, 15, out[3].Points[0].Y, 1e-9)
}

type fakeTicker struct{ c chan time.Time }

func (t fakeTicker) C() <-chan time.Time { return t.c }

func (fakeTicker) Stop() {}

// fakeClock delivers the frame times sent on ticks.
type fakeClock struct{ ticks chan time.Time }

func (fakeClock) Now() time.Time { return t0 }

func (c fakeClock) NewTicker(time.Duration) Ticker { return fakeTicker{c.ticks} }

type runResult struct {
	scene Scene
	err   error
}

func TestPlayerRunsToCompletion(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	scene := NewScene(twoPaths(), opts)
	clock := fakeClock{ticks: make(chan time.Time)}

	var frames []Frame
	done := make(chan runResult)
	go func() {
		s, err := NewPlayer(30).Run(context.Background(), clock, scene, func(f Frame) error {
			frames = append(frames, f)
			return nil
		})
		done <- runResult{s, err}
	}()
	// frames are time driven: skipped ticks cause no drift
	for _, n := range []int{100, 900, 1000} {
		clock.ticks <- t0.Add(ms(n))
	}
	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.scene.Done())

	require.Len(t, frames, 4)
	var got []float64
	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		got = append(got, f.Progresses[0])
	}
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.9, 1}, got, 1e-12)
}

func TestPlayerStop(t *testing.T) {
	p := NewPlayer(0)
	assert.Equal(t, time.Second/DefaultFPS, p.Interval())
	p.Stop()
	p.Stop()

	frames := 0
	s, err := p.Run(context.Background(), fakeClock{ticks: make(chan time.Time)}, NewScene(twoPaths(), DefaultOptions()),
		func(Frame) error { frames++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, frames)
	assert.False(t, s.Playing())
}

func TestPlayerStopWithPendingTicks(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	for run := 0; run < 50; run++ {
		ticks := make(chan time.Time, 4)
		for n := 1; n <= 4; n++ {
			ticks <- t0.Add(ms(100 * n))
		}
		p := NewPlayer(10)
		var frames []int
		_, err := p.Run(context.Background(), fakeClock{ticks: ticks}, NewScene(twoPaths(), opts), func(f Frame) error {
			frames = append(frames, f.Index)
			if f.Index == 1 {
				p.Stop()
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{0, 1}, frames, "run %d", run)
	}
}

func TestPlayerCancel(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	ctx, cancel := context.WithCancel(context.Background())
	clock := fakeClock{ticks: make(chan time.Time)}

	done := make(chan runResult)
	go func() {
		s, err := NewPlayer(10).Run(ctx, clock, NewScene(twoPaths(), opts), func(Frame) error { return nil })
		done <- runResult{s, err}
	}()
	// a looping scene never completes
	for n := 1; n <= 5; n++ {
		clock.ticks <- t0.Add(time.Duration(n) * opts.Duration)
	}
	cancel()
	res := <-done
	assert.ErrorIs(t, res.err, context.Canceled)
	assert.Equal(t, 5, res.scene.Timelines()[0].LoopCount)
}

func TestPlayerRenderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewPlayer(10).Run(context.Background(), fakeClock{}, NewScene(twoPaths(), DefaultOptions()),
		func(Frame) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSceneSamples(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	s := NewScene(twoPaths(), opts)
	assert.Nil(t, s.Samples(0))
	assert.Equal(t, []time.Duration{time.Second}, s.Samples(1))
	assert.Equal(t, []time.Duration{0, ms(500), time.Second}, s.Samples(3))

	opts.Loop = true
	s = NewScene(twoPaths(), opts)
	assert.Equal(t, []time.Duration{0, ms(250), ms(500), ms(750)}, s.Samples(4))
}

func TestSceneCycleProgress(t *testing.T) {
	opts := DefaultOptions()
	opts.Duration = time.Second
	opts.Delay = time.Second
	opts.Loop = true
	opts.Direction = timeline.Yoyo
	s := NewScene(twoPaths(), opts)
	assert.Equal(t, 0., s.CycleProgress(0, 0))
	assert.InDelta(t, 0.5, s.CycleProgress(0, 0.25), 1e-12)
	assert.InDelta(t, 1, s.CycleProgress(1, 0.5), 1e-12)
	assert.InDelta(t, 0.5, s.CycleProgress(1, 0.75), 1e-12)
	assert.InDelta(t, 0, s.CycleProgress(0, 1), 1e-12)
}
