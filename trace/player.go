package trace

import (
	"context"
	"sync"
	"time"

	"github.com/sicmundu/cli-trace/internal/logging"
)

// Ticker delivers frame times.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock abstracts the host scheduler driving the animation.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// TickerClock is the real time Clock, backed by time.Ticker.
type TickerClock struct{}

type stdTicker struct{ *time.Ticker }

func (t stdTicker) C() <-chan time.Time { return t.Ticker.C }

func (TickerClock) Now() time.Time { return time.Now() }

func (TickerClock) NewTicker(d time.Duration) Ticker { return stdTicker{time.NewTicker(d)} }

// Frame is passed to the render callback.
type Frame struct {
	Index      int
	Time       time.Time
	Scene      Scene
	Progresses []float64
}

// FrameFunc renders one frame. A non nil error stops the animation.
type FrameFunc func(Frame) error

// DefaultFPS is the frame rate used when none is given.
const DefaultFPS = 60

// Player runs the animation loop of a Scene.
type Player struct {
	fps      int
	stop     chan struct{}
	stopOnce sync.Once
}

// NewPlayer returns a player targeting fps frames per second.
// The rate is advisory: progress is derived from the clock, so slow
// frames are skipped, not delayed.
func NewPlayer(fps int) *Player {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Player{fps: fps, stop: make(chan struct{})}
}

// Stop requests the end of Run. The frame being rendered, if any,
// completes but no other frame is produced. It is safe to call Stop
// several times, from any goroutine.
func (p *Player) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Interval returns the time between two frames.
func (p *Player) Interval() time.Duration {
	return time.Second / time.Duration(p.fps)
}

// Run starts the scene and renders frames until it completes, Stop is
// called, ctx is done or render fails. It returns the last scene state,
// and ctx.Err() on cancellation.
func (p *Player) Run(ctx context.Context, clock Clock, scene Scene, render FrameFunc) (Scene, error) {
	log := logging.Logger()
	now := clock.Now()
	scene = scene.Start(now)
	log.Info("animation started", "paths", len(scene.Paths), "fps", p.fps,
		"duration", scene.Options.Duration, "loop", scene.Options.Loop)

	frame := 0
	emit := func(t time.Time) error {
		err := render(Frame{Index: frame, Time: t, Scene: scene, Progresses: scene.Progresses()})
		frame++
		return err
	}
	if err := emit(now); err != nil {
		return scene.Stop(), err
	}

	ticker := clock.NewTicker(p.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("animation cancelled", "frames", frame)
			return scene.Stop(), ctx.Err()
		case <-p.stop:
			log.Debug("animation stopped", "frames", frame)
			return scene.Stop(), nil
		case t := <-ticker.C():
			// a tick may be ready together with a stop request
			select {
			case <-ctx.Done():
				log.Debug("animation cancelled", "frames", frame)
				return scene.Stop(), ctx.Err()
			case <-p.stop:
				log.Debug("animation stopped", "frames", frame)
				return scene.Stop(), nil
			default:
			}
			scene = scene.Update(t)
			if err := emit(t); err != nil {
				return scene.Stop(), err
			}
			if scene.Done() {
				log.Info("animation completed", "frames", frame)
				return scene, nil
			}
		}
	}
}
