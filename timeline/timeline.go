// Package timeline maps wall clock time to animation progress.
//
// A State is a plain value: every transition returns a new State and
// leaves the receiver untouched, so that the animation loop is the only
// owner of the current state.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sicmundu/cli-trace/easing"
)

// Direction controls how progress runs over one cycle.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
	// Yoyo goes to the end and back within one cycle.
	Yoyo
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Yoyo:
		return "yoyo"
	default:
		return fmt.Sprintf("<unknown Direction %d>", d)
	}
}

// ErrUnknownDirection is returned by ParseDirection.
var ErrUnknownDirection = errors.New("unknown direction")

// ParseDirection reads a direction name. The empty string is Forward.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	case "yoyo":
		return Yoyo, nil
	}
	return Forward, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Phase is the state of the machine.
type Phase uint8

const (
	Idle Phase = iota
	Playing
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("<unknown Phase %d>", p)
	}
}

// MinDuration is used in place of non positive durations.
const MinDuration = time.Millisecond

// Infinite is the remaining time of a looping timeline.
const Infinite = time.Duration(math.MaxInt64)

// State is the timing state of one animation.
type State struct {
	StartTime   time.Time
	CurrentTime time.Time
	Duration    time.Duration
	// Delay postpones the beginning of playback after StartTime.
	Delay      time.Duration
	Loop       bool
	Direction  Direction
	IsPlaying  bool
	IsComplete bool
	LoopCount  int
}

// Option customizes a new State.
type Option func(*State)

func WithDelay(d time.Duration) Option {
	return func(s *State) { s.Delay = max(0, d) }
}

func WithLoop(loop bool) Option {
	return func(s *State) { s.Loop = loop }
}

func WithDirection(d Direction) Option {
	return func(s *State) { s.Direction = d }
}

// New returns an idle timeline. A non positive duration is replaced
// by MinDuration, so that every animation completes.
func New(duration time.Duration, opts ...Option) State {
	if duration <= 0 {
		duration = MinDuration
	}
	s := State{Duration: duration}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Phase returns the current phase.
func (s State) Phase() Phase {
	switch {
	case s.IsComplete:
		return Completed
	case s.IsPlaying:
		return Playing
	default:
		return Idle
	}
}

// Start begins playback at now.
func (s State) Start(now time.Time) State {
	s.StartTime, s.CurrentTime = now, now
	s.IsPlaying = true
	s.IsComplete = false
	s.LoopCount = 0
	return s
}

// Stop pauses playback, keeping the rest of the state.
func (s State) Stop() State {
	s.IsPlaying = false
	return s
}

// Reset goes back to idle, at the beginning of the animation.
func (s State) Reset() State {
	s.CurrentTime = s.StartTime
	s.IsPlaying = false
	s.IsComplete = false
	s.LoopCount = 0
	return s
}

// Update advances the clock to now. It is a no-op when not playing.
// A non looping timeline completes once the whole duration elapsed.
func (s State) Update(now time.Time) State {
	if !s.IsPlaying {
		return s
	}
	s.CurrentTime = now
	elapsed := s.Elapsed()
	if s.Loop {
		if elapsed > 0 {
			s.LoopCount = int(elapsed / s.Duration)
		}
		return s
	}
	if elapsed >= s.Duration {
		s.IsComplete = true
		s.IsPlaying = false
	}
	return s
}

// Elapsed returns the playback time, which is negative during the delay.
func (s State) Elapsed() time.Duration {
	return s.CurrentTime.Sub(s.StartTime) - s.Delay
}

// linearProgress is the fraction of the current cycle.
func (s State) linearProgress() float64 {
	elapsed := s.Elapsed()
	if elapsed <= 0 {
		return 0
	}
	if s.Loop {
		return float64(elapsed%s.Duration) / float64(s.Duration)
	}
	return math.Min(float64(elapsed)/float64(s.Duration), 1)
}

// RawProgress returns the progress in [0,1] after the direction is
// applied, before easing.
//
// Yoyo maps a run to 2p up to the middle and 2-2p after it. A run that
// does not loop ends back at 0, not at the clamped value of 2p at
// p = 1, so that the drawing is erased once the animation completes.
func (s State) RawProgress() float64 {
	p := s.linearProgress()
	switch s.Direction {
	case Reverse:
		p = 1 - p
	case Yoyo:
		// a completed run is back at the start
		if p >= 1 {
			return 0
		}
		if cycle := int(math.Floor(p * 2)); cycle%2 == 0 {
			p = p * 2
		} else {
			p = 2 - p*2
		}
	}
	return math.Max(0, math.Min(1, p))
}

// Progress returns RawProgress passed through ease, which may be nil.
func (s State) Progress(ease easing.Func) float64 {
	p := s.RawProgress()
	if ease == nil {
		return p
	}
	return ease(p)
}

// IsAtStart reports whether playback has not begun yet.
func (s State) IsAtStart() bool { return s.Elapsed() <= 0 }

// IsAtEnd is always false for looping timelines.
func (s State) IsAtEnd() bool {
	return !s.Loop && s.Elapsed() >= s.Duration
}

// Remaining returns the time left before completion, or Infinite
// for looping timelines.
func (s State) Remaining() time.Duration {
	if s.Loop {
		return Infinite
	}
	return max(0, s.Duration-s.Elapsed())
}

// Tick advances s to now and returns the new state with its eased progress.
func Tick(s State, now time.Time, ease easing.Func) (State, float64) {
	s = s.Update(now)
	return s, s.Progress(ease)
}
