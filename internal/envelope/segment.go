// Package envelope implements the time-to-amplitude curve model used by
// generators: Segment variants compose into an ADSR Envelope.
//
// The state-machine shape (attack -> decay -> sustain -> release) mirrors
// the envAttack/envDecay/envSustain/envRelease voice state machines in the
// teacher's internal/{fm,chiptune,nesapu,wavetable} engines, generalized
// here into a reusable, block-agnostic segment/envelope pair instead of
// being re-derived inline in every synth engine.
package envelope

import "math"

// Segment is a time-to-amplitude curve over local time in [0, 1].
type Segment interface {
	// At returns the segment's value at local time t. Values of t <= 0
	// return the start value; t >= 1 returns the end value.
	At(t float64) float32
	// Duration returns the segment's length in seconds, or +Inf for a
	// sustain-type segment that holds indefinitely.
	Duration() float64
}

// MapTime normalizes an absolute time into a segment's local [0, 1] time
// given the segment's absolute start time.
func MapTime(segmentStartAbs, nowAbs, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	if math.IsInf(duration, 1) {
		if nowAbs < segmentStartAbs {
			return 0
		}
		return 0 // sustain has no "elapsed" fraction; callers query Duration() separately
	}
	return (nowAbs - segmentStartAbs) / duration
}

// Constant holds a single value for its entire duration (or forever, when
// duration is 0, which this package treats as a sustain-type segment).
type Constant struct {
	Value    float32
	Dur      float64 // 0 means "infinite" (a sustain segment)
}

func (c Constant) At(float64) float32 { return c.Value }

func (c Constant) Duration() float64 {
	if c.Dur <= 0 {
		return math.Inf(1)
	}
	return c.Dur
}

// Linear interpolates from From at t=0 to To at t=1.
type Linear struct {
	From, To float32
	Dur      float64
}

func (l Linear) At(t float64) float32 {
	switch {
	case t <= 0:
		return l.From
	case t >= 1:
		return l.To
	default:
		return l.From + float32(t)*(l.To-l.From)
	}
}

func (l Linear) Duration() float64 { return l.Dur }

// Bezier uses quadratic De Casteljau interpolation with a single control
// point, giving curved attack/decay/release shapes beyond linear ramps.
type Bezier struct {
	From, To, Control float32
	Dur               float64
}

func (b Bezier) At(t float64) float32 {
	switch {
	case t <= 0:
		return b.From
	case t >= 1:
		return b.To
	default:
		u := 1 - t
		tt := t
		// Quadratic Bezier: B(t) = (1-t)^2*P0 + 2(1-t)t*P1 + t^2*P2
		return float32(u*u)*b.From + float32(2*u*tt)*b.Control + float32(tt*tt)*b.To
	}
}

func (b Bezier) Duration() float64 { return b.Dur }

// Function wraps an arbitrary caller-supplied curve, e.g. an LFO or other
// generated shape, optionally bounded by a duration.
type Function struct {
	Fn  func(t float64) float32
	Dur float64 // 0 means infinite (sustain-type)
}

func (f Function) At(t float64) float32 {
	if t <= 0 {
		t = 0
	} else if t >= 1 {
		t = 1
	}
	return f.Fn(t)
}

func (f Function) Duration() float64 {
	if f.Dur <= 0 {
		return math.Inf(1)
	}
	return f.Dur
}
