package envelope

// Envelope is the generic time+release-relative modulator contract that
// generators consume: ADSR is the canonical implementation, but a generator's
// pitch envelope may be any other Envelope (e.g. one driven by an LFO
// Function segment).
type Envelope interface {
	At(time, noteOffTime float64) float32
	Completed(time, noteOffTime float64) bool
}

// ADSR composes four segments into the canonical attack/decay/sustain/release
// envelope described in spec §4.1.
//
// Contract of At(time, noteOffTime):
//   - note held (noteOffTime <= 0): attack while in attack, then decay, then
//     sustain evaluated at (time - attack.Duration - decay.Duration).
//   - note released (noteOffTime > 0): behaves as above before note-off, then
//     switches to release. Release-local time is (time - noteOffTime);
//     outside the release segment's duration the value is 0.
type ADSR struct {
	Attack  Segment
	Decay   Segment
	Sustain Segment
	Release Segment
}

// At returns the envelope's value at absolute time, given the absolute time
// the note was released (0 or negative if still held).
func (e ADSR) At(time, noteOffTime float64) float32 {
	attackEnd := e.Attack.Duration()
	decayEnd := attackEnd + e.Decay.Duration()

	heldValue := func(t float64) float32 {
		switch {
		case t < attackEnd:
			return e.Attack.At(localTime(t, 0, e.Attack.Duration()))
		case t < decayEnd:
			return e.Decay.At(localTime(t, attackEnd, e.Decay.Duration()))
		default:
			return e.Sustain.At(localTime(t-decayEnd, 0, e.Sustain.Duration()))
		}
	}

	if noteOffTime <= 0 {
		return heldValue(time)
	}

	if time < noteOffTime {
		return heldValue(time)
	}

	relDur := e.Release.Duration()
	relLocal := time - noteOffTime
	if relDur > 0 && relLocal >= relDur {
		return 0
	}
	return e.Release.At(localTime(relLocal, 0, relDur))
}

// Completed reports whether the envelope has fully decayed to silence: the
// note must have been released and enough time must have passed to clear the
// release segment. Completed implies At returns 0 thereafter.
func (e ADSR) Completed(time, noteOffTime float64) bool {
	if noteOffTime <= 0 {
		return false
	}
	return time-noteOffTime >= e.Release.Duration()
}

func localTime(t, start, dur float64) float64 {
	if dur <= 0 {
		return 0
	}
	v := (t - start) / dur
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
