// Package instrument implements the polyphonic voice allocator and the
// fixed-composite drum instruments (spec §4.6).
package instrument

import "github.com/cbegin/graphsynth/internal/generator"

// VoiceState mirrors a composite generator's lifecycle within a voice slot
// (spec §7's Voice state machine: Idle -> Attacking -> Decaying ->
// Sustaining -> Releasing -> Idle). The engine does not track the
// intermediate ADSR stages directly — that's the envelope package's job —
// but exposes Idle vs. sounding for allocation decisions.
type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceSounding
)

// Voice is one note's lifetime: a composite generator plus the note number
// that triggered it, so stop_note can look the voice back up.
type Voice struct {
	Gen        *generator.CompositeGenerator
	Note       int
	active     bool
	age        uint64  // allocation order, for DropOldest/DropNewest
	lastOutput float32 // most recent Tick() sample, for DropQuietest/DropLoudest
}

func (v *Voice) State() VoiceState {
	if v.active {
		return VoiceSounding
	}
	return VoiceIdle
}
