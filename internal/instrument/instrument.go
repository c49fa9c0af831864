package instrument

import (
	"math/rand"

	"github.com/cbegin/graphsynth/internal/generator"
)

// DropPolicy selects which active voice to evict when start_note arrives
// with no inactive voice available (spec §4.6).
type DropPolicy int

const (
	DropOldest DropPolicy = iota
	DropNewest
	DropQuietest
	DropLoudest
	DropRandom
)

// VoiceFactory builds a fresh composite generator for a newly allocated
// voice, independent of any other voice's internal state.
type VoiceFactory func() *generator.CompositeGenerator

// Instrument is a polyphonic allocator of V composite generators mapped to
// musical notes (spec §4.6). start_note finds an inactive voice or evicts
// one per Policy; stop_note releases the voice owning a note; tick mixes
// every active voice's output.
type Instrument struct {
	voices  []Voice
	factory VoiceFactory
	policy  DropPolicy
	noteIdx map[int]int // note -> voice index, for stop_note lookup
	clock   uint64
	rng     *rand.Rand
}

// NewInstrument creates a polyphonic instrument with v voices, each built
// by factory, evicting per policy when all voices are busy.
func NewInstrument(v int, factory VoiceFactory, policy DropPolicy) *Instrument {
	voices := make([]Voice, v)
	for i := range voices {
		voices[i].Gen = factory()
	}
	return &Instrument{
		voices:  voices,
		factory: factory,
		policy:  policy,
		noteIdx: make(map[int]int),
		rng:     rand.New(rand.NewSource(1)),
	}
}

// StartNote allocates a voice for note (finding an inactive one, or
// evicting per Policy), sets its base frequency from 12-TET A4=440, and
// starts it.
func (ins *Instrument) StartNote(note int, velocity float64) {
	slot := ins.allocate()
	v := &ins.voices[slot]
	if existingNote, ok := ins.reverseLookup(slot); ok {
		delete(ins.noteIdx, existingNote)
	}

	freq := generator.NoteToFrequency(note)
	v.Gen = ins.factory()
	v.Gen.SetBaseFrequency(freq)
	v.Note = note
	v.active = true
	v.lastOutput = 0
	ins.clock++
	v.age = ins.clock
	v.Gen.Start()

	ins.noteIdx[note] = slot
}

func (ins *Instrument) reverseLookup(slot int) (int, bool) {
	for note, idx := range ins.noteIdx {
		if idx == slot {
			return note, true
		}
	}
	return 0, false
}

// StopNote releases the voice currently bound to note, initiating its
// release stage; the voice stays active until its composite generator
// reports Completed.
func (ins *Instrument) StopNote(note int) {
	slot, ok := ins.noteIdx[note]
	if !ok {
		return
	}
	ins.voices[slot].Gen.Stop()
	delete(ins.noteIdx, note)
}

// Tick advances every active voice by dt and returns the mixed output:
// the sum of active outputs divided by the voice count (spec §4.6).
func (ins *Instrument) Tick(dt float64) float32 {
	var sum float32
	for i := range ins.voices {
		v := &ins.voices[i]
		if !v.active {
			continue
		}
		s := v.Gen.Tick(dt)
		v.lastOutput = s
		sum += s
		if v.Gen.Completed() {
			v.active = false
		}
	}
	return sum / float32(len(ins.voices))
}

// allocate finds an inactive voice slot, or evicts one per Policy if none
// is free.
func (ins *Instrument) allocate() int {
	for i := range ins.voices {
		if !ins.voices[i].active {
			return i
		}
	}
	switch ins.policy {
	case DropNewest:
		return ins.extremeAge(false)
	case DropQuietest:
		return ins.extremeLoudness(false)
	case DropLoudest:
		return ins.extremeLoudness(true)
	case DropRandom:
		return ins.rng.Intn(len(ins.voices))
	default: // DropOldest
		return ins.extremeAge(true)
	}
}

func (ins *Instrument) extremeAge(oldest bool) int {
	best := 0
	for i := 1; i < len(ins.voices); i++ {
		if oldest && ins.voices[i].age < ins.voices[best].age {
			best = i
		}
		if !oldest && ins.voices[i].age > ins.voices[best].age {
			best = i
		}
	}
	return best
}

func (ins *Instrument) extremeLoudness(loudest bool) int {
	best := 0
	absOf := func(v float32) float32 {
		if v < 0 {
			return -v
		}
		return v
	}
	for i := 1; i < len(ins.voices); i++ {
		a, b := absOf(ins.voices[i].lastOutput), absOf(ins.voices[best].lastOutput)
		if loudest && a > b {
			best = i
		}
		if !loudest && a < b {
			best = i
		}
	}
	return best
}

// VoiceCount reports the instrument's configured voice count V.
func (ins *Instrument) VoiceCount() int { return len(ins.voices) }
