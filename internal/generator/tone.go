package generator

import (
	"math"
	"math/rand"

	"github.com/cbegin/graphsynth/internal/envelope"
)

// ToneGenerator produces a single waveform whose frequency may be related to
// a shared base frequency, optionally shaped by a pitch envelope, and scaled
// by a required amplitude envelope (spec §4.2).
type ToneGenerator struct {
	waveform Waveform
	relation FrequencyRelation // optional
	pitchEnv envelope.Envelope // optional; time-warp factor / pitch ratio
	ampEnv   envelope.Envelope // required

	freq   float64 // current effective base-relation frequency, cached
	phase  float64 // radians, wrapped to [0, 2pi)
	tau    float64 // normalized note-progress time
	noteOff float64
	active bool

	rng       *rand.Rand
	pinkState [3]float64
}

// ToneOption configures a ToneGenerator at construction time.
type ToneOption func(*ToneGenerator)

// WithFrequencyRelation binds the tone's frequency to a shared base
// frequency via relation. Without this option SetBaseFrequency passes the
// base frequency through unchanged.
func WithFrequencyRelation(relation FrequencyRelation) ToneOption {
	return func(t *ToneGenerator) { t.relation = relation }
}

// WithPitchEnvelope installs an optional pitch envelope that time-warps tau
// and scales the effective frequency each tick.
func WithPitchEnvelope(env envelope.Envelope) ToneOption {
	return func(t *ToneGenerator) { t.pitchEnv = env }
}

// WithSeed fixes the generator's noise/phase RNG seed. Two generators built
// with the same seed and driven identically produce bit-identical output
// (spec §8's noise determinism property).
func WithSeed(seed int64) ToneOption {
	return func(t *ToneGenerator) { t.rng = rand.New(rand.NewSource(seed)) }
}

// NewToneGenerator builds a tone generator. ampEnv is required; spec §4.2
// treats a tone with no amplitude shaping as meaningless (it would never
// report Completed).
func NewToneGenerator(wave Waveform, ampEnv envelope.Envelope, opts ...ToneOption) *ToneGenerator {
	t := &ToneGenerator{
		waveform: wave,
		ampEnv:   ampEnv,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(1))
	}
	return t
}

// SetBaseFrequency recomputes the tone's frequency from the shared base via
// its frequency relation, if one is set; with no relation the tone's
// frequency becomes base itself. Call this whenever the owning
// composite generator's base frequency changes.
func (t *ToneGenerator) SetBaseFrequency(base float64) {
	if t.relation != nil {
		t.freq = t.relation.Compute(base)
	} else {
		t.freq = base
	}
}

// SetFrequency sets the tone's effective frequency directly, bypassing any
// frequency relation. Used for tones with no shared base (e.g. Blank/noise).
func (t *ToneGenerator) SetFrequency(hz float64) { t.freq = hz }

// Start resets the tone's note-progress clock and begins sounding. The
// initial phase is randomized to avoid phase-alignment artifacts across
// simultaneously triggered voices (spec §4.2).
func (t *ToneGenerator) Start() {
	t.tau = 0
	t.noteOff = 0
	t.active = true
	t.phase = t.rng.Float64() * twoPi
}

// Stop marks the note released; release-stage envelope shaping begins from
// this instant.
func (t *ToneGenerator) Stop() {
	if t.noteOff <= 0 {
		t.noteOff = t.tau
		if t.noteOff <= 0 {
			// noteOff <= 0 reads as "held"; a stop before the first tick is
			// recorded as the smallest positive time instead.
			t.noteOff = math.SmallestNonzeroFloat64
		}
	}
}

// Kill silences the tone immediately, bypassing any release tail.
func (t *ToneGenerator) Kill() { t.active = false }

// Active reports whether the tone has been started and not killed.
func (t *ToneGenerator) Active() bool { return t.active }

// Completed reports whether the amplitude envelope has fully decayed.
func (t *ToneGenerator) Completed() bool {
	return t.ampEnv.Completed(t.tau, t.noteOff)
}

// Tick advances the generator by dt seconds and returns its current sample,
// per the five steps in spec §4.2.
func (t *ToneGenerator) Tick(dt float64) float32 {
	if !t.active {
		return 0
	}
	pitchRatio := 1.0
	if t.pitchEnv != nil {
		pitchRatio = float64(t.pitchEnv.At(t.tau, t.noteOff))
	}
	t.tau += dt * pitchRatio

	effFreq := t.freq * pitchRatio
	t.phase += twoPi * effFreq * dt
	for t.phase >= twoPi {
		t.phase -= twoPi
	}
	for t.phase < 0 {
		t.phase += twoPi
	}

	var s float64
	switch t.waveform {
	case WhiteNoise:
		s = t.rng.Float64()*2 - 1
	case PinkNoise:
		white := t.rng.Float64()*2 - 1
		s = pinkFilter(white, &t.pinkState)
	default:
		s = sample(t.waveform, t.phase)
	}

	amp := t.ampEnv.At(t.tau, t.noteOff)
	return float32(s) * amp
}
