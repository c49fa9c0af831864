package generator

import (
	"math"

	"github.com/cbegin/graphsynth/internal/envelope"
)

// MixMode selects how a CompositeGenerator combines its tones' samples
// (spec §4.3).
type MixMode int

const (
	MixSum MixMode = iota
	MixMultiply
	MixMax
	MixAverage
)

type weightedTone struct {
	Gen    *ToneGenerator
	Weight float64
}

// CompositeGenerator combines N tone generators under a mix mode, sharing a
// base frequency and optional pitch/amplitude envelopes (spec §4.3).
type CompositeGenerator struct {
	base  float64
	tones []weightedTone
	mix   MixMode

	sharedPitchEnv envelope.Envelope // optional; time-warps dt fed to every tone
	sharedAmpEnv   envelope.Envelope // optional; scales the combined sample

	tau     float64
	noteOff float64
}

// CompositeOption configures a CompositeGenerator at construction time.
type CompositeOption func(*CompositeGenerator)

// WithMixMode overrides the default MixSum combination.
func WithMixMode(mode MixMode) CompositeOption {
	return func(c *CompositeGenerator) { c.mix = mode }
}

// WithSharedPitchEnvelope installs a pitch envelope that time-warps every
// tone's dt each tick.
func WithSharedPitchEnvelope(env envelope.Envelope) CompositeOption {
	return func(c *CompositeGenerator) { c.sharedPitchEnv = env }
}

// WithSharedAmplitudeEnvelope installs an amplitude envelope applied to the
// combined (post-mix) sample.
func WithSharedAmplitudeEnvelope(env envelope.Envelope) CompositeOption {
	return func(c *CompositeGenerator) { c.sharedAmpEnv = env }
}

// WithTone adds a weighted tone generator. At least one tone is required.
func WithTone(gen *ToneGenerator, weight float64) CompositeOption {
	return func(c *CompositeGenerator) {
		c.tones = append(c.tones, weightedTone{Gen: gen, Weight: weight})
	}
}

// NewCompositeGenerator builds a composite generator at the given base
// frequency. Panics if constructed with no tones, matching the data model's
// "non-empty sequence of tone generators" invariant.
func NewCompositeGenerator(base float64, opts ...CompositeOption) *CompositeGenerator {
	c := &CompositeGenerator{base: base, mix: MixSum}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.tones) == 0 {
		panic("generator: CompositeGenerator requires at least one tone")
	}
	for _, wt := range c.tones {
		wt.Gen.SetBaseFrequency(base)
	}
	return c
}

// SetBaseFrequency updates the shared base frequency, recomputing every
// tone's frequency through its relation.
func (c *CompositeGenerator) SetBaseFrequency(base float64) {
	c.base = base
	for _, wt := range c.tones {
		wt.Gen.SetBaseFrequency(base)
	}
}

// BaseFrequency returns the current shared base frequency.
func (c *CompositeGenerator) BaseFrequency() float64 { return c.base }

// Start resets note-progress state and starts every tone.
func (c *CompositeGenerator) Start() {
	c.tau = 0
	c.noteOff = 0
	for _, wt := range c.tones {
		wt.Gen.Start()
	}
}

// Stop releases the note: every tone begins its release stage.
func (c *CompositeGenerator) Stop() {
	if c.noteOff <= 0 {
		c.noteOff = c.tau
		if c.noteOff <= 0 {
			// noteOff <= 0 reads as "held"; a stop before the first tick is
			// recorded as the smallest positive time instead.
			c.noteOff = math.SmallestNonzeroFloat64
		}
	}
	for _, wt := range c.tones {
		wt.Gen.Stop()
	}
}

// Kill silences every tone immediately, bypassing release tails.
func (c *CompositeGenerator) Kill() {
	for _, wt := range c.tones {
		wt.Gen.Kill()
	}
}

// Completed reports true once every tone has completed and the note has
// been stopped (spec §3's Composite generator invariant).
func (c *CompositeGenerator) Completed() bool {
	if c.noteOff <= 0 {
		return false
	}
	for _, wt := range c.tones {
		if !wt.Gen.Completed() {
			return false
		}
	}
	return true
}

// Tick advances the composite generator by dt seconds and returns its
// combined sample.
func (c *CompositeGenerator) Tick(dt float64) float32 {
	warp := 1.0
	if c.sharedPitchEnv != nil {
		warp = float64(c.sharedPitchEnv.At(c.tau, c.noteOff))
	}
	c.tau += dt * warp
	tickDt := dt * warp

	var combined float32
	switch c.mix {
	case MixMultiply:
		combined = 1
		for _, wt := range c.tones {
			combined *= wt.Gen.Tick(tickDt)
		}
	case MixMax:
		first := true
		for _, wt := range c.tones {
			s := float32(wt.Weight) * wt.Gen.Tick(tickDt)
			if first || s > combined {
				combined = s
				first = false
			}
		}
	case MixAverage:
		var sum float32
		for _, wt := range c.tones {
			sum += float32(wt.Weight) * wt.Gen.Tick(tickDt)
		}
		if len(c.tones) > 0 {
			combined = sum / float32(len(c.tones))
		}
	default: // MixSum
		for _, wt := range c.tones {
			combined += float32(wt.Weight) * wt.Gen.Tick(tickDt)
		}
	}

	if c.sharedAmpEnv != nil {
		combined *= c.sharedAmpEnv.At(c.tau, c.noteOff)
	}
	return combined
}

// TickBlock produces n consecutive samples using the same internal state as
// calling Tick n times; it is implemented directly in terms of Tick so the
// two are bit-identical by construction (spec §8's equivalence property).
func (c *CompositeGenerator) TickBlock(dst []float32, dt float64) {
	for i := range dst {
		dst[i] = c.Tick(dt)
	}
}
