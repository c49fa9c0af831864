package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cbegin/graphsynth/internal/envelope"
)

func constEnv(v float32) envelope.Envelope {
	return adsrAlwaysOn{v}
}

// adsrAlwaysOn is a trivial Envelope that never completes, used to isolate
// waveform/mix behavior from envelope shaping in tests.
type adsrAlwaysOn struct{ v float32 }

func (a adsrAlwaysOn) At(float64, float64) float32   { return a.v }
func (a adsrAlwaysOn) Completed(float64, float64) bool { return false }

func TestToneGeneratorSineAmplitudeBounded(t *testing.T) {
	tone := NewToneGenerator(Sine, constEnv(1), WithSeed(42))
	tone.SetFrequency(440)
	tone.Start()
	for i := 0; i < 1000; i++ {
		s := tone.Tick(1.0 / 44100)
		assert.LessOrEqual(t, float32(-1.0001), s)
		assert.GreaterOrEqual(t, float32(1.0001), s)
	}
}

func TestNoiseDeterministicForIdenticalSeeds(t *testing.T) {
	a := NewToneGenerator(WhiteNoise, constEnv(1), WithSeed(7))
	b := NewToneGenerator(WhiteNoise, constEnv(1), WithSeed(7))
	a.SetFrequency(0)
	b.SetFrequency(0)
	a.Start()
	b.Start()
	for i := 0; i < 256; i++ {
		require.Equal(t, a.Tick(1.0/44100), b.Tick(1.0/44100))
	}
}

func TestCompositeTickBlockMatchesRepeatedTick(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(rt, "n")
		dt := rapid.Float64Range(1.0/96000, 1.0/8000).Draw(rt, "dt")
		seed := rapid.Int64().Draw(rt, "seed")

		build := func() *CompositeGenerator {
			tone1 := NewToneGenerator(Sine, envelope.ADSR{
				Attack: envelope.Linear{From: 0, To: 1, Dur: 0.01},
				Decay:  envelope.Constant{Value: 1},
				Sustain: envelope.Constant{Value: 1},
				Release: envelope.Linear{From: 1, To: 0, Dur: 0.05},
			}, WithFrequencyRelation(Identity{}), WithSeed(seed))
			tone2 := NewToneGenerator(Square, envelope.ADSR{
				Attack: envelope.Linear{From: 0, To: 1, Dur: 0.02},
				Decay:  envelope.Constant{Value: 1},
				Sustain: envelope.Constant{Value: 1},
				Release: envelope.Linear{From: 1, To: 0, Dur: 0.05},
			}, WithFrequencyRelation(Harmonic{N: 2}), WithSeed(seed+1))
			c := NewCompositeGenerator(220,
				WithTone(tone1, 0.7),
				WithTone(tone2, 0.3),
				WithMixMode(MixSum),
			)
			c.Start()
			return c
		}

		viaTick := make([]float32, n)
		cTick := build()
		for i := 0; i < n; i++ {
			viaTick[i] = cTick.Tick(dt)
		}

		viaBlock := make([]float32, n)
		cBlock := build()
		cBlock.TickBlock(viaBlock, dt)

		require.Equal(rt, viaTick, viaBlock)
	})
}

func TestCompositeCompletedRequiresStop(t *testing.T) {
	env := envelope.ADSR{
		Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.001},
		Decay:   envelope.Constant{Value: 1},
		Sustain: envelope.Constant{Value: 1},
		Release: envelope.Linear{From: 1, To: 0, Dur: 0.001},
	}
	tone := NewToneGenerator(Sine, env, WithFrequencyRelation(Identity{}))
	c := NewCompositeGenerator(220, WithTone(tone, 1))
	c.Start()
	for i := 0; i < 1000; i++ {
		c.Tick(0.01)
	}
	assert.False(t, c.Completed(), "never stopped, must not report completed")

	c.Stop()
	for i := 0; i < 10000; i++ {
		c.Tick(0.001)
	}
	assert.True(t, c.Completed())
}

func TestFrequencyRelations(t *testing.T) {
	assert.Equal(t, 440.0, Identity{}.Compute(440))
	assert.Equal(t, 880.0, Harmonic{N: 2}.Compute(440))
	assert.InDelta(t, 220.0, Ratio{R: 0.5}.Compute(440), 1e-9)
	assert.Equal(t, 450.0, Offset{Hz: 10}.Compute(440))
	assert.Equal(t, 880.0, Semitones{N: 12}.Compute(440))
	assert.Equal(t, 100.0, ConstantFrequency{Hz: 100}.Compute(440))
}

func TestNoteToFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, NoteToFrequency(69), 1e-9)
	assert.InDelta(t, 261.6256, NoteToFrequency(60), 1e-3)
}
