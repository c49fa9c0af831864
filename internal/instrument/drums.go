package instrument

import (
	"github.com/cbegin/graphsynth/internal/envelope"
	"github.com/cbegin/graphsynth/internal/generator"
)

// Drum is a monophonic, fixed-composite drum voice: a single generator
// re-triggered on every start_note rather than allocated from a voice pool
// (spec §4.6).
type Drum struct {
	factory VoiceFactory
	gen     *generator.CompositeGenerator
}

func newDrum(factory VoiceFactory) *Drum {
	return &Drum{factory: factory, gen: factory()}
}

// StartNote resets the drum's internal generator state immediately,
// discarding any in-progress envelope tail, rather than queuing a second
// voice.
func (d *Drum) StartNote() {
	d.gen = d.factory()
	d.gen.Start()
}

// StopNote releases the drum voice early (most drum patches ignore this and
// decay to silence on their own envelope).
func (d *Drum) StopNote() {
	d.gen.Stop()
}

// Tick advances the drum's generator and returns its sample.
func (d *Drum) Tick(dt float64) float32 {
	if d.gen.Completed() {
		return 0
	}
	return d.gen.Tick(dt)
}

// NewKick builds the kick drum: a white-noise transient summed with a sine
// whose pitch drops from ~2x base to ~0.5x base over ~0.3s (spec §4.6).
func NewKick(baseFreq float64) *Drum {
	return newDrum(func() *generator.CompositeGenerator {
		pitchEnv := envelope.ADSR{
			Attack:  envelope.Linear{From: 2.0, To: 2.0, Dur: 0},
			Decay:   envelope.Linear{From: 2.0, To: 0.5, Dur: 0.3},
			Sustain: envelope.Constant{Value: 0.5},
			Release: envelope.Constant{Value: 0.5, Dur: 0.05},
		}
		body := generator.NewToneGenerator(generator.Sine, envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.002},
			Decay:   envelope.Linear{From: 1, To: 0.2, Dur: 0.3},
			Sustain: envelope.Constant{Value: 0.2},
			Release: envelope.Linear{From: 0.2, To: 0, Dur: 0.05},
		}, generator.WithPitchEnvelope(pitchEnv))
		transient := generator.NewToneGenerator(generator.WhiteNoise, envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.001},
			Decay:   envelope.Linear{From: 1, To: 0, Dur: 0.02},
			Sustain: envelope.Constant{Value: 0},
			Release: envelope.Constant{Value: 0, Dur: 0.001},
		})
		c := generator.NewCompositeGenerator(baseFreq,
			generator.WithTone(body, 0.85),
			generator.WithTone(transient, 0.3),
			generator.WithMixMode(generator.MixSum))
		return c
	})
}

// NewSnare builds the snare drum: noise summed with a short-decaying tonal
// sine (spec §4.6).
func NewSnare(baseFreq float64) *Drum {
	return newDrum(func() *generator.CompositeGenerator {
		tone := generator.NewToneGenerator(generator.Sine, envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.001},
			Decay:   envelope.Linear{From: 1, To: 0.1, Dur: 0.08},
			Sustain: envelope.Constant{Value: 0.1},
			Release: envelope.Linear{From: 0.1, To: 0, Dur: 0.03},
		})
		noise := generator.NewToneGenerator(generator.WhiteNoise, envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.001},
			Decay:   envelope.Linear{From: 1, To: 0, Dur: 0.15},
			Sustain: envelope.Constant{Value: 0},
			Release: envelope.Constant{Value: 0, Dur: 0.001},
		})
		return generator.NewCompositeGenerator(baseFreq,
			generator.WithTone(tone, 0.4),
			generator.WithTone(noise, 0.7),
			generator.WithMixMode(generator.MixSum))
	})
}

// hihatRatios are inharmonic multiples of the base frequency, chosen to
// approximate a metallic spectrum from a sum of square oscillators.
var hihatRatios = []float64{1.0, 1.342, 1.732, 2.253, 2.981}

// NewHihat builds the hi-hat: a sum of square oscillators at inharmonic
// frequencies with a steep decay (spec §4.6).
func NewHihat(baseFreq float64) *Drum {
	return newDrum(func() *generator.CompositeGenerator {
		env := envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.0005},
			Decay:   envelope.Linear{From: 1, To: 0, Dur: 0.05},
			Sustain: envelope.Constant{Value: 0},
			Release: envelope.Constant{Value: 0, Dur: 0.001},
		}
		opts := make([]generator.CompositeOption, 0, len(hihatRatios))
		for _, r := range hihatRatios {
			tone := generator.NewToneGenerator(generator.Square, env,
				generator.WithFrequencyRelation(generator.Ratio{R: r}))
			opts = append(opts, generator.WithTone(tone, 1.0/float64(len(hihatRatios))))
		}
		opts = append(opts, generator.WithMixMode(generator.MixSum))
		return generator.NewCompositeGenerator(baseFreq, opts...)
	})
}
