package instrument

import (
	"github.com/cbegin/graphsynth/internal/envelope"
	"github.com/cbegin/graphsynth/internal/generator"
)

// NewDefaultLead builds the stock polyphonic voice: a single sine tone under
// a short ADSR, with voices-voice drop-oldest polyphony (graphsynthd passes
// 8 by default).
func NewDefaultLead(voices int) *Instrument {
	factory := func() *generator.CompositeGenerator {
		amp := envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.01},
			Decay:   envelope.Linear{From: 1, To: 0.7, Dur: 0.1},
			Sustain: envelope.Constant{Value: 0.7},
			Release: envelope.Linear{From: 0.7, To: 0, Dur: 0.2},
		}
		tone := generator.NewToneGenerator(generator.Sine, amp)
		return generator.NewCompositeGenerator(440, generator.WithTone(tone, 1.0))
	}
	return NewInstrument(voices, factory, DropOldest)
}

// NewDefaultPad builds a slower-attack square-wave voice with drop-quietest
// polyphony.
func NewDefaultPad(voices int) *Instrument {
	factory := func() *generator.CompositeGenerator {
		amp := envelope.ADSR{
			Attack:  envelope.Linear{From: 0, To: 1, Dur: 0.3},
			Decay:   envelope.Linear{From: 1, To: 0.6, Dur: 0.2},
			Sustain: envelope.Constant{Value: 0.6},
			Release: envelope.Linear{From: 0.6, To: 0, Dur: 0.6},
		}
		tone := generator.NewToneGenerator(generator.Square, amp)
		return generator.NewCompositeGenerator(440, generator.WithTone(tone, 0.8))
	}
	return NewInstrument(voices, factory, DropQuietest)
}
