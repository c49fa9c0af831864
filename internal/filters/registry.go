package filters

import (
	"fmt"

	"github.com/cbegin/graphsynth/internal/graph"
)

// NewByName constructs a filter by its Metadata().Name-equivalent type
// string (spec §6's Graph::AddNode node_type field), using default
// parameters. Combinator defaults to 1-in/1-out; adjust its arity by
// constructing it directly if a different shape is needed.
func NewByName(name string, sampleRate int) (graph.Filter, error) {
	switch name {
	case "gain":
		return NewGain(), nil
	case "clipper":
		return NewClipper(), nil
	case "combinator":
		return NewCombinator(1, 1), nil
	case "duplicate":
		return NewDuplicate(), nil
	case "delay":
		return NewDelay(sampleRate), nil
	case "low_pass":
		return NewLowPass(sampleRate), nil
	case "high_pass":
		return NewHighPass(sampleRate), nil
	case "band_pass":
		return NewBandPass(sampleRate), nil
	case "resonant_bandpass":
		return NewResonantBandpass(sampleRate), nil
	case "moving_average":
		return NewMovingAverage(), nil
	case "tremolo":
		return NewTremolo(sampleRate), nil
	case "compressor":
		return NewCompressor(sampleRate), nil
	case "chorus":
		return NewChorus(sampleRate), nil
	case "distortion":
		return NewDistortion(sampleRate), nil
	case "reverb":
		return NewReverb(sampleRate), nil
	default:
		return nil, fmt.Errorf("unknown filter type %q", name)
	}
}
