package generator

import "math"

const twoPi = math.Pi * 2

// Waveform identifies which waveform a ToneGenerator produces.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
	WhiteNoise
	PinkNoise
	Blank
)

func frac(x float64) float64 {
	return x - math.Floor(x)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// sample evaluates the waveform at phase (radians, any range) for
// deterministic waveforms; noise waveforms instead read from and mutate the
// generator's own noise state (rng, pinkState), so they're handled by the
// caller (ToneGenerator.Tick) rather than here.
func sample(w Waveform, phase float64) float64 {
	switch w {
	case Sine:
		return math.Sin(phase)
	case Square:
		return sign(math.Sin(phase))
	case Saw:
		return 2*frac(phase/twoPi) - 1
	case Triangle:
		return 2*math.Abs(2*frac(phase/twoPi)-1) - 1
	case Blank:
		return 0
	default:
		return 0
	}
}

// pinkFilter applies Paul Kellet's 3-pole approximation of a -3dB/octave
// pink filter to a white-noise sample. state must be a [3]float64 owned by
// the caller and persisted between calls.
func pinkFilter(white float64, state *[3]float64) float64 {
	state[0] = 0.99886*state[0] + white*0.0555179
	state[1] = 0.99332*state[1] + white*0.0750759
	state[2] = 0.96900*state[2] + white*0.1538520
	pink := state[0] + state[1] + state[2] + white*0.1848
	return pink * 0.25
}
