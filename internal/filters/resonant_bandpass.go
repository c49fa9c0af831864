package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// ResonantBandpass is a biquad band-pass filter in direct form 2, per
// channel (spec §6). Reset clears delay lines, required when retriggering
// percussive voices so a new note doesn't inherit the previous note's tail.
type ResonantBandpass struct {
	sampleRate int
	center     float32
	quality    float32

	b0, b1, b2, a1, a2 float32
	z1, z2             [frame.Channels]float32
	in                 frame.Block
}

func NewResonantBandpass(sampleRate int) *ResonantBandpass {
	f := &ResonantBandpass{sampleRate: sampleRate}
	f.recompute(440, 1)
	return f
}

func (f *ResonantBandpass) recompute(center, quality float32) {
	f.center = center
	f.quality = quality
	if quality <= 0 {
		quality = 0.001
	}
	w0 := 2 * math.Pi * float64(center) / float64(f.sampleRate)
	alpha := math.Sin(w0) / (2 * float64(quality))
	cosW0 := math.Cos(w0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	f.b0 = float32(b0 / a0)
	f.b1 = float32(b1 / a0)
	f.b2 = float32(b2 / a0)
	f.a1 = float32(a1 / a0)
	f.a2 = float32(a2 / a0)
}

func (f *ResonantBandpass) Push(in frame.Block, port int) { f.in = in }

func (f *ResonantBandpass) Transform() []frame.Block {
	out := make(frame.Block, len(f.in))
	for i, fr := range f.in {
		for ch := range fr {
			x := fr[ch]
			y := f.b0*x + f.z1[ch]
			f.z1[ch] = f.b1*x - f.a1*y + f.z2[ch]
			f.z2[ch] = f.b2*x - f.a2*y
			out[i][ch] = y
		}
	}
	return []frame.Block{out}
}

func (f *ResonantBandpass) InputArity() int   { return 1 }
func (f *ResonantBandpass) OutputArity() int  { return 1 }
func (f *ResonantBandpass) Postponable() bool { return false }

func (f *ResonantBandpass) SetParameter(name string, value float32) {
	switch name {
	case "center_freq":
		f.recompute(value, f.quality)
	case "quality":
		f.recompute(f.center, value)
	}
}

// Reset clears the filter's delay lines.
func (f *ResonantBandpass) Reset() {
	f.z1 = [frame.Channels]float32{}
	f.z2 = [frame.Channels]float32{}
}

func (f *ResonantBandpass) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "ResonantBandpass",
		Description: "Biquad band-pass, direct form 2, with resettable delay lines.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "center_freq", Kind: KindFloat, Default: 440},
			{Name: "quality", Kind: KindFloat, Default: 1},
		},
	}
}
