package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// LowPass is a first-order IIR low-pass, one-pole state per channel (spec
// §6, grounded on effects.EQ3Band's RC/dt crossover filter).
type LowPass struct {
	sampleRate int
	cutoff     float32
	alpha      float32
	state      [frame.Channels]float32
	in         frame.Block
}

func NewLowPass(sampleRate int) *LowPass {
	f := &LowPass{sampleRate: sampleRate}
	f.setCutoff(1000)
	return f
}

func (f *LowPass) setCutoff(cutoff float32) {
	f.cutoff = cutoff
	rc := 1.0 / (2.0 * math.Pi * float64(cutoff))
	dt := 1.0 / float64(f.sampleRate)
	f.alpha = float32(dt / (rc + dt))
}

func (f *LowPass) Push(in frame.Block, port int) { f.in = in }

func (f *LowPass) Transform() []frame.Block {
	out := make(frame.Block, len(f.in))
	for i, fr := range f.in {
		for ch := range fr {
			f.state[ch] += f.alpha * (fr[ch] - f.state[ch])
			out[i][ch] = f.state[ch]
		}
	}
	return []frame.Block{out}
}

func (f *LowPass) InputArity() int   { return 1 }
func (f *LowPass) OutputArity() int  { return 1 }
func (f *LowPass) Postponable() bool { return false }

func (f *LowPass) SetParameter(name string, value float32) {
	if name == "cutoff_frequency" {
		f.setCutoff(value)
	}
}

func (f *LowPass) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "LowPass",
		Description: "First-order IIR low-pass with independent per-channel state.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "cutoff_frequency", Kind: KindFloat, Default: 1000},
		},
	}
}

// HighPass is a first-order IIR high-pass: input minus its low-pass
// component (spec §6, same grounding as LowPass).
type HighPass struct {
	sampleRate int
	cutoff     float32
	alpha      float32
	state      [frame.Channels]float32
	in         frame.Block
}

func NewHighPass(sampleRate int) *HighPass {
	f := &HighPass{sampleRate: sampleRate}
	f.setCutoff(200)
	return f
}

func (f *HighPass) setCutoff(cutoff float32) {
	f.cutoff = cutoff
	rc := 1.0 / (2.0 * math.Pi * float64(cutoff))
	dt := 1.0 / float64(f.sampleRate)
	f.alpha = float32(dt / (rc + dt))
}

func (f *HighPass) Push(in frame.Block, port int) { f.in = in }

func (f *HighPass) Transform() []frame.Block {
	out := make(frame.Block, len(f.in))
	for i, fr := range f.in {
		for ch := range fr {
			f.state[ch] += f.alpha * (fr[ch] - f.state[ch])
			out[i][ch] = fr[ch] - f.state[ch]
		}
	}
	return []frame.Block{out}
}

func (f *HighPass) InputArity() int   { return 1 }
func (f *HighPass) OutputArity() int  { return 1 }
func (f *HighPass) Postponable() bool { return false }

func (f *HighPass) SetParameter(name string, value float32) {
	if name == "cutoff_frequency" {
		f.setCutoff(value)
	}
}

func (f *HighPass) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "HighPass",
		Description: "First-order IIR high-pass with independent per-channel state.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "cutoff_frequency", Kind: KindFloat, Default: 200},
		},
	}
}

// BandPass chains a HighPass into a LowPass (spec §6: "high-pass then
// low-pass in series").
type BandPass struct {
	hp *HighPass
	lp *LowPass
}

func NewBandPass(sampleRate int) *BandPass {
	return &BandPass{hp: NewHighPass(sampleRate), lp: NewLowPass(sampleRate)}
}

func (f *BandPass) Push(in frame.Block, port int) { f.hp.Push(in, 0) }

func (f *BandPass) Transform() []frame.Block {
	mid := f.hp.Transform()[0]
	f.lp.Push(mid, 0)
	return f.lp.Transform()
}

func (f *BandPass) InputArity() int   { return 1 }
func (f *BandPass) OutputArity() int  { return 1 }
func (f *BandPass) Postponable() bool { return false }

func (f *BandPass) SetParameter(name string, value float32) {
	switch name {
	case "low":
		f.hp.setCutoff(value)
	case "high":
		f.lp.setCutoff(value)
	}
}

func (f *BandPass) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "BandPass",
		Description: "High-pass then low-pass in series.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "low", Kind: KindFloat, Default: 200},
			{Name: "high", Kind: KindFloat, Default: 1000},
		},
	}
}
