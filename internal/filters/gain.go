package filters

import "github.com/cbegin/graphsynth/internal/frame"

// Gain scales every channel of its input block by a fixed factor
// (spec §6, grounded on effects.EQ3Band's per-sample gain application).
type Gain struct {
	factor float32
	in     frame.Block
}

// NewGain creates a unity-gain filter; call SetParameter("factor", v) to
// adjust it.
func NewGain() *Gain {
	return &Gain{factor: 1.0}
}

func (g *Gain) Push(in frame.Block, port int) { g.in = in }

func (g *Gain) Transform() []frame.Block {
	out := g.in.Clone()
	frame.ScaleInPlace(out, g.factor)
	return []frame.Block{out}
}

func (g *Gain) InputArity() int  { return 1 }
func (g *Gain) OutputArity() int { return 1 }
func (g *Gain) Postponable() bool { return false }

func (g *Gain) SetParameter(name string, value float32) {
	if name == "factor" {
		g.factor = value
	}
}

func (g *Gain) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Gain",
		Description: "Scales each channel by a fixed factor.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "factor", Kind: KindFloat, Default: 1.0},
		},
	}
}
