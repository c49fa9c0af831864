package filters

import "github.com/cbegin/graphsynth/internal/frame"

// Clipper hard-limits every channel to [-maxAmpl, maxAmpl] (spec §6).
type Clipper struct {
	maxAmpl float32
	in      frame.Block
}

// NewClipper creates a clipper at the spec's default max amplitude (0.5).
func NewClipper() *Clipper {
	return &Clipper{maxAmpl: 0.5}
}

func (c *Clipper) Push(in frame.Block, port int) { c.in = in }

func (c *Clipper) Transform() []frame.Block {
	out := c.in.Clone()
	for i := range out {
		for ch := range out[i] {
			out[i][ch] = clamp32(out[i][ch], -c.maxAmpl, c.maxAmpl)
		}
	}
	return []frame.Block{out}
}

func (c *Clipper) InputArity() int   { return 1 }
func (c *Clipper) OutputArity() int  { return 1 }
func (c *Clipper) Postponable() bool { return false }

func (c *Clipper) SetParameter(name string, value float32) {
	if name == "max_ampl" {
		c.maxAmpl = clamp32(value, 0, 1)
	}
}

func (c *Clipper) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Clipper",
		Description: "Hard-clips each channel to [-max_ampl, max_ampl].",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "max_ampl", Kind: KindRange, Default: 0.5, Min: 0, Max: 1},
		},
	}
}
