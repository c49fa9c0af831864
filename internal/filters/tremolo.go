package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Tremolo amplitude-modulates its input with an internal sine phase (spec
// §6). Output = input * (1 - depth*0.5*(1 + sin(theta))).
type Tremolo struct {
	sampleRate int
	frequency  float32
	depth      float32
	theta      float64
	in         frame.Block
}

func NewTremolo(sampleRate int) *Tremolo {
	return &Tremolo{sampleRate: sampleRate, frequency: 5, depth: 0.5}
}

func (t *Tremolo) Push(in frame.Block, port int) { t.in = in }

func (t *Tremolo) Transform() []frame.Block {
	out := make(frame.Block, len(t.in))
	step := 2 * math.Pi * float64(t.frequency) / float64(t.sampleRate)
	for i, fr := range t.in {
		mod := float32(1 - float64(t.depth)*0.5*(1+math.Sin(t.theta)))
		for ch := range fr {
			out[i][ch] = fr[ch] * mod
		}
		t.theta += step
		if t.theta >= 2*math.Pi {
			t.theta -= 2 * math.Pi
		}
	}
	return []frame.Block{out}
}

func (t *Tremolo) InputArity() int   { return 1 }
func (t *Tremolo) OutputArity() int  { return 1 }
func (t *Tremolo) Postponable() bool { return false }

func (t *Tremolo) SetParameter(name string, value float32) {
	switch name {
	case "frequency":
		t.frequency = value
	case "depth":
		t.depth = clamp32(value, 0, 1)
	}
}

func (t *Tremolo) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Tremolo",
		Description: "Amplitude-modulates its input with an internal sine phase.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "frequency", Kind: KindFloat, Default: 5},
			{Name: "depth", Kind: KindRange, Default: 0.5, Min: 0, Max: 1},
		},
	}
}
