package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Distortion applies pre-gain, tanh waveshaping, post-gain, and an optional
// one-pole lowpass smoothing pass (adapted from effects.Distortion).
type Distortion struct {
	sampleRate int
	preGain    float32
	postGain   float32
	lpfCutoff  float32
	lpfAlpha   float32
	lpf        [frame.Channels]float32

	in frame.Block
}

// NewDistortion creates a distortion filter at unity pre/post gain with no
// post-filtering.
func NewDistortion(sampleRate int) *Distortion {
	return &Distortion{sampleRate: sampleRate, preGain: 1, postGain: 1}
}

func (d *Distortion) Push(in frame.Block, port int) { d.in = in }

func (d *Distortion) Transform() []frame.Block {
	out := make(frame.Block, len(d.in))
	for i, fr := range d.in {
		for ch := range fr {
			v := fr[ch] * d.preGain
			v = float32(math.Tanh(float64(v)))
			v *= d.postGain
			if d.lpfAlpha > 0 {
				d.lpf[ch] += d.lpfAlpha * (v - d.lpf[ch])
				v = d.lpf[ch]
			}
			out[i][ch] = v
		}
	}
	return []frame.Block{out}
}

func (d *Distortion) InputArity() int   { return 1 }
func (d *Distortion) OutputArity() int  { return 1 }
func (d *Distortion) Postponable() bool { return false }

func (d *Distortion) SetParameter(name string, value float32) {
	switch name {
	case "pre_gain":
		d.preGain = value
	case "post_gain":
		d.postGain = value
	case "lpf_cutoff":
		d.lpfCutoff = value
		if value <= 0 || value >= float32(d.sampleRate)/2 {
			d.lpfAlpha = 0
			return
		}
		rc := 1.0 / (2.0 * math.Pi * float64(value))
		dt := 1.0 / float64(d.sampleRate)
		d.lpfAlpha = float32(dt / (rc + dt))
	}
}

func (d *Distortion) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Distortion",
		Description: "Tanh waveshaping distortion with optional post-filtering.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "pre_gain", Kind: KindRange, Default: 1, Min: 0.1, Max: 20},
			{Name: "post_gain", Kind: KindRange, Default: 1, Min: 0, Max: 2},
			{Name: "lpf_cutoff", Kind: KindRange, Default: 0, Min: 0, Max: 20000},
		},
	}
}
