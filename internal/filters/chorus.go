package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Chorus is a modulated per-channel delay line, wet/dry mixed with the dry
// signal (adapted from effects.Chorus's fractional-delay buffer).
type Chorus struct {
	sampleRate int
	bufL, bufR []float32
	pos        int
	size       int
	depthMs    float32
	rateHz     float32
	feedback   float32
	wet        float32
	depth      float32 // modulation depth in samples, derived from depthMs
	rate       float64 // radians per sample, derived from rateHz
	phase      float64

	in frame.Block
}

// NewChorus creates a chorus whose delay line holds 15ms plus the 4ms
// modulation depth; reads are centred on the line's midpoint (about 9.5ms)
// and swing by up to 4ms at a 1Hz rate, with 0.25 feedback and half wet/dry
// mix.
func NewChorus(sampleRate int) *Chorus {
	c := &Chorus{sampleRate: sampleRate, feedback: 0.25, wet: 0.5}
	c.resize(15, 4, 1)
	return c
}

func (c *Chorus) resize(delayMs, depthMs, rateHz float32) {
	c.depthMs = depthMs
	c.rateHz = rateHz
	baseSamples := int(float64(delayMs) * float64(c.sampleRate) / 1000.0)
	depthSamples := float64(depthMs) * float64(c.sampleRate) / 1000.0
	size := baseSamples + int(depthSamples) + 2
	if size < 4 {
		size = 4
	}
	c.bufL = make([]float32, size)
	c.bufR = make([]float32, size)
	c.size = size
	c.depth = float32(depthSamples)
	c.rate = 2.0 * math.Pi * float64(rateHz) / float64(c.sampleRate)
	c.pos = 0
	c.phase = 0
}

func (c *Chorus) Push(in frame.Block, port int) { c.in = in }

func (c *Chorus) Transform() []frame.Block {
	out := make(frame.Block, len(c.in))
	for i, fr := range c.in {
		l, r := c.tick(fr[0], fr[1])
		out[i] = frame.Frame{l, r}
	}
	return []frame.Block{out}
}

func (c *Chorus) tick(l, r float32) (float32, float32) {
	mod := float32(math.Sin(c.phase)) * c.depth
	c.phase += c.rate
	if c.phase > 2*math.Pi {
		c.phase -= 2 * math.Pi
	}
	c.bufL[c.pos] = l
	c.bufR[c.pos] = r

	delay := float32(c.size/2) + mod
	readPos := float32(c.pos) - delay
	for readPos < 0 {
		readPos += float32(c.size)
	}
	idx := int(readPos)
	frac := readPos - float32(idx)
	idx2 := idx + 1
	if idx2 >= c.size {
		idx2 = 0
	}
	delL := c.bufL[idx]*(1-frac) + c.bufL[idx2]*frac
	delR := c.bufR[idx]*(1-frac) + c.bufR[idx2]*frac

	c.bufL[c.pos] += delL * c.feedback
	c.bufR[c.pos] += delR * c.feedback

	c.pos++
	if c.pos >= c.size {
		c.pos = 0
	}
	return l*(1-c.wet) + delL*c.wet, r*(1-c.wet) + delR*c.wet
}

func (c *Chorus) InputArity() int  { return 1 }
func (c *Chorus) OutputArity() int { return 1 }
func (c *Chorus) Postponable() bool { return false }

func (c *Chorus) SetParameter(name string, value float32) {
	switch name {
	case "rate_hz":
		c.resize(15, c.depthMs, clamp32(value, 0.05, 10))
	case "depth_ms":
		c.resize(15, clamp32(value, 0, 20), c.rateHz)
	case "feedback":
		c.feedback = clamp32(value, 0, 0.9)
	case "wet":
		c.wet = clamp32(value, 0, 1)
	}
}

func (c *Chorus) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Chorus",
		Description: "Modulated delay for chorus/flanger textures.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "rate_hz", Kind: KindRange, Default: 1, Min: 0.05, Max: 10},
			{Name: "depth_ms", Kind: KindRange, Default: 4, Min: 0, Max: 20},
			{Name: "feedback", Kind: KindRange, Default: 0.25, Min: 0, Max: 0.9},
			{Name: "wet", Kind: KindRange, Default: 0.5, Min: 0, Max: 1},
		},
	}
}
