package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Compressor applies per-channel dynamic range compression with a one-pole
// envelope follower (spec §6, grounded on effects.Compressor's envelope
// follower shape; gain-reduction law follows spec.md's formula exactly).
type Compressor struct {
	sampleRate int
	threshold  float32
	ratio      float32
	attackMs   float32
	releaseMs  float32
	attack     float32
	release    float32
	env        [frame.Channels]float32
	in         frame.Block
}

func NewCompressor(sampleRate int) *Compressor {
	c := &Compressor{sampleRate: sampleRate, threshold: 0.5, ratio: 4}
	c.setTiming(10, 100)
	return c
}

func (c *Compressor) setTiming(attackMs, releaseMs float32) {
	c.attackMs = attackMs
	c.releaseMs = releaseMs
	sr := float64(c.sampleRate)
	c.attack = float32(1 - math.Exp(-1/(float64(attackMs)*sr/1000.0)))
	c.release = float32(1 - math.Exp(-1/(float64(releaseMs)*sr/1000.0)))
}

func (c *Compressor) Push(in frame.Block, port int) { c.in = in }

func (c *Compressor) Transform() []frame.Block {
	out := make(frame.Block, len(c.in))
	for i, fr := range c.in {
		for ch := range fr {
			abs := float32(math.Abs(float64(fr[ch])))
			if abs > c.env[ch] {
				c.env[ch] += c.attack * (abs - c.env[ch])
			} else {
				c.env[ch] += c.release * (abs - c.env[ch])
			}
			out[i][ch] = fr[ch] * c.gain(c.env[ch])
		}
	}
	return []frame.Block{out}
}

// gain implements spec.md's "(env/threshold)^(1 - 1/ratio) * threshold/env"
// reduction law, unity below threshold.
func (c *Compressor) gain(env float32) float32 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1
	}
	over := float64(env) / float64(c.threshold)
	reduced := math.Pow(over, 1-1/float64(c.ratio)) / over
	return float32(reduced)
}

func (c *Compressor) InputArity() int   { return 1 }
func (c *Compressor) OutputArity() int  { return 1 }
func (c *Compressor) Postponable() bool { return false }

func (c *Compressor) SetParameter(name string, value float32) {
	switch name {
	case "threshold":
		c.threshold = value
	case "ratio":
		c.ratio = value
	case "attack":
		c.setTiming(value, c.releaseMs)
	case "release":
		c.setTiming(c.attackMs, value)
	}
}

func (c *Compressor) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Compressor",
		Description: "Per-channel envelope-follower dynamic range compressor.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "threshold", Kind: KindFloat, Default: 0.5},
			{Name: "ratio", Kind: KindFloat, Default: 4},
			{Name: "attack", Kind: KindFloat, Default: 10},
			{Name: "release", Kind: KindFloat, Default: 100},
		},
	}
}
