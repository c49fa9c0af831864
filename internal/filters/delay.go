package filters

import (
	"math"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Delay is a plain delay line: Output[i] = ring.pop_front(); then
// ring.push_back(input[i]) (spec §6). It is the one filter that may have
// its output read from the previous tick to break a feedback cycle in the
// schedule, so Postponable reports true.
type Delay struct {
	sampleRate int
	seconds    float32
	ring       []frame.Frame
	pos        int
	in         frame.Block
}

// NewDelay creates a delay line with zero delay (ring length clamped to one
// frame); call SetParameter("delay_seconds", v) to size it.
func NewDelay(sampleRate int) *Delay {
	d := &Delay{sampleRate: sampleRate}
	d.resize(0)
	return d
}

func (d *Delay) resize(seconds float32) {
	d.seconds = seconds
	n := int(math.Round(float64(seconds) * float64(d.sampleRate)))
	if n < 1 {
		n = 1
	}
	d.ring = make([]frame.Frame, n)
	d.pos = 0
}

func (d *Delay) Push(in frame.Block, port int) { d.in = in }

func (d *Delay) Transform() []frame.Block {
	out := make(frame.Block, len(d.in))
	for i, f := range d.in {
		out[i] = d.ring[d.pos]
		d.ring[d.pos] = f
		d.pos++
		if d.pos >= len(d.ring) {
			d.pos = 0
		}
	}
	return []frame.Block{out}
}

func (d *Delay) InputArity() int   { return 1 }
func (d *Delay) OutputArity() int  { return 1 }
func (d *Delay) Postponable() bool { return true }

func (d *Delay) SetParameter(name string, value float32) {
	if name == "delay_seconds" {
		d.resize(value)
	}
}

func (d *Delay) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Delay",
		Description: "Fixed-length delay line; breaks feedback cycles in the schedule.",
		InputPorts:  1,
		OutputPorts: 1,
		Postponable: true,
		Parameters: []ParameterDescriptor{
			{Name: "delay_seconds", Kind: KindFloat, Default: 0},
		},
	}
}
