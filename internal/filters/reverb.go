package filters

import "github.com/cbegin/graphsynth/internal/frame"

// Reverb is a Schroeder-style reverb: four parallel comb filters feeding two
// series allpass filters, wet/dry mixed (adapted from effects.Reverb).
type Reverb struct {
	sampleRate int
	roomSize   float32
	feedback   float32
	wet        float32
	combs      [4]combFilter
	allpass    [2]allpassFilter

	in frame.Block
}

type combFilter struct {
	buf []float32
	pos int
	fb  float32
}

type allpassFilter struct {
	buf []float32
	pos int
	fb  float32
}

// NewReverb creates a reverb at a medium room size, moderate decay, and a
// third wet mix.
func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{sampleRate: sampleRate}
	r.resize(0.5, 0.7, 0.3)
	return r
}

func (r *Reverb) resize(roomSize, feedback, wet float32) {
	r.roomSize = clamp32(roomSize, 0, 1)
	r.feedback = clamp32(feedback, 0, 0.95)
	r.wet = clamp32(wet, 0, 1)

	base := int(float32(r.sampleRate) * r.roomSize * 0.05)
	if base < 10 {
		base = 10
	}
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = combFilter{buf: make([]float32, combLens[i]), fb: r.feedback}
	}
	apLens := [2]int{maxInt(base*347/1000, 1), maxInt(base*213/1000, 1)}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{buf: make([]float32, apLens[i]), fb: 0.5}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *Reverb) Push(in frame.Block, port int) { r.in = in }

func (r *Reverb) Transform() []frame.Block {
	out := make(frame.Block, len(r.in))
	for i, fr := range r.in {
		l, rc := r.tick(fr[0], fr[1])
		out[i] = frame.Frame{l, rc}
	}
	return []frame.Block{out}
}

func (r *Reverb) tick(l, rc float32) (float32, float32) {
	mono := (l + rc) * 0.5
	var out float32
	for i := range r.combs {
		out += r.combs[i].process(mono)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].process(out)
	}
	return l*(1-r.wet) + out*r.wet, rc*(1-r.wet) + out*r.wet
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (r *Reverb) InputArity() int   { return 1 }
func (r *Reverb) OutputArity() int  { return 1 }
func (r *Reverb) Postponable() bool { return false }

func (r *Reverb) SetParameter(name string, value float32) {
	switch name {
	case "room_size":
		r.resize(value, r.feedback, r.wet)
	case "feedback":
		r.resize(r.roomSize, value, r.wet)
	case "wet":
		r.resize(r.roomSize, r.feedback, value)
	}
}

func (r *Reverb) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "Reverb",
		Description: "Schroeder reverb: four combs into two allpass filters.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "room_size", Kind: KindRange, Default: 0.5, Min: 0, Max: 1},
			{Name: "feedback", Kind: KindRange, Default: 0.7, Min: 0, Max: 0.95},
			{Name: "wet", Kind: KindRange, Default: 0.3, Min: 0, Max: 1},
		},
	}
}
