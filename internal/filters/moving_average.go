package filters

import "github.com/cbegin/graphsynth/internal/frame"

// MovingAverage outputs the mean of the last size frames, per channel,
// via a circular buffer (spec §6).
type MovingAverage struct {
	size int
	buf  []frame.Frame
	pos  int
	sum  frame.Frame
	in   frame.Block
}

// NewMovingAverage creates a moving-average filter at the spec's default
// window size (3 frames).
func NewMovingAverage() *MovingAverage {
	m := &MovingAverage{}
	m.resize(3)
	return m
}

func (m *MovingAverage) resize(size int) {
	if size < 1 {
		size = 1
	}
	m.size = size
	m.buf = make([]frame.Frame, size)
	m.pos = 0
	m.sum = frame.Frame{}
}

func (m *MovingAverage) Push(in frame.Block, port int) { m.in = in }

func (m *MovingAverage) Transform() []frame.Block {
	out := make(frame.Block, len(m.in))
	for i, fr := range m.in {
		old := m.buf[m.pos]
		for ch := range fr {
			m.sum[ch] += fr[ch] - old[ch]
		}
		m.buf[m.pos] = fr
		m.pos++
		if m.pos >= len(m.buf) {
			m.pos = 0
		}
		for ch := range fr {
			out[i][ch] = m.sum[ch] / float32(m.size)
		}
	}
	return []frame.Block{out}
}

func (m *MovingAverage) InputArity() int   { return 1 }
func (m *MovingAverage) OutputArity() int  { return 1 }
func (m *MovingAverage) Postponable() bool { return false }

func (m *MovingAverage) SetParameter(name string, value float32) {
	if name == "size" {
		m.resize(int(value))
	}
}

func (m *MovingAverage) Metadata() FilterMeta {
	return FilterMeta{
		Name:        "MovingAverage",
		Description: "Mean of the last size frames, per channel.",
		InputPorts:  1,
		OutputPorts: 1,
		Parameters: []ParameterDescriptor{
			{Name: "size", Kind: KindFloat, Default: 3, Min: 1},
		},
	}
}
