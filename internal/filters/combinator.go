package filters

import (
	"strconv"

	"github.com/cbegin/graphsynth/internal/frame"
)

// Combinator sums N weighted inputs into a single combined signal, then
// fans that same combined block out to M output ports (spec §6). Mismatched
// input block lengths are resolved by taking the first non-empty input's
// length and treating shorter/missing inputs as zero-padded, per spec's
// resolution of the original's inconsistent Combinator behavior.
type Combinator struct {
	n, m    int
	weights []float32
	ins     []frame.Block
}

// NewCombinator creates an N-input, M-output combinator with unit weights.
func NewCombinator(n, m int) *Combinator {
	weights := make([]float32, n)
	for i := range weights {
		weights[i] = 1
	}
	return &Combinator{n: n, m: m, weights: weights, ins: make([]frame.Block, n)}
}

func (c *Combinator) Push(in frame.Block, port int) {
	if port >= 0 && port < len(c.ins) {
		c.ins[port] = in
	}
}

func (c *Combinator) Transform() []frame.Block {
	length := 0
	for _, in := range c.ins {
		if len(in) > 0 {
			length = len(in)
			break
		}
	}
	combined := frame.NewBlock(length)
	for i, in := range c.ins {
		w := c.weights[i]
		if w == 0 {
			continue
		}
		for f := 0; f < len(in) && f < length; f++ {
			for ch := range combined[f] {
				combined[f][ch] += w * in[f][ch]
			}
		}
	}
	out := make([]frame.Block, c.m)
	for i := range out {
		out[i] = combined
	}
	return out
}

func (c *Combinator) InputArity() int   { return c.n }
func (c *Combinator) OutputArity() int  { return c.m }
func (c *Combinator) Postponable() bool { return false }

// SetParameter accepts "weight0".."weightN-1" to set individual weights.
func (c *Combinator) SetParameter(name string, value float32) {
	idx, ok := weightIndex(name, len(c.weights))
	if ok {
		c.weights[idx] = value
	}
}

func weightIndex(name string, n int) (int, bool) {
	const prefix = "weight"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return 0, false
	}
	idx := 0
	for _, ch := range name[len(prefix):] {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		idx = idx*10 + int(ch-'0')
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

func (c *Combinator) Metadata() FilterMeta {
	params := make([]ParameterDescriptor, c.n)
	for i := range params {
		params[i] = ParameterDescriptor{Name: "weight" + strconv.Itoa(i), Kind: KindFloat, Default: 1.0}
	}
	return FilterMeta{
		Name:        "Combinator",
		Description: "Weighted sum of N inputs, fanned out to M identical outputs.",
		InputPorts:  c.n,
		OutputPorts: c.m,
		Parameters:  params,
	}
}
