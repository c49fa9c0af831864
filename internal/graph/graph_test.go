package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/graphsynth/internal/frame"
)

// constSource emits a fixed, constant-valued block while active and
// silence otherwise.
type constSource struct {
	value  float32
	active bool
}

func (c *constSource) Pull(blockSize int) frame.Block {
	blk := frame.NewBlock(blockSize)
	if c.active {
		for i := range blk {
			blk[i] = frame.Frame{c.value, c.value}
		}
	}
	return blk
}
func (c *constSource) Start()        { c.active = true }
func (c *constSource) Stop()         { c.active = false }
func (c *constSource) Kill()         { c.active = false }
func (c *constSource) IsActive() bool { return c.active }

// passThrough is a 1-in/1-out filter that forwards its input verbatim.
type passThrough struct {
	in frame.Block
}

func (p *passThrough) Push(in frame.Block, port int)  { p.in = in }
func (p *passThrough) Transform() []frame.Block       { return []frame.Block{p.in} }
func (p *passThrough) InputArity() int                { return 1 }
func (p *passThrough) OutputArity() int               { return 1 }
func (p *passThrough) Postponable() bool              { return false }
func (p *passThrough) SetParameter(string, float32)   {}

// delayLine is a postponable 1-in/1-out filter, standing in for the spec's
// Delay filter for cycle-breaking purposes only (no real delay math).
type delayLine struct {
	in  frame.Block
}

func (d *delayLine) Push(in frame.Block, port int)  { d.in = in }
func (d *delayLine) Transform() []frame.Block       { return []frame.Block{d.in} }
func (d *delayLine) InputArity() int                { return 1 }
func (d *delayLine) OutputArity() int               { return 1 }
func (d *delayLine) Postponable() bool              { return true }
func (d *delayLine) SetParameter(string, float32)   {}

// gainFilter scales its input by a fixed factor.
type gainFilter struct {
	factor float32
	in     frame.Block
}

func (g *gainFilter) Push(in frame.Block, port int) { g.in = in }
func (g *gainFilter) Transform() []frame.Block {
	out := g.in.Clone()
	frame.ScaleInPlace(out, g.factor)
	return []frame.Block{out}
}
func (g *gainFilter) InputArity() int              { return 1 }
func (g *gainFilter) OutputArity() int              { return 1 }
func (g *gainFilter) Postponable() bool             { return false }
func (g *gainFilter) SetParameter(string, float32)  {}

// combinator sums N input blocks into one output block.
type combinator struct {
	n   int
	ins []frame.Block
}

func newCombinator(n int) *combinator { return &combinator{n: n, ins: make([]frame.Block, n)} }

func (c *combinator) Push(in frame.Block, port int) { c.ins[port] = in }
func (c *combinator) Transform() []frame.Block {
	var out frame.Block
	for _, in := range c.ins {
		if in == nil {
			continue
		}
		if out == nil {
			out = in.Clone()
		} else {
			frame.AddInPlace(out, in)
		}
	}
	return []frame.Block{out}
}
func (c *combinator) InputArity() int              { return c.n }
func (c *combinator) OutputArity() int              { return 1 }
func (c *combinator) Postponable() bool             { return false }
func (c *combinator) SetParameter(string, float32)  {}

// duplicate fans one input out to two identical outputs.
type duplicate struct{ in frame.Block }

func (d *duplicate) Push(in frame.Block, port int) { d.in = in }
func (d *duplicate) Transform() []frame.Block      { return []frame.Block{d.in, d.in.Clone()} }
func (d *duplicate) InputArity() int               { return 1 }
func (d *duplicate) OutputArity() int              { return 2 }
func (d *duplicate) Postponable() bool             { return false }
func (d *duplicate) SetParameter(string, float32)  {}

// captureSink records every block pushed to it.
type captureSink struct {
	blocks []frame.Block
}

func (s *captureSink) Push(in frame.Block, port int) { s.blocks = append(s.blocks, in) }
func (s *captureSink) Consume() frame.Block {
	if len(s.blocks) == 0 {
		return nil
	}
	b := s.blocks[len(s.blocks)-1]
	s.blocks = s.blocks[:len(s.blocks)-1]
	return b
}
func (s *captureSink) InputArity() int { return 1 }

func TestSilentPipelineProducesSilence(t *testing.T) {
	s := NewSystem(8, 44100)
	src := &constSource{value: 1}
	sink := &captureSink{}
	srcID := s.AddSource(src)
	sinkID := s.AddSink(sink)
	require.NoError(t, s.Connect(srcID, 0, sinkID, 0))

	// Source never started: Pull returns silence.
	require.NoError(t, s.Run())
	blk := sink.Consume()
	require.NotNil(t, blk)
	assert.True(t, blk.Silent())
}

func TestLinearPipelineDeliversExactlyOneBlockPerEdge(t *testing.T) {
	s := NewSystem(4, 44100)
	src := &constSource{value: 1}
	src.Start()
	gain := &gainFilter{factor: 0.5}
	sink := &captureSink{}

	srcID := s.AddSource(src)
	gainID := s.AddFilter(gain)
	sinkID := s.AddSink(sink)
	require.NoError(t, s.Connect(srcID, 0, gainID, 0))
	require.NoError(t, s.Connect(gainID, 0, sinkID, 0))

	require.NoError(t, s.Run())
	require.Len(t, sink.blocks, 1)
	blk := sink.Consume()
	for _, f := range blk {
		assert.Equal(t, float32(0.5), f[0])
	}
}

func TestFeedbackDelayLoopBreaksCycleAtPostponableNode(t *testing.T) {
	// source -> combinator -> duplicate -> sink
	//                          duplicate -> delay -> gain -> combinator (feedback)
	s := NewSystem(4, 44100)
	src := &constSource{value: 1}
	src.Start()
	comb := newCombinator(2)
	dup := &duplicate{}
	delay := &delayLine{}
	gain := &gainFilter{factor: 0.5}
	sink := &captureSink{}

	srcID := s.AddSource(src)
	combID := s.AddFilter(comb)
	dupID := s.AddFilter(dup)
	delayID := s.AddFilter(delay)
	gainID := s.AddFilter(gain)
	sinkID := s.AddSink(sink)

	require.NoError(t, s.Connect(srcID, 0, combID, 0))
	require.NoError(t, s.Connect(combID, 0, dupID, 0))
	require.NoError(t, s.Connect(dupID, 0, sinkID, 0))
	require.NoError(t, s.Connect(dupID, 1, delayID, 0))
	require.NoError(t, s.Connect(delayID, 0, gainID, 0))
	require.NoError(t, s.Connect(gainID, 0, combID, 1))

	require.NoError(t, s.Compute())
	require.Len(t, s.feedback, 1)
	assert.Equal(t, gainID, s.feedback[0].FromNode)
	assert.Equal(t, combID, s.feedback[0].ToNode)

	// First tick: feedback input is silent (nothing queued yet).
	require.NoError(t, s.Run())
	first := sink.Consume()
	for _, f := range first {
		assert.Equal(t, float32(1), f[0])
	}

	// Second tick: feedback has caught up with tick one's gain output
	// (0.5), so the sink now reads 1.5.
	require.NoError(t, s.Run())
	second := sink.Consume()
	for _, f := range second {
		assert.Equal(t, float32(1.5), f[0])
	}
}

func TestUnbreakableCycleReturnsErrCycleDetected(t *testing.T) {
	s := NewSystem(4, 44100)
	a := &passThrough{}
	b := &passThrough{}
	aID := s.AddFilter(a)
	bID := s.AddFilter(b)
	require.NoError(t, s.Connect(aID, 0, bID, 0))
	require.NoError(t, s.Connect(bID, 0, aID, 0))

	err := s.Compute()
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestConnectRejectsPortOutOfRange(t *testing.T) {
	s := NewSystem(4, 44100)
	src := &constSource{}
	sink := &captureSink{}
	srcID := s.AddSource(src)
	sinkID := s.AddSink(sink)

	err := s.Connect(srcID, 3, sinkID, 0)
	var portErr *InvalidPortError
	require.ErrorAs(t, err, &portErr)
}

func TestConnectRejectsDuplicateDestinationPort(t *testing.T) {
	s := NewSystem(4, 44100)
	src1 := &constSource{}
	src2 := &constSource{}
	sink := &captureSink{}
	src1ID := s.AddSource(src1)
	src2ID := s.AddSource(src2)
	sinkID := s.AddSink(sink)

	require.NoError(t, s.Connect(src1ID, 0, sinkID, 0))
	err := s.Connect(src2ID, 0, sinkID, 0)
	assert.ErrorIs(t, err, ErrConnectionNotAllowed)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	s := NewSystem(4, 44100)
	src := &constSource{value: 1}
	src.Start()
	gain := &gainFilter{factor: 0.5}
	sink := &captureSink{}
	srcID := s.AddSource(src)
	gainID := s.AddFilter(gain)
	sinkID := s.AddSink(sink)
	require.NoError(t, s.Connect(srcID, 0, gainID, 0))
	require.NoError(t, s.Connect(gainID, 0, sinkID, 0))

	require.NoError(t, s.RemoveNode(gainID))
	assert.Len(t, s.Edges(), 0)

	_, ok := s.Kind(gainID)
	assert.False(t, ok)
}

func TestDisconnectRemovesMatchingEdge(t *testing.T) {
	s := NewSystem(4, 44100)
	src := &constSource{}
	sink := &captureSink{}
	srcID := s.AddSource(src)
	sinkID := s.AddSink(sink)
	require.NoError(t, s.Connect(srcID, 0, sinkID, 0))
	require.NoError(t, s.Disconnect(srcID, sinkID))
	assert.Len(t, s.Edges(), 0)
}

func TestGetSinkReturnsOrdinalCreationOrder(t *testing.T) {
	s := NewSystem(4, 44100)
	sinkA := &captureSink{}
	sinkB := &captureSink{}
	s.AddSink(sinkA)
	s.AddSink(sinkB)

	got0, err := s.GetSink(0)
	require.NoError(t, err)
	assert.Same(t, sinkA, got0)

	got1, err := s.GetSink(1)
	require.NoError(t, err)
	assert.Same(t, sinkB, got1)

	_, err = s.GetSink(2)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestMergeSplicesSubSystemSinkIntoHostFilter(t *testing.T) {
	host := NewSystem(4, 44100)
	hostGain := &gainFilter{factor: 1}
	hostSink := &captureSink{}
	hostGainID := host.AddFilter(hostGain)
	hostSinkID := host.AddSink(hostSink)
	require.NoError(t, host.Connect(hostGainID, 0, hostSinkID, 0))

	sub := NewSystem(4, 44100)
	subSrc := &constSource{value: 1}
	subSrc.Start()
	subSink := &captureSink{}
	subSrcID := sub.AddSource(subSrc)
	subSinkID := sub.AddSink(subSink)
	require.NoError(t, sub.Connect(subSrcID, 0, subSinkID, 0))

	merged, err := host.Merge(sub, []PortPair{{SubSinkIndex: 0, SubSinkPort: 0, HostNodeID: hostGainID, HostPort: 0}})
	require.NoError(t, err)

	require.NoError(t, merged.Run())
	blk := hostSink.Consume()
	require.NotNil(t, blk)
	for _, f := range blk {
		assert.Equal(t, float32(1), f[0])
	}
}
