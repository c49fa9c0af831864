package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/graphsynth/internal/frame"
)

func block(vals ...float32) frame.Block {
	b := make(frame.Block, len(vals))
	for i, v := range vals {
		b[i] = frame.Frame{v, v}
	}
	return b
}

func TestGainScalesEachChannel(t *testing.T) {
	g := NewGain()
	g.SetParameter("factor", 0.25)
	g.Push(block(1, 2, 3), 0)
	out := g.Transform()[0]
	require.Len(t, out, 3)
	assert.Equal(t, float32(0.25), out[0][0])
	assert.Equal(t, float32(0.75), out[2][1])
}

func TestClipperClampsToRange(t *testing.T) {
	c := NewClipper()
	c.SetParameter("max_ampl", 0.5)
	c.Push(block(-2, 0, 2), 0)
	out := c.Transform()[0]
	assert.Equal(t, float32(-0.5), out[0][0])
	assert.Equal(t, float32(0), out[1][0])
	assert.Equal(t, float32(0.5), out[2][0])
}

func TestCombinatorZeroPadsMismatchedLengths(t *testing.T) {
	c := NewCombinator(2, 1)
	c.Push(block(1, 1, 1, 1), 0)
	c.Push(block(2, 2), 1) // shorter: zero-padded for frames 2,3
	out := c.Transform()[0]
	require.Len(t, out, 4)
	assert.Equal(t, float32(3), out[0][0])
	assert.Equal(t, float32(3), out[1][0])
	assert.Equal(t, float32(1), out[2][0])
	assert.Equal(t, float32(1), out[3][0])
}

func TestCombinatorUsesFirstNonEmptyInputLengthNotMax(t *testing.T) {
	c := NewCombinator(2, 1)
	c.Push(block(1, 1), 0)          // first non-empty: length 2 should win
	c.Push(block(2, 2, 2, 2), 1)    // longer non-empty input, must not win
	out := c.Transform()[0]
	require.Len(t, out, 2)
	assert.Equal(t, float32(3), out[0][0])
	assert.Equal(t, float32(3), out[1][0])
}

func TestDuplicateProducesTwoIdenticalOutputs(t *testing.T) {
	d := NewDuplicate()
	d.Push(block(1, 2), 0)
	out := d.Transform()
	require.Len(t, out, 2)
	assert.Equal(t, out[0], out[1])
}

func TestDelayIsPostponableAndPopsOldest(t *testing.T) {
	d := NewDelay(1000)
	d.SetParameter("delay_seconds", 0.003) // 3 frames at 1000Hz
	assert.True(t, d.Postponable())

	d.Push(block(1, 2, 3), 0)
	first := d.Transform()[0]
	for _, f := range first {
		assert.Equal(t, float32(0), f[0], "ring starts silent")
	}

	d.Push(block(4, 5, 6), 0)
	second := d.Transform()[0]
	assert.Equal(t, float32(1), second[0][0])
	assert.Equal(t, float32(2), second[1][0])
	assert.Equal(t, float32(3), second[2][0])
}

func TestLowPassSmoothsStepInput(t *testing.T) {
	lp := NewLowPass(44100)
	lp.SetParameter("cutoff_frequency", 500)
	lp.Push(block(1, 1, 1, 1, 1, 1, 1, 1), 0)
	out := lp.Transform()[0]
	assert.Less(t, out[0][0], float32(1))
	assert.Greater(t, out[len(out)-1][0], out[0][0])
}

func TestResonantBandpassResetClearsState(t *testing.T) {
	rb := NewResonantBandpass(44100)
	rb.Push(block(1, 0, 1, 0, 1, 0, 1, 0), 0)
	rb.Transform()
	rb.Reset()
	assert.Equal(t, [frame.Channels]float32{}, rb.z1)
	assert.Equal(t, [frame.Channels]float32{}, rb.z2)
}

func TestMovingAverageMean(t *testing.T) {
	ma := NewMovingAverage()
	ma.SetParameter("size", 2)
	ma.Push(block(2, 4, 6), 0)
	out := ma.Transform()[0]
	assert.Equal(t, float32(1), out[0][0]) // (2+0)/2
	assert.Equal(t, float32(3), out[1][0]) // (2+4)/2
	assert.Equal(t, float32(5), out[2][0]) // (4+6)/2
}

func TestCompressorUnityBelowThreshold(t *testing.T) {
	c := NewCompressor(44100)
	c.SetParameter("threshold", 0.8)
	c.Push(block(0.1, 0.1, 0.1, 0.1, 0.1), 0)
	out := c.Transform()[0]
	assert.InDelta(t, 0.1, out[len(out)-1][0], 0.02)
}

func TestTremoloModulatesAmplitude(t *testing.T) {
	tr := NewTremolo(1000)
	tr.SetParameter("frequency", 250) // quarter cycle per sample at this rate
	tr.SetParameter("depth", 1)
	tr.Push(block(1, 1, 1, 1), 0)
	out := tr.Transform()[0]
	// theta=0 => mod = 1 - 1*0.5*(1+0) = 0.5
	assert.InDelta(t, 0.5, out[0][0], 1e-5)
}

func TestDistortionClampsTowardUnity(t *testing.T) {
	d := NewDistortion(44100)
	d.SetParameter("pre_gain", 10)
	d.Push(block(1, 1), 0)
	out := d.Transform()[0]
	assert.Less(t, out[0][0], float32(1.01))
	assert.Greater(t, out[0][0], float32(0.9))
}

func TestDistortionZeroInputProducesZeroOutput(t *testing.T) {
	d := NewDistortion(44100)
	d.Push(block(0, 0), 0)
	out := d.Transform()[0]
	assert.Equal(t, float32(0), out[0][0])
}

func TestChorusWetZeroPassesInputThrough(t *testing.T) {
	c := NewChorus(44100)
	c.SetParameter("wet", 0)
	in := block(0.3, 0.3)
	c.Push(in, 0)
	out := c.Transform()[0]
	assert.InDelta(t, 0.3, out[0][0], 1e-6)
}

func TestReverbWetZeroPassesInputThrough(t *testing.T) {
	r := NewReverb(44100)
	r.SetParameter("wet", 0)
	r.Push(block(0.4, 0.4), 0)
	out := r.Transform()[0]
	assert.InDelta(t, 0.4, out[0][0], 1e-6)
}

func TestRegistryBuildsEveryKnownFilterType(t *testing.T) {
	names := []string{
		"gain", "clipper", "combinator", "duplicate", "delay",
		"low_pass", "high_pass", "band_pass", "resonant_bandpass",
		"moving_average", "tremolo", "compressor", "chorus", "distortion",
		"reverb",
	}
	for _, name := range names {
		f, err := NewByName(name, 44100)
		assert.NoError(t, err, name)
		assert.NotNil(t, f, name)
	}
	_, err := NewByName("nonexistent", 44100)
	assert.Error(t, err)
}
