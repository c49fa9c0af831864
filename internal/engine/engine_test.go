package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/graphsynth/internal/frame"
)

func TestMessageRingFIFOOrder(t *testing.T) {
	r := NewMessageRing(4)
	require.True(t, r.TrySend(AudioMessage{Tag: MsgSetOctave, Octave: 1}))
	require.True(t, r.TrySend(AudioMessage{Tag: MsgSetOctave, Octave: 2}))

	m1, ok := r.TryReceive()
	require.True(t, ok)
	assert.Equal(t, 1, m1.Octave)

	m2, ok := r.TryReceive()
	require.True(t, ok)
	assert.Equal(t, 2, m2.Octave)

	_, ok = r.TryReceive()
	assert.False(t, ok)
}

func TestMessageRingTrySendFailsWhenFull(t *testing.T) {
	r := NewMessageRing(2) // rounds up to power of two (2)
	require.True(t, r.TrySend(AudioMessage{}))
	require.True(t, r.TrySend(AudioMessage{}))
	assert.False(t, r.TrySend(AudioMessage{}))
}

func TestAudioRingWriteBlockAtomicity(t *testing.T) {
	r := NewAudioRing(8)
	blk := make(frame.Block, 4)
	for i := range blk {
		blk[i] = frame.Frame{float32(i), float32(i)}
	}
	require.True(t, r.WriteBlock(blk))
	assert.Equal(t, 4, r.Queued())

	// A block bigger than remaining room is rejected wholesale, never
	// partially written.
	tooBig := make(frame.Block, 100)
	assert.False(t, r.WriteBlock(tooBig))
	assert.Equal(t, 4, r.Queued())
}

func TestAudioRingReadReportsShortfall(t *testing.T) {
	r := NewAudioRing(8)
	blk := make(frame.Block, 2)
	require.True(t, r.WriteBlock(blk))

	dst := make([]frame.Frame, 5)
	n := r.Read(dst)
	assert.Equal(t, 2, n)
}

func TestCallbackAdapterCountsUnderrunOnShortfall(t *testing.T) {
	shared := NewSharedAtomics(44100)
	ring := NewAudioRing(8)
	src := NewCallbackAdapter(ring, shared)

	dst := make([]byte, 8*frame.Channels*4) // request 8 frames, ring has none
	n, err := src.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, len(dst), n)

	for _, b := range dst {
		assert.Equal(t, byte(0), b)
	}
	assert.Equal(t, uint64(1), shared.Underruns())
}

func TestSharedAtomicsMasterVolumeRoundTrips(t *testing.T) {
	s := NewSharedAtomics(48000)
	s.SetMasterVolume(0.25)
	assert.Equal(t, float32(0.25), s.MasterVolume())
}
