package engine

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/cbegin/graphsynth/internal/frame"
)

// ringSampleSource is the device-callback thread's view of an AudioRing
// (spec §4.7): on every callback invocation it drains whatever the render
// thread has produced, interleaves it into the PCM bytes oto's player
// expects, and pads any shortfall with silence while counting it as an
// underrun. Non-blocking, non-allocating after warmup.
type ringSampleSource struct {
	mu      sync.Mutex
	ring    *AudioRing
	shared  *SharedAtomics
	scratch []frame.Frame
}

// NewCallbackAdapter wraps ring as an io.ReadCloser suitable for
// audio.NewPlayer, incrementing shared's underrun counter whenever the ring
// falls short of what the device callback requested.
func NewCallbackAdapter(ring *AudioRing, shared *SharedAtomics) io.ReadCloser {
	return &ringSampleSource{ring: ring, shared: shared}
}

// Read fills p (interleaved stereo float32, len(p)/8 frames) by draining the
// audio ring.
func (r *ringSampleSource) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / (frame.Channels * 4)
	if frames == 0 {
		return 0, nil
	}
	if cap(r.scratch) < frames {
		r.scratch = make([]frame.Frame, frames)
	}
	r.scratch = r.scratch[:frames]

	n := r.ring.Read(r.scratch)
	if n < frames {
		r.shared.IncrementUnderruns()
		for i := n; i < frames; i++ {
			r.scratch[i] = frame.Frame{}
		}
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < frame.Channels; ch++ {
			off := (i*frame.Channels + ch) * 4
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(r.scratch[i][ch]))
		}
	}
	return frames * frame.Channels * 4, nil
}

func (r *ringSampleSource) Close() error { return nil }
