package engine

import (
	"sync/atomic"

	"github.com/cbegin/graphsynth/internal/frame"
)

// MessageRing is a bounded single-producer/single-consumer queue of
// AudioMessages (spec §4.7/§5: "bounded SPSC, lock-free, sized to hold at
// least one block's worth of control updates"). TrySend/TryReceive never
// block.
type MessageRing struct {
	buf  []AudioMessage
	mask uint64
	head atomic.Uint64 // next write index (producer-owned)
	tail atomic.Uint64 // next read index (consumer-owned)
}

// NewMessageRing creates a ring whose capacity is the next power of two at
// least as large as size.
func NewMessageRing(size int) *MessageRing {
	cap := nextPow2(size)
	return &MessageRing{buf: make([]AudioMessage, cap), mask: uint64(cap - 1)}
}

// TrySend enqueues msg, returning false if the ring is full (spec §4.9: the
// command thread logs and drops non-structural messages on a full ring).
func (r *MessageRing) TrySend(msg AudioMessage) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= uint64(len(r.buf)) {
		return false
	}
	r.buf[head&r.mask] = msg
	r.head.Store(head + 1)
	return true
}

// TryReceive dequeues one message, returning ok=false if the ring is empty.
// Never blocks, per the render thread's non-blocking try-receive
// requirement (spec §5).
func (r *MessageRing) TryReceive() (AudioMessage, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail >= head {
		return AudioMessage{}, false
	}
	msg := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return msg, true
}

// Len reports the number of messages currently queued.
func (r *MessageRing) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// AudioRing is a bounded SPSC ring of interleaved float32 frames. Its
// capacity is the frame count passed to NewAudioRing rounded up to a power
// of two (graphsynthd passes audio_ring_buffer_size); it is not derived from
// target_latency_ms. Reads and writes never allocate and never lock,
// satisfying the device callback's real-time constraints.
type AudioRing struct {
	buf  []frame.Frame
	mask uint64
	head atomic.Uint64 // next write index (render thread)
	tail atomic.Uint64 // next read index (callback)
}

// NewAudioRing creates an audio ring sized to at least minFrames frames,
// rounded up to a power of two.
func NewAudioRing(minFrames int) *AudioRing {
	cap := nextPow2(minFrames)
	return &AudioRing{buf: make([]frame.Frame, cap), mask: uint64(cap - 1)}
}

// Capacity returns the ring's total frame capacity.
func (r *AudioRing) Capacity() int { return len(r.buf) }

// Available reports how many frames of room remain for a write.
func (r *AudioRing) Available() int {
	return len(r.buf) - int(r.head.Load()-r.tail.Load())
}

// Queued reports how many frames are ready to read.
func (r *AudioRing) Queued() int {
	return int(r.head.Load() - r.tail.Load())
}

// WriteBlock pushes an entire block if there is room, returning false
// (copying nothing) otherwise; callers should check Available() first to
// avoid ever partially writing a block (spec: swaps/blocks are atomic
// between two blocks).
func (r *AudioRing) WriteBlock(blk frame.Block) bool {
	if r.Available() < len(blk) {
		return false
	}
	head := r.head.Load()
	for i, f := range blk {
		r.buf[(head+uint64(i))&r.mask] = f
	}
	r.head.Store(head + uint64(len(blk)))
	return true
}

// Read copies up to len(dst) frames into dst, returning the number
// actually copied; the caller is responsible for filling any shortfall
// with silence and recording an underrun.
func (r *AudioRing) Read(dst []frame.Frame) int {
	tail := r.tail.Load()
	available := r.Queued()
	n := len(dst)
	if n > available {
		n = available
	}
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(tail+uint64(i))&r.mask]
	}
	r.tail.Store(tail + uint64(n))
	return n
}

func nextPow2(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
