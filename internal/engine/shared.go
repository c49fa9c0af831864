// Package engine implements the three-thread runtime around a graph.System:
// a command thread forwards validated AudioMessages across a lock-free
// message ring to a render thread, which pushes rendered blocks across a
// lock-free audio ring to the device callback (spec §4.7).
package engine

import "sync/atomic"

// SharedAtomics holds the cross-thread state every thread may read. Master
// volume is written at startup and then by the render thread as it applies
// each MsgSetMasterVolume; the command thread does not write it directly.
// Sample rate is set once by NewSharedAtomics and has no setter. The
// underrun counter is incremented only by the callback.
type SharedAtomics struct {
	shutdown    atomic.Bool
	underruns   atomic.Uint64
	sampleRate  atomic.Int64
	masterVol   atomic.Uint32 // float32 bits, 1.0 = unity
}

// NewSharedAtomics initializes the shared state at the given sample rate
// and unity master volume.
func NewSharedAtomics(sampleRate int) *SharedAtomics {
	s := &SharedAtomics{}
	s.sampleRate.Store(int64(sampleRate))
	s.SetMasterVolume(1.0)
	return s
}

func (s *SharedAtomics) RequestShutdown()    { s.shutdown.Store(true) }
func (s *SharedAtomics) ShutdownRequested() bool { return s.shutdown.Load() }

func (s *SharedAtomics) IncrementUnderruns() { s.underruns.Add(1) }
func (s *SharedAtomics) Underruns() uint64   { return s.underruns.Load() }

func (s *SharedAtomics) SampleRate() int { return int(s.sampleRate.Load()) }

// SetMasterVolume stores v. It is called at startup and by the render
// thread for each MsgSetMasterVolume it applies.
func (s *SharedAtomics) SetMasterVolume(v float32) {
	s.masterVol.Store(float32bits(v))
}

func (s *SharedAtomics) MasterVolume() float32 {
	return float32frombits(s.masterVol.Load())
}
