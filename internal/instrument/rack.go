package instrument

import "github.com/cbegin/graphsynth/internal/frame"

// Voicer is the common surface Instrument and Drum both satisfy: advance
// one sample and report a mono value.
type Voicer interface {
	Tick(dt float64) float32
}

// Rack is the graph.Source that drives every live-performance row's
// instrument (spec §4.7's "render thread owns all instrument state after
// startup"): NoteStart/NoteStop arriving from the command thread route here
// by InstrumentIdx, and each Pull mixes every voicer's next block down to
// stereo.
type Rack struct {
	voicers    []Voicer
	sampleRate int
	active     bool
}

// NewRack builds a rack over voicers indexed by instrument index (the same
// index space as Command.InstrumentIdx / AudioMessage.InstrumentIdx).
func NewRack(sampleRate int, voicers ...Voicer) *Rack {
	return &Rack{voicers: voicers, sampleRate: sampleRate, active: true}
}

// StartNote implements engine.NoteRouter, routing to the instrument at
// instrumentIdx if it accepts notes (an *Instrument or *Drum).
func (r *Rack) StartNote(instrumentIdx, note int, velocity float32) {
	if instrumentIdx < 0 || instrumentIdx >= len(r.voicers) {
		return
	}
	switch v := r.voicers[instrumentIdx].(type) {
	case *Instrument:
		v.StartNote(note, float64(velocity))
	case *Drum:
		v.StartNote()
	}
}

// StopNote implements engine.NoteRouter.
func (r *Rack) StopNote(instrumentIdx, note int) {
	if instrumentIdx < 0 || instrumentIdx >= len(r.voicers) {
		return
	}
	switch v := r.voicers[instrumentIdx].(type) {
	case *Instrument:
		v.StopNote(note)
	case *Drum:
		v.StopNote()
	}
}

// Pull implements graph.Source: every voicer is ticked once per frame and
// summed, duplicated across both channels (mono instruments, stereo bus).
func (r *Rack) Pull(blockSize int) frame.Block {
	blk := frame.NewBlock(blockSize)
	if !r.active || len(r.voicers) == 0 {
		return blk
	}
	dt := 1.0 / float64(r.sampleRate)
	for i := range blk {
		var mix float32
		for _, v := range r.voicers {
			mix += v.Tick(dt)
		}
		blk[i] = frame.Frame{mix, mix}
	}
	return blk
}

func (r *Rack) Start()         { r.active = true }
func (r *Rack) Stop()          { r.active = false }
func (r *Rack) Kill()          { r.active = false }
func (r *Rack) IsActive() bool { return r.active }
