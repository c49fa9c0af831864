package engine

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/cbegin/graphsynth/internal/frame"
	"github.com/cbegin/graphsynth/internal/graph"
)

// maxMessagesPerBlock bounds how many queued messages the render thread
// drains before executing a block, so a burst of control traffic cannot
// starve rendering (spec §4.7's render loop step (a)).
const maxMessagesPerBlock = 64

// NoteRouter receives NoteStart/NoteStop in RenderModeInstruments; the
// render thread owns no instrument state itself.
type NoteRouter interface {
	StartNote(instrumentIdx, note int, velocity float32)
	StopNote(instrumentIdx, note int)
}

// RenderState mirrors spec §4.8's render-thread state machine:
// Starting -> Running -> Draining -> Stopped.
type RenderState int

const (
	RenderStarting RenderState = iota
	RenderRunning
	RenderDraining
	RenderStopped
)

// RenderThread owns the System and all node state after startup (spec
// §4.7, §5). It drains AudioMessages from the message ring, mutates graph
// or voice state, executes blocks, and pushes them to the audio ring.
type RenderThread struct {
	sys     *graph.System
	shared  *SharedAtomics
	msgs    *MessageRing
	audio   *AudioRing
	router  NoteRouter
	mode    RenderMode
	events  chan<- BackendEvent
	logger  *log.Logger
	state   RenderState
	sinkIdx int
}

// NewRenderThread wires a render thread around sys, routing NoteStart/Stop
// to router when in RenderModeInstruments. events may be nil to discard
// backend events.
func NewRenderThread(sys *graph.System, shared *SharedAtomics, msgs *MessageRing, audio *AudioRing, router NoteRouter, events chan<- BackendEvent, logger *log.Logger) *RenderThread {
	return &RenderThread{
		sys:    sys,
		shared: shared,
		msgs:   msgs,
		audio:  audio,
		router: router,
		mode:   RenderModeInstruments,
		events: events,
		logger: logger,
		state:  RenderStarting,
	}
}

// Run executes the render loop until shutdown is requested; intended to be
// called as the body of the render goroutine.
func (rt *RenderThread) Run() {
	rt.state = RenderRunning
	rt.emit(BackendEvent{Tag: EventAudioStarted, SampleRate: rt.shared.SampleRate()})

	for {
		if rt.shared.ShutdownRequested() {
			rt.state = RenderDraining
		}

		rt.drainMessages()

		if rt.state == RenderDraining {
			rt.state = RenderStopped
			rt.emit(BackendEvent{Tag: EventAudioStopped})
			return
		}

		for rt.audio.Available() >= rt.sys.BlockSize() {
			if err := rt.sys.Run(); err != nil {
				rt.emit(BackendEvent{Tag: EventGraphError, Description: err.Error()})
				rt.writeSilentBlock()
				continue
			}
			rt.pushSinkOutputs()
		}

		time.Sleep(time.Millisecond)
	}
}

func (rt *RenderThread) drainMessages() {
	for i := 0; i < maxMessagesPerBlock; i++ {
		msg, ok := rt.msgs.TryReceive()
		if !ok {
			return
		}
		rt.apply(msg)
	}
}

func (rt *RenderThread) apply(msg AudioMessage) {
	switch msg.Tag {
	case MsgNoteStart:
		if rt.mode == RenderModeInstruments && rt.router != nil {
			rt.router.StartNote(msg.InstrumentIdx, msg.Note, msg.Velocity)
		}
	case MsgNoteStop:
		if rt.mode == RenderModeInstruments && rt.router != nil {
			rt.router.StopNote(msg.InstrumentIdx, msg.Note)
		}
	case MsgSetOctave:
		// Octave bookkeeping lives on the command thread; nothing to do here.
	case MsgSetMasterVolume:
		rt.shared.SetMasterVolume(msg.MasterVolume)
	case MsgSetSampleRate:
		// Sample rate is fixed at stream start (spec §6); ignored post-boot.
	case MsgSetRenderMode:
		rt.mode = msg.RenderMode
	case MsgSetParameter:
		if f, err := rt.sys.FilterByID(msg.NodeID); err == nil {
			f.SetParameter(msg.ParamName, msg.ParamValue)
		}
	case MsgSwapGraph:
		if msg.Swap != nil {
			rt.sys = msg.Swap
		}
	case MsgClearGraph:
		rt.sys = graph.NewSystem(rt.sys.BlockSize(), rt.sys.SampleRate())
	case MsgShutdown:
		rt.state = RenderDraining
	}
}

func (rt *RenderThread) pushSinkOutputs() {
	vol := rt.shared.MasterVolume()
	for i := 0; ; i++ {
		snk, err := rt.sys.GetSink(i)
		if err != nil {
			break
		}
		blk := snk.Consume()
		if blk == nil {
			continue
		}
		if vol != 1 {
			frame.ScaleInPlace(blk, vol)
		}
		if !rt.audio.WriteBlock(blk) {
			if rt.logger != nil {
				rt.logger.Warn("audio ring full, dropping rendered block")
			}
		}
	}
}

func (rt *RenderThread) writeSilentBlock() {
	silent := frame.NewBlock(rt.sys.BlockSize())
	rt.audio.WriteBlock(silent)
}

func (rt *RenderThread) emit(ev BackendEvent) {
	if rt.events == nil {
		return
	}
	select {
	case rt.events <- ev:
	default:
	}
}

// State reports the render thread's current lifecycle state.
func (rt *RenderThread) State() RenderState { return rt.state }
