package engine

import "github.com/cbegin/graphsynth/internal/graph"

// RenderMode selects which note-routing scheme the render thread applies:
// fixed instrument rows, or direct graph-node addressing (spec §6).
type RenderMode int

const (
	RenderModeInstruments RenderMode = iota
	RenderModeGraph
)

// AudioMessage is the tagged variant forwarded from the command thread to
// the render thread over the message ring (spec §4, Key Data Structures
// table). Exactly one field group is populated per Tag.
type AudioMessage struct {
	Tag AudioMessageTag

	InstrumentIdx int
	Note          int
	Velocity      float32

	Octave       int
	MasterVolume float32
	SampleRate   int
	RenderMode   RenderMode

	NodeID    graph.NodeID
	ParamName string
	ParamValue float32

	Swap *graph.System
}

type AudioMessageTag int

const (
	MsgNoteStart AudioMessageTag = iota
	MsgNoteStop
	MsgSetOctave
	MsgSetMasterVolume
	MsgSetSampleRate
	MsgSetRenderMode
	MsgSetParameter
	MsgSwapGraph
	MsgClearGraph
	MsgShutdown
)

// BackendEvent is the tagged variant emitted to the external listener by
// the command or render thread (spec §4, §6).
type BackendEvent struct {
	Tag BackendEventTag

	SampleRate int

	Command string
	Error   string

	UnderrunCount uint64

	CPUUsage  float64
	LatencyMs float64

	Description string
}

type BackendEventTag int

const (
	EventAudioStarted BackendEventTag = iota
	EventAudioStopped
	EventCommandError
	EventBufferUnderrun
	EventMetrics
	EventGraphError
)
