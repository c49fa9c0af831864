package command

import (
	"github.com/cbegin/graphsynth/internal/engine"
	"github.com/cbegin/graphsynth/internal/graph"
)

// CommandTag discriminates the Audio | App | Graph | System command groups
// named in spec §6's boundary schema.
type CommandTag int

const (
	CmdNoteStart CommandTag = iota
	CmdNoteStop
	CmdSetRenderMode
	CmdAudioShutdown

	CmdSetOctave
	CmdSetMasterVolume
	CmdSetInstrument

	CmdAddNode
	CmdRemoveNode
	CmdConnect
	CmdDisconnect
	CmdSetParameter
	CmdGraphPlay
	CmdGraphPause
	CmdGraphStop

	CmdSystemQuit
	CmdSystemReset
)

// NodeKind mirrors graph.Kind for the AddNode command's node_type/kind
// fields, kept independent of the graph package's internal enum so command
// payloads stay a pure boundary schema.
type NodeKind int

const (
	NodeGenerator NodeKind = iota
	NodeFilter
	NodeSink
)

// Command is the tagged boundary command the command thread receives,
// validates, and translates (spec §6).
type Command struct {
	Tag CommandTag

	// Audio::NoteStart / NoteStop
	Note     int
	Row      int
	Velocity float32

	// Audio::SetRenderMode
	RenderMode engine.RenderMode

	// App::Live::SetOctave
	Octave int

	// App::Live::SetMasterVolume
	MasterVolume float32

	// App::Live::SetInstrument
	InstrumentIdx int

	// Graph::AddNode
	NodeID   graph.NodeID
	NodeType string
	Kind     NodeKind
	PosX     float32
	PosY     float32

	// Graph::Connect / Disconnect / SetParameter
	FromNode  graph.NodeID
	FromPort  int
	ToNode    graph.NodeID
	ToPort    int
	ParamName string
	ParamValue float32
}

// Row is one live-performance row's current instrument and octave binding.
type Row struct {
	InstrumentIdx int
	Octave        int
}

// rowCount is spec §4.7's "row index < 2" validation bound.
const rowCount = 2

// AppState is the authoritative application state the command thread
// owns: row/octave/instrument bindings and graph editor state (spec
// §4.7's "Threads" item 1).
type AppState struct {
	Rows         [rowCount]Row
	RenderMode   engine.RenderMode
	MasterVolume float32
}

// NewAppState creates the default application state: octave 4 on every
// row, Instruments render mode, unity master volume.
func NewAppState() *AppState {
	s := &AppState{RenderMode: engine.RenderModeInstruments, MasterVolume: 1.0}
	for i := range s.Rows {
		s.Rows[i].Octave = 4
	}
	return s
}
