package command

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cbegin/graphsynth/internal/engine"
	"github.com/cbegin/graphsynth/internal/filters"
	"github.com/cbegin/graphsynth/internal/graph"
)

// CommandThread owns AppState and a shadow copy of the graph being edited,
// translating validated Commands into engine.AudioMessages on the message
// ring (spec §4.7's command thread).
type CommandThread struct {
	commands <-chan Command
	msgs     *engine.MessageRing
	events   chan<- engine.BackendEvent
	logger   *log.Logger

	state  *AppState
	shadow *graph.System // edited live; committed via AudioMessage::Swap

	blockSize int
}

// NewCommandThread wires a command thread around commands, forwarding
// translated messages through msgs and reporting validation failures
// through events (nil discards events).
func NewCommandThread(commands <-chan Command, msgs *engine.MessageRing, events chan<- engine.BackendEvent, logger *log.Logger, blockSize, sampleRate int) *CommandThread {
	return &CommandThread{
		commands:  commands,
		msgs:      msgs,
		events:    events,
		logger:    logger,
		state:     NewAppState(),
		shadow:    graph.NewSystem(blockSize, sampleRate),
		blockSize: blockSize,
	}
}

// Run processes commands until the channel closes (spec §5: "Command
// thread: receive on the command channel (may block arbitrarily long)").
func (ct *CommandThread) Run() {
	for cmd := range ct.commands {
		ct.process(cmd)
	}
}

// State exposes the authoritative application state for read-only
// inspection (e.g. a UI).
func (ct *CommandThread) State() *AppState { return ct.state }

// Shadow exposes the command thread's shadow graph for structural editing
// outside the command channel (e.g. a graph editor UI building up a patch
// before committing it).
func (ct *CommandThread) Shadow() *graph.System { return ct.shadow }

func (ct *CommandThread) process(cmd Command) {
	switch cmd.Tag {
	case CmdNoteStart:
		ct.handleNoteStart(cmd)
	case CmdNoteStop:
		ct.handleNoteStop(cmd)
	case CmdSetRenderMode:
		ct.handleSetRenderMode(cmd)
	case CmdAudioShutdown:
		ct.msgs.TrySend(engine.AudioMessage{Tag: engine.MsgShutdown})
	case CmdSetOctave:
		ct.handleSetOctave(cmd)
	case CmdSetMasterVolume:
		ct.handleSetMasterVolume(cmd)
	case CmdSetInstrument:
		if cmd.Row < 0 || cmd.Row >= rowCount {
			ct.reject(rowOutOfBounds(cmd.Row))
			return
		}
		ct.state.Rows[cmd.Row].InstrumentIdx = cmd.InstrumentIdx
	case CmdAddNode, CmdRemoveNode, CmdConnect, CmdDisconnect:
		ct.handleGraphEdit(cmd)
	case CmdSetParameter:
		ct.forward(engine.AudioMessage{
			Tag:        engine.MsgSetParameter,
			NodeID:     cmd.NodeID,
			ParamName:  cmd.ParamName,
			ParamValue: cmd.ParamValue,
		})
	case CmdGraphPlay, CmdGraphPause, CmdGraphStop:
		// Transport commands are consumed by the host UI layer; nothing
		// to forward to the render thread.
	case CmdSystemQuit:
		ct.msgs.TrySend(engine.AudioMessage{Tag: engine.MsgShutdown})
	case CmdSystemReset:
		ct.shadow = graph.NewSystem(ct.blockSize, ct.shadow.SampleRate())
		ct.forward(engine.AudioMessage{Tag: engine.MsgClearGraph})
	}
}

func (ct *CommandThread) handleNoteStart(cmd Command) {
	if cmd.Row < 0 || cmd.Row >= rowCount {
		ct.reject(rowOutOfBounds(cmd.Row))
		return
	}
	if cmd.Velocity < 0 || cmd.Velocity > 1 {
		ct.reject(invalidVolume(cmd.Velocity))
		return
	}
	row := ct.state.Rows[cmd.Row]
	concreteNote := cmd.Note + 12*(row.Octave-4)
	ct.forward(engine.AudioMessage{
		Tag:           engine.MsgNoteStart,
		InstrumentIdx: row.InstrumentIdx,
		Note:          concreteNote,
		Velocity:      cmd.Velocity,
	})
}

func (ct *CommandThread) handleNoteStop(cmd Command) {
	if cmd.Row < 0 || cmd.Row >= rowCount {
		ct.reject(rowOutOfBounds(cmd.Row))
		return
	}
	row := ct.state.Rows[cmd.Row]
	concreteNote := cmd.Note + 12*(row.Octave-4)
	ct.forward(engine.AudioMessage{
		Tag:           engine.MsgNoteStop,
		InstrumentIdx: row.InstrumentIdx,
		Note:          concreteNote,
	})
}

func (ct *CommandThread) handleSetOctave(cmd Command) {
	if cmd.Octave < 0 || cmd.Octave > 8 {
		ct.reject(invalidOctave(cmd.Octave))
		return
	}
	if cmd.Row < 0 || cmd.Row >= rowCount {
		ct.reject(rowOutOfBounds(cmd.Row))
		return
	}
	ct.state.Rows[cmd.Row].Octave = cmd.Octave
	ct.forward(engine.AudioMessage{Tag: engine.MsgSetOctave, Octave: cmd.Octave})
}

func (ct *CommandThread) handleSetMasterVolume(cmd Command) {
	if cmd.MasterVolume < 0 || cmd.MasterVolume > 1 {
		ct.reject(invalidVolume(cmd.MasterVolume))
		return
	}
	ct.state.MasterVolume = cmd.MasterVolume
	ct.forward(engine.AudioMessage{Tag: engine.MsgSetMasterVolume, MasterVolume: cmd.MasterVolume})
}

func (ct *CommandThread) handleSetRenderMode(cmd Command) {
	if cmd.RenderMode != engine.RenderModeInstruments && cmd.RenderMode != engine.RenderModeGraph {
		ct.reject(unknownRenderMode(int(cmd.RenderMode)))
		return
	}
	ct.state.RenderMode = cmd.RenderMode
	ct.forward(engine.AudioMessage{Tag: engine.MsgSetRenderMode, RenderMode: cmd.RenderMode})
}

// handleGraphEdit mutates the shadow graph only; the caller must issue a
// CmdSystemReset-independent Commit to push the shadow as a Swap (spec
// §4.7 item 4: "when the edit is committed, the entire new System is sent
// as AudioMessage::Swap(system)").
func (ct *CommandThread) handleGraphEdit(cmd Command) {
	var err error
	switch cmd.Tag {
	case CmdRemoveNode:
		err = ct.shadow.RemoveNode(cmd.NodeID)
	case CmdConnect:
		err = ct.shadow.Connect(cmd.FromNode, cmd.FromPort, cmd.ToNode, cmd.ToPort)
	case CmdDisconnect:
		err = ct.shadow.Disconnect(cmd.FromNode, cmd.ToNode)
	case CmdAddNode:
		err = ct.addNode(cmd)
	}
	if err != nil {
		ct.reject(&ValidationError{Command: "Graph edit", Reason: err.Error()})
	}
}

// addNode constructs a concrete node from cmd.NodeType and registers it on
// the shadow graph. Filter and sink node types are resolved through
// filters.NewByName / graph.NewOutputSink; generator node types have no
// general-purpose registry (a Source needs an instrument/voice wiring the
// command boundary doesn't carry) and remain a host/UI responsibility,
// added directly via Shadow().AddSource before issuing CmdConnect.
func (ct *CommandThread) addNode(cmd Command) error {
	switch cmd.Kind {
	case NodeFilter:
		f, err := filters.NewByName(cmd.NodeType, ct.shadow.SampleRate())
		if err != nil {
			return err
		}
		ct.shadow.AddFilter(f)
		return nil
	case NodeSink:
		ct.shadow.AddSink(graph.NewOutputSink())
		return nil
	default:
		return nil
	}
}

// Commit validates the shadow graph's schedule and, if it computes
// cleanly, sends the entire System as an atomic Swap. Swap must not be
// dropped on a full ring (spec §4.9), so it retries after a 1ms sleep
// rather than silently discarding the edit. A shadow graph whose block
// size no longer matches the render thread's configured render_chunk_size
// is rejected outright (Open Question decision, SPEC_FULL.md §13): the
// previous graph keeps running rather than handing the render thread a
// System it cannot execute at its fixed block size.
func (ct *CommandThread) Commit() error {
	if ct.shadow.BlockSize() != ct.blockSize {
		err := &ValidationError{Command: "Commit", Reason: fmt.Sprintf("shadow block size %d does not match render chunk size %d", ct.shadow.BlockSize(), ct.blockSize)}
		ct.reject(err)
		return err
	}
	if err := ct.shadow.Compute(); err != nil {
		ct.reject(&ValidationError{Command: "Commit", Reason: err.Error()})
		return err
	}
	msg := engine.AudioMessage{Tag: engine.MsgSwapGraph, Swap: ct.shadow}
	for !ct.msgs.TrySend(msg) {
		// Swap is the one message class that must not be dropped (spec
		// §4.9): retry with a brief yield rather than discarding the edit.
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (ct *CommandThread) forward(msg engine.AudioMessage) {
	if !ct.msgs.TrySend(msg) {
		if ct.logger != nil {
			ct.logger.Warn("message ring full, dropping message", "tag", msg.Tag)
		}
	}
}

func (ct *CommandThread) reject(err *ValidationError) {
	if ct.logger != nil {
		ct.logger.Error("command rejected", "command", err.Command, "reason", err.Reason)
	}
	if ct.events == nil {
		return
	}
	select {
	case ct.events <- engine.BackendEvent{Tag: engine.EventCommandError, Command: err.Command, Error: err.Reason}:
	default:
	}
}
