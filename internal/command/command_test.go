package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/graphsynth/internal/engine"
	"github.com/cbegin/graphsynth/internal/frame"
	"github.com/cbegin/graphsynth/internal/graph"
)

// noopFilter is a minimal 1-in-1-out graph.Filter stand-in for exercising
// shadow-graph edits without pulling in a concrete filter implementation.
type noopFilter struct{}

func (noopFilter) Push(in frame.Block, port int)        {}
func (noopFilter) Transform() []frame.Block              { return []frame.Block{nil} }
func (noopFilter) InputArity() int                       { return 1 }
func (noopFilter) OutputArity() int                      { return 1 }
func (noopFilter) Postponable() bool                     { return false }
func (noopFilter) SetParameter(name string, value float32) {}

func newTestThread() (*CommandThread, chan Command, chan engine.BackendEvent) {
	cmds := make(chan Command, 8)
	events := make(chan engine.BackendEvent, 8)
	msgs := engine.NewMessageRing(16)
	ct := NewCommandThread(cmds, msgs, events, nil, 256, 44100)
	return ct, cmds, events
}

func TestNoteStartRowOutOfBoundsEmitsCommandError(t *testing.T) {
	ct, _, events := newTestThread()
	ct.process(Command{Tag: CmdNoteStart, Note: 60, Row: 5, Velocity: 0.5})

	select {
	case ev := <-events:
		require.Equal(t, engine.EventCommandError, ev.Tag)
		assert.Contains(t, ev.Error, "Row index out of bounds: 5")
	default:
		t.Fatal("expected a CommandError event")
	}
}

func TestNoteStartInvalidVelocityEmitsCommandError(t *testing.T) {
	ct, _, events := newTestThread()
	ct.process(Command{Tag: CmdNoteStart, Note: 60, Row: 0, Velocity: 1.5})

	select {
	case ev := <-events:
		require.Equal(t, engine.EventCommandError, ev.Tag)
		assert.Contains(t, ev.Error, "Invalid volume")
	default:
		t.Fatal("expected a CommandError event")
	}
}

func TestNoteStartValidForwardsAudioMessageNoError(t *testing.T) {
	ct, _, events := newTestThread()
	ct.process(Command{Tag: CmdNoteStart, Note: 60, Row: 0, Velocity: 0.5})

	select {
	case <-events:
		t.Fatal("expected no CommandError event")
	default:
	}

	msg, ok := ct.msgs.TryReceive()
	require.True(t, ok)
	assert.Equal(t, engine.MsgNoteStart, msg.Tag)
	assert.Equal(t, float32(0.5), msg.Velocity)
}

func TestSetOctaveOutOfRangeRejected(t *testing.T) {
	ct, _, events := newTestThread()
	ct.process(Command{Tag: CmdSetOctave, Row: 0, Octave: 9})

	select {
	case ev := <-events:
		assert.Contains(t, ev.Error, "Invalid octave")
	default:
		t.Fatal("expected a CommandError event")
	}
}

func TestGraphConnectInvalidPortRejected(t *testing.T) {
	ct, _, events := newTestThread()
	srcID := ct.shadow.AddFilter(noopFilter{})
	ct.process(Command{Tag: CmdConnect, FromNode: srcID, FromPort: 99, ToNode: srcID, ToPort: 0})

	select {
	case ev := <-events:
		assert.Equal(t, engine.EventCommandError, ev.Tag)
	default:
		t.Fatal("expected a CommandError event")
	}
}

func TestCommitSendsSwapMessage(t *testing.T) {
	ct, _, _ := newTestThread()
	require.NoError(t, ct.Commit())

	msg, ok := ct.msgs.TryReceive()
	require.True(t, ok)
	assert.Equal(t, engine.MsgSwapGraph, msg.Tag)
	assert.NotNil(t, msg.Swap)
}

func TestCommitRejectsBlockSizeMismatch(t *testing.T) {
	ct, _, events := newTestThread()
	ct.shadow = graph.NewSystem(512, 44100) // render thread is configured for 256

	err := ct.Commit()
	require.Error(t, err)

	select {
	case ev := <-events:
		assert.Contains(t, ev.Error, "block size")
	default:
		t.Fatal("expected a CommandError event")
	}

	_, ok := ct.msgs.TryReceive()
	assert.False(t, ok, "mismatched shadow must not be forwarded as a Swap")
}
