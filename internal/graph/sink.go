package graph

import "github.com/cbegin/graphsynth/internal/frame"

// OutputSink is the terminal node of a System: it accumulates whatever is
// pushed to its single input port and hands the most recent block to the
// render loop via Consume (spec §4.4's "sinks accumulate pushed frames").
type OutputSink struct {
	pending frame.Block
}

// NewOutputSink creates an empty output sink.
func NewOutputSink() *OutputSink {
	return &OutputSink{}
}

func (s *OutputSink) Push(in frame.Block, port int) { s.pending = in }

// Consume returns the block pushed since the last Consume, or nil if
// nothing was pushed this tick.
func (s *OutputSink) Consume() frame.Block {
	blk := s.pending
	s.pending = nil
	return blk
}

func (s *OutputSink) InputArity() int { return 1 }
