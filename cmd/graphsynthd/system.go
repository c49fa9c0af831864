package main

import (
	"github.com/cbegin/graphsynth/internal/graph"
)

// newDefaultSystem builds the minimal System rack feeds into out of the
// box: rack straight to the output sink, no filters. A connected UI
// extends this via the command thread's shadow-graph edits and Commit.
func newDefaultSystem(blockSize, sampleRate int, rack graph.Source) *graph.System {
	sys := graph.NewSystem(blockSize, sampleRate)
	srcID := sys.AddSource(rack)
	sinkID := sys.AddSink(graph.NewOutputSink())
	if err := sys.Connect(srcID, 0, sinkID, 0); err != nil {
		panic(err)
	}
	if err := sys.Compute(); err != nil {
		panic(err)
	}
	return sys
}
