package graph

import "github.com/cbegin/graphsynth/internal/frame"

// Run executes exactly one tick of the graph: feedback blocks queued by the
// previous tick are delivered first, then every node is pulled/transformed
// in schedule order, and finally this tick's feedback blocks are queued for
// the next tick (spec §4.4).
func (s *System) Run() error {
	if !s.computed {
		if err := s.Compute(); err != nil {
			return err
		}
	}

	// Deliver feedback blocks recorded at the end of the previous tick.
	for i, e := range s.feedback {
		blk, ok := s.pendingFeedback[i]
		if !ok {
			blk = frame.NewBlock(s.blockSize)
		}
		s.pushTo(e.ToNode, e.ToPort, blk)
	}

	outputs := make(map[NodeID][]frame.Block, len(s.schedule))

	for _, step := range s.schedule {
		switch step.kind {
		case KindSource:
			src := s.sources[step.id]
			blk := src.Pull(s.blockSize)
			outputs[step.id] = []frame.Block{blk}
			s.fanOut(step.id, outputs[step.id])
		case KindFilter:
			f := s.filters[step.id]
			blks := f.Transform()
			outputs[step.id] = blks
			s.fanOut(step.id, blks)
		case KindSink:
			// Inputs already delivered via Push from producers earlier in
			// the schedule; nothing further to do until Consume is called.
		}
	}

	// Stash this tick's output on each feedback edge's source port for
	// delivery at the start of the next tick.
	for i, e := range s.feedback {
		var blk frame.Block
		if outs, ok := outputs[e.FromNode]; ok && e.FromPort < len(outs) {
			blk = outs[e.FromPort]
		} else {
			blk = frame.NewBlock(s.blockSize)
		}
		s.pendingFeedback[i] = blk
	}

	return nil
}

// fanOut pushes producer's per-port outputs to every non-feedback edge
// leaving it.
func (s *System) fanOut(from NodeID, outs []frame.Block) {
	for _, e := range s.edges {
		if e.FromNode != from {
			continue
		}
		if s.isFeedback(e) {
			continue
		}
		if e.FromPort >= len(outs) {
			continue
		}
		s.pushTo(e.ToNode, e.ToPort, outs[e.FromPort])
	}
}

func (s *System) isFeedback(e Edge) bool {
	for _, fe := range s.feedback {
		if fe == e {
			return true
		}
	}
	return false
}

func (s *System) pushTo(to NodeID, port int, blk frame.Block) {
	if f, ok := s.filters[to]; ok {
		f.Push(blk, port)
		return
	}
	if snk, ok := s.sinks[to]; ok {
		snk.Push(blk, port)
		return
	}
}
