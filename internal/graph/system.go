package graph

import (
	"github.com/cbegin/graphsynth/internal/frame"
)

type scheduleStep struct {
	id   NodeID
	kind Kind
}

// System is the audio graph container: nodes, edges, block size, and the
// computed schedule (spec §3, §4.4).
type System struct {
	blockSize  int
	sampleRate int

	nextID NodeID

	sources map[NodeID]Source
	filters map[NodeID]Filter
	sinks   map[NodeID]Sink

	sinkOrder []NodeID // creation order, for GetSink(index)

	edges    []Edge
	feedback []Edge

	// lastOutputs is not written or read by Run; feedback edges deliver the
	// producer's previous-block output through pendingFeedback instead.
	lastOutputs map[NodeID][]frame.Block
	// pendingFeedback holds the block queued by a feedback edge for
	// delivery at the start of the next Run().
	pendingFeedback map[int]frame.Block // keyed by index into feedback

	schedule []scheduleStep
	computed bool
}

// NewSystem creates an empty audio graph with the given block size and
// sample rate. Every pull/transform output in this System must be exactly
// blockSize frames long (spec §4.4's block-size invariant).
func NewSystem(blockSize, sampleRate int) *System {
	return &System{
		blockSize:       blockSize,
		sampleRate:      sampleRate,
		sources:         make(map[NodeID]Source),
		filters:         make(map[NodeID]Filter),
		sinks:           make(map[NodeID]Sink),
		pendingFeedback: make(map[int]frame.Block),
	}
}

// BlockSize returns the engine's configured render chunk size.
func (s *System) BlockSize() int { return s.blockSize }

// SampleRate returns the engine's configured sample rate.
func (s *System) SampleRate() int { return s.sampleRate }

func (s *System) newID() NodeID {
	s.nextID++
	return s.nextID
}

// AddSource registers a source node and invalidates the schedule.
func (s *System) AddSource(src Source) NodeID {
	id := s.newID()
	s.sources[id] = src
	s.computed = false
	return id
}

// AddFilter registers a filter node and invalidates the schedule.
func (s *System) AddFilter(f Filter) NodeID {
	id := s.newID()
	s.filters[id] = f
	s.computed = false
	return id
}

// AddSink registers a sink node and invalidates the schedule.
func (s *System) AddSink(snk Sink) NodeID {
	id := s.newID()
	s.sinks[id] = snk
	s.sinkOrder = append(s.sinkOrder, id)
	s.computed = false
	return id
}

// Kind reports which role id plays, or false if it does not exist.
func (s *System) Kind(id NodeID) (Kind, bool) {
	if _, ok := s.sources[id]; ok {
		return KindSource, true
	}
	if _, ok := s.filters[id]; ok {
		return KindFilter, true
	}
	if _, ok := s.sinks[id]; ok {
		return KindSink, true
	}
	return 0, false
}

func (s *System) arity(id NodeID) (in, out int, ok bool) {
	if _, found := s.sources[id]; found {
		return 0, 1, true
	}
	if f, found := s.filters[id]; found {
		return f.InputArity(), f.OutputArity(), true
	}
	if snk, found := s.sinks[id]; found {
		return snk.InputArity(), 0, true
	}
	return 0, 0, false
}

// RemoveNode removes a node and all incident edges, invalidating the
// schedule.
func (s *System) RemoveNode(id NodeID) error {
	if _, ok := s.Kind(id); !ok {
		return ErrNodeNotFound
	}
	delete(s.sources, id)
	delete(s.filters, id)
	if _, ok := s.sinks[id]; ok {
		delete(s.sinks, id)
		for i, sid := range s.sinkOrder {
			if sid == id {
				s.sinkOrder = append(s.sinkOrder[:i], s.sinkOrder[i+1:]...)
				break
			}
		}
	}
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.FromNode == id || e.ToNode == id {
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	s.computed = false
	return nil
}

// Connect records an edge from an output port to an input port. Fails with
// InvalidPortError if either port exceeds its node's declared arity, or
// ErrConnectionNotAllowed if the destination port is already bound.
func (s *System) Connect(from NodeID, fromPort int, to NodeID, toPort int) error {
	_, fromOut, ok := s.arity(from)
	if !ok {
		return ErrNodeNotFound
	}
	toIn, _, ok := s.arity(to)
	if !ok {
		return ErrNodeNotFound
	}
	if fromPort < 0 || fromPort >= fromOut {
		return &InvalidPortError{Node: from, Port: fromPort, Arity: fromOut}
	}
	if toPort < 0 || toPort >= toIn {
		return &InvalidPortError{Node: to, Port: toPort, Arity: toIn}
	}
	for _, e := range s.edges {
		if e.ToNode == to && e.ToPort == toPort {
			return ErrConnectionNotAllowed
		}
	}
	s.edges = append(s.edges, Edge{FromNode: from, FromPort: fromPort, ToNode: to, ToPort: toPort})
	s.computed = false
	return nil
}

// Disconnect removes edge(s) matching the given endpoints (regardless of
// port), invalidating the schedule.
func (s *System) Disconnect(from, to NodeID) error {
	kept := s.edges[:0]
	removed := false
	for _, e := range s.edges {
		if e.FromNode == from && e.ToNode == to {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	s.computed = false
	if !removed {
		return ErrNodeNotFound
	}
	return nil
}

// Edges returns a copy of the system's current edge set (structural, not
// feedback-resolved).
func (s *System) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// GetSink returns the sink at ordinal creation index sinkIndex.
func (s *System) GetSink(sinkIndex int) (Sink, error) {
	if sinkIndex < 0 || sinkIndex >= len(s.sinkOrder) {
		return nil, ErrNodeNotFound
	}
	return s.sinks[s.sinkOrder[sinkIndex]], nil
}

// GetSinkByID returns the sink registered under id.
func (s *System) GetSinkByID(id NodeID) (Sink, error) {
	snk, ok := s.sinks[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return snk, nil
}

// FilterByID returns the filter registered under id, for parameter updates.
func (s *System) FilterByID(id NodeID) (Filter, error) {
	f, ok := s.filters[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return f, nil
}

// Computed reports whether the schedule cache is up to date (spec §4.8's
// Dirty -> Computed state machine).
func (s *System) Computed() bool { return s.computed }

// PortPair maps an input port of a merged-in sub-system's dropped sink to
// an input port of a filter or sink already present in the host system,
// stitching two previously independent systems into one (spec §4.7's Merge
// operation). SubSinkIndex indexes into other's sink creation order;
// HostNodeID/HostPort name a filter or sink already present in s.
type PortPair struct {
	SubSinkIndex int
	SubSinkPort  int
	HostNodeID   NodeID
	HostPort     int
}

// Merge folds other's nodes and edges into s, renumbering other's NodeIDs to
// avoid collision, and returns the new System. portPairs splice other's
// named sinks directly into s's existing filters/sinks by re-pointing
// edges: every edge in other that fed the named sink port is redirected
// onto HostNodeID/HostPort in s, and the sub-system's sink is dropped. Both
// systems must share the same block size and sample rate.
func (s *System) Merge(other *System, portPairs []PortPair) (*System, error) {
	if other.blockSize != s.blockSize || other.sampleRate != s.sampleRate {
		return nil, ErrInvalidMerging
	}

	merged := NewSystem(s.blockSize, s.sampleRate)
	remap := make(map[NodeID]NodeID)

	for id, src := range s.sources {
		remap[id] = merged.AddSource(src)
	}
	for id, f := range s.filters {
		remap[id] = merged.AddFilter(f)
	}
	for _, id := range s.sinkOrder {
		remap[id] = merged.AddSink(s.sinks[id])
	}
	for _, e := range s.edges {
		if err := merged.Connect(remap[e.FromNode], e.FromPort, remap[e.ToNode], e.ToPort); err != nil {
			return nil, err
		}
	}

	otherRemap := make(map[NodeID]NodeID)
	for id, src := range other.sources {
		otherRemap[id] = merged.AddSource(src)
	}
	for id, f := range other.filters {
		otherRemap[id] = merged.AddFilter(f)
	}

	droppedSinks := make(map[NodeID]bool)
	bridge := make(map[NodeID]PortPair) // other sink id -> pair
	for _, pp := range portPairs {
		if pp.SubSinkIndex < 0 || pp.SubSinkIndex >= len(other.sinkOrder) {
			return nil, ErrInvalidMerging
		}
		sinkID := other.sinkOrder[pp.SubSinkIndex]
		droppedSinks[sinkID] = true
		bridge[sinkID] = pp
	}

	for _, id := range other.sinkOrder {
		if droppedSinks[id] {
			continue
		}
		otherRemap[id] = merged.AddSink(other.sinks[id])
	}

	for _, e := range other.edges {
		toRemapped, stillPresent := otherRemap[e.ToNode]
		if !stillPresent {
			// e.ToNode was a dropped sink: splice its feed onto the host
			// node named by portPairs, if any.
			if pp, bridged := bridge[e.ToNode]; bridged && e.ToPort == pp.SubSinkPort {
				if err := merged.Connect(otherRemap[e.FromNode], e.FromPort, remap[pp.HostNodeID], pp.HostPort); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := merged.Connect(otherRemap[e.FromNode], e.FromPort, toRemapped, e.ToPort); err != nil {
			return nil, err
		}
	}

	return merged, nil
}
