package graph

// Compute (re)builds the execution schedule: a DFS pass detects cycles and,
// for each cycle that contains a postponable filter, records the back edge
// that closes the cycle as a feedback edge and removes it, then a
// standard Kahn's-algorithm pass produces the topological order over what
// remains (spec §4.4).
func (s *System) Compute() error {
	adj := make(map[NodeID][]int) // node -> indices into s.edges of its outgoing edges
	for i, e := range s.edges {
		adj[e.FromNode] = append(adj[e.FromNode], i)
	}

	allNodes := s.allNodeIDs()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[NodeID]int, len(allNodes))
	for _, id := range allNodes {
		color[id] = white
	}

	removed := make(map[int]bool)
	var feedback []Edge

	// stack holds the DFS path of node IDs currently "gray" (on the
	// recursion stack), in order, so a back edge's cycle path can be
	// scanned for a postponable filter.
	var stack []NodeID

	var visit func(NodeID) error
	visit = func(n NodeID) error {
		color[n] = gray
		stack = append(stack, n)
		for _, ei := range adj[n] {
			if removed[ei] {
				continue
			}
			e := s.edges[ei]
			switch color[e.ToNode] {
			case white:
				if err := visit(e.ToNode); err != nil {
					return err
				}
			case gray:
				// Back edge: e closes a cycle from e.ToNode .. n -> e.ToNode.
				// Find the cycle's node set on the stack and check for a
				// postponable filter among them.
				cycleStart := 0
				for i, sn := range stack {
					if sn == e.ToNode {
						cycleStart = i
						break
					}
				}
				cycle := stack[cycleStart:]
				if !s.cycleHasPostponable(cycle) {
					return ErrCycleDetected
				}
				removed[ei] = true
				feedback = append(feedback, e)
			case black:
				// cross edge in DAG terms; fine.
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, id := range allNodes {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	// Kahn's algorithm over edges minus feedback.
	indeg := make(map[NodeID]int, len(allNodes))
	for _, id := range allNodes {
		indeg[id] = 0
	}
	for i, e := range s.edges {
		if removed[i] {
			continue
		}
		indeg[e.ToNode]++
	}

	var queue []NodeID
	for _, id := range allNodes {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	var order []NodeID
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, ei := range adj[n] {
			if removed[ei] {
				continue
			}
			e := s.edges[ei]
			indeg[e.ToNode]--
			if indeg[e.ToNode] == 0 {
				queue = append(queue, e.ToNode)
			}
		}
	}

	if len(order) != len(allNodes) {
		return ErrCycleDetected
	}

	steps := make([]scheduleStep, 0, len(order))
	for _, id := range order {
		kind, _ := s.Kind(id)
		steps = append(steps, scheduleStep{id: id, kind: kind})
	}

	s.schedule = steps
	s.feedback = feedback
	s.computed = true
	return nil
}

func (s *System) allNodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(s.sources)+len(s.filters)+len(s.sinks))
	for id := range s.sources {
		ids = append(ids, id)
	}
	for id := range s.filters {
		ids = append(ids, id)
	}
	for id := range s.sinks {
		ids = append(ids, id)
	}
	return ids
}

func (s *System) cycleHasPostponable(cycle []NodeID) bool {
	for _, id := range cycle {
		if f, ok := s.filters[id]; ok && f.Postponable() {
			return true
		}
	}
	return false
}
