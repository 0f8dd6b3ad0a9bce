package callgraph

import "fmt"

type edgeKey struct {
	sourceID int64
	targetID int64
}

// CallGraph owns every Method, Invoke, and Edge extracted from one report
// directory. It is the single allocator: Methods and Edges never hold
// owning references to each other, only weak pointers managed through
// this graph's arenas, so destruction is a single bulk release (the
// CallGraph simply going out of scope).
type CallGraph struct {
	Name string

	// Paired is an optional back reference to the opposite graph in a
	// diff (sup <-> sub), set by the caller after both are built.
	Paired *CallGraph

	ReachableCount int

	methodsByID  map[int64]*Method
	methodsByKey map[EquivalenceKey]*Method
	methodOrder  []*Method

	invokesByID map[int64]*Invoke
	invokeOrder []*Invoke

	edges     []*Edge
	edgeIndex map[edgeKey]int
}

// New creates an empty, named CallGraph ready for loading.
func New(name string) *CallGraph {
	return &CallGraph{
		Name:         name,
		methodsByID:  make(map[int64]*Method),
		methodsByKey: make(map[EquivalenceKey]*Method),
		invokesByID:  make(map[int64]*Invoke),
		edgeIndex:    make(map[edgeKey]int),
	}
}

// AddMethod inserts a Method, failing ErrDuplicateID if its id is already
// present. keyCollision reports whether another method already held the
// same equivalence key (the existing entry is discarded: last one wins
// for linking purposes, per spec).
func (g *CallGraph) AddMethod(m *Method) (keyCollision bool, err error) {
	if _, exists := g.methodsByID[m.ID]; exists {
		return false, fmt.Errorf("%w: method id %d", ErrDuplicateID, m.ID)
	}
	g.methodsByID[m.ID] = m
	g.methodOrder = append(g.methodOrder, m)

	key := m.Key()
	_, keyCollision = g.methodsByKey[key]
	g.methodsByKey[key] = m
	return keyCollision, nil
}

// AddInvoke inserts an Invoke, failing ErrDuplicateID if its id is
// already present.
func (g *CallGraph) AddInvoke(inv *Invoke) error {
	if _, exists := g.invokesByID[inv.ID]; exists {
		return fmt.Errorf("%w: invoke id %d", ErrDuplicateID, inv.ID)
	}
	g.invokesByID[inv.ID] = inv
	g.invokeOrder = append(g.invokeOrder, inv)
	return nil
}

// AddCallTarget records that invoke actually dispatches to target, and
// allocates a new Edge (invoke.Source -> target) the first time that
// ordered pair is seen, inserting it in first-seen order.
func (g *CallGraph) AddCallTarget(inv *Invoke, target *Method) {
	inv.CallTargets = append(inv.CallTargets, target)

	key := edgeKey{inv.Source.ID, target.ID}
	if _, exists := g.edgeIndex[key]; exists {
		return
	}
	edge := &Edge{Source: inv.Source, Target: target}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, edge)
	inv.Source.outgoing = append(inv.Source.outgoing, edge)
	target.incoming = append(target.incoming, edge)
}

// MethodByID looks up a Method by its report id.
func (g *CallGraph) MethodByID(id int64) (*Method, bool) {
	m, ok := g.methodsByID[id]
	return m, ok
}

// MethodByKey looks up a Method by its equivalence key.
func (g *CallGraph) MethodByKey(key EquivalenceKey) (*Method, bool) {
	m, ok := g.methodsByKey[key]
	return m, ok
}

// InvokeByID looks up an Invoke by its report id.
func (g *CallGraph) InvokeByID(id int64) (*Invoke, bool) {
	inv, ok := g.invokesByID[id]
	return inv, ok
}

// Methods returns all methods in first-seen (report) order.
func (g *CallGraph) Methods() []*Method { return g.methodOrder }

// Invokes returns all invokes in first-seen (report) order.
func (g *CallGraph) Invokes() []*Invoke { return g.invokeOrder }

// Edges returns the graph's remaining edges in first-seen insertion
// order. Pruning (Prune) filters this slice but never reorders it, so
// the solver's edge-visitation order stays reproducible across runs.
func (g *CallGraph) Edges() []*Edge { return g.edges }

func (g *CallGraph) MethodCount() int { return len(g.methodsByID) }
func (g *CallGraph) EdgeCount() int   { return len(g.edges) }

// Prune retains only edges for which keep returns true, rebuilding
// adjacency and the edge index from the surviving set. Relative
// insertion order of the kept edges is preserved. It returns the number
// of edges removed.
func (g *CallGraph) Prune(keep func(*Edge) bool) int {
	for _, m := range g.methodOrder {
		m.outgoing = m.outgoing[:0]
		m.incoming = m.incoming[:0]
	}

	kept := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if keep(e) {
			kept = append(kept, e)
		}
	}

	edgeIndex := make(map[edgeKey]int, len(kept))
	for i, e := range kept {
		edgeIndex[edgeKey{e.Source.ID, e.Target.ID}] = i
		e.Source.outgoing = append(e.Source.outgoing, e)
		e.Target.incoming = append(e.Target.incoming, e)
	}

	removed := len(g.edges) - len(kept)
	g.edges = kept
	g.edgeIndex = edgeIndex
	return removed
}

// computeReachability marks every method transitively reachable from an
// entry point, per spec §4.2 step 4: entry points first, then a
// fixed-point pass over edges in insertion order, then a final pass over
// invokes that catches statically-named targets left unreached because
// dynamic dispatch never produced an edge for them.
func (g *CallGraph) computeReachability() {
	for _, m := range g.methodOrder {
		if m.IsEntryPoint && !m.IsReachable {
			m.IsReachable = true
			g.ReachableCount++
		}
	}

	for {
		added := false
		for _, e := range g.edges {
			if e.Source.IsReachable && !e.Target.IsReachable {
				e.Target.IsReachable = true
				e.Target.Value = 1.0
				g.ReachableCount++
				added = true
			}
		}
		if !added {
			break
		}
	}

	for _, inv := range g.invokeOrder {
		if inv.Source.IsReachable && !inv.Target.IsReachable {
			inv.Target.IsReachable = true
			inv.Target.Value = 1.0
			g.ReachableCount++
		}
	}
}

func (g *CallGraph) String() string {
	return fmt.Sprintf("%s: %d methods (%d reachable), %d edges",
		g.Name, g.MethodCount(), g.ReachableCount, g.EdgeCount())
}
