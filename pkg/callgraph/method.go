package callgraph

// EquivalenceKey identifies a method across two independent analyses of
// related programs. Id and Display are deliberately excluded.
type EquivalenceKey struct {
	Name         string
	DeclaredType string
	Parameters   string // normalized: "empty" input becomes "none"
	ReturnType   string
	Flags        string
	IsEntryPoint bool
}

// Method is a node in a CallGraph. The owning CallGraph is the sole
// allocator; Method never outlives it and never owns its edges, only
// non-owning (slice-of-pointer) references to them.
type Method struct {
	ID           int64
	Name         string
	DeclaredType string
	Parameters   string // "" denotes the "empty" sentinel from the report
	ReturnType   string
	Flags        string
	Display      string
	IsEntryPoint bool

	IsReachable bool
	Value       float64

	// Equivalent is a relation, not ownership: a method in the opposite
	// graph with an identical equivalence key, or nil.
	Equivalent *Method

	// outgoing/incoming are non-owning adjacency slices into the owning
	// CallGraph's edge arena: Method never allocates an Edge itself, only
	// the CallGraph does (graph.go), so these never need to be chased
	// during destruction.
	outgoing []*Edge
	incoming []*Edge
}

// OutgoingEdges returns the edges for which this method is the source,
// in the graph's current (possibly pruned) insertion order.
func (m *Method) OutgoingEdges() []*Edge { return m.outgoing }

// IncomingEdges returns the edges for which this method is the target,
// in the graph's current (possibly pruned) insertion order.
func (m *Method) IncomingEdges() []*Edge { return m.incoming }

// Key returns the method's equivalence key, normalizing the "empty"
// parameters sentinel to "none" per spec.
func (m *Method) Key() EquivalenceKey {
	params := m.Parameters
	if params == "" {
		params = "none"
	}
	return EquivalenceKey{
		Name:         m.Name,
		DeclaredType: m.DeclaredType,
		Parameters:   params,
		ReturnType:   m.ReturnType,
		Flags:        m.Flags,
		IsEntryPoint: m.IsEntryPoint,
	}
}
