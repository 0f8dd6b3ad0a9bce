package callgraph

// PruneExplainedEdges drops every edge of sup whose target already has a
// reachable equivalent in sub: that target represents code already
// present in the smaller build, so the edge carries no information about
// what sup grew to reach. It returns the number of edges removed.
//
// Methods are never deleted, only edges; call after LinkEquivalents has
// run on both graphs.
func PruneExplainedEdges(sup *CallGraph) int {
	return sup.Prune(func(e *Edge) bool {
		eq := e.Target.Equivalent
		return eq == nil || !eq.IsReachable
	})
}
