package callgraph

// LinkEquivalents assigns each method in a the equivalent found by key
// in b, and vice versa. Equivalence may hold even between an
// unreachable method and its partner; reachability of the partner is
// consulted only later, by PruneExplainedEdges and by the diff solver's
// level function.
func LinkEquivalents(a, b *CallGraph) {
	for _, m := range a.Methods() {
		if eq, ok := b.MethodByKey(m.Key()); ok {
			m.Equivalent = eq
		}
	}
	for _, m := range b.Methods() {
		if eq, ok := a.MethodByKey(m.Key()); ok {
			m.Equivalent = eq
		}
	}
}
