package callgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mv02/edgetrace/pkg/callgraph"
)

func TestPruneExplainedEdges_DropsExplainedFork(t *testing.T) {
	sup, err := callgraph.Build("testdata/pruned_fork_sup", "Supergraph", nil)
	require.NoError(t, err)
	sub, err := callgraph.Build("testdata/pruned_fork_sub", "Subgraph", nil)
	require.NoError(t, err)

	callgraph.LinkEquivalents(sup, sub)
	require.Equal(t, 2, sup.EdgeCount())

	removed := callgraph.PruneExplainedEdges(sup)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, sup.EdgeCount())

	remaining := sup.Edges()[0]
	c, _ := sup.MethodByID(3)
	require.Same(t, c, remaining.Target)

	// Adjacency must stay consistent with the pruned edge set.
	a, _ := sup.MethodByID(1)
	require.Len(t, a.OutgoingEdges(), 1)
	b, _ := sup.MethodByID(2)
	require.Empty(t, b.IncomingEdges())
}

func TestPruneExplainedEdges_Identity_RemovesEverything(t *testing.T) {
	sup, err := callgraph.Build("testdata/identity", "Supergraph", nil)
	require.NoError(t, err)
	sub, err := callgraph.Build("testdata/identity", "Subgraph", nil)
	require.NoError(t, err)

	callgraph.LinkEquivalents(sup, sub)
	callgraph.PruneExplainedEdges(sup)

	require.Equal(t, 0, sup.EdgeCount())
}
