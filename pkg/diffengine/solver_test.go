package diffengine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mv02/edgetrace/pkg/callgraph"
	"github.com/mv02/edgetrace/pkg/diffengine"
)

func buildPair(t *testing.T, supDir, subDir string) (*callgraph.CallGraph, *callgraph.CallGraph) {
	t.Helper()
	sup, err := callgraph.Build(supDir, "Supergraph", nil)
	require.NoError(t, err)
	sub, err := callgraph.Build(subDir, "Subgraph", nil)
	require.NoError(t, err)
	sup.Paired, sub.Paired = sub, sup
	callgraph.LinkEquivalents(sup, sub)
	callgraph.PruneExplainedEdges(sup)
	return sup, sub
}

func TestSolve_EmptySupergraph_ZeroIterationsNoPanic(t *testing.T) {
	sup, _ := buildPair(t, "testdata/identity", "testdata/identity")
	require.Equal(t, 0, sup.EdgeCount())

	counters := &diffengine.Counters{}
	diffengine.Solve(sup, 1000, counters)
	require.Equal(t, int64(0), counters.Iterations.Load())
}

func TestSolve_MaxIterationsZero_NoUpdates(t *testing.T) {
	sup, _ := buildPair(t, "testdata/single_leaf_sup", "testdata/single_leaf_sub")

	counters := &diffengine.Counters{}
	diffengine.Solve(sup, 0, counters)

	require.Equal(t, int64(0), counters.Iterations.Load())
	for _, e := range sup.Edges() {
		require.Equal(t, 0.0, e.Value)
	}
}

func TestSolve_CancelBeforeFirstIteration_NothingMoves(t *testing.T) {
	sup, _ := buildPair(t, "testdata/chain_sup", "testdata/chain_sub")

	counters := &diffengine.Counters{}
	counters.Cancel.Store(true)
	diffengine.Solve(sup, 1000, counters)

	require.Equal(t, int64(0), counters.Iterations.Load())
	for _, e := range sup.Edges() {
		require.Equal(t, 0.0, e.Value)
	}
}

func TestSolve_ConvergesBeforeIterationBound(t *testing.T) {
	sup, _ := buildPair(t, "testdata/single_leaf_sup", "testdata/single_leaf_sub")

	counters := &diffengine.Counters{}
	diffengine.Solve(sup, 10000, counters)

	require.Less(t, counters.Iterations.Load(), int64(10000))
	require.Greater(t, counters.Iterations.Load(), int64(0))
}

func TestSolve_DeterministicAcrossRepeatedRuns(t *testing.T) {
	sup1, _ := buildPair(t, "testdata/two_step_sup", "testdata/two_step_sub")
	sup2, _ := buildPair(t, "testdata/two_step_sup", "testdata/two_step_sub")

	c1 := &diffengine.Counters{}
	diffengine.Solve(sup1, 1000, c1)
	c2 := &diffengine.Counters{}
	diffengine.Solve(sup2, 1000, c2)

	require.Equal(t, c1.Iterations.Load(), c2.Iterations.Load())
	edges1, edges2 := sup1.Edges(), sup2.Edges()
	require.Len(t, edges2, len(edges1))
	for i, e := range edges1 {
		require.Equal(t, e.Value, edges2[i].Value)
	}
}

func TestSolve_PartialRun_MatchesFullRunUpToThatIterationCount(t *testing.T) {
	supFull, _ := buildPair(t, "testdata/chain_sup", "testdata/chain_sub")
	cFull := &diffengine.Counters{}
	diffengine.Solve(supFull, 5, cFull)
	require.Equal(t, int64(5), cFull.Iterations.Load())

	supAgain, _ := buildPair(t, "testdata/chain_sup", "testdata/chain_sub")
	cAgain := &diffengine.Counters{}
	diffengine.Solve(supAgain, 5, cAgain)

	edgesFull, edgesAgain := supFull.Edges(), supAgain.Edges()
	require.Len(t, edgesAgain, len(edgesFull))
	for i, e := range edgesFull {
		require.Equal(t, e.Value, edgesAgain[i].Value)
	}
}
