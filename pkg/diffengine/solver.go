package diffengine

import (
	"sync/atomic"

	"github.com/mv02/edgetrace/pkg/callgraph"
)

// Alpha and Epsilon are the fixed constants of the relevance-propagation
// update rule, spec §4.5.
const (
	Alpha   = 0.125
	Epsilon = 0.001
)

// Counters is the pair of atomics shared between the solver and an
// observer: Iterations is written only by the solver, once per
// completed iteration; Cancel is written by the caller and read once per
// iteration by the solver. Both require only single-word atomic access,
// no ordering beyond eventual visibility (spec §5).
type Counters struct {
	Iterations atomic.Int64
	Cancel     atomic.Bool
}

// level implements spec §4.5's level function: common-ground methods
// (an equivalent that is reachable in the opposite graph) and novel
// entry points (no equivalent, but an entry point) are pinned to zero;
// everything else carries its current value.
func level(m *callgraph.Method) float64 {
	if m.Equivalent != nil && m.Equivalent.IsReachable {
		return 0
	}
	if m.Equivalent == nil && m.IsEntryPoint {
		return 0
	}
	return m.Value
}

// Solve runs the iterative relevance-propagation loop over sup's
// remaining edges, up to maxIterations times, stopping early once a full
// pass moves no level above Epsilon or the shared cancel flag is
// observed. It is single-threaded and holds no locks on sup; the caller
// is responsible for not mutating sup concurrently with this call.
//
// Edges are visited in sup.Edges()'s order on every pass, which is the
// graph's first-seen insertion order — this is what makes repeated runs
// over identical input reproduce identical edge values.
func Solve(sup *callgraph.CallGraph, maxIterations int64, counters *Counters) {
	edges := sup.Edges()

	// Cancellation observed before any work starts leaves the graph
	// untouched: iteration_count stays 0 and no edge value moves.
	if counters.Cancel.Load() {
		return
	}

	// An edge-less supergraph has nothing to propagate: zero iterations.
	if len(edges) == 0 {
		return
	}

	var i int64
	for i = 0; i < maxIterations; i++ {
		maxLevel := 0.0

		for _, e := range edges {
			lt := level(e.Target)
			ls := level(e.Source)
			if ls > maxLevel {
				maxLevel = ls
			}
			if lt > maxLevel {
				maxLevel = lt
			}

			d := Alpha * (lt - ls)
			if d > 0 {
				e.Value += d
				e.Target.Value -= d
				e.Source.Value += d
			}
		}

		i1 := i + 1
		counters.Iterations.Store(i1)

		if counters.Cancel.Load() {
			return
		}
		if maxLevel <= Epsilon {
			return
		}
	}
}
