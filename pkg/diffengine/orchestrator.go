package diffengine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mv02/edgetrace/pkg/callgraph"
)

// sampleInterval is the recommended progress-sampling cadence from spec
// §5 ("4 samples/sec").
const sampleInterval = 250 * time.Millisecond

// Diff loads the supergraph and subgraph report directories, links
// equivalent methods, prunes already-explained edges from the
// supergraph, then runs the solver for up to maxIterations iterations.
//
// ctx governs cooperative cancellation: the solver finishes its current
// iteration and returns valid partial results rather than being
// interrupted mid-update (spec §5). progress, if non-nil, receives a
// ProgressEvent roughly every 250ms while the solver runs, then a
// PhaseSaving event, then a final PhaseDone event; Diff closes it before
// returning. Loader errors (bad schema, dangling refs, ...) are
// returned before any solver goroutine starts.
func Diff(ctx context.Context, supDir, subDir string, maxIterations int64, progress chan<- ProgressEvent, logger *slog.Logger) (Result, error) {
	if progress != nil {
		defer close(progress)
	}

	sup, err := callgraph.Build(supDir, "Supergraph", logger)
	if err != nil {
		return Result{}, err
	}
	sub, err := callgraph.Build(subDir, "Subgraph", logger)
	if err != nil {
		return Result{}, err
	}
	sup.Paired, sub.Paired = sub, sup

	if logger != nil {
		logger.Info("graphs loaded",
			"component", "diffengine", "operation", "load",
			"supergraph", sup.String(), "subgraph", sub.String())
	}

	callgraph.LinkEquivalents(sup, sub)
	removed := callgraph.PruneExplainedEdges(sup)
	if logger != nil {
		logger.Info("pruned already-explained edges",
			"component", "diffengine", "operation", "prune",
			"removed", removed, "remaining", sup.EdgeCount())
	}

	counters := &Counters{}
	done := make(chan struct{})

	// A context already cancelled before the solver goroutine even starts
	// must still satisfy spec §8's boundary invariant (iteration_count
	// == 0, every emitted value == 0); setting Cancel here removes the
	// race between that goroutine's first Load and the supervisor's
	// first ctx.Done() observation.
	if ctx.Err() != nil {
		counters.Cancel.Store(true)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		Solve(sup, maxIterations, counters)
		return nil
	})
	g.Go(func() error {
		superviseProgress(gctx, counters, done, progress)
		return nil
	})
	_ = g.Wait() // both goroutines are infallible; error is only ctx plumbing

	result := Result{
		Edges:      emit(sup),
		Iterations: counters.Iterations.Load(),
		Cancelled:  counters.Cancel.Load(),
	}

	if progress != nil {
		progress <- ProgressEvent{Phase: PhaseSaving}
		progress <- ProgressEvent{
			Phase:      PhaseDone,
			Iterations: result.Iterations,
			Message:    "diff complete",
		}
	}

	return result, nil
}

// superviseProgress samples the iteration counter at sampleInterval
// while the solver runs, setting counters.Cancel once ctx is cancelled,
// and returns as soon as done is closed (the solver has returned). It
// never blocks the solver: sends to progress are best-effort and
// dropped if the channel isn't ready.
func superviseProgress(ctx context.Context, counters *Counters, done <-chan struct{}, progress chan<- ProgressEvent) {
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	ctxDone := ctx.Done()
	for {
		select {
		case <-done:
			sendProgress(progress, ProgressEvent{Phase: PhaseRunning, Iteration: counters.Iterations.Load()})
			return
		case <-ctxDone:
			counters.Cancel.Store(true)
			ctxDone = nil
		case <-ticker.C:
			sendProgress(progress, ProgressEvent{Phase: PhaseRunning, Iteration: counters.Iterations.Load()})
		}
	}
}

func sendProgress(progress chan<- ProgressEvent, ev ProgressEvent) {
	if progress == nil {
		return
	}
	select {
	case progress <- ev:
	default:
	}
}

// emit copies out the final (source_id, target_id) -> (value, relevant)
// map for every remaining supergraph edge, per spec §4.6. Results are
// copied before the graphs are released, matching the "emitted results
// copied out before release" resource-lifetime rule (spec §5).
func emit(sup *callgraph.CallGraph) map[EdgeKey]EdgeResult {
	edges := sup.Edges()
	out := make(map[EdgeKey]EdgeResult, len(edges))
	for _, e := range edges {
		out[EdgeKey{SourceID: e.Source.ID, TargetID: e.Target.ID}] = EdgeResult{
			Value:    e.Value,
			Relevant: e.Relevant(),
		}
	}
	return out
}
