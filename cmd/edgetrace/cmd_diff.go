package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mv02/edgetrace/pkg/callgraph"
	"github.com/mv02/edgetrace/pkg/diffengine"
	"github.com/mv02/edgetrace/pkg/logging"
)

var (
	diffMaxIterations int64
	diffTop           int
)

// errInternal tags an error as exit code 3 (internal) rather than 2 (bad
// input). Everything the engine itself can return is a bad-input error
// (spec §7); this only covers failures outside its control, e.g. the
// result writer failing while the edge list is printed.
var errInternal = errors.New("internal error")

var diffCmd = &cobra.Command{
	Use:   "diff sup_dir sub_dir",
	Short: "Diff two call-graph reports and print the resulting edge values",
	Long: `diff loads the supergraph report directory and the subgraph report
directory, links equivalent methods across them, prunes edges already
explained by the subgraph, and runs the relevance-propagation solver to
a fixed point or --max-iterations, whichever comes first.

Progress is logged roughly 4 times a second while the solver runs.
Sending SIGINT or SIGTERM requests cooperative cancellation: the solver
finishes its current iteration and the partial result is still printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewLoggerFromEnv()
		supDir, subDir := args[0], args[1]

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		progress := make(chan diffengine.ProgressEvent, 8)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for ev := range progress {
				logReportProgress(logger, ev)
			}
		}()

		result, err := diffengine.Diff(ctx, supDir, subDir, diffMaxIterations, progress, logger)
		<-done
		if err != nil {
			return err
		}

		if err := printResult(cmd.OutOrStdout(), result, diffTop); err != nil {
			return fmt.Errorf("%w: %v", errInternal, err)
		}
		return nil
	},
}

func logReportProgress(logger *slog.Logger, ev diffengine.ProgressEvent) {
	switch ev.Phase {
	case diffengine.PhaseRunning:
		logger.Info("solving", "component", "diffengine", "operation", "progress", "iteration", ev.Iteration)
	case diffengine.PhaseSaving:
		logger.Info("saving", "component", "diffengine", "operation", "progress")
	case diffengine.PhaseDone:
		logger.Info(ev.Message, "component", "diffengine", "operation", "progress", "iterations", ev.Iterations)
	}
}

type diffRow struct {
	sourceID int64
	targetID int64
	value    float64
	relevant bool
}

// printResult prints the full edge list, one row per line. When top > 0
// it instead prints only the highest-value relevant edges, mirroring the
// reference CLI's "top N" summary (original_source/backend/diff_py/diff.py).
func printResult(w io.Writer, result diffengine.Result, top int) error {
	rows := make([]diffRow, 0, len(result.Edges))
	for k, v := range result.Edges {
		if top > 0 && !v.Relevant {
			continue
		}
		rows = append(rows, diffRow{sourceID: k.SourceID, targetID: k.TargetID, value: v.Value, relevant: v.Relevant})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].value != rows[j].value {
			return rows[i].value > rows[j].value
		}
		if rows[i].sourceID != rows[j].sourceID {
			return rows[i].sourceID < rows[j].sourceID
		}
		return rows[i].targetID < rows[j].targetID
	})

	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%.6f\t%t\n", r.sourceID, r.targetID, r.value, r.relevant); err != nil {
			return err
		}
	}
	return nil
}

// exitCodeFor maps an error returned from a RunE into spec §6's CLI exit
// codes: 2 for the engine's own input errors (including malformed CSV
// records), 3 for everything tagged internal, 1 for anything else (usage
// errors raised by cobra itself before RunE ever runs).
func exitCodeFor(err error) int {
	var csvErr *csv.ParseError
	switch {
	case errors.Is(err, errInternal):
		return 3
	case errors.As(err, &csvErr),
		errors.Is(err, callgraph.ErrBadSchema),
		errors.Is(err, callgraph.ErrParseError),
		errors.Is(err, callgraph.ErrDuplicateID),
		errors.Is(err, callgraph.ErrDanglingRef),
		errors.Is(err, callgraph.ErrIO):
		return 2
	default:
		return 1
	}
}

func init() {
	diffCmd.Flags().Int64Var(&diffMaxIterations, "max-iterations", 10000, "maximum solver iterations")
	diffCmd.Flags().IntVar(&diffTop, "top", 0, "print only the N highest-value relevant edges (0 = all edges)")
	rootCmd.AddCommand(diffCmd)
}
