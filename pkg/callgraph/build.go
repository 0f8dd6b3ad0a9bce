package callgraph

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
)

var methodsColumns = []string{"Id", "Name", "Type", "Parameters", "Return", "Flags", "IsEntryPoint", "Display"}
var invokesColumns = []string{"Id", "MethodId", "BytecodeIndexes", "TargetId", "IsDirect"}
var targetsColumns = []string{"InvokeId", "TargetId"}

// Build reads the three-file tabular report in dir and materializes a
// fully linked, reachability-computed CallGraph named name. logger may
// be nil; if non-nil, a warning is emitted for every equivalence-key
// collision encountered while loading methods.
func Build(dir, name string, logger *slog.Logger) (*CallGraph, error) {
	g := New(name)

	if err := loadMethods(g, filepath.Join(dir, "methods.csv"), logger); err != nil {
		return nil, err
	}
	if err := loadInvokes(g, filepath.Join(dir, "invokes.csv")); err != nil {
		return nil, err
	}
	if err := loadTargets(g, filepath.Join(dir, "targets.csv")); err != nil {
		return nil, err
	}

	g.computeReachability()
	return g, nil
}

func loadMethods(g *CallGraph, path string, logger *slog.Logger) error {
	r, f, idx, err := openReportCSV(path, methodsColumns)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		id, err := parseInt64Field(record, idx, "Id", path)
		if err != nil {
			return err
		}
		isEntryPoint, err := parseBoolField(record, idx, "IsEntryPoint", path)
		if err != nil {
			return err
		}

		params := field(record, idx, "Parameters")
		if params == "empty" {
			params = ""
		}

		m := &Method{
			ID:           id,
			Name:         field(record, idx, "Name"),
			DeclaredType: field(record, idx, "Type"),
			Parameters:   params,
			ReturnType:   field(record, idx, "Return"),
			Flags:        field(record, idx, "Flags"),
			IsEntryPoint: isEntryPoint,
			Display:      field(record, idx, "Display"),
		}

		collision, err := g.AddMethod(m)
		if err != nil {
			return err
		}
		if collision && logger != nil {
			logger.Warn("equivalence key collision, last method wins",
				"component", "callgraph",
				"operation", "load_methods",
				"graph", g.Name,
				"method_id", id)
		}
	}
	return nil
}

func loadInvokes(g *CallGraph, path string) error {
	r, f, idx, err := openReportCSV(path, invokesColumns)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		id, err := parseInt64Field(record, idx, "Id", path)
		if err != nil {
			return err
		}
		sourceID, err := parseInt64Field(record, idx, "MethodId", path)
		if err != nil {
			return err
		}
		targetID, err := parseInt64Field(record, idx, "TargetId", path)
		if err != nil {
			return err
		}
		isDirect, err := parseBoolField(record, idx, "IsDirect", path)
		if err != nil {
			return err
		}

		source, ok := g.MethodByID(sourceID)
		if !ok {
			return wrapDangling(path, "MethodId", sourceID)
		}
		target, ok := g.MethodByID(targetID)
		if !ok {
			return wrapDangling(path, "TargetId", targetID)
		}

		if err := g.AddInvoke(&Invoke{ID: id, Source: source, Target: target, IsDirect: isDirect}); err != nil {
			return err
		}
	}
	return nil
}

func loadTargets(g *CallGraph, path string) error {
	r, f, idx, err := openReportCSV(path, targetsColumns)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		invokeID, err := parseInt64Field(record, idx, "InvokeId", path)
		if err != nil {
			return err
		}
		targetID, err := parseInt64Field(record, idx, "TargetId", path)
		if err != nil {
			return err
		}

		inv, ok := g.InvokeByID(invokeID)
		if !ok {
			return wrapDangling(path, "InvokeId", invokeID)
		}
		target, ok := g.MethodByID(targetID)
		if !ok {
			return wrapDangling(path, "TargetId", targetID)
		}

		g.AddCallTarget(inv, target)
	}
	return nil
}

func wrapDangling(path, col string, id int64) error {
	return &danglingRefError{path: path, col: col, id: id}
}

type danglingRefError struct {
	path string
	col  string
	id   int64
}

func (e *danglingRefError) Error() string {
	return ErrDanglingRef.Error() + ": " + e.path + ": column " + e.col + " references unknown id"
}

func (e *danglingRefError) Unwrap() error { return ErrDanglingRef }
