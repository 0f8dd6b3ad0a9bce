package callgraph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mv02/edgetrace/pkg/callgraph"
)

func TestBuild_SingleLeaf_Reachability(t *testing.T) {
	sup, err := callgraph.Build("testdata/single_leaf_sup", "Supergraph", nil)
	require.NoError(t, err)

	require.Equal(t, 2, sup.MethodCount())
	require.Equal(t, 2, sup.ReachableCount)
	require.Equal(t, 1, sup.EdgeCount())

	a, ok := sup.MethodByID(1)
	require.True(t, ok)
	require.True(t, a.IsReachable)

	b, ok := sup.MethodByID(2)
	require.True(t, ok)
	require.True(t, b.IsReachable)
	require.Equal(t, 1.0, b.Value)
}

func TestBuild_FinalInvokePass_ReachesStaticTargetWithoutEdge(t *testing.T) {
	// X is an entry point; its invoke names Y as the static target but
	// the targets table never dispatches to it, so no Edge(X, Y) is
	// created. Y must still end up reachable via the §4.2 final pass
	// over invokes, not via the edge fixed-point alone.
	sup, err := callgraph.Build("testdata/final_invoke_pass_sup", "Supergraph", nil)
	require.NoError(t, err)
	require.Equal(t, 0, sup.EdgeCount())

	x, ok := sup.MethodByID(2)
	require.True(t, ok)
	require.True(t, x.IsReachable)

	y, ok := sup.MethodByID(3)
	require.True(t, ok)
	require.True(t, y.IsReachable)
	require.Equal(t, 1.0, y.Value)
}

func TestBuild_MissingReportFile(t *testing.T) {
	dir := t.TempDir()
	_, err := callgraph.Build(dir, "X", nil)
	require.ErrorIs(t, err, callgraph.ErrIO)
}

func TestBuild_BadSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "methods.csv", "Id,Name\n1,A\n")
	writeFile(t, dir, "invokes.csv", "Id,MethodId,BytecodeIndexes,TargetId,IsDirect\n")
	writeFile(t, dir, "targets.csv", "InvokeId,TargetId\n")

	_, err := callgraph.Build(dir, "X", nil)
	require.ErrorIs(t, err, callgraph.ErrBadSchema)
}

func TestBuild_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "methods.csv", "Id,Name,Type,Parameters,Return,Flags,IsEntryPoint,Display\nnotanint,A,Cls,empty,void,,true,Cls.A()\n")
	writeFile(t, dir, "invokes.csv", "Id,MethodId,BytecodeIndexes,TargetId,IsDirect\n")
	writeFile(t, dir, "targets.csv", "InvokeId,TargetId\n")

	_, err := callgraph.Build(dir, "X", nil)
	require.ErrorIs(t, err, callgraph.ErrParseError)
}

func TestBuild_DuplicateMethodID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "methods.csv",
		"Id,Name,Type,Parameters,Return,Flags,IsEntryPoint,Display\n"+
			"1,A,Cls,empty,void,,true,Cls.A()\n"+
			"1,B,Cls,empty,void,,false,Cls.B()\n")
	writeFile(t, dir, "invokes.csv", "Id,MethodId,BytecodeIndexes,TargetId,IsDirect\n")
	writeFile(t, dir, "targets.csv", "InvokeId,TargetId\n")

	_, err := callgraph.Build(dir, "X", nil)
	require.ErrorIs(t, err, callgraph.ErrDuplicateID)
}

func TestBuild_DanglingRef(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "methods.csv",
		"Id,Name,Type,Parameters,Return,Flags,IsEntryPoint,Display\n1,A,Cls,empty,void,,true,Cls.A()\n")
	writeFile(t, dir, "invokes.csv",
		"Id,MethodId,BytecodeIndexes,TargetId,IsDirect\n1,1,0,99,true\n")
	writeFile(t, dir, "targets.csv", "InvokeId,TargetId\n")

	_, err := callgraph.Build(dir, "X", nil)
	require.ErrorIs(t, err, callgraph.ErrDanglingRef)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
