package callgraph

import "errors"

// Sentinel errors returned by the report reader and graph builder.
// Callers branch on these with errors.Is; the wrapped detail (offending
// column, id, or path) is attached with fmt.Errorf("%w: ..."), except for
// ErrDanglingRef, which build.go wraps in its own error type that
// unwraps to the sentinel.
var (
	// ErrBadSchema indicates a required CSV column is missing from a report file.
	ErrBadSchema = errors.New("callgraph: required column missing")

	// ErrParseError indicates a malformed integer or boolean field.
	ErrParseError = errors.New("callgraph: malformed field")

	// ErrDuplicateID indicates two methods or two invokes share an id.
	ErrDuplicateID = errors.New("callgraph: duplicate id")

	// ErrDanglingRef indicates an invoke or target row names an id that is
	// not present in the methods table.
	ErrDanglingRef = errors.New("callgraph: dangling reference")

	// ErrIO indicates a report file is missing or unreadable.
	ErrIO = errors.New("callgraph: report file unreadable")
)
