package callgraph

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// openReportCSV opens a report file and returns a csv.Reader positioned
// after the header, along with a column-name -> index map restricted to
// the columns the caller requires. Unknown columns are ignored; a
// missing required column fails ErrBadSchema.
func openReportCSV(path string, required []string) (*csv.Reader, *os.File, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			f.Close()
			return nil, nil, nil, fmt.Errorf("%w: %s: column %q", ErrBadSchema, path, col)
		}
	}

	// ReuseRecord means index lookups must copy before the next Read;
	// disable it since callers hold onto field strings across rows.
	r.ReuseRecord = false
	return r, f, index, nil
}

func parseInt64Field(record []string, index map[string]int, col, path string) (int64, error) {
	raw := record[index[col]]
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: column %s value %q", ErrParseError, path, col, raw)
	}
	return v, nil
}

func parseBoolField(record []string, index map[string]int, col, path string) (bool, error) {
	raw := record[index[col]]
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s: column %s value %q", ErrParseError, path, col, raw)
	}
}

func field(record []string, index map[string]int, col string) string {
	return record[index[col]]
}
