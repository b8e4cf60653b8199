// Package source loads raw survey cycle extracts. The loader is a boundary
// collaborator: the engine only requires that each column's sentinel codes
// follow one of the declared missing-code patterns.
package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Extract is one cycle's raw table: respondent rows by raw variable
// columns, all cells as unparsed strings.
type Extract struct {
	// Cycle is the survey cycle label, e.g. "cchs2001".
	Cycle string

	order   []string
	columns map[string][]string
	rows    int
}

// Rows returns the respondent count.
func (e *Extract) Rows() int { return e.rows }

// Columns returns the raw variable names in file order.
func (e *Extract) Columns() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Column returns the raw cells for one variable. The second return is
// false when the extract has no such column; callers fold that into
// Missing(VariableAbsent) rather than treating it as an error.
func (e *Extract) Column(name string) ([]string, bool) {
	col, ok := e.columns[name]
	return col, ok
}

// ReadCSV loads a cycle extract from a header-first CSV file.
func ReadCSV(cycle, path string) (*Extract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read extract %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("extract %s has no header row", path)
	}

	header := records[0]
	body := records[1:]
	e := &Extract{
		Cycle:   cycle,
		order:   append([]string(nil), header...),
		columns: make(map[string][]string, len(header)),
		rows:    len(body),
	}
	for j, name := range header {
		col := make([]string, len(body))
		for i, row := range body {
			col[i] = row[j]
		}
		e.columns[name] = col
	}
	return e, nil
}

// Discover expands a doublestar glob into a sorted list of extract paths.
func Discover(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad extract glob %q: %w", pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}
