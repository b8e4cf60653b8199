// Package table holds per-cycle harmonized tables and the cross-cycle
// merge. A table is columns of tagged cells over respondent rows; merging
// concatenates cycles row-wise and retags columns a cycle never produced.
package table

import (
	"fmt"
	"sort"

	"github.com/c360studio/cyclekit/missing"
)

// Table is one harmonized table: target-variable columns over respondent
// rows. Every row remembers which survey cycle produced it. Tables are not
// mutated after construction; Merge builds a new table.
type Table struct {
	order   []string
	columns map[string][]missing.Value
	cycles  []string
}

// New creates an empty table for one cycle with a fixed row count. Rows
// correspond 1:1 to respondent records; none are invented or dropped.
func New(cycle string, rows int) *Table {
	cycles := make([]string, rows)
	for i := range cycles {
		cycles[i] = cycle
	}
	return &Table{
		columns: make(map[string][]missing.Value),
		cycles:  cycles,
	}
}

// Rows returns the respondent count.
func (t *Table) Rows() int { return len(t.cycles) }

// Columns returns the target variable names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// CycleOf returns the survey cycle that produced row i.
func (t *Table) CycleOf(i int) string {
	if i < 0 || i >= len(t.cycles) {
		return ""
	}
	return t.cycles[i]
}

// SetColumn adds a column. The column must match the table's row count;
// anything else is a programming error in the runner, not a data problem.
func (t *Table) SetColumn(name string, values []missing.Value) error {
	if len(values) != t.Rows() {
		return fmt.Errorf("column %s has %d cells, table has %d rows", name, len(values), t.Rows())
	}
	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	col := make([]missing.Value, len(values))
	copy(col, values)
	t.columns[name] = col
	return nil
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]missing.Value, bool) {
	col, ok := t.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]missing.Value, len(col))
	copy(out, col)
	return out, true
}

// Cell returns one cell.
func (t *Table) Cell(name string, row int) (missing.Value, bool) {
	col, ok := t.columns[name]
	if !ok || row < 0 || row >= len(col) {
		return missing.Value{}, false
	}
	return col[row], true
}

// Merge concatenates per-cycle tables row-wise into one table whose schema
// is the union of all columns. For rows from a cycle whose table never
// produced a column, the cells are tagged Missing(NotCollected): the
// question was not part of that cycle's rule set, which is distinct from a
// respondent individually having no value. Cells already present or
// carrying a core tag are copied untouched, so merging a merged table again
// changes nothing.
func Merge(tables ...*Table) *Table {
	totalRows := 0
	var order []string
	seen := make(map[string]bool)
	for _, t := range tables {
		totalRows += t.Rows()
		for _, c := range t.order {
			if !seen[c] {
				seen[c] = true
				order = append(order, c)
			}
		}
	}
	sort.Strings(order)

	merged := &Table{
		columns: make(map[string][]missing.Value, len(order)),
		cycles:  make([]string, 0, totalRows),
	}
	merged.order = order

	for _, t := range tables {
		merged.cycles = append(merged.cycles, t.cycles...)
	}

	for _, name := range order {
		col := make([]missing.Value, 0, totalRows)
		for _, t := range tables {
			if src, ok := t.columns[name]; ok {
				col = append(col, src...)
				continue
			}
			for i := 0; i < t.Rows(); i++ {
				col = append(col, missing.Tagged(missing.NotCollected))
			}
		}
		merged.columns[name] = col
	}
	return merged
}
