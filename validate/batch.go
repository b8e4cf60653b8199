package validate

import "github.com/c360studio/cyclekit/missing"

// Column is one named input column for a joint validation. A nil Values
// slice means the variable was never supplied at all, which is a stronger
// problem than a column of missing cells.
type Column struct {
	Name   string
	Values []missing.Value
}

// Absent builds a column for a variable that was never supplied.
func Absent(name string) Column {
	return Column{Name: name}
}

// Batch is the result of jointly validating a set of input columns. When
// the batch is structurally sound, Row yields the aligned inputs for each
// row; otherwise every row resolves to the fallback tag.
type Batch struct {
	cols     []Column
	length   int
	fallback missing.Reason
}

// Join validates a set of input columns for one transformation: every
// column must be either scalar (length one, broadcast) or share one common
// length. A length mismatch resolves the entire batch to
// Missing(UnknownOrRefused) at the longest input's length; a never-supplied
// column resolves the batch to Missing(VariableAbsent). Join never fails.
func Join(cols ...Column) *Batch {
	longest := 1
	for _, c := range cols {
		if len(c.Values) > longest {
			longest = len(c.Values)
		}
	}

	for _, c := range cols {
		if c.Values == nil {
			return &Batch{cols: cols, length: longest, fallback: missing.VariableAbsent}
		}
	}

	common := 0
	for _, c := range cols {
		n := len(c.Values)
		if n <= 1 {
			continue
		}
		if common == 0 {
			common = n
			continue
		}
		if n != common {
			return &Batch{cols: cols, length: longest, fallback: missing.UnknownOrRefused}
		}
	}
	if common == 0 {
		common = longest
	}

	return &Batch{cols: cols, length: common}
}

// Len returns the declared output length of the batch.
func (b *Batch) Len() int { return b.length }

// OK reports whether the batch passed structural validation.
func (b *Batch) OK() bool { return b.fallback == 0 }

// Fallback returns the tag every output cell carries when the batch failed
// structural validation, or zero when it passed.
func (b *Batch) Fallback() missing.Reason { return b.fallback }

// Row returns the aligned input values for row i, broadcasting scalar
// columns. On a failed batch every cell is the fallback tag.
func (b *Batch) Row(i int) []missing.Value {
	out := make([]missing.Value, len(b.cols))
	if b.fallback != 0 {
		for j := range out {
			out[j] = missing.Tagged(b.fallback)
		}
		return out
	}
	for j, c := range b.cols {
		if len(c.Values) == 1 {
			out[j] = c.Values[0]
			continue
		}
		if i < len(c.Values) {
			out[j] = c.Values[i]
		} else {
			out[j] = missing.Tagged(missing.UnknownOrRefused)
		}
	}
	return out
}
