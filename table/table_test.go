package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/cyclekit/missing"
)

func col(values ...missing.Value) []missing.Value { return values }

func TestTable_SetColumnLengthCheck(t *testing.T) {
	tab := New("c1", 2)
	err := tab.SetColumn("x", col(missing.Present(1)))
	assert.Error(t, err)
	require.NoError(t, tab.SetColumn("x", col(missing.Present(1), missing.Present(2))))
}

func TestTable_ColumnIsCopied(t *testing.T) {
	tab := New("c1", 1)
	src := col(missing.Present(1))
	require.NoError(t, tab.SetColumn("x", src))
	src[0] = missing.Present(99)

	got, ok := tab.Column("x")
	require.True(t, ok)
	assert.Equal(t, missing.Present(1), got[0])
}

func TestMerge_RetagsAbsentColumns(t *testing.T) {
	// Cycle A produces column x, cycle B does not.
	a := New("cchs2001", 2)
	require.NoError(t, a.SetColumn("x", col(missing.Present(1), missing.Tagged(missing.NotApplicable))))
	b := New("cchs2003", 3)
	require.NoError(t, b.SetColumn("y", col(missing.Present(5), missing.Present(6), missing.Present(7))))

	m := Merge(a, b)
	assert.Equal(t, 5, m.Rows())
	assert.Equal(t, []string{"x", "y"}, m.Columns())

	// Rows from cycle A keep their original value or tag.
	v, _ := m.Cell("x", 0)
	assert.Equal(t, missing.Present(1), v)
	v, _ = m.Cell("x", 1)
	assert.Equal(t, missing.Tagged(missing.NotApplicable), v)

	// Every row from cycle B is retagged NotCollected in column x.
	for i := 2; i < 5; i++ {
		v, _ = m.Cell("x", i)
		assert.Equal(t, missing.Tagged(missing.NotCollected), v, "row %d", i)
	}

	// And symmetrically for y in cycle A rows.
	for i := 0; i < 2; i++ {
		v, _ = m.Cell("y", i)
		assert.Equal(t, missing.Tagged(missing.NotCollected), v, "row %d", i)
	}
}

func TestMerge_PreservesCycleLabels(t *testing.T) {
	a := New("cchs2001", 1)
	b := New("cchs2003", 2)
	m := Merge(a, b)
	assert.Equal(t, "cchs2001", m.CycleOf(0))
	assert.Equal(t, "cchs2003", m.CycleOf(1))
	assert.Equal(t, "cchs2003", m.CycleOf(2))
}

func TestMerge_Idempotent(t *testing.T) {
	a := New("c1", 1)
	require.NoError(t, a.SetColumn("x", col(missing.Present(1))))
	b := New("c2", 1)
	require.NoError(t, b.SetColumn("y", col(missing.Present(2))))

	once := Merge(a, b)
	twice := Merge(once)

	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Rows(), twice.Rows())
	for _, name := range once.Columns() {
		for i := 0; i < once.Rows(); i++ {
			want, _ := once.Cell(name, i)
			got, _ := twice.Cell(name, i)
			assert.Equal(t, want, got, "%s row %d", name, i)
		}
	}
}

func TestMerge_UnionNotJoin(t *testing.T) {
	// Every row survives; no deduplication or key matching.
	a := New("c1", 3)
	b := New("c1", 3)
	assert.Equal(t, 6, Merge(a, b).Rows())
}
