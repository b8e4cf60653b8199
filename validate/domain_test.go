package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/cyclekit/missing"
)

func fp(x float64) *float64 { return &x }

func TestCheck_RangeDemotion(t *testing.T) {
	d := Domain{Min: fp(10), Max: fp(100)}
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), Check(missing.Present(161.6), d))
	assert.Equal(t, missing.Present(22.9), Check(missing.Present(22.9), d))
	assert.Equal(t, missing.Present(10), Check(missing.Present(10), d))
	assert.Equal(t, missing.Present(100), Check(missing.Present(100), d))
}

func TestCheck_SetMembership(t *testing.T) {
	d := Domain{Set: []float64{1, 2}}
	assert.Equal(t, missing.Present(2), Check(missing.Present(2), d))
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), Check(missing.Present(3), d))
}

func TestCheck_MissingIsNoOp(t *testing.T) {
	d := Domain{Min: fp(0), Max: fp(1)}
	for _, r := range []missing.Reason{
		missing.UnknownOrRefused,
		missing.NotApplicable,
		missing.VariableAbsent,
		missing.NotAskedThisCycle,
		missing.NotCollected,
	} {
		assert.Equal(t, missing.Tagged(r), Check(missing.Tagged(r), d), r.String())
	}
}

func TestCheck_Unconstrained(t *testing.T) {
	assert.Equal(t, missing.Present(-999), Check(missing.Present(-999), Domain{}))
}

func TestDomain_Validate(t *testing.T) {
	assert.Error(t, Domain{Min: fp(10), Max: fp(1)}.Validate())
	assert.Error(t, Domain{Min: fp(1), Set: []float64{1}}.Validate())
	assert.NoError(t, Domain{Min: fp(1), Max: fp(2)}.Validate())
	assert.NoError(t, Domain{}.Validate())
}

func TestCheckColumn_CountsDemotions(t *testing.T) {
	d := Domain{Min: fp(0), Max: fp(10)}
	col := []missing.Value{
		missing.Present(5),
		missing.Present(11),
		missing.Tagged(missing.NotApplicable),
		missing.Present(-3),
	}
	out, demoted := CheckColumn(col, d)
	require.Len(t, out, 4)
	assert.Equal(t, 2, demoted)
	assert.Equal(t, missing.Present(5), out[0])
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), out[1])
	assert.Equal(t, missing.Tagged(missing.NotApplicable), out[2])
}

func TestJoin_LengthMismatch(t *testing.T) {
	a := Column{Name: "a", Values: make([]missing.Value, 5)}
	b := Column{Name: "b", Values: make([]missing.Value, 7)}
	batch := Join(a, b)
	assert.False(t, batch.OK())
	assert.Equal(t, 7, batch.Len())
	assert.Equal(t, missing.UnknownOrRefused, batch.Fallback())
	for _, v := range batch.Row(3) {
		assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), v)
	}
}

func TestJoin_AbsentColumn(t *testing.T) {
	a := Column{Name: "a", Values: make([]missing.Value, 4)}
	batch := Join(a, Absent("b"))
	assert.False(t, batch.OK())
	assert.Equal(t, 4, batch.Len())
	assert.Equal(t, missing.VariableAbsent, batch.Fallback())
}

func TestJoin_ScalarBroadcast(t *testing.T) {
	a := Column{Name: "a", Values: []missing.Value{
		missing.Present(1), missing.Present(2), missing.Present(3),
	}}
	s := Column{Name: "s", Values: []missing.Value{missing.Present(10)}}
	batch := Join(a, s)
	require.True(t, batch.OK())
	assert.Equal(t, 3, batch.Len())

	row := batch.Row(2)
	assert.Equal(t, missing.Present(3), row[0])
	assert.Equal(t, missing.Present(10), row[1])
}

func TestJoin_AllScalars(t *testing.T) {
	a := Column{Name: "a", Values: []missing.Value{missing.Present(1)}}
	b := Column{Name: "b", Values: []missing.Value{missing.Present(2)}}
	batch := Join(a, b)
	require.True(t, batch.OK())
	assert.Equal(t, 1, batch.Len())
}
