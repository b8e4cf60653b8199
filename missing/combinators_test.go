package missing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect_KnownCondition(t *testing.T) {
	assert.Equal(t, Present(1), Select(True, Present(1), Present(2)))
	assert.Equal(t, Present(2), Select(False, Present(1), Present(2)))
}

func TestSelect_UnknownConditionPropagates(t *testing.T) {
	// A comparison against a missing value short-circuits the conditional;
	// the branches are not consulted.
	cond := Tagged(NotApplicable).Less(5)
	assert.Equal(t, Tagged(NotApplicable), Select(cond, Present(1), Present(2)))
}

func TestSelect_BranchTagPassesThrough(t *testing.T) {
	got := Select(True, Tagged(NotAskedThisCycle), Present(2))
	assert.Equal(t, Tagged(NotAskedThisCycle), got)
}

func TestReduce_AllPresent(t *testing.T) {
	assert.Equal(t, Present(6), Reduce(Sum, Present(1), Present(2), Present(3)))
	assert.Equal(t, Present(8), Reduce(Product, Present(2), Present(4)))
	assert.Equal(t, Present(4), Reduce(Max, Present(2), Present(4)))
	assert.Equal(t, Present(2), Reduce(Min, Present(2), Present(4)))
}

func TestReduce_StrongestReasonWins(t *testing.T) {
	got := Reduce(Sum, Tagged(NotAskedThisCycle), Tagged(UnknownOrRefused))
	assert.Equal(t, Tagged(NotAskedThisCycle), got)

	got = Reduce(Sum, Present(1), Tagged(NotApplicable), Tagged(VariableAbsent))
	assert.Equal(t, Tagged(VariableAbsent), got)
}

func TestReduce_NoValues(t *testing.T) {
	assert.Equal(t, Tagged(VariableAbsent), Reduce(Sum))
}

func TestClamp_OutOfRangeDemotes(t *testing.T) {
	assert.Equal(t, Tagged(UnknownOrRefused), Clamp(Present(161.6), 10, 100, 0))
	assert.Equal(t, Tagged(NotApplicable), Clamp(Present(-1), 0, 10, NotApplicable))
}

func TestClamp_InRangePassesThrough(t *testing.T) {
	assert.Equal(t, Present(22.9), Clamp(Present(22.9), 10, 100, 0))
	assert.Equal(t, Present(10), Clamp(Present(10), 10, 100, 0))
	assert.Equal(t, Present(100), Clamp(Present(100), 10, 100, 0))
}

func TestClamp_MissingIsNoOp(t *testing.T) {
	for _, r := range []Reason{UnknownOrRefused, NotApplicable, VariableAbsent, NotAskedThisCycle, NotCollected} {
		assert.Equal(t, Tagged(r), Clamp(Tagged(r), 0, 1, 0), r.String())
	}
}

func TestAnd_ThreeValued(t *testing.T) {
	unknown := UnknownBool(NotApplicable)
	assert.Equal(t, False, And(False, unknown))
	assert.Equal(t, False, And(unknown, False))
	assert.Equal(t, unknown, And(True, unknown))
	assert.Equal(t, True, And(True, True))
}

func TestOr_ThreeValued(t *testing.T) {
	unknown := UnknownBool(VariableAbsent)
	assert.Equal(t, True, Or(True, unknown))
	assert.Equal(t, True, Or(unknown, True))
	assert.Equal(t, unknown, Or(False, unknown))
	assert.Equal(t, False, Or(False, False))
}

func TestOr_StrongestReason(t *testing.T) {
	got := Or(UnknownBool(UnknownOrRefused), UnknownBool(NotAskedThisCycle))
	assert.Equal(t, NotAskedThisCycle, got.Reason())
}

func TestComparisons_PropagateReason(t *testing.T) {
	v := Tagged(VariableAbsent)
	assert.Equal(t, VariableAbsent, v.Less(1).Reason())
	assert.Equal(t, VariableAbsent, v.AtLeast(1).Reason())
	assert.Equal(t, VariableAbsent, v.Eq(1).Reason())
	assert.Equal(t, VariableAbsent, v.In(1, 2).Reason())
}

func TestIn_Membership(t *testing.T) {
	assert.True(t, Present(2).In(1, 2).Truth())
	assert.False(t, Present(3).In(1, 2).Truth())
}
