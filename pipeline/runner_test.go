package pipeline

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/cyclekit/derive"
	"github.com/c360studio/cyclekit/missing"
	"github.com/c360studio/cyclekit/rules"
	"github.com/c360studio/cyclekit/sentinel"
	"github.com/c360studio/cyclekit/source"
	"github.com/c360studio/cyclekit/validate"
)

func fp(x float64) *float64 { return &x }

// extractFrom builds an in-memory extract through the CSV reader contract.
func extractFrom(t *testing.T, cycle string, header string, rows ...string) *source.Extract {
	t.Helper()
	content := header + "\n"
	for _, r := range rows {
		content += r + "\n"
	}
	path := t.TempDir() + "/" + cycle + ".csv"
	require.NoError(t, writeFile(path, content))
	e, err := source.ReadCSV(cycle, path)
	require.NoError(t, err)
	return e
}

func bmiRules() *rules.Set {
	return rules.NewSet(
		&rules.Rule{
			Target: "height_m", Cycles: []string{"cchs2001"},
			Source: "HWTA_4", Pattern: sentinel.ContinuousStandard,
			Domain:    validate.Domain{Min: fp(0.9), Max: fp(2.2)},
			Transform: rules.TransformIdentity,
		},
		&rules.Rule{
			Target: "weight_kg", Cycles: []string{"cchs2001"},
			Source: "HWTA_5", Pattern: sentinel.ContinuousStandard,
			Domain:    validate.Domain{Min: fp(20), Max: fp(260)},
			Transform: rules.TransformIdentity,
		},
		&rules.Rule{
			Target:    "bmi",
			Sources:   []string{"height_m", "weight_kg"},
			Domain:    validate.Domain{Min: fp(10), Max: fp(100)},
			Transform: "bmi",
		},
		&rules.Rule{
			Target:    "bmi_cat",
			Sources:   []string{"bmi"},
			Domain:    validate.Domain{Set: []float64{1, 2, 3, 4}},
			Transform: "bmi_category",
		},
	)
}

func TestRunner_New_RejectsBrokenRules(t *testing.T) {
	set := rules.NewSet(&rules.Rule{Target: "x", Source: "A", Transform: "no_such_fn"})
	_, err := New(set, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnknownTransform)
}

func TestRunner_ChainedDerivation(t *testing.T) {
	r, err := New(bmiRules(), derive.DefaultRegistry)
	require.NoError(t, err)

	e := extractFrom(t, "cchs2001", "HWTA_4,HWTA_5",
		"1.75,70",  // plausible
		"996,70",   // height not applicable
		"1.75,998", // weight refused
		"9.99,70")  // raw height out of domain
	tab, report, err := r.RunCycle("run-1", e)
	require.NoError(t, err)
	require.Equal(t, 4, tab.Rows())

	v, _ := tab.Cell("bmi", 0)
	f, ok := v.Float()
	require.True(t, ok)
	assert.InDelta(t, 22.857142, f, 1e-6)
	v, _ = tab.Cell("bmi_cat", 0)
	assert.Equal(t, missing.Present(2), v)

	// NA(a) in height flows through bmi into the category.
	v, _ = tab.Cell("bmi", 1)
	assert.Equal(t, missing.Tagged(missing.NotApplicable), v)
	v, _ = tab.Cell("bmi_cat", 1)
	assert.Equal(t, missing.Tagged(missing.NotApplicable), v)

	v, _ = tab.Cell("bmi", 2)
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), v)

	// Row 3: raw height demoted by its own domain, then propagated.
	v, _ = tab.Cell("height_m", 3)
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), v)
	v, _ = tab.Cell("bmi", 3)
	assert.Equal(t, missing.Tagged(missing.UnknownOrRefused), v)

	assert.Equal(t, "cchs2001", report.Cycle)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 4, report.Variables)
	assert.Positive(t, report.TaggedCells["a"])
	assert.Positive(t, report.TaggedCells["b"])
}

func TestRunner_AbsentSourceColumn(t *testing.T) {
	set := rules.NewSet(&rules.Rule{
		Target: "height_m", Source: "HWTA_4",
		Pattern: sentinel.ContinuousStandard, Transform: rules.TransformIdentity,
	})
	r, err := New(set, nil)
	require.NoError(t, err)

	e := extractFrom(t, "cchs2005", "OTHER", "1", "2")
	tab, report, err := r.RunCycle("run-1", e)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		v, _ := tab.Cell("height_m", i)
		assert.Equal(t, missing.Tagged(missing.VariableAbsent), v)
	}
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueAbsentSource, report.Issues[0].Kind)
	assert.Equal(t, 2, report.Issues[0].Count)
}

func TestRunner_NotAskedRule(t *testing.T) {
	set := rules.NewSet(&rules.Rule{
		Target: "binge", Cycles: []string{"cchs2001"},
		Transform: rules.TransformNotAsked,
	})
	r, err := New(set, nil)
	require.NoError(t, err)

	e := extractFrom(t, "cchs2001", "ANY", "1")
	tab, _, err := r.RunCycle("run-1", e)
	require.NoError(t, err)
	v, _ := tab.Cell("binge", 0)
	assert.Equal(t, missing.Tagged(missing.NotAskedThisCycle), v)
}

func TestRunner_DerivedInputNeverProduced(t *testing.T) {
	set := rules.NewSet(&rules.Rule{
		Target:    "bmi",
		Sources:   []string{"height_m", "weight_kg"},
		Transform: "bmi",
	})
	r, err := New(set, nil)
	require.NoError(t, err)

	e := extractFrom(t, "cchs2001", "ANY", "1", "2", "3")
	tab, report, err := r.RunCycle("run-1", e)
	require.NoError(t, err)

	// No rule produces either input: the whole batch is NA(d).
	for i := 0; i < 3; i++ {
		v, _ := tab.Cell("bmi", i)
		assert.Equal(t, missing.Tagged(missing.VariableAbsent), v, "row %d", i)
	}
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, IssueAbsentSource, report.Issues[0].Kind)
}

func TestRunner_RunAll_MergeRetags(t *testing.T) {
	set := rules.NewSet(
		&rules.Rule{
			Target: "height_m", Cycles: []string{"cchs2001"},
			Source: "HWTA_4", Pattern: sentinel.ContinuousStandard,
			Transform: rules.TransformIdentity,
		},
		&rules.Rule{
			Target: "age", Source: "DHH_AGE",
			Pattern: sentinel.CategoricalAge, Transform: rules.TransformIdentity,
		},
	)
	r, err := New(set, nil)
	require.NoError(t, err)

	a := extractFrom(t, "cchs2001", "HWTA_4,DHH_AGE", "1.75,40")
	b := extractFrom(t, "cchs2003", "DHH_AGE", "52", "96")

	merged, reports, err := r.RunAll(a, b)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, reports[0].RunID, reports[1].RunID)
	require.Equal(t, 3, merged.Rows())

	// height_m has no rule for cchs2003: its rows are NA(e), while the
	// cchs2001 row keeps its value.
	v, _ := merged.Cell("height_m", 0)
	assert.Equal(t, missing.Present(1.75), v)
	for i := 1; i < 3; i++ {
		v, _ = merged.Cell("height_m", i)
		assert.Equal(t, missing.Tagged(missing.NotCollected), v, "row %d", i)
	}

	// age exists in both cycles; the categorical-age sentinel is cleaned.
	v, _ = merged.Cell("age", 2)
	assert.Equal(t, missing.Tagged(missing.NotApplicable), v)
}

func TestRunner_OutputRowPerInputRow(t *testing.T) {
	r, err := New(bmiRules(), nil)
	require.NoError(t, err)

	// Thoroughly bad data still yields one output row per input row.
	e := extractFrom(t, "cchs2001", "HWTA_4,HWTA_5",
		"garbage,more", ",", "999,999")
	tab, _, err := r.RunCycle("run-1", e)
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Rows())
	for _, name := range tab.Columns() {
		for i := 0; i < 3; i++ {
			v, ok := tab.Cell(name, i)
			require.True(t, ok)
			assert.True(t, v.IsMissing(), "%s row %d", name, i)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
