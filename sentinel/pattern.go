// Package sentinel converts a survey cycle's raw missing-code sentinels
// into tagged values. Each raw variable declares which sentinel pattern it
// uses; the pattern is resolved once at rule-load time so no per-cell
// inference happens during a run.
package sentinel

import "fmt"

// Pattern identifies a survey missing-code convention.
type Pattern string

const (
	// StandardResponse is the single-digit convention: 6 means not
	// applicable, 7-9 mean don't know, refusal or not stated.
	StandardResponse Pattern = "standard_response"

	// CategoricalAge is the two-digit convention: 96 not applicable,
	// 97-99 unknown.
	CategoricalAge Pattern = "categorical_age"

	// ContinuousStandard is the three-digit convention used for
	// continuous measures: 996 not applicable, 997-999 unknown.
	ContinuousStandard Pattern = "continuous_standard"

	// None declares that a variable carries no sentinel codes, typically
	// a variable derived upstream of this engine.
	None Pattern = "none"
)

type sentinelSet struct {
	notApplicable float64
	unknown       []float64
}

var patternSets = map[Pattern]sentinelSet{
	StandardResponse:   {notApplicable: 6, unknown: []float64{7, 8, 9}},
	CategoricalAge:     {notApplicable: 96, unknown: []float64{97, 98, 99}},
	ContinuousStandard: {notApplicable: 996, unknown: []float64{997, 998, 999}},
}

// Valid reports whether p names a known pattern.
func (p Pattern) Valid() bool {
	if p == None || p == "" {
		return true
	}
	_, ok := patternSets[p]
	return ok
}

// ParsePattern validates a pattern name from a rule file.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown missing-code pattern %q", s)
	}
	return p, nil
}

// Patterns lists the sentinel-bearing patterns, for detection sweeps.
func Patterns() []Pattern {
	return []Pattern{StandardResponse, CategoricalAge, ContinuousStandard}
}
