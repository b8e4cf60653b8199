// Package missing implements the tagged-missing-value model used throughout
// the harmonization engine. A cell is either a present numeric value or a
// missing value tagged with the reason it is absent. All derivation logic is
// built from the total combinators in this package, so missingness propagates
// through arithmetic, comparisons, and branching instead of surfacing as
// errors or silent nulls.
package missing

import "fmt"

// Reason identifies why a value is missing. The zero value means "not
// missing" and is never a valid tag on its own.
//
// Reasons are ordered by precedence: when a computation combines inputs
// missing for different reasons, the strongest reason wins. NotCollected is
// applied only by the cross-cycle merge and never originates inside a
// transformation function.
type Reason int

const (
	// UnknownOrRefused covers don't-know, refusal, not-stated,
	// out-of-bounds and unparseable responses. It is the weakest reason
	// and the default for an otherwise untyped absence.
	UnknownOrRefused Reason = iota + 1

	// NotApplicable marks a respondent correctly skipped by survey flow.
	NotApplicable

	// VariableAbsent marks an input variable that was never supplied to a
	// computation, as opposed to a respondent with no value.
	VariableAbsent

	// NotAskedThisCycle marks a question absent from a cycle's schema.
	NotAskedThisCycle

	// NotCollected is the merge-only tag for cells whose column exists in
	// the merged schema but was never produced by the row's own cycle.
	NotCollected
)

// reasonCodes maps each reason to the survey convention letter used in the
// stable NA(x) rendering.
var reasonCodes = map[Reason]string{
	NotApplicable:     "a",
	UnknownOrRefused:  "b",
	NotAskedThisCycle: "c",
	VariableAbsent:    "d",
	NotCollected:      "e",
}

var codeReasons = map[string]Reason{
	"a": NotApplicable,
	"b": UnknownOrRefused,
	"c": NotAskedThisCycle,
	"d": VariableAbsent,
	"e": NotCollected,
}

// Code returns the single-letter survey code for the reason ("a".."e").
func (r Reason) Code() string {
	if c, ok := reasonCodes[r]; ok {
		return c
	}
	return "?"
}

// String renders the reason in the stable NA(x) convention.
func (r Reason) String() string {
	return fmt.Sprintf("NA(%s)", r.Code())
}

// Valid reports whether r is one of the five defined reasons.
func (r Reason) Valid() bool {
	_, ok := reasonCodes[r]
	return ok
}

// Strongest returns the highest-precedence reason among those given,
// ignoring zero values. It returns zero if no reason is present.
func Strongest(reasons ...Reason) Reason {
	var out Reason
	for _, r := range reasons {
		if r > out {
			out = r
		}
	}
	return out
}

// ReasonForCode returns the reason for a survey code letter.
func ReasonForCode(code string) (Reason, bool) {
	r, ok := codeReasons[code]
	return r, ok
}
