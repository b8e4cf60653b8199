package rules

import "errors"

// Configuration errors surfaced at load time, before any row is processed.
// Per-row data problems never produce these; they fold into tags instead.
var (
	// ErrCyclicDependency marks a dependency cycle among derived rules.
	ErrCyclicDependency = errors.New("cyclic dependency among recode rules")

	// ErrUnknownTransform marks a rule referencing an unregistered
	// transformation function.
	ErrUnknownTransform = errors.New("unknown transformation function")

	// ErrMissingPattern marks a raw-reading rule with no declared
	// missing-code pattern.
	ErrMissingPattern = errors.New("missing-code pattern required")

	// ErrDuplicateTarget marks two rules producing the same target for
	// the same survey cycle.
	ErrDuplicateTarget = errors.New("duplicate target for cycle")
)
