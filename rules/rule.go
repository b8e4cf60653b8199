// Package rules loads and validates the declarative recoding table: one
// rule per harmonized variable per survey cycle, mapping source variables
// through a missing-code pattern, a valid domain, and a transformation.
// Rules are data; adding a harmonized variable means adding rows to a rule
// file, not code, except when a new transformation function itself is
// needed.
package rules

import (
	"fmt"

	"github.com/c360studio/cyclekit/sentinel"
	"github.com/c360studio/cyclekit/validate"
)

// Reserved transform names for rules that copy a source column unchanged.
// A rename differs from identity only in intent; both pass cleaned,
// bounds-checked values through.
const (
	TransformIdentity = "identity"
	TransformRename   = "rename"

	// TransformNotAsked declares that the question behind the target was
	// not part of the named cycles' schema at all; the rule produces a
	// column of NA(c) cells and names no sources.
	TransformNotAsked = "not_asked"
)

// Rule is one row of the recoding table.
type Rule struct {
	// Target is the harmonized variable this rule produces.
	Target string `yaml:"target"`

	// Cycles names the survey cycles the rule applies to. Empty means
	// every cycle.
	Cycles []string `yaml:"cycles,omitempty"`

	// Source and Sources name the input variables: raw extract columns
	// for identity/rename rules, other rules' targets for derived rules.
	// Source is shorthand for a single entry.
	Source  string   `yaml:"source,omitempty"`
	Sources []string `yaml:"sources,omitempty"`

	// Pattern declares the missing-code convention of the raw source.
	// Required for identity and rename rules; declare "none" for a
	// source that carries no sentinel codes.
	Pattern sentinel.Pattern `yaml:"pattern,omitempty"`

	// Domain is the valid range or category set checked after cleaning
	// (and, for derived rules, after the transformation).
	Domain validate.Domain `yaml:"domain,omitempty"`

	// Transform is "identity", "rename", or a registered function name.
	Transform string `yaml:"transform"`
}

// Inputs returns the normalized source list.
func (r *Rule) Inputs() []string {
	if r.Source != "" {
		return append([]string{r.Source}, r.Sources...)
	}
	return r.Sources
}

// Copies reports whether the rule passes its source through unchanged.
func (r *Rule) Copies() bool {
	return r.Transform == TransformIdentity || r.Transform == TransformRename
}

// AppliesTo reports whether the rule participates in the given cycle.
func (r *Rule) AppliesTo(cycle string) bool {
	if len(r.Cycles) == 0 {
		return true
	}
	for _, c := range r.Cycles {
		if c == cycle {
			return true
		}
	}
	return false
}

func (r *Rule) validate(known func(string) bool) error {
	if r.Target == "" {
		return fmt.Errorf("rule with no target")
	}
	if r.Transform == TransformNotAsked {
		if len(r.Inputs()) != 0 {
			return fmt.Errorf("rule %q: %s rules name no sources", r.Target, TransformNotAsked)
		}
		return nil
	}
	if len(r.Inputs()) == 0 {
		return fmt.Errorf("rule %q names no sources", r.Target)
	}
	if !r.Pattern.Valid() {
		return fmt.Errorf("rule %q: unknown missing-code pattern %q", r.Target, r.Pattern)
	}
	if err := r.Domain.Validate(); err != nil {
		return fmt.Errorf("rule %q: %w", r.Target, err)
	}
	switch {
	case r.Transform == "":
		return fmt.Errorf("rule %q declares no transform", r.Target)
	case r.Copies():
		if r.Pattern == "" {
			return fmt.Errorf("rule %q: %w", r.Target, ErrMissingPattern)
		}
		if len(r.Inputs()) != 1 {
			return fmt.Errorf("rule %q: %s takes exactly one source", r.Target, r.Transform)
		}
	default:
		if !known(r.Transform) {
			return fmt.Errorf("rule %q: %w: %q", r.Target, ErrUnknownTransform, r.Transform)
		}
	}
	return nil
}
