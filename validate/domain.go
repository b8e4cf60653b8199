// Package validate checks cleaned values against declared valid domains and
// joint-validates the input batches fed to transformation functions. A
// failed check demotes the value to a tagged-missing cell; validation never
// stops a run.
package validate

import (
	"fmt"

	"github.com/c360studio/cyclekit/missing"
)

// Domain is a declared valid domain for one variable: a numeric range, an
// enumerated category set, or both absent (unconstrained).
type Domain struct {
	Min *float64  `yaml:"min,omitempty"`
	Max *float64  `yaml:"max,omitempty"`
	Set []float64 `yaml:"set,omitempty"`
}

// Constrained reports whether the domain restricts anything.
func (d Domain) Constrained() bool {
	return d.Min != nil || d.Max != nil || len(d.Set) > 0
}

// Validate rejects domains that can never match.
func (d Domain) Validate() error {
	if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
		return fmt.Errorf("domain min %v exceeds max %v", *d.Min, *d.Max)
	}
	if (d.Min != nil || d.Max != nil) && len(d.Set) > 0 {
		return fmt.Errorf("domain declares both a range and a category set")
	}
	return nil
}

// Contains reports whether a concrete value lies inside the domain.
func (d Domain) Contains(x float64) bool {
	if len(d.Set) > 0 {
		for _, s := range d.Set {
			if x == s {
				return true
			}
		}
		return false
	}
	if d.Min != nil && x < *d.Min {
		return false
	}
	if d.Max != nil && x > *d.Max {
		return false
	}
	return true
}

// Check demotes a present value outside the domain to
// Missing(UnknownOrRefused). A missing input passes through unchanged;
// bounds-checking a missing value is a no-op and never rewrites its tag.
func Check(v missing.Value, d Domain) missing.Value {
	if v.IsMissing() || !d.Constrained() {
		return v
	}
	x, _ := v.Float()
	if !d.Contains(x) {
		return missing.Tagged(missing.UnknownOrRefused)
	}
	return v
}

// CheckColumn applies Check across a column and reports how many cells
// were demoted.
func CheckColumn(values []missing.Value, d Domain) ([]missing.Value, int) {
	out := make([]missing.Value, len(values))
	demoted := 0
	for i, v := range values {
		out[i] = Check(v, d)
		if v.IsPresent() && out[i].IsMissing() {
			demoted++
		}
	}
	return out, demoted
}
