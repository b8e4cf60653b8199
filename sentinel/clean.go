package sentinel

import (
	"github.com/c360studio/cyclekit/missing"
)

// Clean decodes one raw string cell under the given pattern. NA(x) forms
// decode to their tag regardless of pattern, an empty cell becomes
// Missing(UnknownOrRefused), sentinel numerics become their tag, and any
// other numeric wraps Present. A cell that cannot be parsed as a number
// folds into Missing(UnknownOrRefused); Clean never fails.
func Clean(raw string, p Pattern) missing.Value {
	return CleanValue(missing.Parse(raw), p)
}

// CleanValue applies the sentinel mapping to an already-parsed value. A
// value that is already tagged passes through unchanged, so re-cleaning the
// output of a previous pass is a no-op.
func CleanValue(v missing.Value, p Pattern) missing.Value {
	if v.IsMissing() {
		return v
	}
	set, ok := patternSets[p]
	if !ok {
		return v
	}
	x, _ := v.Float()
	if x == set.notApplicable {
		return missing.Tagged(missing.NotApplicable)
	}
	for _, s := range set.unknown {
		if x == s {
			return missing.Tagged(missing.UnknownOrRefused)
		}
	}
	return v
}

// CleanColumn decodes a whole raw column under one pattern.
func CleanColumn(raw []string, p Pattern) []missing.Value {
	out := make([]missing.Value, len(raw))
	for i, s := range raw {
		out[i] = Clean(s, p)
	}
	return out
}

// Detect reports whether any raw value in the column matches the pattern's
// sentinel set. With pattern None or empty, every known pattern is swept.
// Callers use this to skip preprocessing for columns that carry no
// sentinels; cleaning an already-clean column is harmless either way.
func Detect(raw []string, p Pattern) bool {
	patterns := []Pattern{p}
	if p == None || p == "" {
		patterns = Patterns()
	}
	for _, s := range raw {
		v := missing.Parse(s)
		if v.IsMissing() {
			continue
		}
		for _, pat := range patterns {
			if CleanValue(v, pat).IsMissing() {
				return true
			}
		}
	}
	return false
}
