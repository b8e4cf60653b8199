package missing

import (
	"math"
	"strconv"
	"strings"
)

// Value is one tagged cell: either a present numeric value or a missing
// value carrying a Reason. The zero Value is Missing(UnknownOrRefused),
// matching the convention that an untyped absence is an unknown response.
//
// Values are immutable; every operation returns a new Value.
type Value struct {
	num    float64
	reason Reason
	ok     bool
}

// Present wraps a concrete numeric value. A NaN input is folded into
// Missing(UnknownOrRefused) so that no NaN ever flows through the pipeline
// untagged.
func Present(x float64) Value {
	if math.IsNaN(x) {
		return Tagged(UnknownOrRefused)
	}
	return Value{num: x, ok: true}
}

// Tagged returns a missing value with the given reason. An invalid reason
// is normalized to UnknownOrRefused.
func Tagged(r Reason) Value {
	if !r.Valid() {
		r = UnknownOrRefused
	}
	return Value{reason: r}
}

// IsPresent reports whether the value carries concrete data.
func (v Value) IsPresent() bool { return v.ok }

// IsMissing reports whether the value is tagged missing.
func (v Value) IsMissing() bool { return !v.ok }

// Reason returns the missing tag, or zero for a present value.
func (v Value) Reason() Reason {
	if v.ok {
		return 0
	}
	if v.reason == 0 {
		return UnknownOrRefused
	}
	return v.reason
}

// Float returns the numeric value and whether it is present.
func (v Value) Float() (float64, bool) {
	if !v.ok {
		return 0, false
	}
	return v.num, true
}

// Equal reports whether two values carry the same data or the same tag.
func (v Value) Equal(o Value) bool {
	if v.ok != o.ok {
		return false
	}
	if !v.ok {
		return v.Reason() == o.Reason()
	}
	return v.num == o.num
}

// String renders the value for output: a trimmed decimal for present
// values, NA(x) for missing ones.
func (v Value) String() string {
	if !v.ok {
		return v.Reason().String()
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Parse decodes a raw string cell into a Value. NA(x) forms decode to their
// tagged reason, an empty cell decodes to Missing(UnknownOrRefused), and
// anything else is parsed as a number. A cell that fails to parse becomes
// Missing(UnknownOrRefused); Parse never fails.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tagged(UnknownOrRefused)
	}
	if r, ok := ParseNA(s); ok {
		return Tagged(r)
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Tagged(UnknownOrRefused)
	}
	return Present(x)
}

// ParseNA decodes the NA(x) convention. It accepts the five survey codes
// case-insensitively and reports whether s was an NA form at all.
func ParseNA(s string) (Reason, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return 0, false
	}
	if !strings.EqualFold(s[:3], "NA(") || s[4] != ')' {
		return 0, false
	}
	return ReasonForCode(strings.ToLower(s[3:4]))
}
