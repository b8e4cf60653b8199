package missing

// Bool is a three-valued boolean produced by comparing tagged values. When
// either operand of a comparison is missing, the Bool carries that reason
// instead of a truth value, so branching on it propagates the tag rather
// than coercing missing to false.
type Bool struct {
	val    bool
	reason Reason
}

// True and False are the known boolean constants.
var (
	True  = Bool{val: true}
	False = Bool{}
)

// UnknownBool returns a boolean tagged with a missing reason.
func UnknownBool(r Reason) Bool {
	if !r.Valid() {
		r = UnknownOrRefused
	}
	return Bool{reason: r}
}

// Known reports whether the boolean has a concrete truth value.
func (b Bool) Known() bool { return b.reason == 0 }

// Reason returns the missing tag, or zero for a known boolean.
func (b Bool) Reason() Reason { return b.reason }

// Truth returns the truth value; an unknown boolean is false for branching
// purposes, which matters only to callers that have already checked Known.
func (b Bool) Truth() bool { return b.reason == 0 && b.val }

// Less compares a tagged value against a constant threshold.
func (v Value) Less(x float64) Bool {
	if !v.ok {
		return UnknownBool(v.Reason())
	}
	return Bool{val: v.num < x}
}

// AtLeast reports v >= x with missingness propagation.
func (v Value) AtLeast(x float64) Bool {
	if !v.ok {
		return UnknownBool(v.Reason())
	}
	return Bool{val: v.num >= x}
}

// Eq reports v == x with missingness propagation.
func (v Value) Eq(x float64) Bool {
	if !v.ok {
		return UnknownBool(v.Reason())
	}
	return Bool{val: v.num == x}
}

// In reports whether v is one of the enumerated category codes.
func (v Value) In(set ...float64) Bool {
	if !v.ok {
		return UnknownBool(v.Reason())
	}
	for _, x := range set {
		if v.num == x {
			return True
		}
	}
	return False
}

// And combines two three-valued booleans. A known false dominates (false AND
// anything is false); otherwise any unknown operand makes the result
// unknown with the strongest reason.
func And(a, b Bool) Bool {
	if a.Known() && !a.val {
		return False
	}
	if b.Known() && !b.val {
		return False
	}
	if r := Strongest(a.reason, b.reason); r != 0 {
		return UnknownBool(r)
	}
	return True
}

// Or combines two three-valued booleans. A known true dominates; otherwise
// any unknown operand makes the result unknown with the strongest reason.
func Or(a, b Bool) Bool {
	if a.Truth() || b.Truth() {
		return True
	}
	if r := Strongest(a.reason, b.reason); r != 0 {
		return UnknownBool(r)
	}
	return False
}

// Select is the missing-propagating conditional. An unknown condition
// propagates its reason regardless of the branches; a known condition
// selects the corresponding branch unchanged, tags included.
func Select(cond Bool, ifTrue, ifFalse Value) Value {
	if !cond.Known() {
		return Tagged(cond.Reason())
	}
	if cond.val {
		return ifTrue
	}
	return ifFalse
}

// Reducer folds two present numeric values.
type Reducer func(a, b float64) float64

// Standard reducers for Reduce.
var (
	Sum     Reducer = func(a, b float64) float64 { return a + b }
	Product Reducer = func(a, b float64) float64 { return a * b }
	Max     Reducer = func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	}
	Min Reducer = func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	}
)

// Reduce applies the reducer across the values only if every input is
// present. If any input is missing, the result is missing with the
// strongest reason among the missing inputs; present inputs are never
// substituted with defaults. Reducing no values yields
// Missing(VariableAbsent) since there is nothing to fold.
func Reduce(fn Reducer, values ...Value) Value {
	if len(values) == 0 {
		return Tagged(VariableAbsent)
	}
	var reason Reason
	for _, v := range values {
		reason = Strongest(reason, v.Reason())
	}
	if reason != 0 {
		return Tagged(reason)
	}
	acc := values[0].num
	for _, v := range values[1:] {
		acc = fn(acc, v.num)
	}
	return Present(acc)
}

// Clamp demotes a present value outside [min, max] to a missing value with
// the given reason (UnknownOrRefused when zero). Missing inputs pass
// through unchanged; Clamp never strengthens or weakens an existing tag.
func Clamp(v Value, min, max float64, reason Reason) Value {
	if !v.ok {
		return v
	}
	if v.num < min || v.num > max {
		if reason == 0 {
			reason = UnknownOrRefused
		}
		return Tagged(reason)
	}
	return v
}
