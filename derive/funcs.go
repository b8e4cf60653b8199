package derive

import (
	"github.com/c360studio/cyclekit/missing"
)

// Category codes shared by the catalogue. Binary survey items are coded
// 1 = yes, 2 = no; sex is coded 1 = male, 2 = female.
const (
	codeYes    = 1
	codeNo     = 2
	codeMale   = 1
	codeFemale = 2
)

// Smoker type categories produced by SmokerType.
const (
	SmokerDaily      = 1
	SmokerOccasional = 2
	SmokerFormer     = 3
	SmokerNever      = 4
)

func catalogue() []Definition {
	return []Definition{
		{
			Name:        "bmi",
			Inputs:      2,
			Fn:          BMI,
			Description: "body mass index from height (m) and weight (kg), plausibility range 10-100",
		},
		{
			Name:        "bmi_adjusted",
			Inputs:      3,
			Fn:          BMIAdjusted,
			Description: "self-report corrected BMI with sex-specific linear coefficients",
		},
		{
			Name:        "bmi_category",
			Inputs:      1,
			Fn:          BMICategory,
			Description: "BMI bucketed into underweight/normal/overweight/obese",
		},
		{
			Name:        "age_group",
			Inputs:      1,
			Fn:          AgeGroup,
			Description: "age in years bucketed into decade groups",
		},
		{
			Name:        "smoker_type",
			Inputs:      2,
			Fn:          SmokerType,
			Description: "daily/occasional/former/never from lifetime and current smoking items",
		},
		{
			Name:        "time_since_quit",
			Inputs:      1,
			Fn:          TimeSinceQuit,
			Description: "years since quitting smoking from the categorical quit item",
		},
		{
			Name:        "pack_years",
			Inputs:      5,
			Fn:          PackYears,
			Description: "cumulative cigarette exposure from smoker type, ages and daily amount",
		},
		{
			Name:        "needs_help_any",
			Inputs:      5,
			Fn:          NeedsHelpAny,
			Description: "needs help with at least one of five daily tasks",
		},
		{
			Name:        "needs_help_count",
			Inputs:      5,
			Fn:          NeedsHelpCount,
			Description: "number of the five daily tasks needing help, all items required",
		},
		{
			Name:        "binge_monthly",
			Inputs:      1,
			Fn:          BingeMonthly,
			Description: "monthly-or-more heavy drinking indicator from the 5+ drinks frequency item",
		},
	}
}

var div missing.Reducer = func(a, b float64) float64 { return a / b }

// BMI derives body mass index from height in metres and weight in
// kilograms. The computed ratio is checked against the plausible range
// [10, 100]; an implausible result is demoted after computation, separately
// from any pre-check on the raw inputs.
func BMI(args ...missing.Value) missing.Value {
	height := arg(args, 0)
	weight := arg(args, 1)
	sq := missing.Reduce(missing.Product, height, height)
	ratio := missing.Reduce(div, weight, sq)
	return missing.Clamp(ratio, 10, 100, 0)
}

// BMIAdjusted applies the self-report correction with sex-specific linear
// coefficients. A sex code outside {1, 2} yields Missing(UnknownOrRefused)
// regardless of the anthropometric inputs.
func BMIAdjusted(args ...missing.Value) missing.Value {
	sex := arg(args, 0)
	bmi := BMI(arg(args, 1), arg(args, 2))

	inSet := sex.In(codeMale, codeFemale)
	if inSet.Known() && !inSet.Truth() {
		return missing.Tagged(missing.UnknownOrRefused)
	}

	male := missing.Reduce(missing.Sum, missing.Present(-1.08),
		missing.Reduce(missing.Product, missing.Present(1.06), bmi))
	female := missing.Reduce(missing.Sum, missing.Present(-0.12),
		missing.Reduce(missing.Product, missing.Present(1.05), bmi))
	return missing.Select(sex.Eq(codeMale), male, female)
}

// BMICategory buckets a BMI value into the four standard categories using
// half-open intervals: [0,18.5) underweight, [18.5,25) normal,
// [25,30) overweight, [30,∞) obese. A missing input short-circuits before
// any interval test.
func BMICategory(args ...missing.Value) missing.Value {
	bmi := arg(args, 0)
	if bmi.IsMissing() {
		return bmi
	}
	return missing.Select(bmi.Less(18.5), missing.Present(1),
		missing.Select(bmi.Less(25), missing.Present(2),
			missing.Select(bmi.Less(30), missing.Present(3),
				missing.Present(4))))
}

// AgeGroup buckets age in years into groups 1..8: [12,20), [20,30), ...,
// [70,80), then 80 and over. Ages below the survey frame fold into
// Missing(UnknownOrRefused) via the leading bound.
func AgeGroup(args ...missing.Value) missing.Value {
	age := arg(args, 0)
	if age.IsMissing() {
		return age
	}
	if !age.AtLeast(12).Truth() {
		return missing.Tagged(missing.UnknownOrRefused)
	}
	return missing.Select(age.Less(20), missing.Present(1),
		missing.Select(age.Less(30), missing.Present(2),
			missing.Select(age.Less(40), missing.Present(3),
				missing.Select(age.Less(50), missing.Present(4),
					missing.Select(age.Less(60), missing.Present(5),
						missing.Select(age.Less(70), missing.Present(6),
							missing.Select(age.Less(80), missing.Present(7),
								missing.Present(8))))))))
}

// SmokerType classifies smoking status from the lifetime 100-cigarettes
// item and the current-smoking item (1 daily, 2 occasionally, 3 not at
// all): 1 daily, 2 occasional, 3 former, 4 never.
func SmokerType(args ...missing.Value) missing.Value {
	smoked100 := arg(args, 0)
	smokesNow := arg(args, 1)

	former := missing.Select(smoked100.Eq(codeYes),
		missing.Present(SmokerFormer),
		missing.Select(smoked100.Eq(codeNo),
			missing.Present(SmokerNever),
			missing.Tagged(missing.UnknownOrRefused)))

	return missing.Select(smokesNow.Eq(1), missing.Present(SmokerDaily),
		missing.Select(smokesNow.Eq(2), missing.Present(SmokerOccasional),
			missing.Select(smokesNow.Eq(3), former,
				missing.Tagged(missing.UnknownOrRefused))))
}

// TimeSinceQuit maps the categorical years-since-quitting item to a
// continuous midpoint value in years. A present code outside the
// enumerated set yields Missing(UnknownOrRefused).
func TimeSinceQuit(args ...missing.Value) missing.Value {
	cat := arg(args, 0)
	if cat.IsMissing() {
		return cat
	}
	midpoints := map[float64]float64{
		1: 0.5, // less than one year
		2: 1.5,
		3: 2.5,
		4: 4, // 3 to 5 years
		5: 8, // 6 to 10 years
		6: 12.5,
	}
	x, _ := cat.Float()
	mid, ok := midpoints[x]
	if !ok {
		return missing.Tagged(missing.UnknownOrRefused)
	}
	return missing.Present(mid)
}

// PackYears derives cumulative cigarette exposure. It consumes two other
// derived variables (smoker type and continuous time since quit) plus age,
// age started smoking, and cigarettes per day; the rule graph guarantees
// the derived inputs are evaluated first. Never-smokers are a true zero,
// not a missing value.
func PackYears(args ...missing.Value) missing.Value {
	smokerType := arg(args, 0)
	age := arg(args, 1)
	ageStarted := arg(args, 2)
	cigsPerDay := arg(args, 3)
	timeQuit := arg(args, 4)

	neg := func(v missing.Value) missing.Value {
		return missing.Reduce(missing.Product, missing.Present(-1), v)
	}
	packs := missing.Reduce(div, cigsPerDay, missing.Present(20))

	currentYears := missing.Reduce(missing.Sum, age, neg(ageStarted))
	formerYears := missing.Reduce(missing.Sum, currentYears, neg(timeQuit))

	current := missing.Reduce(missing.Product, currentYears, packs)
	former := missing.Reduce(missing.Product, formerYears, packs)

	py := missing.Select(smokerType.In(SmokerDaily, SmokerOccasional), current,
		missing.Select(smokerType.Eq(SmokerFormer), former,
			missing.Select(smokerType.Eq(SmokerNever), missing.Present(0),
				missing.Tagged(missing.UnknownOrRefused))))

	// A negative exposure means inconsistent ages, not a real measurement.
	return missing.Clamp(py, 0, 300, 0)
}

// NeedsHelpAny derives the binary needs-help-with-any-task indicator from
// five yes/no items. An affirmative item wins even when other items are
// missing; the negative category requires every item to be a present no; a
// mix of no and missing yields the strongest missing reason among the
// missing items.
func NeedsHelpAny(args ...missing.Value) missing.Value {
	return anyAll(codeYes, codeNo, args)
}

// NeedsHelpCount counts how many of the five items are affirmative. Unlike
// NeedsHelpAny, a single missing item makes the whole count missing: a
// count cannot skip items without understating exposure.
func NeedsHelpCount(args ...missing.Value) missing.Value {
	if len(args) == 0 {
		return missing.Tagged(missing.VariableAbsent)
	}
	indicators := make([]missing.Value, len(args))
	for i, item := range args {
		indicators[i] = missing.Select(item.Eq(codeYes), missing.Present(1),
			missing.Select(item.Eq(codeNo), missing.Present(0),
				missing.Tagged(missing.UnknownOrRefused)))
	}
	return missing.Reduce(missing.Sum, indicators...)
}

// BingeMonthly derives the monthly-or-more heavy drinking indicator from
// the 5+ drinks frequency item (1 never, 2 less than monthly, 3 monthly,
// 4 two to three times a month, 5 weekly, 6 two to three times a week,
// 7 four or more times a week): codes 3-7 are affirmative.
func BingeMonthly(args ...missing.Value) missing.Value {
	freq := arg(args, 0)
	inSet := freq.In(1, 2, 3, 4, 5, 6, 7)
	if inSet.Known() && !inSet.Truth() {
		return missing.Tagged(missing.UnknownOrRefused)
	}
	return missing.Select(freq.AtLeast(3), missing.Present(codeYes), missing.Present(codeNo))
}

// anyAll implements the recurring any/all aggregate as a three-valued
// fold: affirmative dominates (a known true Or wins over missing items),
// all-negative requires every item to be a present no, and anything else
// is missing with the strongest reason among the missing items.
func anyAll(affirmative, negative float64, items []missing.Value) missing.Value {
	if len(items) == 0 {
		return missing.Tagged(missing.VariableAbsent)
	}
	anyYes := missing.False
	allNo := missing.True
	for _, item := range items {
		anyYes = missing.Or(anyYes, item.Eq(affirmative))
		allNo = missing.And(allNo, item.Eq(negative))
	}
	if anyYes.Truth() {
		return missing.Present(affirmative)
	}
	if allNo.Truth() {
		return missing.Present(negative)
	}
	if !anyYes.Known() {
		return missing.Tagged(anyYes.Reason())
	}
	// Every item answered, none affirmative, not all negative: some
	// response fell outside the binary coding.
	return missing.Tagged(missing.UnknownOrRefused)
}
