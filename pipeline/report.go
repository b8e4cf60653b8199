package pipeline

import "sort"

// Issue kinds recorded on a run report. These are data observations, not
// errors: the run always completes.
const (
	IssueDomainDemotion = "domain_demotion"
	IssueAbsentSource   = "absent_source"
	IssueLengthConflict = "length_conflict"
)

// Issue is one aggregated data observation for a harmonized variable.
type Issue struct {
	Variable string `yaml:"variable"`
	Kind     string `yaml:"kind"`
	Count    int    `yaml:"count"`
}

// Report summarizes one cycle's harmonization pass.
type Report struct {
	// RunID identifies the processing run this report belongs to.
	RunID string `yaml:"run_id"`

	// Cycle is the survey cycle processed.
	Cycle string `yaml:"cycle"`

	// Rows is the respondent count; always equal to the extract's rows.
	Rows int `yaml:"rows"`

	// Variables is the number of harmonized variables produced.
	Variables int `yaml:"variables"`

	// TaggedCells counts output cells per reason code ("a".."e").
	TaggedCells map[string]int `yaml:"tagged_cells"`

	// Issues aggregates per-variable observations.
	Issues []Issue `yaml:"issues,omitempty"`
}

func (r *Report) addIssue(variable, kind string, count int) {
	if count == 0 {
		return
	}
	for i := range r.Issues {
		if r.Issues[i].Variable == variable && r.Issues[i].Kind == kind {
			r.Issues[i].Count += count
			return
		}
	}
	r.Issues = append(r.Issues, Issue{Variable: variable, Kind: kind, Count: count})
}

func (r *Report) sortIssues() {
	sort.Slice(r.Issues, func(i, j int) bool {
		if r.Issues[i].Variable != r.Issues[j].Variable {
			return r.Issues[i].Variable < r.Issues[j].Variable
		}
		return r.Issues[i].Kind < r.Issues[j].Kind
	})
}
