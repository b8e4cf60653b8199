// Package metrics exposes Prometheus counters for harmonization runs. All
// counters aggregate commutatively, so a future row-partitioned runner can
// share them without ordering concerns.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the engine's counters.
type Collector struct {
	// RowsProcessed counts respondent rows harmonized, by cycle.
	RowsProcessed *prometheus.CounterVec

	// CellsTagged counts output cells carrying a missing tag, by reason
	// code ("a".."e").
	CellsTagged *prometheus.CounterVec

	// DomainDemotions counts present values demoted by a bounds check,
	// by harmonized variable.
	DomainDemotions *prometheus.CounterVec

	// AbsentSources counts rule inputs that were never supplied, by
	// harmonized variable.
	AbsentSources *prometheus.CounterVec

	// Runs counts completed harmonization runs.
	Runs prometheus.Counter
}

// New registers the collector set on the given registerer.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyclekit_rows_processed_total",
			Help: "Respondent rows harmonized, by survey cycle.",
		}, []string{"cycle"}),
		CellsTagged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyclekit_cells_tagged_total",
			Help: "Output cells carrying a tagged-missing reason code.",
		}, []string{"reason"}),
		DomainDemotions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyclekit_domain_demotions_total",
			Help: "Present values demoted to NA(b) by a domain check.",
		}, []string{"variable"}),
		AbsentSources: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyclekit_absent_sources_total",
			Help: "Rule inputs never supplied by the extract or rule set.",
		}, []string{"variable"}),
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "cyclekit_runs_total",
			Help: "Completed harmonization runs.",
		}),
	}
}
