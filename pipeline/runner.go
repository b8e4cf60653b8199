// Package pipeline runs the harmonization pass: for each cycle extract it
// cleans raw sentinel codes, bounds-checks, and evaluates transformation
// functions in dependency order, producing one tagged table per cycle. Data
// problems fold into tags; only a broken rule table aborts, and it does so
// before any row is processed.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/c360studio/cyclekit/derive"
	"github.com/c360studio/cyclekit/metrics"
	"github.com/c360studio/cyclekit/missing"
	"github.com/c360studio/cyclekit/rules"
	"github.com/c360studio/cyclekit/sentinel"
	"github.com/c360studio/cyclekit/source"
	"github.com/c360studio/cyclekit/table"
	"github.com/c360studio/cyclekit/validate"
)

// Runner applies an immutable rule set to cycle extracts.
type Runner struct {
	set     *rules.Set
	reg     *derive.Registry
	logger  *slog.Logger
	collect *metrics.Collector
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.collect = c }
}

// New validates the rule set against the function registry and builds a
// runner. A cyclic dependency, unregistered transform, or missing pattern
// fails here, before any extract is touched.
func New(set *rules.Set, reg *derive.Registry, opts ...Option) (*Runner, error) {
	if reg == nil {
		reg = derive.DefaultRegistry
	}
	if err := set.Validate(reg.Known); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}
	r := &Runner{set: set, reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunCycle harmonizes one cycle extract. It always produces one output row
// per input row; per-cell tags explain every absent value.
func (r *Runner) RunCycle(runID string, e *source.Extract) (*table.Table, *Report, error) {
	ordered, err := r.set.ForCycle(e.Cycle)
	if err != nil {
		return nil, nil, err
	}

	rows := e.Rows()
	out := table.New(e.Cycle, rows)
	report := &Report{
		RunID:       runID,
		Cycle:       e.Cycle,
		Rows:        rows,
		TaggedCells: make(map[string]int),
	}
	produced := make(map[string][]missing.Value, len(ordered))

	for _, rule := range ordered {
		var col []missing.Value
		switch {
		case rule.Transform == rules.TransformNotAsked:
			col = taggedColumn(missing.NotAskedThisCycle, rows)
		case rule.Copies():
			col = r.copyColumn(rule, e, report)
		default:
			col = r.deriveColumn(rule, produced, rows, report)
		}

		col, demoted := validate.CheckColumn(col, rule.Domain)
		report.addIssue(rule.Target, IssueDomainDemotion, demoted)
		if r.collect != nil && demoted > 0 {
			r.collect.DomainDemotions.WithLabelValues(rule.Target).Add(float64(demoted))
		}

		for _, v := range col {
			if v.IsMissing() {
				code := v.Reason().Code()
				report.TaggedCells[code]++
				if r.collect != nil {
					r.collect.CellsTagged.WithLabelValues(code).Inc()
				}
			}
		}

		produced[rule.Target] = col
		if err := out.SetColumn(rule.Target, col); err != nil {
			return nil, nil, err
		}
	}

	report.Variables = len(ordered)
	report.sortIssues()
	if r.collect != nil {
		r.collect.RowsProcessed.WithLabelValues(e.Cycle).Add(float64(rows))
	}
	r.logger.Info("harmonized cycle",
		slog.String("cycle", e.Cycle),
		slog.Int("rows", rows),
		slog.Int("variables", report.Variables))
	return out, report, nil
}

// copyColumn handles identity and rename rules: clean the raw column under
// the rule's sentinel pattern. A column the extract never supplied becomes
// Missing(VariableAbsent) for every row.
func (r *Runner) copyColumn(rule *rules.Rule, e *source.Extract, report *Report) []missing.Value {
	src := rule.Inputs()[0]
	raw, ok := e.Column(src)
	if !ok {
		r.logger.Warn("source variable absent from extract",
			slog.String("cycle", e.Cycle),
			slog.String("variable", src),
			slog.String("target", rule.Target))
		report.addIssue(rule.Target, IssueAbsentSource, e.Rows())
		if r.collect != nil {
			r.collect.AbsentSources.WithLabelValues(rule.Target).Inc()
		}
		return taggedColumn(missing.VariableAbsent, e.Rows())
	}
	return sentinel.CleanColumn(raw, rule.Pattern)
}

// deriveColumn evaluates a transformation function over previously produced
// columns. Dependency order guarantees the inputs that exist are already
// computed; inputs no rule produced resolve the batch to VariableAbsent.
func (r *Runner) deriveColumn(rule *rules.Rule, produced map[string][]missing.Value, rows int, report *Report) []missing.Value {
	inputs := rule.Inputs()
	cols := make([]validate.Column, len(inputs))
	for i, src := range inputs {
		if vals, ok := produced[src]; ok {
			cols[i] = validate.Column{Name: src, Values: vals}
			continue
		}
		cols[i] = validate.Absent(src)
		report.addIssue(rule.Target, IssueAbsentSource, 1)
		if r.collect != nil {
			r.collect.AbsentSources.WithLabelValues(rule.Target).Inc()
		}
	}

	batch := validate.Join(cols...)
	if !batch.OK() && batch.Fallback() == missing.UnknownOrRefused {
		report.addIssue(rule.Target, IssueLengthConflict, 1)
	}

	def, ok := r.reg.Lookup(rule.Transform)
	if !ok {
		// Unreachable after New's validation; folded rather than raised
		// to keep the run total.
		return taggedColumn(missing.VariableAbsent, rows)
	}

	col := make([]missing.Value, rows)
	for i := 0; i < rows; i++ {
		col[i] = def.Fn(batch.Row(i)...)
	}
	return col
}

// RunAll harmonizes every extract under one run ID and merges the results,
// retagging cross-cycle absences as NA(e).
func (r *Runner) RunAll(extracts ...*source.Extract) (*table.Table, []*Report, error) {
	runID := uuid.NewString()
	tables := make([]*table.Table, 0, len(extracts))
	reports := make([]*Report, 0, len(extracts))
	for _, e := range extracts {
		t, rep, err := r.RunCycle(runID, e)
		if err != nil {
			return nil, nil, fmt.Errorf("cycle %s: %w", e.Cycle, err)
		}
		tables = append(tables, t)
		reports = append(reports, rep)
	}
	merged := table.Merge(tables...)
	if r.collect != nil {
		r.collect.Runs.Inc()
	}
	r.logger.Info("merged cycles",
		slog.String("run_id", runID),
		slog.Int("cycles", len(tables)),
		slog.Int("rows", merged.Rows()),
		slog.Int("variables", len(merged.Columns())))
	return merged, reports, nil
}

func taggedColumn(reason missing.Reason, rows int) []missing.Value {
	col := make([]missing.Value, rows)
	for i := range col {
		col[i] = missing.Tagged(reason)
	}
	return col
}
