package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Set is the immutable recoding table for one processing run.
type Set struct {
	rules []*Rule
}

type ruleFile struct {
	Rules []*Rule `yaml:"rules"`
}

// Load reads one or more YAML rule files and concatenates their rules. The
// result is not yet validated; call Validate before use.
func Load(paths ...string) (*Set, error) {
	var all []*Rule
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file: %w", err)
		}
		var f ruleFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
		}
		all = append(all, f.Rules...)
	}
	return &Set{rules: all}, nil
}

// NewSet builds a set from in-memory rules, for callers that do not go
// through files.
func NewSet(rules ...*Rule) *Set {
	return &Set{rules: rules}
}

// Len returns the number of rules.
func (s *Set) Len() int { return len(s.rules) }

// Validate checks the whole table for the configuration errors that must
// fail before any row is processed: malformed rules, unregistered
// transforms, duplicate targets within a cycle, and dependency cycles.
// known reports whether a transformation name is registered.
func (s *Set) Validate(known func(string) bool) error {
	for _, r := range s.rules {
		if err := r.validate(known); err != nil {
			return err
		}
	}

	seen := make(map[string]map[string]bool)
	for _, r := range s.rules {
		cycles := r.Cycles
		if len(cycles) == 0 {
			cycles = []string{"*"}
		}
		for _, c := range cycles {
			if seen[c] == nil {
				seen[c] = make(map[string]bool)
			}
			if seen[c][r.Target] || (c != "*" && seen["*"][r.Target]) {
				return fmt.Errorf("%w: %s in %s", ErrDuplicateTarget, r.Target, c)
			}
			if c == "*" {
				// A global rule conflicts with any cycle-specific rule
				// for the same target, in either declaration order.
				for other, targets := range seen {
					if other != "*" && targets[r.Target] {
						return fmt.Errorf("%w: %s in %s", ErrDuplicateTarget, r.Target, other)
					}
				}
			}
			seen[c][r.Target] = true
		}
	}

	// Cycle detection runs over the full table: an ordering must exist
	// for every survey cycle any rule names.
	for _, cycle := range s.cycleNames() {
		if _, err := s.ForCycle(cycle); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) cycleNames() []string {
	names := map[string]bool{"*": true}
	for _, r := range s.rules {
		for _, c := range r.Cycles {
			names[c] = true
		}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Targets returns every harmonized variable any rule produces, sorted.
// This is the merged output schema across cycles.
func (s *Set) Targets() []string {
	set := make(map[string]bool)
	for _, r := range s.rules {
		set[r.Target] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ForCycle returns the rules applicable to one survey cycle in dependency
// order: every rule appears after the rules producing its inputs. A
// dependency cycle is a configuration error.
func (s *Set) ForCycle(cycle string) ([]*Rule, error) {
	var applicable []*Rule
	byTarget := make(map[string]*Rule)
	for _, r := range s.rules {
		if r.AppliesTo(cycle) {
			applicable = append(applicable, r)
			byTarget[r.Target] = r
		}
	}

	// Kahn's algorithm over target-to-target edges. Sources that are not
	// rule targets are raw extract columns and impose no ordering.
	indegree := make(map[string]int, len(applicable))
	dependents := make(map[string][]string)
	for _, r := range applicable {
		indegree[r.Target] += 0
		for _, src := range r.Inputs() {
			if src == r.Target {
				// An identity/rename target may share its raw column's
				// name; a derived rule consuming its own output is a
				// length-one dependency cycle.
				if r.Copies() {
					continue
				}
				return nil, fmt.Errorf("%w: %s depends on itself", ErrCyclicDependency, r.Target)
			}
			if _, ok := byTarget[src]; ok {
				indegree[r.Target]++
				dependents[src] = append(dependents[src], r.Target)
			}
		}
	}

	queue := make([]string, 0, len(applicable))
	for _, r := range applicable {
		if indegree[r.Target] == 0 {
			queue = append(queue, r.Target)
		}
	}
	sort.Strings(queue)

	ordered := make([]*Rule, 0, len(applicable))
	for len(queue) > 0 {
		target := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byTarget[target])

		next := dependents[target]
		sort.Strings(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(ordered) != len(applicable) {
		var stuck []string
		for target, n := range indegree {
			if n > 0 {
				stuck = append(stuck, target)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %v", ErrCyclicDependency, stuck)
	}
	return ordered, nil
}
