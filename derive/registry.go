// Package derive implements the harmonized-variable transformation
// functions and the name-keyed registry recode rules resolve them through.
// Every function is a pure mapping over tagged values, built from the
// combinators in package missing, and is total: any combination of present
// and tagged inputs yields a tagged value, never a panic.
package derive

import (
	"sort"
	"sync"

	"github.com/c360studio/cyclekit/missing"
)

// Func computes one derived cell from its input cells. Implementations must
// treat a structurally absent argument as Missing(VariableAbsent); the arg
// helper does this for indexed access.
type Func func(args ...missing.Value) missing.Value

// Definition describes one registered transformation.
type Definition struct {
	// Name is the identifier rule files reference.
	Name string

	// Inputs is the number of input variables the function consumes.
	Inputs int

	// Fn is the implementation.
	Fn Func

	// Description documents the derivation for rule lint output.
	Description string
}

// Registry manages transformation functions by name.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Definition
}

// DefaultRegistry holds the built-in derivation catalogue.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry populated with the built-in catalogue.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Definition)}
	for _, d := range catalogue() {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a definition.
func (r *Registry) Register(d Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[d.Name] = d
}

// Lookup returns the definition for a name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.funcs[name]
	return d, ok
}

// Known reports whether a name is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names lists the registered function names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// arg returns the i-th argument, or Missing(VariableAbsent) when the caller
// never supplied it. Keeps every function total at the calling convention.
func arg(args []missing.Value, i int) missing.Value {
	if i < 0 || i >= len(args) {
		return missing.Tagged(missing.VariableAbsent)
	}
	return args[i]
}
