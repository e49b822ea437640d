// Package eval implements calcline's evaluator: a recursive
// post-order walk of a chosen syntax tree against a per-document variable
// environment, producing a Value or propagating an Error.
package eval

import "github.com/ha1tch/calcline/value"

// Environment is an ordered mapping from variable name to the value last
// assigned to it. Lines are evaluated strictly in source order, so a
// later line can read anything bound by an earlier one but never the
// reverse.
type Environment struct {
	values map[string]value.Value
	order  []string
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: map[string]value.Value{}}
}

// Get looks up name, reporting whether it has been bound.
func (e *Environment) Get(name string) (value.Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Set binds name to v, overwriting any prior binding.
func (e *Environment) Set(name string, v value.Value) {
	if _, exists := e.values[name]; !exists {
		e.order = append(e.order, name)
	}
	e.values[name] = v
}

// Has reports whether name is currently bound, used by the ambiguity
// resolver's variable-vs-unit scoring.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns every bound variable name, in assignment order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Clone returns an independent copy of e: mutating the clone never affects
// the original.
func (e *Environment) Clone() *Environment {
	clone := &Environment{
		values: make(map[string]value.Value, len(e.values)),
		order:  append([]string(nil), e.order...),
	}
	for k, v := range e.values {
		clone.values[k] = v
	}
	return clone
}
