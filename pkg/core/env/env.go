// Package env holds variable bindings for one interpreter.
//
// An Env owns five disjoint namespaces, one per value type, and a function
// table. The same name may be bound in several namespaces at once. Call scopes
// are Envs enclosing the caller's Env.
package env

import (
	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/core/value"
)

// ResolveOrder is the namespace precedence used by Resolve.
var ResolveOrder = [...]value.Type{
	value.TypeInt,
	value.TypeArray,
	value.TypeFloat,
	value.TypeStruct,
	value.TypeString,
}

// Env is one scope of bindings.
type Env struct {
	stores [5]map[string]value.Value // indexed by value.Type
	funcs  map[string]*ast.Function
	outer  *Env
}

// New returns an empty global scope.
func New() *Env {
	e := &Env{funcs: make(map[string]*ast.Function)}
	for i := range e.stores {
		e.stores[i] = make(map[string]value.Value)
	}
	return e
}

// NewEnclosed returns an empty scope whose unresolved names fall through to outer.
func NewEnclosed(outer *Env) *Env {
	e := New()
	e.outer = outer
	return e
}

// Outer returns the enclosing scope, nil for the global scope.
func (e *Env) Outer() *Env { return e.outer }

// Lookup finds name in the namespace of type t, searching outward.
func (e *Env) Lookup(t value.Type, name string) (value.Value, bool) {
	for s := e; s != nil; s = s.outer {
		if v, ok := s.stores[t][name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Declare binds name in this scope, in the namespace of v's type.
func (e *Env) Declare(name string, v value.Value) {
	e.stores[v.Type][name] = v
}

// Assign overwrites name in the innermost scope that already binds it.
// It reports false when no scope does.
func (e *Env) Assign(name string, v value.Value) bool {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.stores[v.Type][name]; ok {
			s.stores[v.Type][name] = v
			return true
		}
	}
	return false
}

// Resolve finds name in any namespace. Each scope is probed in ResolveOrder
// before moving to the enclosing one, so a local binding of any type shadows
// the caller's bindings.
func (e *Env) Resolve(name string) (value.Value, bool) {
	for s := e; s != nil; s = s.outer {
		for _, t := range ResolveOrder {
			if v, ok := s.stores[t][name]; ok {
				return v, true
			}
		}
	}
	return value.Value{}, false
}

// Func finds a declared function, searching outward.
func (e *Env) Func(name string) (*ast.Function, bool) {
	for s := e; s != nil; s = s.outer {
		if fn, ok := s.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// DefineFunc registers fn in this scope, replacing any earlier definition.
func (e *Env) DefineFunc(fn *ast.Function) {
	e.funcs[fn.Name] = fn
}

// Snapshot copies the bindings of this scope only, keyed by namespace.
func (e *Env) Snapshot() map[value.Type]map[string]value.Value {
	out := make(map[value.Type]map[string]value.Value, len(e.stores))
	for i, store := range e.stores {
		if len(store) == 0 {
			continue
		}
		cp := make(map[string]value.Value, len(store))
		for k, v := range store {
			cp[k] = v
		}
		out[value.Type(i)] = cp
	}
	return out
}
