package value

import (
	"math"
	"sort"
)

// SymbolTable maps identifiers to values, with constants and variables held
// apart. Stored values are owned by the table: Set copies anything borrowed,
// Get hands out borrows. Object elements are retained while bound.
type SymbolTable struct {
	constants map[string]Value
	variables map[string]Value
}

// NewSymbolTable returns a table preloaded with the intrinsic constants
// T, F, NULL, PI, E, INF and NAN.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{
		constants: make(map[string]Value),
		variables: make(map[string]Value),
	}
	st.constants["T"] = True
	st.constants["F"] = False
	st.constants["NULL"] = NullValue
	for name, f := range map[string]float64{
		"PI":  math.Pi,
		"E":   math.E,
		"INF": math.Inf(1),
		"NAN": math.NaN(),
	} {
		v, err := Permanent(FloatConst(f))
		if err != nil {
			panic(err)
		}
		st.constants[name] = v
	}
	return st
}

// Get returns a borrow of the binding for name.
func (st *SymbolTable) Get(name string) (Value, error) {
	if v, ok := st.variables[name]; ok {
		return v.Borrow(), nil
	}
	if v, ok := st.constants[name]; ok {
		return v.Borrow(), nil
	}
	return nil, Scriptf(-1, -1, "undefined identifier '%s'", name)
}

// Has reports whether name is bound, as a variable or a constant.
func (st *SymbolTable) Has(name string) bool {
	if _, ok := st.variables[name]; ok {
		return true
	}
	_, ok := st.constants[name]
	return ok
}

// Set binds name to v as a variable, copying v first unless it is already
// Owned. Constants reject assignment.
func (st *SymbolTable) Set(name string, v Value) error {
	if _, ok := st.constants[name]; ok {
		return Scriptf(-1, -1, "identifier '%s' is a constant and cannot be redefined", name)
	}
	if v.Ownership() != Owned {
		v = v.Copy()
	}
	retainObject(v)
	if old, ok := st.variables[name]; ok {
		releaseObject(old)
	}
	st.variables[name] = v
	return nil
}

// Mutable returns the stored variable for in-place element assignment. A
// bound singleton constant is upgraded to a mutable copy first.
func (st *SymbolTable) Mutable(name string) (Value, error) {
	if _, ok := st.constants[name]; ok {
		return nil, Scriptf(-1, -1, "identifier '%s' is a constant and cannot be redefined", name)
	}
	v, ok := st.variables[name]
	if !ok {
		return nil, Scriptf(-1, -1, "undefined identifier '%s'", name)
	}
	if !v.IsMutable() {
		v = v.Copy()
		st.variables[name] = v
	}
	return v, nil
}

// DefineConstant makes name a constant binding. The name must be free.
func (st *SymbolTable) DefineConstant(name string, v Value) error {
	if st.Has(name) {
		return Scriptf(-1, -1, "identifier '%s' is already defined", name)
	}
	if v.Ownership() == BorrowedEphemeral {
		v = v.Copy()
	}
	retainObject(v)
	st.constants[name] = v
	return nil
}

// Remove drops a variable binding. Constants cannot be removed this way.
func (st *SymbolTable) Remove(name string) error {
	if _, ok := st.constants[name]; ok {
		return Scriptf(-1, -1, "identifier '%s' is a constant and cannot be removed", name)
	}
	if v, ok := st.variables[name]; ok {
		releaseObject(v)
		delete(st.variables, name)
	}
	return nil
}

// RemoveConstantForHost is the privileged removal path for hosts tearing
// down constants they defined. Intrinsics can be removed too; callers are
// trusted.
func (st *SymbolTable) RemoveConstantForHost(name string) {
	if v, ok := st.constants[name]; ok {
		releaseObject(v)
		delete(st.constants, name)
	}
}

// Names lists all bindings in sorted order, constants first.
func (st *SymbolTable) Names() (constants, variables []string) {
	for name := range st.constants {
		constants = append(constants, name)
	}
	for name := range st.variables {
		variables = append(variables, name)
	}
	sort.Strings(constants)
	sort.Strings(variables)
	return constants, variables
}

func retainObject(v Value) {
	if o, ok := v.(*Object); ok {
		for _, e := range o.Elements {
			Retain(e)
		}
	}
}

func releaseObject(v Value) {
	if o, ok := v.(*Object); ok {
		for _, e := range o.Elements {
			Release(e)
		}
	}
}
