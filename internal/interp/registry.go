package interp

import (
	"io"
	"log/slog"
	"sort"

	"vex/internal/value"
)

// CallContext is what a builtin sees of the running interpreter.
type CallContext struct {
	Out      io.Writer
	WorkDir  string
	Symbols  *value.SymbolTable
	Registry *Registry
	Log      *slog.Logger
}

// HostContext derives the element-facing context from the call context.
func (ctx *CallContext) HostContext() *value.HostContext {
	return &value.HostContext{Out: ctx.Out, WorkDir: ctx.WorkDir, Log: ctx.Log}
}

type BuiltinFunc func(ctx *CallContext, args []value.Value) (value.Value, error)

type builtin struct {
	sig *value.Signature
	fn  BuiltinFunc
}

// Registry holds the callable functions and the set of known member and
// method names. Hosts extend it before any script runs; it is not safe for
// concurrent mutation.
type Registry struct {
	functions   map[string]*builtin
	memberNames map[string]struct{}
}

// NewRegistry returns a registry loaded with the standard function catalog.
func NewRegistry() *Registry {
	r := &Registry{
		functions:   make(map[string]*builtin),
		memberNames: make(map[string]struct{}),
	}
	registerStandardFunctions(r)
	registerFileFunctions(r)
	return r
}

func (r *Registry) RegisterFunction(sig *value.Signature, fn BuiltinFunc) error {
	if _, ok := r.functions[sig.Name]; ok {
		return value.Internalf("function '%s' is already registered", sig.Name)
	}
	r.functions[sig.Name] = &builtin{sig: sig, fn: fn}
	return nil
}

// mustRegister is the internal registration path for the standard catalog.
func (r *Registry) mustRegister(sig *value.Signature, fn BuiltinFunc) {
	if err := r.RegisterFunction(sig, fn); err != nil {
		panic(err)
	}
}

// RegisterMemberNames declares member and method names an element class
// exposes, so the optimizer can reject unknown names outright.
func (r *Registry) RegisterMemberNames(names ...string) {
	for _, name := range names {
		r.memberNames[name] = struct{}{}
	}
}

func (r *Registry) Lookup(name string) (*value.Signature, BuiltinFunc, bool) {
	b, ok := r.functions[name]
	if !ok {
		return nil, nil, false
	}
	return b.sig, b.fn, true
}

func (r *Registry) HasMemberName(name string) bool {
	_, ok := r.memberNames[name]
	return ok
}

// Signatures lists every registered signature sorted by name.
func (r *Registry) Signatures() []*value.Signature {
	sigs := make([]*value.Signature, 0, len(r.functions))
	for _, b := range r.functions {
		sigs = append(sigs, b.sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].Name < sigs[j].Name })
	return sigs
}
