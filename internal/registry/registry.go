// Package registry builds the global type picture for one compilation
// unit: nominal class/prototype types with their single-inheritance
// edges, per-type property tables, declared types for symbols, and the
// override relations between subtype and ancestor methods.
package registry

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/source"
	"strata/internal/symbols"
	"strata/internal/types"
)

// OverrideRelation pairs a subtype method with the nearest ancestor
// method of the same name, with the computed compatibility verdict.
type OverrideRelation struct {
	Nominal  types.TypeID // the subtype declaring the override
	Ancestor types.TypeID // the nearest ancestor declaring the name
	Name     string
	Sub      types.TypeID // the override's function type
	Base     types.TypeID // the ancestor's function type
	Decl     source.Span  // override declaration site

	Compatible bool
	Reason     string // empty when compatible
}

// Registry is the finalized global type information. Immutable after
// Build returns; the inference engine only reads it.
type Registry struct {
	Types *types.Interner

	declared map[symbols.SymbolID]types.TypeInfo
	fnSigs   map[*ast.Node]types.TypeID // function node -> function type
	methodOf map[*ast.Node]types.TypeID // function node -> nominal owning the method
	ctorOf   map[*ast.Node]types.TypeID // function/class node -> nominal it constructs

	Overrides []OverrideRelation
}

// DeclaredType returns the annotated type of a symbol, if any.
func (r *Registry) DeclaredType(sym symbols.SymbolID) (types.TypeInfo, bool) {
	ti, ok := r.declared[sym]
	return ti, ok
}

// FnSig returns the function type registered for a function node.
func (r *Registry) FnSig(fn *ast.Node) (types.TypeID, bool) {
	id, ok := r.fnSigs[fn]
	return id, ok
}

// MethodOwner returns the nominal type a function node is a method of.
func (r *Registry) MethodOwner(fn *ast.Node) (types.TypeID, bool) {
	id, ok := r.methodOf[fn]
	return id, ok
}

// Constructs returns the nominal type a constructor function or class
// node instantiates.
func (r *Registry) Constructs(n *ast.Node) (types.TypeID, bool) {
	id, ok := r.ctorOf[n]
	return id, ok
}

// Build scans root for declarations and annotations. Nominal names are
// registered in a first pass so forward references resolve; annotations
// and override relations follow in a second pass. Malformed annotations
// and incompatible overrides are reported through reporter and never
// abort the build.
func Build(root *ast.Node, tab *symbols.Table, in *types.Interner, reporter diag.Reporter) *Registry {
	if in == nil {
		in = types.NewInterner()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	r := &Registry{
		Types:    in,
		declared: make(map[symbols.SymbolID]types.TypeInfo),
		fnSigs:   make(map[*ast.Node]types.TypeID),
		methodOf: make(map[*ast.Node]types.TypeID),
		ctorOf:   make(map[*ast.Node]types.TypeID),
	}
	s := &scanner{reg: r, tab: tab, reporter: reporter}
	s.registerNominals(root)
	s.scan(root)
	s.checkOverrides()
	return r
}
