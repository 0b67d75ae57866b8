// Package symtab assembles the results of every analysis pass into one
// read-only query surface for downstream tooling: editors, the CLI dump
// and optimization passes ask it for symbols, references, scopes and
// types without knowing which pass produced what.
package symtab

import (
	"strata/internal/ast"
	"strata/internal/infer"
	"strata/internal/refs"
	"strata/internal/registry"
	"strata/internal/symbols"
	"strata/internal/types"
)

// Entry is one symbol as seen through the facade.
type Entry struct {
	ID    symbols.SymbolID
	Name  string
	Kind  symbols.SymbolKind
	Scope symbols.ScopeID
	Decl  *ast.Node
}

// Table is the immutable facade. Constructed once after the passes
// finish; every method is safe for concurrent readers.
type Table struct {
	syms *symbols.Table
	refs *refs.Result
	reg  *registry.Registry
	inf  *infer.Result
}

// New wraps the pass results. All four inputs must come from the same
// compilation unit.
func New(syms *symbols.Table, rs *refs.Result, reg *registry.Registry, inf *infer.Result) *Table {
	if syms == nil || rs == nil || reg == nil || inf == nil {
		panic("symtab.New: missing pass result")
	}
	return &Table{syms: syms, refs: rs, reg: reg, inf: inf}
}

// AllSymbols lists every declared symbol in declaration order.
func (t *Table) AllSymbols() []Entry {
	out := make([]Entry, 0, t.syms.Symbols.Len())
	for i := 1; i <= t.syms.Symbols.Len(); i++ {
		id := symbols.SymbolID(i)
		out = append(out, t.entry(id))
	}
	return out
}

// Symbol returns the facade view of one symbol.
func (t *Table) Symbol(id symbols.SymbolID) (Entry, bool) {
	if t.syms.Symbols.Get(id) == nil {
		return Entry{}, false
	}
	return t.entry(id), true
}

func (t *Table) entry(id symbols.SymbolID) Entry {
	sym := t.syms.Symbols.Get(id)
	return Entry{
		ID:    id,
		Name:  t.syms.NameOf(id),
		Kind:  sym.Kind,
		Scope: sym.Scope,
		Decl:  sym.Decl,
	}
}

// References returns the ordered reference history of a symbol, nil
// when the symbol was never collected.
func (t *Table) References(id symbols.SymbolID) *refs.Collection {
	return t.refs.Of(id)
}

// ScopeOf returns the scope that owns the symbol.
func (t *Table) ScopeOf(id symbols.SymbolID) (symbols.ScopeID, bool) {
	sym := t.syms.Symbols.Get(id)
	if sym == nil {
		return symbols.NoScopeID, false
	}
	return sym.Scope, true
}

// EnclosingScope returns the scope in effect at an arbitrary node.
func (t *Table) EnclosingScope(n *ast.Node) symbols.ScopeID {
	return t.syms.ScopeOf(n)
}

// GlobalScope returns the root scope of the unit.
func (t *Table) GlobalScope() symbols.ScopeID {
	return t.syms.Global
}

// FunctionSymbol returns, for a function scope, the symbol that names
// the function in its enclosing scope.
func (t *Table) FunctionSymbol(scope symbols.ScopeID) (symbols.SymbolID, bool) {
	return t.syms.FunctionSymbol(scope)
}

// Resolve finds the symbol a name node refers to.
func (t *Table) Resolve(n *ast.Node) (symbols.SymbolID, bool) {
	return t.syms.Resolve(n)
}

// DeclaredType returns the annotated type of a symbol, if any.
func (t *Table) DeclaredType(id symbols.SymbolID) (types.TypeInfo, bool) {
	return t.reg.DeclaredType(id)
}

// TypeAt returns the inferred type of an expression node.
func (t *Table) TypeAt(n *ast.Node) (types.TypeInfo, bool) {
	return t.inf.TypeOf(n)
}

// Describe renders a type for human output.
func (t *Table) Describe(ti types.TypeInfo) string {
	return t.reg.Types.Describe(ti)
}

// Overrides lists every method override relation the registry found.
func (t *Table) Overrides() []registry.OverrideRelation {
	return t.reg.Overrides
}
