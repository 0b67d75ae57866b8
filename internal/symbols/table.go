package symbols

import (
	"strata/internal/ast"
	"strata/internal/source"
)

// Table is the finalized result of the scope pass. Scopes and symbols
// are immutable once the builder returns; downstream passes only read.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Names   *source.Interner
	Global  ScopeID

	nodeScope map[*ast.Node]ScopeID
	declSym   map[*ast.Node]SymbolID
}

// ScopeOf returns the scope enclosing n: the scope opened by n itself
// when it opens one, otherwise the scope of its nearest opening
// ancestor.
func (t *Table) ScopeOf(n *ast.Node) ScopeID {
	for p := n; p != nil; p = p.Parent {
		if id, ok := t.nodeScope[p]; ok {
			return id
		}
	}
	return t.Global
}

// SymbolForDecl maps a declaring name node back to its symbol.
func (t *Table) SymbolForDecl(n *ast.Node) (SymbolID, bool) {
	id, ok := t.declSym[n]
	return id, ok
}

// LookupLocal resolves name in exactly the given scope.
func (t *Table) LookupLocal(scope ScopeID, name string) (SymbolID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	nameID := t.Names.Intern(name)
	id, ok := sc.NameIndex[nameID]
	return id, ok
}

// Lookup resolves name starting at scope and walking the parent chain.
func (t *Table) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	nameID := t.Names.Intern(name)
	for id := scope; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc == nil {
			break
		}
		if sym, ok := sc.NameIndex[nameID]; ok {
			return sym, ok
		}
		id = sc.Parent
	}
	return NoSymbolID, false
}

// Resolve finds the symbol a name reference at node n refers to.
func (t *Table) Resolve(n *ast.Node) (SymbolID, bool) {
	if n == nil || n.Kind != ast.KindName {
		return NoSymbolID, false
	}
	if id, ok := t.declSym[n]; ok {
		return id, true
	}
	return t.Lookup(t.ScopeOf(n), n.Name)
}

// OwnedBy returns the symbols a scope owns, in declaration order.
func (t *Table) OwnedBy(scope ScopeID) []SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return nil
	}
	return sc.Symbols
}

// FunctionSymbol returns, for a function scope, the symbol naming that
// function in its outer scope.
func (t *Table) FunctionSymbol(scope ScopeID) (SymbolID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil || sc.Kind != ScopeFunction || !sc.FnSym.IsValid() {
		return NoSymbolID, false
	}
	return sc.FnSym, true
}

// EnclosingFunctionScope walks up from scope to the nearest function
// scope, or reports false at the top level.
func (t *Table) EnclosingFunctionScope(scope ScopeID) (ScopeID, bool) {
	for id := scope; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc == nil {
			break
		}
		if sc.Kind == ScopeFunction {
			return id, true
		}
		id = sc.Parent
	}
	return NoScopeID, false
}

// NameOf returns the spelling of a symbol's name.
func (t *Table) NameOf(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Names.Lookup(sym.Name)
	return s
}
