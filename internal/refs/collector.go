package refs

import (
	"strata/internal/ast"
	"strata/internal/symbols"
)

// Result maps every declared symbol to its reference collection. All
// collections are finalized before Collect returns, inner scopes ahead
// of the scopes enclosing them.
type Result struct {
	byID  map[symbols.SymbolID]*Collection
	order []symbols.SymbolID
}

// Of returns the collection for a symbol, or nil when the symbol was
// never declared in the analyzed unit.
func (r *Result) Of(id symbols.SymbolID) *Collection {
	return r.byID[id]
}

// Symbols lists all collected symbols in finalization order.
func (r *Result) Symbols() []symbols.SymbolID {
	return r.order
}

type collector struct {
	tab   *symbols.Table
	res   *Result
	block *BasicBlock
	index uint32
}

// Collect traverses the AST in control-flow-aware order, records every
// occurrence of every declared symbol, and finalizes the lifetime
// classifications scope by scope, children before parents.
func Collect(root *ast.Node, tab *symbols.Table) *Result {
	c := &collector{
		tab:   tab,
		res:   &Result{byID: make(map[symbols.SymbolID]*Collection)},
		block: newBlock(nil, root),
	}
	c.walk(root)
	c.finalizeScope(tab.Global)
	return c.res
}

func (c *collector) walk(n *ast.Node) {
	for _, child := range n.Children {
		entered := false
		if isBlockBoundary(child, n) {
			c.block = newBlock(c.block, child)
			entered = true
		}
		c.visit(child)
		c.walk(child)
		if entered {
			c.block = c.block.Parent
		}
	}
}

func (c *collector) visit(n *ast.Node) {
	if n.Kind != ast.KindName {
		return
	}
	// Method names and object keys are property names, not variable
	// occurrences.
	if p := n.Parent; p != nil && p.Kind == ast.KindMethod {
		return
	}
	sym, ok := c.tab.Resolve(n)
	if !ok {
		return
	}
	scope := c.tab.ScopeOf(n)
	ref := &Reference{
		Node:   n,
		Symbol: sym,
		Scope:  scope,
		Block:  c.block,
		Index:  c.index,
		flags:  classify(n),
	}
	c.index++
	ref.Reexecutable = c.reexecutable(scope, sym)
	coll := c.res.byID[sym]
	if coll == nil {
		coll = &Collection{Symbol: sym}
		c.res.byID[sym] = coll
	}
	coll.Refs = append(coll.Refs, ref)
}

// reexecutable reports whether the current block may run more than once
// per activation of the symbol's owning scope.
func (c *collector) reexecutable(refScope symbols.ScopeID, sym symbols.SymbolID) bool {
	symScope := c.tab.Symbols.Get(sym).Scope
	for b := c.block; b != nil; b = b.Parent {
		if b.IsLoop {
			return true
		}
		if b.IsFunction {
			refFn, _ := c.tab.EnclosingFunctionScope(refScope)
			symFn, _ := c.tab.EnclosingFunctionScope(symScope)
			return refFn != symFn
		}
	}
	return false
}

// finalizeScope closes out classifications post-order: a child scope's
// symbols are classified before any symbol the parent owns.
func (c *collector) finalizeScope(id symbols.ScopeID) {
	sc := c.tab.Scopes.Get(id)
	if sc == nil {
		return
	}
	for _, child := range sc.Children {
		c.finalizeScope(child)
	}
	for _, sym := range sc.Symbols {
		coll := c.res.byID[sym]
		if coll == nil {
			coll = &Collection{Symbol: sym}
			c.res.byID[sym] = coll
		}
		coll.finalize(c.tab)
		c.res.order = append(c.res.order, sym)
	}
}
