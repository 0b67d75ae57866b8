package refs

import "strata/internal/symbols"

// Collection is the ordered reference history of one symbol, plus the
// lifetime classifications derived from it. The classifications are
// computed once during finalization; until then the collection only
// accumulates.
type Collection struct {
	Symbol symbols.SymbolID
	Refs   []*Reference

	finalized    bool
	assignedOnce bool
	wellDefined  bool
}

// WriteCount counts the occurrences that write the binding, including
// initializing declarations.
func (c *Collection) WriteCount() int {
	n := 0
	for _, r := range c.Refs {
		if r.IsLvalue() || r.IsInitializingDeclaration() {
			n++
		}
	}
	return n
}

// ReadCount counts the occurrences that observe the binding's value.
func (c *Collection) ReadCount() int {
	n := 0
	for _, r := range c.Refs {
		if r.IsRead() {
			n++
		}
	}
	return n
}

// Declaration returns the declaring reference, or nil when the symbol
// is referenced without any recorded declaration.
func (c *Collection) Declaration() *Reference {
	for _, r := range c.Refs {
		if r.IsDeclaration() {
			return r
		}
	}
	return nil
}

// InitializingReference returns the occurrence that gives the binding
// its first value: the declaration itself when it carries a value, or
// the immediately following plain assignment when the declaration is a
// bare hoisted var. The pair must be adjacent in reference order; a
// read in between disqualifies the assignment.
func (c *Collection) InitializingReference() *Reference {
	if len(c.Refs) == 0 {
		return nil
	}
	if c.Refs[0].IsInitializingDeclaration() {
		return c.Refs[0]
	}
	if len(c.Refs) > 1 && c.Refs[0].IsBareVarDecl() && c.Refs[1].IsSimpleAssign() {
		return c.Refs[1]
	}
	return nil
}

// oneAndOnlyAssignment returns the single writing occurrence, or nil
// when there are zero or several.
func (c *Collection) oneAndOnlyAssignment() *Reference {
	var assignment *Reference
	for _, r := range c.Refs {
		if r.IsLvalue() || r.IsInitializingDeclaration() {
			if assignment != nil {
				return nil
			}
			assignment = r
		}
	}
	return assignment
}

// AssignedOnceInLifetime reports whether one activation of the owning
// scope performs exactly one write. Requires finalization.
func (c *Collection) AssignedOnceInLifetime() bool {
	c.mustBeFinalized()
	return c.assignedOnce
}

// IsWellDefined reports whether every occurrence after the initializing
// one is provably preceded by it. Requires finalization.
func (c *Collection) IsWellDefined() bool {
	c.mustBeFinalized()
	return c.wellDefined
}

func (c *Collection) mustBeFinalized() {
	if !c.finalized {
		panic("refs: collection queried before its scope closed")
	}
}

// finalize computes and caches the lifetime classifications.
func (c *Collection) finalize(tab *symbols.Table) {
	c.assignedOnce = c.computeAssignedOnce(tab)
	c.wellDefined = c.computeWellDefined()
	c.finalized = true
}

func (c *Collection) computeAssignedOnce(tab *symbols.Table) bool {
	ref := c.oneAndOnlyAssignment()
	if ref == nil {
		return false
	}
	sym := tab.Symbols.Get(c.Symbol)
	for block := ref.Block; block != nil; block = block.Parent {
		if block.IsFunction {
			// The write must not sit in a nested function relative to
			// the declaration: such a function may run any number of
			// times per activation.
			refFn, _ := tab.EnclosingFunctionScope(ref.Scope)
			symFn, _ := tab.EnclosingFunctionScope(sym.Scope)
			if refFn != symFn {
				return false
			}
			break
		}
		if block.IsLoop {
			return false
		}
	}
	return true
}

func (c *Collection) computeWellDefined() bool {
	if len(c.Refs) == 0 {
		return false
	}
	init := c.InitializingReference()
	if init == nil {
		return false
	}
	start := 0
	for i, r := range c.Refs {
		if r == init {
			start = i
			break
		}
	}
	for _, r := range c.Refs[start+1:] {
		if !init.Block.ProvablyExecutesBefore(r.Block) {
			return false
		}
	}
	return true
}
