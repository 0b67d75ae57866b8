package symbols

import (
	"strata/internal/ast"
	"strata/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid       ScopeKind = iota
	ScopeGlobal                  // script top level
	ScopeFunction                // parameters and the function's own name
	ScopeFunctionBlock           // function body; hoist target for var
	ScopeBlock                   // generic { } block (block scoping only)
	ScopeCatch                   // catch parameter (modern scoping only)
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeFunctionBlock:
		return "function-block"
	case ScopeBlock:
		return "block"
	case ScopeCatch:
		return "catch"
	default:
		return "invalid"
	}
}

// IsHoistTarget reports whether var-style declarations may attach here.
// The function body block is the hoist target, not the parameter scope,
// so a body-level var never collides with the parameter list silently.
func (k ScopeKind) IsHoistTarget() bool {
	return k == ScopeGlobal || k == ScopeFunctionBlock
}

// Scope models one lexical region. Symbols lists owned bindings in
// declaration order; NameIndex resolves a name to its latest binding.
// After Close the owned-symbol set is frozen.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Node      *ast.Node // AST node that opened the scope
	Span      source.Span
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID

	// FnSym is the symbol naming this function in its outer scope, set
	// only on ScopeFunction scopes opened by a function declaration.
	FnSym SymbolID

	closed bool
}

// Closed reports whether the scope has been finalized.
func (s *Scope) Closed() bool { return s.closed }
