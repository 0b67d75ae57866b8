package symbols

import (
	"strata/internal/ast"
	"strata/internal/source"
)

// SymbolKind classifies the declaration form behind a binding.
type SymbolKind uint8

const (
	SymbolInvalid    SymbolKind = iota
	SymbolVar                   // var declaration, hoisted
	SymbolLexical               // let or const
	SymbolParam                 // function parameter
	SymbolCatchParam            // catch clause parameter
	SymbolFunction              // function declaration or named function expression
	SymbolClass                 // class declaration
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolLexical:
		return "lexical"
	case SymbolParam:
		return "param"
	case SymbolCatchParam:
		return "catch-param"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	default:
		return "invalid"
	}
}

// Hoisted reports whether declarations of this kind attach to the
// nearest function/global scope instead of their lexical block.
func (k SymbolKind) Hoisted() bool {
	return k == SymbolVar || k == SymbolFunction
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagRedeclared marks every binding that took part in a
	// redeclaration clash, the earlier and the later one alike.
	SymbolFlagRedeclared SymbolFlags = 1 << iota
	// SymbolFlagConst marks const bindings.
	SymbolFlagConst
)

// Symbol describes one named binding owned by exactly one scope. Decl
// points at the declaring name node (for functions, the name of the
// declaration).
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  *ast.Node
}
