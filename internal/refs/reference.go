package refs

import (
	"strata/internal/ast"
	"strata/internal/symbols"
	"strata/internal/token"
)

type refFlags uint8

const (
	// refDeclaration: the name node declares its symbol.
	refDeclaration refFlags = 1 << iota
	// refInitializing: a declaration that also supplies a value — a
	// var with an initializer, a function declaration, a parameter, a
	// catch parameter, a class.
	refInitializing
	// refLvalue: the occurrence writes the binding.
	refLvalue
	// refBareVarDecl: a hoisted var declaration with no initializer.
	refBareVarDecl
	// refSimpleAssign: target of a plain `=` whose target is just the
	// name.
	refSimpleAssign
)

// Reference records one occurrence of a symbol. Index is the position
// in control-flow-aware traversal order across the whole unit.
type Reference struct {
	Node   *ast.Node
	Symbol symbols.SymbolID
	Scope  symbols.ScopeID
	Block  *BasicBlock
	Index  uint32

	// Reexecutable is set when the occurrence sits inside a loop or a
	// nested function relative to the symbol's owning scope, so one
	// activation of that scope may run it more than once.
	Reexecutable bool

	flags refFlags
}

// IsDeclaration reports whether this occurrence declares the symbol.
func (r *Reference) IsDeclaration() bool { return r.flags&refDeclaration != 0 }

// IsInitializingDeclaration reports whether the declaration also
// supplies a value.
func (r *Reference) IsInitializingDeclaration() bool { return r.flags&refInitializing != 0 }

// IsLvalue reports whether the occurrence writes the binding.
func (r *Reference) IsLvalue() bool { return r.flags&refLvalue != 0 }

// IsBareVarDecl reports a hoisted declaration without an initializer.
func (r *Reference) IsBareVarDecl() bool { return r.flags&refBareVarDecl != 0 }

// IsSimpleAssign reports a plain `name = expr` write.
func (r *Reference) IsSimpleAssign() bool { return r.flags&refSimpleAssign != 0 }

// IsRead reports whether the occurrence observes the binding's value.
// Compound assignments and updates both read and write.
func (r *Reference) IsRead() bool {
	if r.IsDeclaration() {
		return false
	}
	if !r.IsLvalue() {
		return true
	}
	p := r.Node.Parent
	if p == nil {
		return true
	}
	switch p.Kind {
	case ast.KindUpdate:
		return true
	case ast.KindAssign:
		return p.Op != token.Assign
	}
	return false
}

// classify derives the reference flags from the name node's position in
// the tree.
func classify(n *ast.Node) refFlags {
	p := n.Parent
	if p == nil {
		return 0
	}
	switch p.Kind {
	case ast.KindVar, ast.KindLet, ast.KindConst:
		f := refDeclaration
		if n.First() != nil {
			return f | refInitializing | refLvalue
		}
		// A for-in target declaration is written on every iteration
		// even without a textual initializer.
		if p.Parent != nil && p.Parent.Kind == ast.KindForIn && p.Parent.First() == p {
			return f | refLvalue
		}
		if p.Kind == ast.KindVar {
			f |= refBareVarDecl
		}
		return f
	case ast.KindFunction:
		return refDeclaration | refInitializing | refLvalue
	case ast.KindParamList:
		return refDeclaration | refInitializing | refLvalue
	case ast.KindCatch:
		if p.First() == n {
			return refDeclaration | refInitializing | refLvalue
		}
	case ast.KindClass:
		if p.First() == n {
			return refDeclaration | refInitializing | refLvalue
		}
	case ast.KindAssign:
		if p.First() == n {
			f := refLvalue
			if p.Op == token.Assign {
				f |= refSimpleAssign
			}
			return f
		}
	case ast.KindUpdate:
		return refLvalue
	case ast.KindForIn:
		if p.First() == n {
			return refLvalue
		}
	}
	return 0
}
