package ast

import (
	"strata/internal/source"
	"strata/internal/token"
)

// Flags carry small node attributes.
type Flags uint8

const (
	// FlagPrefix marks a prefix update expression (++x as opposed to x++).
	FlagPrefix Flags = 1 << iota
)

// Node is the uniform AST node. Span covers the full syntactic extent; Name
// is set for identifiers, member properties and object-literal keys; Literal
// keeps the raw literal spelling; Doc holds the raw /** ... */ comment
// attached to a declaration, parsed later by the annotation layer.
type Node struct {
	Kind     Kind
	Span     source.Span
	Name     string
	Literal  string
	Doc      string
	Op       token.Kind
	Flags    Flags
	Parent   *Node
	Children []*Node
}

// New creates a node without children.
func New(kind Kind, span source.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// Add appends children, wiring their parent pointers. Nil children are
// skipped so optional slots can be passed straight through.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// First returns the first child or nil.
func (n *Node) First() *Node { return n.Child(0) }

// Last returns the last child or nil.
func (n *Node) Last() *Node { return n.Child(len(n.Children) - 1) }

// FunctionName returns the name node of a function, or nil for an anonymous
// function expression.
func (n *Node) FunctionName() *Node {
	if n.Kind != KindFunction {
		return nil
	}
	if c := n.First(); c != nil && c.Kind == KindName {
		return c
	}
	return nil
}

// FunctionParams returns the param-list node of a function.
func (n *Node) FunctionParams() *Node {
	if n.Kind != KindFunction {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == KindParamList {
			return c
		}
	}
	return nil
}

// FunctionBody returns the block node of a function.
func (n *Node) FunctionBody() *Node {
	if n.Kind != KindFunction {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == KindBlock {
			return c
		}
	}
	return nil
}

// IsStatement reports whether the node occupies a statement position.
func (n *Node) IsStatement() bool {
	switch n.Kind {
	case KindVar, KindLet, KindConst, KindExprStmt, KindBlock, KindIf, KindWhile,
		KindDoWhile, KindFor, KindForIn, KindReturn, KindThrow, KindTry, KindBreak,
		KindContinue, KindEmpty, KindClass:
		return true
	case KindFunction:
		return n.Parent != nil && (n.Parent.Kind == KindScript || n.Parent.Kind == KindBlock)
	}
	return false
}

// IsHoistedFunction reports whether the node is a named function declaration
// in statement position, which JS hoists to the top of the enclosing scope.
func (n *Node) IsHoistedFunction() bool {
	return n.Kind == KindFunction && n.FunctionName() != nil && n.IsStatement()
}

// EnclosingFunction returns the nearest KindFunction ancestor, or nil at the
// top level.
func (n *Node) EnclosingFunction() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindFunction {
			return p
		}
	}
	return nil
}

// EnclosingMethod returns the nearest KindFunction ancestor that is the body
// of a class method, or nil.
func (n *Node) EnclosingMethod() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindFunction && p.Parent != nil && p.Parent.Kind == KindMethod {
			return p
		}
	}
	return nil
}
