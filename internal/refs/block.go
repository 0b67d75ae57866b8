package refs

import (
	"strata/internal/ast"
	"strata/internal/token"
)

// BasicBlock approximates a control-flow region for ordering reasoning.
// Blocks nest: Parent is the region textually and dynamically enclosing
// this one. The approximation is deliberately coarse — it only has to
// answer "does this region provably run before that one".
type BasicBlock struct {
	Parent *BasicBlock
	Root   *ast.Node

	// IsFunction marks a function body region: execution may re-enter
	// it any number of times per activation of the enclosing scope.
	IsFunction bool
	// IsLoop marks any region hanging off a loop construct.
	IsLoop bool
	// IsHoisted marks a hoisted function declaration, which runs
	// before the surrounding statements rather than in textual order.
	IsHoisted bool
}

func newBlock(parent *BasicBlock, root *ast.Node) *BasicBlock {
	b := &BasicBlock{
		Parent:     parent,
		Root:       root,
		IsFunction: root.Kind == ast.KindFunction,
		IsHoisted:  root.IsHoistedFunction(),
	}
	if p := root.Parent; p != nil {
		b.IsLoop = p.Kind.IsLoop()
	}
	return b
}

// ProvablyExecutesBefore reports whether this block is guaranteed to
// have run by the time that runs. True when that is nested inside this
// with no hoisted region in between, or when the blocks coincide.
func (b *BasicBlock) ProvablyExecutesBefore(that *BasicBlock) bool {
	cur := that
	for cur != nil && cur != b {
		if cur.IsHoisted {
			return false
		}
		cur = cur.Parent
	}
	return cur == b
}

// isBlockBoundary reports whether entering n from parent starts a new
// basic block: every child of a loop or try, the non-first children of
// the short-circuiting and branching forms, and every function.
func isBlockBoundary(n, parent *ast.Node) bool {
	if parent != nil {
		switch parent.Kind {
		case ast.KindDoWhile, ast.KindFor, ast.KindForIn, ast.KindWhile, ast.KindTry:
			return true
		case ast.KindIf, ast.KindConditional, ast.KindCatch:
			return n != parent.First()
		case ast.KindBinary:
			if parent.Op == token.AndAnd || parent.Op == token.OrOr {
				return n != parent.First()
			}
		}
	}
	return n.Kind == ast.KindFunction
}
