package infer

import "strata/internal/ast"

// Block is one straight-line run of evaluation steps. Nodes holds the
// statements and standalone expressions executed in order; edges carry
// control to the successors.
type Block struct {
	ID    int
	Nodes []*ast.Node
	Succs []*Block
	Preds []*Block
}

// Graph is the control-flow graph of one function body (or of the
// top-level script). Entry dominates everything reachable; Exit joins
// every normal return, fall-through and uncaught-throw path.
type Graph struct {
	Entry  *Block
	Exit   *Block
	Blocks []*Block
}

type cfgBuilder struct {
	g   *Graph
	cur *Block

	breakTargets    []*Block
	continueTargets []*Block
	catchTargets    []*Block
}

// buildCFG lowers a statement list (function body block or script root)
// into a graph. Nested function bodies are not expanded; each function
// gets its own graph.
func buildCFG(body *ast.Node) *Graph {
	b := &cfgBuilder{g: &Graph{}}
	b.g.Entry = b.newBlock()
	b.g.Exit = b.newBlock()
	b.cur = b.g.Entry
	for _, stmt := range body.Children {
		b.stmt(stmt)
	}
	b.edge(b.cur, b.g.Exit)
	return b.g
}

func (b *cfgBuilder) newBlock() *Block {
	blk := &Block{ID: len(b.g.Blocks)}
	b.g.Blocks = append(b.g.Blocks, blk)
	return blk
}

func (b *cfgBuilder) edge(from, to *Block) {
	if from == nil || to == nil {
		return
	}
	for _, s := range from.Succs {
		if s == to {
			return
		}
	}
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// startBlock switches emission to a fresh block without linking it; the
// caller wires the edges.
func (b *cfgBuilder) startBlock() *Block {
	blk := b.newBlock()
	b.cur = blk
	return blk
}

func (b *cfgBuilder) emit(n *ast.Node) {
	b.cur.Nodes = append(b.cur.Nodes, n)
}

func (b *cfgBuilder) catchTarget() *Block {
	if len(b.catchTargets) > 0 {
		return b.catchTargets[len(b.catchTargets)-1]
	}
	return b.g.Exit
}

func (b *cfgBuilder) stmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindBlock:
		for _, c := range n.Children {
			b.stmt(c)
		}

	case ast.KindIf:
		b.stmtIf(n)

	case ast.KindWhile:
		b.stmtWhile(n)

	case ast.KindDoWhile:
		b.stmtDoWhile(n)

	case ast.KindFor:
		b.stmtFor(n)

	case ast.KindForIn:
		b.stmtForIn(n)

	case ast.KindTry:
		b.stmtTry(n)

	case ast.KindReturn:
		b.emit(n)
		b.edge(b.cur, b.g.Exit)
		b.startBlock()

	case ast.KindThrow:
		b.emit(n)
		b.edge(b.cur, b.catchTarget())
		b.startBlock()

	case ast.KindBreak:
		if len(b.breakTargets) > 0 {
			b.edge(b.cur, b.breakTargets[len(b.breakTargets)-1])
		} else {
			b.edge(b.cur, b.g.Exit)
		}
		b.startBlock()

	case ast.KindContinue:
		if len(b.continueTargets) > 0 {
			b.edge(b.cur, b.continueTargets[len(b.continueTargets)-1])
		} else {
			b.edge(b.cur, b.g.Exit)
		}
		b.startBlock()

	case ast.KindEmpty:
		// nothing

	default:
		b.emit(n)
	}
}

func (b *cfgBuilder) stmtIf(n *ast.Node) {
	cond, then, els := n.Child(0), n.Child(1), n.Child(2)
	b.emit(cond)
	condBlock := b.cur

	after := b.newBlock()

	thenBlock := b.startBlock()
	b.edge(condBlock, thenBlock)
	b.stmt(then)
	b.edge(b.cur, after)

	if els != nil {
		elseBlock := b.startBlock()
		b.edge(condBlock, elseBlock)
		b.stmt(els)
		b.edge(b.cur, after)
	} else {
		b.edge(condBlock, after)
	}
	b.cur = after
}

func (b *cfgBuilder) stmtWhile(n *ast.Node) {
	cond, body := n.Child(0), n.Child(1)

	head := b.newBlock()
	b.edge(b.cur, head)
	b.cur = head
	b.emit(cond)

	after := b.newBlock()
	b.edge(head, after)

	bodyBlock := b.startBlock()
	b.edge(head, bodyBlock)
	b.pushLoop(after, head)
	b.stmt(body)
	b.popLoop()
	b.edge(b.cur, head) // back edge

	b.cur = after
}

func (b *cfgBuilder) stmtDoWhile(n *ast.Node) {
	body, cond := n.Child(0), n.Child(1)

	head := b.newBlock()
	after := b.newBlock()

	bodyBlock := b.newBlock()
	b.edge(b.cur, bodyBlock)
	b.cur = bodyBlock
	b.pushLoop(after, head)
	b.stmt(body)
	b.popLoop()
	b.edge(b.cur, head)

	b.cur = head
	b.emit(cond)
	b.edge(head, bodyBlock) // back edge
	b.edge(head, after)

	b.cur = after
}

func (b *cfgBuilder) stmtFor(n *ast.Node) {
	init, cond, update, body := n.Child(0), n.Child(1), n.Child(2), n.Child(3)

	b.stmt(init)

	head := b.newBlock()
	b.edge(b.cur, head)
	b.cur = head
	if cond != nil && cond.Kind != ast.KindEmpty {
		b.emit(cond)
	}

	after := b.newBlock()
	b.edge(head, after)

	bodyBlock := b.startBlock()
	b.edge(head, bodyBlock)
	b.pushLoop(after, head)
	b.stmt(body)
	b.popLoop()
	if update != nil && update.Kind != ast.KindEmpty {
		b.emit(update)
	}
	b.edge(b.cur, head)

	b.cur = after
}

func (b *cfgBuilder) stmtForIn(n *ast.Node) {
	target, object, body := n.Child(0), n.Child(1), n.Child(2)

	b.emit(object)

	head := b.newBlock()
	b.edge(b.cur, head)
	b.cur = head

	after := b.newBlock()
	b.edge(head, after)

	bodyBlock := b.startBlock()
	b.edge(head, bodyBlock)
	// The target is written on every iteration.
	b.emit(target)
	b.pushLoop(after, head)
	b.stmt(body)
	b.popLoop()
	b.edge(b.cur, head)

	b.cur = after
}

func (b *cfgBuilder) stmtTry(n *ast.Node) {
	var catch, finally *ast.Node
	tryBlock := n.First()
	for _, c := range n.Children[1:] {
		switch c.Kind {
		case ast.KindCatch:
			catch = c
		case ast.KindBlock:
			finally = c
		}
	}

	after := b.newBlock()

	var catchHead *Block
	if catch != nil {
		catchHead = b.newBlock()
		// Any point in the try body may transfer here. The entry and
		// exit edges bracket the body; states inside are approximated
		// by the join.
		b.edge(b.cur, catchHead)
		b.catchTargets = append(b.catchTargets, catchHead)
	}

	b.stmt(tryBlock)
	bodyExit := b.cur

	if catch != nil {
		b.catchTargets = b.catchTargets[:len(b.catchTargets)-1]
		b.edge(bodyExit, catchHead)

		b.cur = catchHead
		if param := catch.First(); param != nil && param.Kind == ast.KindName {
			b.emit(param)
		}
		if body := catch.Child(1); body != nil {
			b.stmt(body)
		}
		b.edge(b.cur, after)
	}
	b.edge(bodyExit, after)

	if finally != nil {
		finBlock := b.newBlock()
		b.edge(after, finBlock)
		b.cur = finBlock
		b.stmt(finally)
		done := b.newBlock()
		b.edge(b.cur, done)
		b.cur = done
		return
	}
	b.cur = after
}

func (b *cfgBuilder) pushLoop(brk, cont *Block) {
	b.breakTargets = append(b.breakTargets, brk)
	b.continueTargets = append(b.continueTargets, cont)
}

func (b *cfgBuilder) popLoop() {
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.continueTargets = b.continueTargets[:len(b.continueTargets)-1]
}
