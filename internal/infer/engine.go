// Package infer runs the flow-sensitive type analysis: per function it
// builds a control-flow graph, propagates symbol-to-type states forward
// to a fixed point, and checks assignments, property accesses and calls
// against the declared types in the registry.
package infer

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/registry"
	"strata/internal/symbols"
	"strata/internal/types"
)

// Result carries the per-expression inferred types for downstream
// tooling. Immutable after Run returns.
type Result struct {
	exprTypes map[*ast.Node]types.TypeInfo
}

// TypeOf returns the inferred type of an expression node.
func (r *Result) TypeOf(n *ast.Node) (types.TypeInfo, bool) {
	ti, ok := r.exprTypes[n]
	return ti, ok
}

// Engine wires the inputs of the inference pass together. One Engine
// serves one compilation unit.
type Engine struct {
	tab      *symbols.Table
	reg      *registry.Registry
	in       *types.Interner
	reporter diag.Reporter
	res      *Result

	fc *fnContext
	// emitting is false during fixed-point iteration so diagnostics
	// only fire once, in the final stable pass.
	emitting bool
}

// fnContext describes the function whose body is being analyzed.
type fnContext struct {
	fn    *ast.Node
	sig   *types.FnInfo
	owner types.TypeID // owning nominal when the function is a method
}

// Run analyzes the top level and every function body in root.
func Run(root *ast.Node, tab *symbols.Table, reg *registry.Registry, reporter diag.Reporter) *Result {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	e := &Engine{
		tab:      tab,
		reg:      reg,
		in:       reg.Types,
		reporter: reporter,
		res:      &Result{exprTypes: make(map[*ast.Node]types.TypeInfo)},
	}

	e.fc = &fnContext{}
	e.analyze(buildCFG(root), e.topLevelState(root))

	for _, fn := range ast.FindAll(root, func(n *ast.Node) bool { return n.Kind == ast.KindFunction }) {
		body := fn.FunctionBody()
		if body == nil {
			continue
		}
		e.fc = e.functionContext(fn)
		e.analyze(buildCFG(body), e.entryState(fn))
	}
	return e.res
}

func (e *Engine) functionContext(fn *ast.Node) *fnContext {
	fc := &fnContext{fn: fn}
	if sig, ok := e.reg.FnSig(fn); ok {
		fc.sig, _ = e.in.Fn(sig)
	}
	if owner, ok := e.reg.MethodOwner(fn); ok {
		fc.owner = owner
	}
	return fc
}

// topLevelState binds hoisted top-level functions before any statement
// runs.
func (e *Engine) topLevelState(root *ast.Node) flowState {
	st := make(flowState)
	e.bindHoistedFunctions(root, st)
	return st
}

// entryState binds the parameters of fn from their declared types, and
// the hoisted functions of its body.
func (e *Engine) entryState(fn *ast.Node) flowState {
	st := make(flowState)
	if params := fn.FunctionParams(); params != nil {
		for _, p := range params.Children {
			if p.Kind != ast.KindName {
				continue
			}
			sym, ok := e.tab.SymbolForDecl(p)
			if !ok {
				continue
			}
			if ti, ok := e.reg.DeclaredType(sym); ok {
				st[sym] = ti
			} else {
				st[sym] = e.in.Top()
			}
		}
	}
	if body := fn.FunctionBody(); body != nil {
		e.bindHoistedFunctions(body, st)
	}
	return st
}

func (e *Engine) bindHoistedFunctions(scopeRoot *ast.Node, st flowState) {
	for _, stmt := range scopeRoot.Children {
		if !stmt.IsHoistedFunction() {
			continue
		}
		sym, ok := e.tab.SymbolForDecl(stmt.FunctionName())
		if !ok {
			continue
		}
		if sig, ok := e.reg.FnSig(stmt); ok {
			st[sym] = types.TypeInfo{ID: sig}
		} else if ti, ok := e.reg.DeclaredType(sym); ok {
			st[sym] = ti
		}
	}
}

// analyze runs the forward fixed-point iteration over g, then replays
// the stable states once with diagnostics enabled. Loop heads are
// re-joined until nothing changes; termination follows from the join
// only ever widening a binding.
func (e *Engine) analyze(g *Graph, init flowState) {
	ins := make([]flowState, len(g.Blocks))
	outs := make([]flowState, len(g.Blocks))
	ins[g.Entry.ID] = init

	e.emitting = false
	work := []*Block{g.Entry}
	for len(work) > 0 {
		b := work[0]
		work = work[1:]
		out := e.transfer(b, ins[b.ID].clone())
		if outs[b.ID] != nil && statesEqual(outs[b.ID], out) {
			continue
		}
		outs[b.ID] = out
		for _, succ := range b.Succs {
			joined := joinStates(e.in, ins[succ.ID], out)
			if ins[succ.ID] == nil || !statesEqual(ins[succ.ID], joined) {
				ins[succ.ID] = joined
				work = append(work, succ)
			}
		}
	}

	e.emitting = true
	for _, b := range g.Blocks {
		if ins[b.ID] == nil {
			continue // unreachable
		}
		e.transfer(b, ins[b.ID].clone())
	}
	e.emitting = false
}

// transfer interprets one block's nodes over st and returns the state
// at its end.
func (e *Engine) transfer(b *Block, st flowState) flowState {
	if st == nil {
		st = make(flowState)
	}
	for _, n := range b.Nodes {
		e.evalNode(n, st)
	}
	return st
}

func (e *Engine) evalNode(n *ast.Node, st flowState) {
	switch n.Kind {
	case ast.KindVar, ast.KindLet, ast.KindConst:
		e.evalDecl(n, st)
	case ast.KindExprStmt:
		e.evalExpr(n.First(), st)
	case ast.KindReturn, ast.KindThrow:
		if c := n.First(); c != nil {
			e.evalExpr(c, st)
		}
	case ast.KindFunction:
		// Hoisted declarations are pre-bound in the entry state.
	case ast.KindName:
		e.evalBoundName(n, st)
	default:
		e.evalExpr(n, st)
	}
}

// evalBoundName handles name nodes the CFG emits for implicit writes:
// catch parameters and for-in targets.
func (e *Engine) evalBoundName(n *ast.Node, st flowState) {
	p := n.Parent
	if p == nil {
		e.evalExpr(n, st)
		return
	}
	sym, ok := e.tab.Resolve(n)
	if !ok {
		return
	}
	switch p.Kind {
	case ast.KindCatch:
		// The caught value can be anything.
		st[sym] = e.in.Top()
	case ast.KindForIn:
		st[sym] = types.TypeInfo{ID: e.in.Builtins().String}
	default:
		e.evalExpr(n, st)
	}
}

func (e *Engine) evalDecl(n *ast.Node, st flowState) {
	forIn := n.Parent != nil && n.Parent.Kind == ast.KindForIn
	for _, name := range n.Children {
		if name.Kind != ast.KindName {
			continue
		}
		sym, ok := e.tab.SymbolForDecl(name)
		if !ok {
			continue
		}
		if forIn {
			// Enumeration keys are strings, assigned per iteration.
			st[sym] = types.TypeInfo{ID: e.in.Builtins().String}
			continue
		}
		init := name.First()
		if init == nil {
			// Declared but not yet given a value.
			st[sym] = e.in.NullType()
			continue
		}
		vt := e.evalExpr(init, st)
		if declared, ok := e.reg.DeclaredType(sym); ok {
			if e.checkAssignable(vt, declared, init) {
				st[sym] = e.refine(vt, declared)
			} else {
				st[sym] = declared
			}
			continue
		}
		st[sym] = vt
	}
}
