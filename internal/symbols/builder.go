package symbols

import (
	"fmt"

	"strata/internal/ast"
	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/source"
)

// Builder walks an AST once and produces the finalized scope tree and
// symbol index. One Builder serves one compilation unit.
type Builder struct {
	cfg      config.Config
	names    *source.Interner
	reporter diag.Reporter

	scopes *Scopes
	syms   *Symbols
	stack  []ScopeID

	nodeScope map[*ast.Node]ScopeID
	declSym   map[*ast.Node]SymbolID
}

// Build runs the scope pass over root and returns the resulting table.
// Redeclarations are reported through reporter but never abort the
// build; the later binding still registers.
func Build(root *ast.Node, cfg config.Config, names *source.Interner, reporter diag.Reporter) *Table {
	if root == nil || root.Kind != ast.KindScript {
		panic("symbols: Build requires a script root")
	}
	if names == nil {
		names = source.NewInterner()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	b := &Builder{
		cfg:       cfg,
		names:     names,
		reporter:  reporter,
		scopes:    NewScopes(0),
		syms:      NewSymbols(0),
		nodeScope: make(map[*ast.Node]ScopeID),
		declSym:   make(map[*ast.Node]SymbolID),
	}
	global := b.open(ScopeGlobal, root)
	for _, stmt := range root.Children {
		b.walk(stmt)
	}
	b.close()
	return &Table{
		Scopes:    b.scopes,
		Symbols:   b.syms,
		Names:     names,
		Global:    global,
		nodeScope: b.nodeScope,
		declSym:   b.declSym,
	}
}

func (b *Builder) open(kind ScopeKind, node *ast.Node) ScopeID {
	parent := NoScopeID
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1]
	}
	id := b.scopes.New(kind, parent, node, node.Span)
	b.stack = append(b.stack, id)
	b.nodeScope[node] = id
	return id
}

func (b *Builder) close() {
	if len(b.stack) == 0 {
		panic("symbols: scope stack underflow")
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.scopes.Get(id).closed = true
}

func (b *Builder) current() ScopeID {
	return b.stack[len(b.stack)-1]
}

// hoistTarget returns the innermost open scope var-style declarations
// attach to.
func (b *Builder) hoistTarget() ScopeID {
	for i := len(b.stack) - 1; i >= 0; i-- {
		id := b.stack[i]
		if b.scopes.Get(id).Kind.IsHoistTarget() {
			return id
		}
	}
	panic("symbols: no hoist target on scope stack")
}

// declare registers one binding in scope. A var merging with an earlier
// var in the same scope reuses the existing symbol; any other clash is
// a redeclaration warning with both bindings marked, and the later one
// registers anyway.
func (b *Builder) declare(kind SymbolKind, nameNode *ast.Node, scope ScopeID, flags SymbolFlags) SymbolID {
	sc := b.scopes.Get(scope)
	if sc == nil {
		panic("symbols: declare into invalid scope")
	}
	if sc.closed {
		panic("symbols: declare into closed scope")
	}
	nameID := b.names.Intern(nameNode.Name)
	if prevID, ok := sc.NameIndex[nameID]; ok {
		prev := b.syms.Get(prevID)
		if kind == SymbolVar && prev.Kind == SymbolVar {
			b.declSym[nameNode] = prevID
			return prevID
		}
		prev.Flags |= SymbolFlagRedeclared
		flags |= SymbolFlagRedeclared
		diag.ReportWarning(b.reporter, diag.ScopeRedeclaration, nameNode.Span,
			fmt.Sprintf("redeclaration of %q", nameNode.Name)).
			WithNote(prev.Span, "previously declared here").
			Emit()
	}
	id := b.syms.New(&Symbol{
		Name:  nameID,
		Kind:  kind,
		Scope: scope,
		Span:  nameNode.Span,
		Flags: flags,
		Decl:  nameNode,
	})
	sc.Symbols = append(sc.Symbols, id)
	sc.NameIndex[nameID] = id
	b.declSym[nameNode] = id
	return id
}

func (b *Builder) walk(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindFunction:
		b.walkFunction(n)
	case ast.KindVar:
		b.walkDeclList(n, SymbolVar, b.hoistTarget(), 0)
	case ast.KindLet:
		b.walkDeclList(n, SymbolLexical, b.lexicalTarget(), 0)
	case ast.KindConst:
		b.walkDeclList(n, SymbolLexical, b.lexicalTarget(), SymbolFlagConst)
	case ast.KindClass:
		b.walkClass(n)
	case ast.KindBlock:
		b.walkBlock(n)
	case ast.KindCatch:
		b.walkCatch(n)
	default:
		for _, c := range n.Children {
			b.walk(c)
		}
	}
}

// lexicalTarget is where let/const attach: the innermost scope when
// block scoping is on, otherwise they degrade to the hoist target.
func (b *Builder) lexicalTarget() ScopeID {
	if b.cfg.BlockScoping {
		return b.current()
	}
	return b.hoistTarget()
}

func (b *Builder) walkDeclList(n *ast.Node, kind SymbolKind, scope ScopeID, flags SymbolFlags) {
	for _, name := range n.Children {
		if name.Kind != ast.KindName {
			continue
		}
		b.declare(kind, name, scope, flags)
		// The initializer hangs off the name node.
		if init := name.First(); init != nil {
			b.walk(init)
		}
	}
}

func (b *Builder) walkFunction(n *ast.Node) {
	var fnSym SymbolID
	if n.IsHoistedFunction() {
		fnSym = b.declare(SymbolFunction, n.FunctionName(), b.hoistTarget(), 0)
	}
	fnScope := b.open(ScopeFunction, n)
	b.scopes.Get(fnScope).FnSym = fnSym
	// A named function expression binds its own name inside itself.
	if name := n.FunctionName(); name != nil && !n.IsHoistedFunction() {
		b.declare(SymbolFunction, name, fnScope, 0)
	}
	if params := n.FunctionParams(); params != nil {
		for _, p := range params.Children {
			if p.Kind == ast.KindName {
				b.declare(SymbolParam, p, fnScope, 0)
			}
		}
	}
	if body := n.FunctionBody(); body != nil {
		b.open(ScopeFunctionBlock, body)
		for _, stmt := range body.Children {
			b.walk(stmt)
		}
		b.close()
	}
	b.close()
}

func (b *Builder) walkClass(n *ast.Node) {
	if name := n.First(); name != nil && name.Kind == ast.KindName {
		b.declare(SymbolClass, name, b.lexicalTarget(), 0)
	}
	for _, c := range n.Children[1:] {
		b.walk(c)
	}
}

func (b *Builder) walkBlock(n *ast.Node) {
	if !b.cfg.BlockScoping {
		for _, c := range n.Children {
			b.walk(c)
		}
		return
	}
	b.open(ScopeBlock, n)
	for _, c := range n.Children {
		b.walk(c)
	}
	b.close()
}

func (b *Builder) walkCatch(n *ast.Node) {
	b.open(ScopeCatch, n)
	if param := n.First(); param != nil && param.Kind == ast.KindName {
		if b.cfg.CatchScoping == config.CatchScopeLegacy {
			b.declare(SymbolCatchParam, param, b.hoistTarget(), 0)
		} else {
			b.declare(SymbolCatchParam, param, b.current(), 0)
		}
	}
	if block := n.Child(1); block != nil {
		// The catch body shares the catch scope; a nested block scope
		// here would add nothing the catch scope does not already give.
		for _, c := range block.Children {
			b.walk(c)
		}
	}
	b.close()
}
