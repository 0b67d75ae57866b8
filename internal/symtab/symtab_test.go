package symtab

import (
	"testing"

	"strata/internal/ast"
	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/infer"
	"strata/internal/parser"
	"strata/internal/refs"
	"strata/internal/registry"
	"strata/internal/source"
	"strata/internal/symbols"
	"strata/internal/types"
)

func buildTable(t *testing.T, src string) (*Table, *ast.Node) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(32)
	reporter := &diag.BagReporter{Bag: bag}
	root := parser.Parse(fs.Get(id), reporter)
	syms := symbols.Build(root, config.Default(), source.NewInterner(), reporter)
	rs := refs.Collect(root, syms)
	reg := registry.Build(root, syms, types.NewInterner(), reporter)
	inf := infer.Run(root, syms, reg, reporter)
	return New(syms, rs, reg, inf), root
}

func TestAllSymbolsCoverEveryDeclaration(t *testing.T) {
	tab, _ := buildTable(t, `
var a = 1;
function f(p) {
  var b = p;
  return b;
}
`)
	want := map[string]symbols.SymbolKind{
		"a": symbols.SymbolVar,
		"f": symbols.SymbolFunction,
		"p": symbols.SymbolParam,
		"b": symbols.SymbolVar,
	}
	got := make(map[string]symbols.SymbolKind)
	for _, e := range tab.AllSymbols() {
		got[e.Name] = e.Kind
	}
	for name, kind := range want {
		if got[name] != kind {
			t.Errorf("symbol %q kind = %v, want %v", name, got[name], kind)
		}
	}
}

func TestReferencesReachableThroughFacade(t *testing.T) {
	tab, root := buildTable(t, `
var x = 0;
x = x + 1;
`)
	var decl *ast.Node
	for _, n := range ast.FindAll(root, func(n *ast.Node) bool { return n.Kind == ast.KindName && n.Name == "x" }) {
		if n.Parent != nil && n.Parent.Kind == ast.KindVar {
			decl = n
		}
	}
	if decl == nil {
		t.Fatalf("declaration of x not found")
	}
	sym, ok := tab.Resolve(decl)
	if !ok {
		t.Fatalf("x does not resolve")
	}
	col := tab.References(sym)
	if col == nil {
		t.Fatalf("no reference collection for x")
	}
	if col.WriteCount() != 2 || col.ReadCount() != 1 {
		t.Errorf("writes = %d, reads = %d, want 2 writes and 1 read", col.WriteCount(), col.ReadCount())
	}
	if !col.IsWellDefined() {
		t.Errorf("initialized-then-used binding must be well defined")
	}
}

func TestScopeAndFunctionSymbolLink(t *testing.T) {
	tab, root := buildTable(t, `
function outer() {
  var inner = 1;
  return inner;
}
`)
	var use *ast.Node
	for _, n := range ast.FindAll(root, func(n *ast.Node) bool { return n.Kind == ast.KindName && n.Name == "inner" }) {
		if n.Parent != nil && n.Parent.Kind == ast.KindReturn {
			use = n
		}
	}
	if use == nil {
		t.Fatalf("use of inner not found")
	}
	sym, ok := tab.Resolve(use)
	if !ok {
		t.Fatalf("inner does not resolve")
	}
	scope, ok := tab.ScopeOf(sym)
	if !ok {
		t.Fatalf("no owning scope for inner")
	}
	if scope == tab.GlobalScope() {
		t.Errorf("inner must not live in the global scope")
	}

	// Walk to the function scope owning the body and back to its name.
	enclosing := tab.EnclosingScope(use)
	if enclosing == tab.GlobalScope() {
		t.Fatalf("use site must sit inside the function")
	}
	fnScope, okFn := findFunctionScope(tab, enclosing)
	if !okFn {
		t.Fatalf("no function scope above the use site")
	}
	fnSym, ok := tab.FunctionSymbol(fnScope)
	if !ok {
		t.Fatalf("function scope has no naming symbol")
	}
	e, _ := tab.Symbol(fnSym)
	if e.Name != "outer" {
		t.Errorf("function symbol = %q, want outer", e.Name)
	}
}

func findFunctionScope(tab *Table, from symbols.ScopeID) (symbols.ScopeID, bool) {
	syms := tab.syms
	return syms.EnclosingFunctionScope(from)
}

func TestTypesVisibleThroughFacade(t *testing.T) {
	tab, root := buildTable(t, `
class Foo {}
/** @type {!Foo} */
var f = new Foo();
`)
	var decl *ast.Node
	for _, n := range ast.FindAll(root, func(n *ast.Node) bool { return n.Kind == ast.KindName && n.Name == "f" }) {
		if n.Parent != nil && n.Parent.Kind == ast.KindVar {
			decl = n
		}
	}
	sym, ok := tab.Resolve(decl)
	if !ok {
		t.Fatalf("f does not resolve")
	}
	ti, ok := tab.DeclaredType(sym)
	if !ok {
		t.Fatalf("no declared type for f")
	}
	if got := tab.Describe(ti); got != "Foo" {
		t.Errorf("declared type renders as %q, want Foo", got)
	}
	if ti.Nullable {
		t.Errorf("!Foo annotation must resolve non-null")
	}
	news := ast.FindAll(root, func(n *ast.Node) bool { return n.Kind == ast.KindNew })
	if len(news) != 1 {
		t.Fatalf("new expression not found")
	}
	nt, ok := tab.TypeAt(news[0])
	if !ok || nt.Nullable {
		t.Errorf("constructor result should be a non-null Foo")
	}
}
