package symbols

import (
	"testing"

	"strata/internal/ast"
	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/parser"
	"strata/internal/source"
)

func buildSrc(t *testing.T, src string, cfg config.Config) (*Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(16)
	reporter := &diag.BagReporter{Bag: bag}
	root := parser.Parse(fs.Get(id), reporter)
	tab := Build(root, cfg, source.NewInterner(), reporter)
	return tab, bag
}

func mustSymbol(t *testing.T, tab *Table, scope ScopeID, name string) *Symbol {
	t.Helper()
	id, ok := tab.LookupLocal(scope, name)
	if !ok {
		t.Fatalf("symbol %q not owned by scope %d (%s)", name, scope, tab.Scopes.Get(scope).Kind)
	}
	return tab.Symbols.Get(id)
}

// findScope returns the first scope of the given kind in allocation order.
func findScope(t *testing.T, tab *Table, kind ScopeKind) ScopeID {
	t.Helper()
	for i, sc := range tab.Scopes.Data() {
		if sc.Kind == kind {
			return ScopeID(i + 1)
		}
	}
	t.Fatalf("no %s scope built", kind)
	return NoScopeID
}

func TestVarHoistsToFunctionBlock(t *testing.T) {
	tab, bag := buildSrc(t, "function f() { { var x = 0; } }", config.Default())
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fnBlock := findScope(t, tab, ScopeFunctionBlock)
	sym := mustSymbol(t, tab, fnBlock, "x")
	if sym.Kind != SymbolVar {
		t.Errorf("kind = %v, want var", sym.Kind)
	}
	if sym.Scope != fnBlock {
		t.Errorf("x owned by scope %d, want the function block", sym.Scope)
	}
}

func TestLetStaysInBlock(t *testing.T) {
	tab, _ := buildSrc(t, "function f() { { let x = 0; } }", config.Default())
	block := findScope(t, tab, ScopeBlock)
	sym := mustSymbol(t, tab, block, "x")
	if sym.Kind != SymbolLexical {
		t.Errorf("kind = %v, want lexical", sym.Kind)
	}
	fnBlock := findScope(t, tab, ScopeFunctionBlock)
	if _, ok := tab.LookupLocal(fnBlock, "x"); ok {
		t.Errorf("x leaked into the function block scope")
	}
}

func TestBlockScopingDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.BlockScoping = false
	tab, _ := buildSrc(t, "function f() { { let x = 0; } }", cfg)
	fnBlock := findScope(t, tab, ScopeFunctionBlock)
	mustSymbol(t, tab, fnBlock, "x")
	for _, sc := range tab.Scopes.Data() {
		if sc.Kind == ScopeBlock {
			t.Fatalf("block scope built with block scoping disabled")
		}
	}
}

func TestParamsOwnedByFunctionScope(t *testing.T) {
	tab, _ := buildSrc(t, "function f(a, b) { var a; }", config.Default())
	fn := findScope(t, tab, ScopeFunction)
	if mustSymbol(t, tab, fn, "a").Kind != SymbolParam {
		t.Errorf("a is not a param in the function scope")
	}
	// The body var lands in the function block, shadowing the param
	// rather than clashing with it.
	fnBlock := findScope(t, tab, ScopeFunctionBlock)
	if mustSymbol(t, tab, fnBlock, "a").Kind != SymbolVar {
		t.Errorf("body var a missing from function block")
	}
}

func TestHoistedFunctionDeclaredOutside(t *testing.T) {
	tab, _ := buildSrc(t, "function f() {}", config.Default())
	sym := mustSymbol(t, tab, tab.Global, "f")
	if sym.Kind != SymbolFunction {
		t.Errorf("kind = %v, want function", sym.Kind)
	}
	fn := findScope(t, tab, ScopeFunction)
	fnSym, ok := tab.FunctionSymbol(fn)
	if !ok || tab.NameOf(fnSym) != "f" {
		t.Errorf("function scope not linked back to its declaring symbol")
	}
}

func TestNamedFunctionExpressionBindsInside(t *testing.T) {
	tab, _ := buildSrc(t, "var f = function g() { return g; };", config.Default())
	if _, ok := tab.LookupLocal(tab.Global, "g"); ok {
		t.Fatalf("function expression name leaked into the outer scope")
	}
	fn := findScope(t, tab, ScopeFunction)
	if mustSymbol(t, tab, fn, "g").Kind != SymbolFunction {
		t.Errorf("g not bound inside its own function")
	}
}

func TestCatchScopingModes(t *testing.T) {
	src := "function f() { try {} catch (e) { var y = e; } }"

	tab, _ := buildSrc(t, src, config.Default())
	catch := findScope(t, tab, ScopeCatch)
	if mustSymbol(t, tab, catch, "e").Kind != SymbolCatchParam {
		t.Errorf("modern mode: e not owned by the catch scope")
	}
	fnBlock := findScope(t, tab, ScopeFunctionBlock)
	mustSymbol(t, tab, fnBlock, "y")

	legacy := config.Default()
	legacy.CatchScoping = config.CatchScopeLegacy
	tab, _ = buildSrc(t, src, legacy)
	fnBlock = findScope(t, tab, ScopeFunctionBlock)
	if mustSymbol(t, tab, fnBlock, "e").Kind != SymbolCatchParam {
		t.Errorf("legacy mode: e not hoisted to the function block")
	}
}

func TestRedeclarationWarnsButRegisters(t *testing.T) {
	tab, bag := buildSrc(t, "let x = 1; let x = 2;", config.Default())
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ScopeRedeclaration || d.Severity != diag.SevWarning {
		t.Errorf("diagnostic = %v/%v", d.Code, d.Severity)
	}
	owned := tab.OwnedBy(tab.Global)
	count := 0
	for _, id := range owned {
		sym := tab.Symbols.Get(id)
		if tab.NameOf(id) == "x" {
			count++
			if sym.Flags&SymbolFlagRedeclared == 0 {
				t.Errorf("clashing binding not marked redeclared")
			}
		}
	}
	if count != 2 {
		t.Errorf("registered %d bindings for x, want both", count)
	}
	// Lookup resolves to the later binding.
	id, _ := tab.LookupLocal(tab.Global, "x")
	if id != owned[len(owned)-1] {
		t.Errorf("lookup did not resolve to the later binding")
	}
}

func TestVarVarMerges(t *testing.T) {
	tab, bag := buildSrc(t, "var x = 1; var x = 2;", config.Default())
	if bag.Len() != 0 {
		t.Fatalf("var redeclaration should be silent, got %v", bag.Items())
	}
	count := 0
	for _, id := range tab.OwnedBy(tab.Global) {
		if tab.NameOf(id) == "x" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("var x registered %d times, want a single merged binding", count)
	}
}

func TestScopesFreezeOnClose(t *testing.T) {
	tab, _ := buildSrc(t, "function f() {}", config.Default())
	for _, sc := range tab.Scopes.Data() {
		if !sc.Closed() {
			t.Fatalf("%s scope left open after build", sc.Kind)
		}
	}
}

func TestResolveReferences(t *testing.T) {
	tab, _ := buildSrc(t, "var x = 1; function f() { return x; }", config.Default())
	var read *ast.Node
	root := tab.Scopes.Get(tab.Global).Node
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind == ast.KindName && n.Name == "x" && n.Parent.Kind == ast.KindReturn {
			read = n
		}
		return true
	}, nil)
	if read == nil {
		t.Fatalf("reference to x not found in tree")
	}
	id, ok := tab.Resolve(read)
	if !ok {
		t.Fatalf("x did not resolve")
	}
	if tab.Symbols.Get(id).Scope != tab.Global {
		t.Errorf("x resolved to a non-global binding")
	}
}
