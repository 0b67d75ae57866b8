package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"strata/internal/config"
	"strata/internal/diag"
)

func TestAnalyzeVirtualRunsAllPasses(t *testing.T) {
	c := NewContext(config.Default())
	u := c.AnalyzeVirtual("unit.js", []byte(`
class Foo {}
class Bar {}
/** @type {!Foo} */
var x = new Bar();
`))
	if u.Table == nil || u.Symbols == nil || u.Refs == nil || u.Registry == nil || u.Inference == nil {
		t.Fatalf("pass results missing from unit")
	}
	found := false
	for _, d := range u.Bag.Items() {
		if d.Code == diag.InfMistypedAssign {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MISTYPED_ASSIGN, got %v", u.Bag.Items())
	}
	if !u.Failed(config.Default()) {
		t.Errorf("unit with a type error must fail")
	}
}

func TestWarningsAsErrorsPromotesFailure(t *testing.T) {
	c := NewContext(config.Default())
	u := c.AnalyzeVirtual("unit.js", []byte(`
let a = 1;
let a = 2;
`))
	if u.Bag.HasErrors() {
		t.Fatalf("redeclaration must stay a warning: %v", u.Bag.Items())
	}
	if u.Failed(config.Default()) {
		t.Errorf("warnings alone must not fail by default")
	}
	strict := config.Default()
	strict.WarningsAsErrors = true
	if !u.Failed(strict) {
		t.Errorf("warnings_as_errors must promote the failure")
	}
}

func TestAnalyzeDirOrdersAndIsolatesUnits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.js"), `var ok = 1;`)
	writeFile(t, filepath.Join(dir, "a.js"), `
/** @param {number} n */
function f(n) {}
f("s");
`)

	units, err := AnalyzeDir(context.Background(), dir, config.Default(), nil, 2)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if filepath.Base(units[0].Path) != "a.js" || filepath.Base(units[1].Path) != "b.js" {
		t.Fatalf("units out of path order: %s, %s", units[0].Path, units[1].Path)
	}
	if !units[0].Bag.HasErrors() {
		t.Errorf("a.js must report the argument mismatch")
	}
	if units[1].Bag.Len() != 0 {
		t.Errorf("b.js is clean but reported %v", units[1].Bag.Items())
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	src := filepath.Join(dir, "unit.js")
	writeFile(t, src, `
var x = 1;
x = "s";
`)

	first := NewContext(config.Default())
	first.Cache = cache
	u1, err := first.AnalyzeFile(src)
	if err != nil {
		t.Fatalf("first analysis: %v", err)
	}
	if u1.FromCache {
		t.Fatalf("first run must analyze, not hit the cache")
	}

	second := NewContext(config.Default())
	second.Cache = cache
	u2, err := second.AnalyzeFile(src)
	if err != nil {
		t.Fatalf("second analysis: %v", err)
	}
	if !u2.FromCache {
		t.Fatalf("unchanged file must come from the cache")
	}
	if u2.Bag.Len() != u1.Bag.Len() {
		t.Errorf("cached diagnostics differ: %d vs %d", u2.Bag.Len(), u1.Bag.Len())
	}
	for i, d := range u2.Bag.Items() {
		if d.Code != u1.Bag.Items()[i].Code {
			t.Errorf("diagnostic %d code mismatch: %v vs %v", i, d.Code, u1.Bag.Items()[i].Code)
		}
	}
}

func TestCacheInvalidatedByConfigChange(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	src := filepath.Join(dir, "unit.js")
	writeFile(t, src, `var x = 1;`)

	first := NewContext(config.Default())
	first.Cache = cache
	if _, err := first.AnalyzeFile(src); err != nil {
		t.Fatalf("first analysis: %v", err)
	}

	changed := config.Default()
	changed.BlockScoping = false
	second := NewContext(changed)
	second.Cache = cache
	u, err := second.AnalyzeFile(src)
	if err != nil {
		t.Fatalf("second analysis: %v", err)
	}
	if u.FromCache {
		t.Errorf("a config change must miss the cache")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
