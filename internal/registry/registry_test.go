package registry

import (
	"strings"
	"testing"

	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/parser"
	"strata/internal/source"
	"strata/internal/symbols"
	"strata/internal/types"
)

func buildSrc(t *testing.T, src string) (*Registry, *symbols.Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(32)
	reporter := &diag.BagReporter{Bag: bag}
	root := parser.Parse(fs.Get(id), reporter)
	tab := symbols.Build(root, config.Default(), source.NewInterner(), reporter)
	reg := Build(root, tab, types.NewInterner(), reporter)
	return reg, tab, bag
}

func nominal(t *testing.T, reg *Registry, name string) types.TypeID {
	t.Helper()
	id, ok := reg.Types.NominalByName(name)
	if !ok {
		t.Fatalf("nominal %q not registered", name)
	}
	return id
}

func TestClassRegistersNominalWithParent(t *testing.T) {
	reg, _, bag := buildSrc(t, `
class Animal {
  speak() {}
}
class Dog extends Animal {
}
`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	animal := nominal(t, reg, "Animal")
	dog := nominal(t, reg, "Dog")
	if !reg.Types.IsAncestor(animal, dog) {
		t.Errorf("Animal is not recorded as Dog's ancestor")
	}
	if _, _, ok := reg.Types.LookupProp(dog, "speak"); !ok {
		t.Errorf("inherited method speak not reachable from Dog")
	}
}

func TestConstructorAnnotation(t *testing.T) {
	reg, tab, _ := buildSrc(t, `
/** @constructor */
function Base() {}
/**
 * @constructor
 * @extends {Base}
 */
function Derived() {}
`)
	base := nominal(t, reg, "Base")
	derived := nominal(t, reg, "Derived")
	if !reg.Types.IsAncestor(base, derived) {
		t.Errorf("@extends did not wire the parent edge")
	}
	sym, ok := tab.LookupLocal(tab.Global, "Derived")
	if !ok {
		t.Fatalf("Derived symbol missing")
	}
	if _, ok := reg.DeclaredType(sym); !ok {
		t.Errorf("constructor function has no declared function type")
	}
}

func TestPrototypeMethodAndField(t *testing.T) {
	reg, _, _ := buildSrc(t, `
/** @constructor */
function Foo() {}
/** @param {number} n */
Foo.prototype.bump = function(n) {};
/** @type {string} */
Foo.prototype.label = "";
`)
	foo := nominal(t, reg, "Foo")
	method, _, ok := reg.Types.LookupProp(foo, "bump")
	if !ok {
		t.Fatalf("prototype method not registered")
	}
	fn, okFn := reg.Types.Fn(method.Type.ID)
	if !okFn || len(fn.Params) != 1 {
		t.Fatalf("bump signature wrong: %+v", fn)
	}
	if fn.Params[0].ID != reg.Types.Builtins().Number {
		t.Errorf("bump parameter resolved to %s", reg.Types.Describe(fn.Params[0]))
	}
	if fn.This.ID != foo {
		t.Errorf("method receiver should default to the owning type")
	}
	field, _, ok := reg.Types.LookupProp(foo, "label")
	if !ok || field.Type.ID != reg.Types.Builtins().String {
		t.Errorf("typed prototype field not registered: %+v", field)
	}
}

func TestPrototypeAssignmentSetsParent(t *testing.T) {
	reg, _, _ := buildSrc(t, `
/** @constructor */
function Base() {}
/** @constructor */
function Sub() {}
Sub.prototype = new Base();
`)
	if !reg.Types.IsAncestor(nominal(t, reg, "Base"), nominal(t, reg, "Sub")) {
		t.Errorf("explicit prototype assignment did not wire inheritance")
	}
}

func TestDeclaredVarType(t *testing.T) {
	reg, tab, _ := buildSrc(t, `
class Foo {}
/** @type {!Foo} */
var x = make();
`)
	sym, ok := tab.LookupLocal(tab.Global, "x")
	if !ok {
		t.Fatalf("x missing")
	}
	ti, ok := reg.DeclaredType(sym)
	if !ok {
		t.Fatalf("no declared type for x")
	}
	if ti.ID != nominal(t, reg, "Foo") || ti.Nullable {
		t.Errorf("declared type = %s, want !Foo", reg.Types.Describe(ti))
	}
}

func TestBareNominalNameIsNullable(t *testing.T) {
	reg, tab, _ := buildSrc(t, `
class Foo {}
/** @type {Foo} */
var a;
/** @type {number} */
var n;
`)
	symA, _ := tab.LookupLocal(tab.Global, "a")
	ti, _ := reg.DeclaredType(symA)
	if !ti.Nullable {
		t.Errorf("a bare nominal name defaults to nullable")
	}
	symN, _ := tab.LookupLocal(tab.Global, "n")
	tn, _ := reg.DeclaredType(symN)
	if tn.Nullable {
		t.Errorf("primitives default to non-null")
	}
}

func TestCompatibleOverride(t *testing.T) {
	reg, _, bag := buildSrc(t, `
class Base {
  /** @param {number} n */
  set(n) {}
}
class Sub extends Base {
  /** @param {number} n */
  set(n) {}
}
`)
	if bag.Len() != 0 {
		t.Fatalf("compatible override reported: %v", bag.Items())
	}
	if len(reg.Overrides) != 1 || !reg.Overrides[0].Compatible {
		t.Fatalf("override relation not recorded: %+v", reg.Overrides)
	}
}

func TestIncompatibleOverrideParamCount(t *testing.T) {
	reg, _, bag := buildSrc(t, `
class Base {
  /** @param {number} a
   * @param {number} b */
  set(a, b) {}
}
class Sub extends Base {
  /** @param {number} a */
  set(a) {}
}
`)
	if len(reg.Overrides) != 1 || reg.Overrides[0].Compatible {
		t.Fatalf("param-count mismatch not detected: %+v", reg.Overrides)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.RegInvalidPropOverride {
			found = true
		}
	}
	if !found {
		t.Errorf("INVALID_PROP_OVERRIDE not reported")
	}
}

func TestVariadicBaseAcceptsWiderOverride(t *testing.T) {
	reg, _, bag := buildSrc(t, `
class Base {
  /** @param {number} first
   * @param {...number} rest */
  add(first, rest) {}
}
class Sub extends Base {
  /** @param {number} first
   * @param {number} second
   * @param {number} third */
  add(first, second, third) {}
}
`)
	for _, d := range bag.Items() {
		if d.Code == diag.RegInvalidPropOverride {
			t.Fatalf("variadic tail should cover extra parameters: %s", d.Message)
		}
	}
	if len(reg.Overrides) != 1 || !reg.Overrides[0].Compatible {
		t.Fatalf("override relation wrong: %+v", reg.Overrides)
	}
}

func TestContravariantParamViolation(t *testing.T) {
	_, _, bag := buildSrc(t, `
class Animal {}
class Dog extends Animal {}
class Base {
  /** @param {!Animal} a */
  feed(a) {}
}
class Sub extends Base {
  /** @param {!Dog} a */
  feed(a) {}
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.RegInvalidPropOverride && strings.Contains(d.Message, "parameter") {
			found = true
		}
	}
	if !found {
		t.Errorf("narrowing a parameter must be an invalid override")
	}
}

func TestCovariantReturnAllowed(t *testing.T) {
	_, _, bag := buildSrc(t, `
class Animal {}
class Dog extends Animal {}
class Base {
  /** @return {!Animal} */
  pick() {}
}
class Sub extends Base {
  /** @return {!Dog} */
  pick() {}
}
class Bad extends Base {
  /** @return {!Base} */
  pick() {}
}
`)
	count := 0
	for _, d := range bag.Items() {
		if d.Code == diag.RegInvalidPropOverride {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d override warnings, want exactly the widened return", count)
	}
}

func TestMalformedAnnotationReported(t *testing.T) {
	_, _, bag := buildSrc(t, `
/** @type {Foo| */
var x;
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.RegMalformedAnnotation {
			found = true
		}
	}
	if !found {
		t.Errorf("malformed annotation not reported")
	}
}
