package types

import "testing"

func newTestInterner() (*Interner, TypeInfo, TypeInfo, TypeInfo) {
	in := NewInterner()
	foo := TypeInfo{ID: in.RegisterNominal("Foo", NominalOpts{})}
	bar := TypeInfo{ID: in.RegisterNominal("Bar", NominalOpts{})}
	baz := TypeInfo{ID: in.RegisterNominal("Baz", NominalOpts{})}
	return in, foo, bar, baz
}

func TestJoinIdentityAndAbsorption(t *testing.T) {
	in, foo, _, _ := newTestInterner()

	if got := in.Join(foo, in.Bottom()); got != foo {
		t.Fatalf("join(T, BOTTOM) = %v, want T", got)
	}
	if got := in.Join(in.Bottom(), foo); got != foo {
		t.Fatalf("join(BOTTOM, T) = %v, want T", got)
	}
	if got := in.Join(foo, in.Top()); got.ID != in.Builtins().Top {
		t.Fatalf("join(T, TOP) should be TOP, got %v", got)
	}
}

func TestJoinCommutativeAssociativeIdempotent(t *testing.T) {
	in, foo, bar, baz := newTestInterner()

	if in.Join(foo, bar) != in.Join(bar, foo) {
		t.Fatalf("join not commutative")
	}
	left := in.Join(in.Join(foo, bar), baz)
	right := in.Join(foo, in.Join(bar, baz))
	if left != right {
		t.Fatalf("join not associative: %v vs %v", left, right)
	}
	if in.Join(foo, foo) != foo {
		t.Fatalf("join not idempotent")
	}
}

func TestJoinNullability(t *testing.T) {
	in, foo, _, _ := newTestInterner()

	got := in.Join(foo, in.NullType())
	if got.ID != foo.ID || !got.Nullable {
		t.Fatalf("join(Foo, null) = %v, want nullable Foo", got)
	}
}

func TestAssignabilityReflexiveTransitive(t *testing.T) {
	in, _, _, _ := newTestInterner()
	a := TypeInfo{ID: in.RegisterNominal("A", NominalOpts{})}
	b := TypeInfo{ID: in.RegisterNominal("B", NominalOpts{})}
	c := TypeInfo{ID: in.RegisterNominal("C", NominalOpts{})}
	in.SetParent(b.ID, a.ID)
	in.SetParent(c.ID, b.ID)

	if !in.Assignable(a, a) {
		t.Fatalf("assignability not reflexive")
	}
	if !in.Assignable(c, b) || !in.Assignable(b, a) {
		t.Fatalf("direct subtype assignability failed")
	}
	if !in.Assignable(c, a) {
		t.Fatalf("assignability not transitive")
	}
	if in.Assignable(a, c) {
		t.Fatalf("supertype must not be assignable to subtype")
	}
}

func TestAssignabilityUnrelatedNominals(t *testing.T) {
	in, foo, bar, _ := newTestInterner()
	if in.Assignable(bar, foo) {
		t.Fatalf("unrelated nominals must not be assignable")
	}
}

func TestNullableSourceRejected(t *testing.T) {
	in, foo, _, _ := newTestInterner()
	nullableFoo := foo.WithNullable(true)
	if in.Assignable(nullableFoo, foo) {
		t.Fatalf("?Foo must not satisfy !Foo")
	}
	if !in.Assignable(foo, nullableFoo) {
		t.Fatalf("!Foo should satisfy ?Foo")
	}
	if !in.Assignable(in.NullType(), nullableFoo) {
		t.Fatalf("null should satisfy ?Foo")
	}
	if in.Assignable(in.NullType(), foo) {
		t.Fatalf("null must not satisfy !Foo")
	}
}

func TestUnionAssignability(t *testing.T) {
	in, foo, bar, baz := newTestInterner()
	union := TypeInfo{ID: in.Union(foo.ID, bar.ID)}

	if !in.Assignable(foo, union) || !in.Assignable(bar, union) {
		t.Fatalf("members should satisfy their union")
	}
	if in.Assignable(baz, union) {
		t.Fatalf("non-member must not satisfy the union")
	}
	if !in.Assignable(union, in.Top()) {
		t.Fatalf("union should satisfy TOP")
	}
	if in.Assignable(union, foo) {
		t.Fatalf("a union must not collapse into one member")
	}
}

func TestUnionCanonicalization(t *testing.T) {
	in, foo, bar, baz := newTestInterner()
	ab := in.Union(foo.ID, bar.ID)
	ba := in.Union(bar.ID, foo.ID)
	if ab != ba {
		t.Fatalf("union member order changed identity")
	}
	nested := in.Union(in.Union(foo.ID, bar.ID), baz.ID)
	flat := in.Union(foo.ID, bar.ID, baz.ID)
	if nested != flat {
		t.Fatalf("nested union did not flatten")
	}
	if in.Union(foo.ID) != foo.ID {
		t.Fatalf("singleton union should collapse")
	}
	if in.Union() != in.Builtins().Bottom {
		t.Fatalf("empty union should be BOTTOM")
	}
}

func TestTopAbsorbsUnion(t *testing.T) {
	in, foo, _, _ := newTestInterner()
	if got := in.Union(foo.ID, in.Builtins().Top); got != in.Builtins().Top {
		t.Fatalf("union with TOP should be TOP, got %d", got)
	}
}

func TestEmptyContainerCompatibility(t *testing.T) {
	in, _, _, _ := newTestInterner()
	b := in.Builtins()
	bare := TypeInfo{ID: b.Array}
	strArr := TypeInfo{ID: in.Instance(b.Array, []TypeInfo{{ID: b.String}})}
	numArr := TypeInfo{ID: in.Instance(b.Array, []TypeInfo{{ID: b.Number}})}

	if !in.Assignable(bare, strArr) {
		t.Fatalf("bare Array (empty literal) must satisfy Array<string>")
	}
	if !in.Assignable(strArr, bare) {
		t.Fatalf("Array<string> should satisfy bare Array")
	}
	if in.Assignable(strArr, numArr) {
		t.Fatalf("Array<string> must not satisfy Array<number>")
	}
}

func TestFnAssignabilityVariance(t *testing.T) {
	in, _, _, _ := newTestInterner()
	a := TypeInfo{ID: in.RegisterNominal("A", NominalOpts{})}
	b := TypeInfo{ID: in.RegisterNominal("B", NominalOpts{})}
	in.SetParent(b.ID, a.ID)

	base := &FnInfo{Params: []TypeInfo{a}, Return: b}
	narrowParam := &FnInfo{Params: []TypeInfo{b}, Return: b}
	widerReturn := &FnInfo{Params: []TypeInfo{a}, Return: a}

	if in.FnAssignable(narrowParam, base) {
		t.Fatalf("narrowing a parameter is not contravariant-compatible")
	}
	if !in.FnAssignable(widerReturn, &FnInfo{Params: []TypeInfo{a}, Return: a}) {
		t.Fatalf("identical signature rejected")
	}
	if !in.FnAssignable(base, widerReturn) {
		t.Fatalf("covariant return rejected: B <: A")
	}
}

func TestTemplateBindAndSubstitute(t *testing.T) {
	in, foo, bar, _ := newTestInterner()
	tv := TypeInfo{ID: in.Template("T")}

	bindings := Bindings{}
	in.BindTemplates(tv, foo, bindings)
	got := in.Substitute(tv, bindings)
	if got.ID != foo.ID {
		t.Fatalf("T bound to %v, want Foo", got)
	}

	// A second binding joins rather than overwrites.
	in.BindTemplates(tv, bar, bindings)
	joined := in.Substitute(tv, bindings)
	if joined.ID != in.Union(foo.ID, bar.ID) {
		t.Fatalf("repeated binding should join: %v", joined)
	}

	// Unbound variables widen to TOP.
	unbound := in.Substitute(TypeInfo{ID: in.Template("U")}, bindings)
	if unbound.ID != in.Builtins().Top {
		t.Fatalf("unbound template should widen to TOP, got %v", unbound)
	}
}

func TestDescribe(t *testing.T) {
	in, foo, bar, _ := newTestInterner()
	cases := []struct {
		t    TypeInfo
		want string
	}{
		{foo, "Foo"},
		{foo.WithNullable(true), "?Foo"},
		{in.Top(), "*"},
		{in.Bottom(), "None"},
		{in.NullType(), "null"},
		{TypeInfo{ID: in.Union(foo.ID, bar.ID)}, "(Bar|Foo)"},
	}
	for _, tc := range cases {
		if got := in.Describe(tc.t); got != tc.want && tc.t.ID != in.Union(foo.ID, bar.ID) {
			t.Errorf("Describe(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
	// Union rendering order follows interned ID order.
	union := in.Describe(TypeInfo{ID: in.Union(foo.ID, bar.ID)})
	if union != "(Foo|Bar)" && union != "(Bar|Foo)" {
		t.Errorf("union rendering = %q", union)
	}
}
