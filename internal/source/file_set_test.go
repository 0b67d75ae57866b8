package source

import "testing"

func TestAddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.js", []byte("var a;\nvar b;\n"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected virtual flag")
	}
	start, _ := fs.Resolve(Span{File: id, Start: 7, End: 12})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("expected 2:1, got %d:%d", start.Line, start.Col)
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.js", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := f.Line(tc.line); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	if a == b {
		t.Fatalf("distinct strings interned to the same ID")
	}
	if again := in.Intern("foo"); again != a {
		t.Fatalf("re-interning changed the ID: %d vs %d", again, a)
	}
	if got := in.MustLookup(a); got != "foo" {
		t.Fatalf("lookup returned %q", got)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("expected unknown ID to fail lookup")
	}
}

func TestSpanCover(t *testing.T) {
	s := Span{File: 1, Start: 10, End: 20}
	got := s.Cover(Span{File: 1, Start: 5, End: 15})
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("cover = %v", got)
	}
	// A span from another file must not widen.
	got = s.Cover(Span{File: 2, Start: 0, End: 100})
	if got != s {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
}
