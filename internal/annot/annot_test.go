package annot

import "testing"

func TestParseTypeExprBasics(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"!Foo", "!Foo"},
		{"?Bar", "?Bar"},
		{"Foo|Bar", "(Foo|Bar)"},
		{"*", "*"},
		{"Array<T>", "Array<T>"},
		{"function(number, string): boolean", "function(number, string): boolean"},
		{"function(this:Foo, number)", "function(this:Foo, number)"},
		{"function(number, ...string): boolean", "function(number, ...string): boolean"},
	}
	for _, tc := range cases {
		expr, err := ParseTypeExpr(tc.src)
		if err != nil {
			t.Errorf("%q: %v", tc.src, err)
			continue
		}
		if got := expr.String(); got != tc.want {
			t.Errorf("%q parsed to %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestParseTypeExprErrors(t *testing.T) {
	bad := []string{"", "!", "Foo|", "function(", "Array<T", "(Foo", "function(...number, string)"}
	for _, src := range bad {
		if _, err := ParseTypeExpr(src); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

func TestParseDocTags(t *testing.T) {
	doc := `/**
 * Makes a widget.
 * @constructor
 * @struct
 * @extends {Base}
 * @template T
 * @param {!Foo} foo the input
 * @param {number} n
 * @return {?T}
 */`
	info, err := ParseDoc(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Constructor || !info.Struct {
		t.Fatalf("flags lost: %+v", info)
	}
	if info.Extends == nil || info.Extends.Name != "Base" {
		t.Fatalf("extends lost")
	}
	if len(info.Templates) != 1 || info.Templates[0] != "T" {
		t.Fatalf("templates = %v", info.Templates)
	}
	if len(info.Params) != 2 || info.Params[0].Name != "foo" || !info.Params[0].Type.NonNull {
		t.Fatalf("params = %+v", info.Params)
	}
	if info.Return == nil || !info.Return.Nullable {
		t.Fatalf("return lost")
	}
}

func TestParseDocMalformed(t *testing.T) {
	doc := "/** @type {!Foo|} */"
	info, err := ParseDoc(doc)
	if err == nil {
		t.Fatalf("expected malformed-annotation error")
	}
	if info.Type != nil {
		t.Fatalf("malformed tag should be dropped")
	}
}

func TestParseDocTypeOnly(t *testing.T) {
	info, err := ParseDoc("/** @type {!Foo} */")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if info.Type == nil || info.Type.Name != "Foo" || !info.Type.NonNull {
		t.Fatalf("type = %+v", info.Type)
	}
	if !info.HasTags() {
		t.Fatalf("HasTags should be true")
	}
}
