package lexer

import (
	"testing"

	"strata/internal/diag"
	"strata/internal/source"
	"strata/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), &diag.BagReporter{Bag: bag})

	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestBasicStatement(t *testing.T) {
	toks, bag := lexAll(t, "var x = 10;")
	want := []token.Kind{token.KwVar, token.Ident, token.Assign, token.Number, token.Semicolon}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestRegexVsDivision(t *testing.T) {
	toks, _ := lexAll(t, "a = b / c; x = /ab[/]c/g;")
	var sawSlash, sawRegex bool
	for _, tok := range toks {
		if tok.Kind == token.Slash {
			sawSlash = true
		}
		if tok.Kind == token.Regex {
			sawRegex = true
			if tok.Text != "/ab[/]c/g" {
				t.Fatalf("regex text = %q", tok.Text)
			}
		}
	}
	if !sawSlash || !sawRegex {
		t.Fatalf("division/regex disambiguation failed: slash=%v regex=%v", sawSlash, sawRegex)
	}
}

func TestUnterminatedRegexReported(t *testing.T) {
	_, bag := lexAll(t, "x = /abc\n;")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnterminatedRegex {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unterminated-regex diagnostic, got %v", bag.Items())
	}
}

func TestDocCommentAttaches(t *testing.T) {
	toks, _ := lexAll(t, "/** @type {!Foo} */\nvar x;")
	if len(toks) == 0 || toks[0].Kind != token.KwVar {
		t.Fatalf("expected var token first, got %v", kinds(toks))
	}
	if doc := toks[0].DocComment(); doc == "" {
		t.Fatalf("doc comment not attached")
	}
}

func TestTemplateLiteral(t *testing.T) {
	toks, bag := lexAll(t, "tag`a ${b} c`;")
	want := []token.Kind{token.Ident, token.TemplateString, token.Semicolon}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestOperators(t *testing.T) {
	toks, _ := lexAll(t, "a === b !== c <= d >= e && f || g++ ... h")
	got := kinds(toks)
	want := []token.Kind{
		token.Ident, token.StrictEq, token.Ident, token.StrictNotEq, token.Ident,
		token.LtEq, token.Ident, token.GtEq, token.Ident, token.AndAnd, token.Ident,
		token.OrOr, token.Ident, token.PlusPlus, token.Ellipsis, token.Ident,
	}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	cases := []string{"0", "42", "3.14", "0x1F", "1e10", "2.5e-3", ".5"}
	for _, src := range cases {
		toks, bag := lexAll(t, src)
		if len(toks) != 1 || toks[0].Kind != token.Number {
			t.Errorf("%q: kinds = %v", src, kinds(toks))
		}
		if bag.Len() != 0 {
			t.Errorf("%q: diagnostics %v", src, bag.Items())
		}
	}
}
