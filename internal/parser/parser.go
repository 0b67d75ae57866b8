package parser

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/lexer"
	"strata/internal/source"
	"strata/internal/token"
)

// Parser builds the AST for one file. It recovers from syntax errors by
// resynchronizing at statement boundaries, so a partially malformed file
// still yields a tree the analyses can run over.
type Parser struct {
	lex      *lexer.Lexer
	tok      token.Token
	reporter diag.Reporter
	file     source.FileID
}

// Parse runs the lexer and parser over file and returns the script root.
func Parse(file *source.File, reporter diag.Reporter) *ast.Node {
	p := &Parser{
		lex:      lexer.New(file, reporter),
		reporter: reporter,
		file:     file.ID,
	}
	p.advance()
	root := ast.New(ast.KindScript, source.Span{File: file.ID})
	for p.tok.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			// Could not make progress; skip one token to avoid looping.
			p.advance()
			continue
		}
		root.Add(stmt)
	}
	if last := root.Last(); last != nil {
		root.Span = root.Span.Cover(last.Span)
	}
	return root
}

func (p *Parser) advance() {
	p.tok = p.lex.Next()
}

func (p *Parser) peek() token.Token {
	return p.lex.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

// eat consumes the current token when it matches, reporting otherwise.
func (p *Parser) eat(k token.Kind) token.Token {
	tok := p.tok
	if tok.Kind != k {
		p.report(diag.SynUnexpectedToken, tok.Span, "expected '"+k.String()+"', found '"+tok.Kind.String()+"'")
		return tok
	}
	p.advance()
	return tok
}

// accept consumes the current token when it matches and reports success.
func (p *Parser) accept(k token.Kind) bool {
	if p.tok.Kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) report(code diag.Code, span source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, code.DefaultSeverity(), span, msg, nil)
	}
}

// docOf extracts the raw doc comment preceding the current token, if any.
func (p *Parser) docOf(tok token.Token) string {
	return tok.DocComment()
}

// expectSemi consumes a statement terminator. Semicolons are optional at
// newlines and before a closing brace (automatic semicolon insertion,
// simplified to what the analyses need).
func (p *Parser) expectSemi() {
	if p.accept(token.Semicolon) {
		return
	}
	if p.tok.Kind == token.RBrace || p.tok.Kind == token.EOF {
		return
	}
	for _, tr := range p.tok.Leading {
		if tr.Kind == token.TriviaNewline {
			return
		}
	}
	p.report(diag.SynExpectSemicolon, p.tok.Span, "expected ';'")
}
