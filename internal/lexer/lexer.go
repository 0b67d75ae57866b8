package lexer

import (
	"strata/internal/diag"
	"strata/internal/source"
	"strata/internal/token"
)

// Lexer produces the token stream for one file. Regex-vs-division
// disambiguation relies on the previously emitted significant token, so the
// stream must be consumed in order.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token
	hold     []token.Trivia
	prev     token.Kind // last significant token kind, Invalid at start
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
		prev:     token.Invalid,
	}
}

// Next returns the next significant token with its leading trivia attached.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.prev = tok.Kind
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Leading: lx.takeHold()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))):
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)
	case ch == '`':
		tok = lx.scanTemplate()
	case ch == '/' && lx.regexAllowed():
		tok = lx.scanRegex()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.takeHold()
	lx.prev = tok.Kind
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	prev := lx.prev
	t := lx.Next()
	lx.prev = prev
	lx.look = &t
	return t
}

// regexAllowed reports whether a '/' at the current position starts a regex
// literal rather than a division operator. A regex can follow an operator,
// punctuation opening an expression position, or the start of input; it cannot
// follow a value-producing token.
func (lx *Lexer) regexAllowed() bool {
	switch lx.prev {
	case token.Ident, token.Number, token.String, token.Regex, token.TemplateString,
		token.RParen, token.RBracket, token.KwThis, token.KwTrue, token.KwFalse,
		token.KwNull, token.KwUndefined, token.PlusPlus, token.MinusMinus:
		return false
	}
	return true
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) report(code diag.Code, span source.Span, msg string) {
	if lx.reporter != nil {
		lx.reporter.Report(code, code.DefaultSeverity(), span, msg, nil)
	}
}

// collectLeadingTrivia consumes whitespace and comments, keeping doc comments
// so the parser can attach annotations to the following declaration.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.cursor.Bump()
		case ch == '\n':
			mark := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaNewline, Span: lx.cursor.SpanFrom(mark)})
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			mark := lx.cursor.Mark()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaLineComment,
				Span: lx.cursor.SpanFrom(mark),
				Text: lx.cursor.TextFrom(mark),
			})
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) scanBlockComment() {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	isDoc := lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) != '/'
	closed := false
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(mark)
	if !closed {
		lx.report(diag.LexUnterminatedBlockComment, span, "unterminated block comment")
	}
	kind := token.TriviaBlockComment
	if isDoc {
		kind = token.TriviaDocBlock
	}
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: span, Text: lx.cursor.TextFrom(mark)})
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}
