package lexer

import (
	"strata/internal/diag"
	"strata/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	mark := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(mark)
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(mark), Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	mark := lx.cursor.Mark()

	// Hex form.
	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for !lx.cursor.EOF() && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		span := lx.cursor.SpanFrom(mark)
		if digits == 0 {
			lx.report(diag.LexBadNumber, span, "hex literal needs at least one digit")
			return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.TextFrom(mark)}
		}
		return token.Token{Kind: token.Number, Span: span, Text: lx.cursor.TextFrom(mark)}
	}

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else if lx.cursor.Peek() == '.' && !isIdentStart(lx.cursor.PeekAt(1)) {
		// Trailing dot as in "1." is still a number literal.
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			lx.cursor.Bump()
			if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
				lx.cursor.Bump()
			}
			for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	return token.Token{Kind: token.Number, Span: lx.cursor.SpanFrom(mark), Text: lx.cursor.TextFrom(mark)}
}

func (lx *Lexer) scanString(quote byte) token.Token {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		}
		if ch == '\n' {
			break
		}
		lx.cursor.Bump()
		if ch == quote {
			return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(mark), Text: lx.cursor.TextFrom(mark)}
		}
	}
	span := lx.cursor.SpanFrom(mark)
	lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.TextFrom(mark)}
}

// scanTemplate consumes a whole `...` template literal, substitutions
// included, as one token. The analyses only need the tag/receiver structure,
// not the individual pieces.
func (lx *Lexer) scanTemplate() token.Token {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	depth := 0
	for !lx.cursor.EOF() {
		ch := lx.cursor.Bump()
		switch {
		case ch == '\\':
			lx.cursor.Bump()
		case ch == '$' && lx.cursor.Peek() == '{':
			lx.cursor.Bump()
			depth++
		case ch == '}' && depth > 0:
			depth--
		case ch == '`' && depth == 0:
			return token.Token{Kind: token.TemplateString, Span: lx.cursor.SpanFrom(mark), Text: lx.cursor.TextFrom(mark)}
		}
	}
	span := lx.cursor.SpanFrom(mark)
	lx.report(diag.LexUnterminatedTemplate, span, "unterminated template literal")
	return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.TextFrom(mark)}
}

// scanRegex consumes a /pattern/flags literal. Character classes may contain
// an unescaped '/'.
func (lx *Lexer) scanRegex() token.Token {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	closed := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\n' {
			break
		}
		lx.cursor.Bump()
		switch {
		case ch == '\\':
			lx.cursor.Bump()
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		case ch == '/' && !inClass:
			closed = true
		}
		if closed {
			break
		}
	}
	if !closed {
		span := lx.cursor.SpanFrom(mark)
		lx.report(diag.LexUnterminatedRegex, span, "unterminated regular expression literal")
		return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.TextFrom(mark)}
	}
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.Regex, Span: lx.cursor.SpanFrom(mark), Text: lx.cursor.TextFrom(mark)}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	mark := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	two := func(next byte, with, without token.Kind) token.Kind {
		if lx.cursor.Peek() == next {
			lx.cursor.Bump()
			return with
		}
		return without
	}

	var kind token.Kind
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '?':
		kind = token.Question
	case '.':
		if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) == '.' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = token.Ellipsis
		} else {
			kind = token.Dot
		}
	case '+':
		switch lx.cursor.Peek() {
		case '+':
			lx.cursor.Bump()
			kind = token.PlusPlus
		case '=':
			lx.cursor.Bump()
			kind = token.PlusAssign
		default:
			kind = token.Plus
		}
	case '-':
		switch lx.cursor.Peek() {
		case '-':
			lx.cursor.Bump()
			kind = token.MinusMinus
		case '=':
			lx.cursor.Bump()
			kind = token.MinusAssign
		default:
			kind = token.Minus
		}
	case '*':
		kind = two('=', token.StarAssign, token.Star)
	case '/':
		kind = two('=', token.SlashAssign, token.Slash)
	case '%':
		kind = two('=', token.PercentAssign, token.Percent)
	case '=':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = two('=', token.StrictEq, token.Eq)
		} else {
			kind = token.Assign
		}
	case '!':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = two('=', token.StrictNotEq, token.NotEq)
		} else {
			kind = token.Not
		}
	case '<':
		kind = two('=', token.LtEq, token.Lt)
	case '>':
		kind = two('=', token.GtEq, token.Gt)
	case '&':
		kind = two('&', token.AndAnd, token.BitAnd)
	case '|':
		kind = two('|', token.OrOr, token.BitOr)
	case '^':
		kind = token.BitXor
	default:
		span := lx.cursor.SpanFrom(mark)
		lx.report(diag.LexUnknownChar, span, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.TextFrom(mark)}
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(mark), Text: lx.cursor.TextFrom(mark)}
}

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
