package parser

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/token"
)

// Binding powers, loosest first.
const (
	precComma = iota + 1
	precAssign
	precConditional
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.BitOr:
		return precBitOr
	case token.BitXor:
		return precBitXor
	case token.BitAnd:
		return precBitAnd
	case token.Eq, token.NotEq, token.StrictEq, token.StrictNotEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof, token.KwIn:
		return precRelational
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return 0
}

func (p *Parser) parseExpression() *ast.Node {
	expr := p.parseAssignExpr()
	for p.at(token.Comma) {
		p.advance()
		rhs := p.parseAssignExpr()
		expr = ast.New(ast.KindComma, expr.Span.Cover(rhs.Span)).Add(expr, rhs)
	}
	return expr
}

func (p *Parser) parseAssignExpr() *ast.Node {
	lhs := p.parseConditional()
	if !p.tok.Kind.IsAssignOp() {
		return lhs
	}
	op := p.tok.Kind
	opSpan := p.tok.Span
	p.advance()
	if !isAssignTarget(lhs) {
		p.report(diag.SynBadAssignTarget, opSpan, "invalid assignment target")
	}
	rhs := p.parseAssignExpr() // right-associative
	n := ast.New(ast.KindAssign, lhs.Span.Cover(rhs.Span)).Add(lhs, rhs)
	n.Op = op
	return n
}

func isAssignTarget(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindName, ast.KindMember, ast.KindIndex:
		return true
	}
	return false
}

func (p *Parser) parseConditional() *ast.Node {
	cond := p.parseBinary(precOr)
	if !p.accept(token.Question) {
		return cond
	}
	then := p.parseAssignExpr()
	p.eat(token.Colon)
	els := p.parseAssignExpr()
	return ast.New(ast.KindConditional, cond.Span.Cover(els.Span)).Add(cond, then, els)
}

func (p *Parser) parseBinary(minPrec int) *ast.Node {
	lhs := p.parseUnary()
	for {
		prec := binaryPrec(p.tok.Kind)
		if prec == 0 || prec < minPrec {
			return lhs
		}
		op := p.tok.Kind
		p.advance()
		rhs := p.parseBinary(prec + 1)
		n := ast.New(ast.KindBinary, lhs.Span.Cover(rhs.Span)).Add(lhs, rhs)
		n.Op = op
		lhs = n
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.tok.Kind {
	case token.Not, token.Minus, token.Plus, token.KwTypeof, token.KwDelete, token.KwVoid:
		op := p.tok.Kind
		start := p.tok.Span
		p.advance()
		operand := p.parseUnary()
		n := ast.New(ast.KindUnary, start.Cover(operand.Span)).Add(operand)
		n.Op = op
		return n
	case token.PlusPlus, token.MinusMinus:
		op := p.tok.Kind
		start := p.tok.Span
		p.advance()
		operand := p.parseUnary()
		n := ast.New(ast.KindUpdate, start.Cover(operand.Span)).Add(operand)
		n.Op = op
		n.Flags |= ast.FlagPrefix
		return n
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parseLeftHandSide()
	if (p.at(token.PlusPlus) || p.at(token.MinusMinus)) && !p.startsOnNewLine() {
		n := ast.New(ast.KindUpdate, expr.Span.Cover(p.tok.Span)).Add(expr)
		n.Op = p.tok.Kind
		p.advance()
		return n
	}
	return expr
}

// parseLeftHandSide parses new/call/member chains.
func (p *Parser) parseLeftHandSide() *ast.Node {
	var expr *ast.Node
	if p.at(token.KwNew) {
		start := p.tok.Span
		p.advance()
		callee := p.parseMemberOnly(p.parsePrimary())
		n := ast.New(ast.KindNew, start.Cover(callee.Span)).Add(callee)
		if p.at(token.LParen) {
			p.parseArguments(n)
		}
		expr = n
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallTail(expr)
}

// parseMemberOnly extends expr with member/index accesses but stops before a
// call, so "new a.b.C()" binds the argument list to the new expression.
func (p *Parser) parseMemberOnly(expr *ast.Node) *ast.Node {
	for {
		switch p.tok.Kind {
		case token.Dot:
			p.advance()
			prop := p.eat(token.Ident)
			n := ast.New(ast.KindMember, expr.Span.Cover(prop.Span)).Add(expr)
			n.Name = prop.Text
			expr = n
		case token.LBracket:
			p.advance()
			idx := p.parseExpression()
			end := p.eat(token.RBracket)
			expr = ast.New(ast.KindIndex, expr.Span.Cover(end.Span)).Add(expr, idx)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallTail(expr *ast.Node) *ast.Node {
	for {
		switch p.tok.Kind {
		case token.Dot, token.LBracket:
			expr = p.parseMemberOnly(expr)
		case token.LParen:
			call := ast.New(ast.KindCall, expr.Span).Add(expr)
			p.parseArguments(call)
			expr = call
		case token.TemplateString:
			// Tagged template: expr`...`.
			tpl := ast.New(ast.KindTemplate, p.tok.Span)
			tpl.Literal = p.tok.Text
			p.advance()
			expr = ast.New(ast.KindTaggedTemplate, expr.Span.Cover(tpl.Span)).Add(expr, tpl)
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments(call *ast.Node) {
	p.eat(token.LParen)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		call.Add(p.parseAssignExpr())
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.eat(token.RParen)
	call.Span = call.Span.Cover(end.Span)
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.tok
	switch tok.Kind {
	case token.Ident:
		p.advance()
		n := ast.New(ast.KindName, tok.Span)
		n.Name = tok.Text
		return n
	case token.KwThis:
		p.advance()
		return ast.New(ast.KindThis, tok.Span)
	case token.Number:
		p.advance()
		n := ast.New(ast.KindNumber, tok.Span)
		n.Literal = tok.Text
		return n
	case token.String:
		p.advance()
		n := ast.New(ast.KindString, tok.Span)
		n.Literal = tok.Text
		return n
	case token.Regex:
		p.advance()
		n := ast.New(ast.KindRegex, tok.Span)
		n.Literal = tok.Text
		return n
	case token.TemplateString:
		p.advance()
		n := ast.New(ast.KindTemplate, tok.Span)
		n.Literal = tok.Text
		return n
	case token.KwTrue, token.KwFalse:
		p.advance()
		n := ast.New(ast.KindBool, tok.Span)
		n.Literal = tok.Text
		return n
	case token.KwNull:
		p.advance()
		return ast.New(ast.KindNull, tok.Span)
	case token.KwUndefined:
		p.advance()
		return ast.New(ast.KindUndefined, tok.Span)
	case token.KwFunction:
		return p.parseFunction(false)
	case token.LParen:
		p.advance()
		expr := p.parseExpression()
		p.eat(token.RParen)
		return expr
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseObjectLit()
	}
	p.report(diag.SynUnexpectedToken, tok.Span, "expected expression, found '"+tok.Kind.String()+"'")
	p.advance()
	return ast.New(ast.KindEmpty, tok.Span)
}

func (p *Parser) parseArrayLit() *ast.Node {
	start := p.tok.Span
	p.eat(token.LBracket)
	arr := ast.New(ast.KindArrayLit, start)
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		arr.Add(p.parseAssignExpr())
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.eat(token.RBracket)
	arr.Span = arr.Span.Cover(end.Span)
	return arr
}

func (p *Parser) parseObjectLit() *ast.Node {
	start := p.tok.Span
	p.eat(token.LBrace)
	obj := ast.New(ast.KindObjectLit, start)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		keyTok := p.tok
		if keyTok.Kind != token.Ident && keyTok.Kind != token.String && keyTok.Kind != token.Number && !keyTok.Kind.IsKeyword() {
			p.report(diag.SynUnexpectedToken, keyTok.Span, "expected property name")
			break
		}
		p.advance()
		prop := ast.New(ast.KindProp, keyTok.Span)
		prop.Name = keyTok.Text
		p.eat(token.Colon)
		val := p.parseAssignExpr()
		prop.Add(val)
		prop.Span = prop.Span.Cover(val.Span)
		obj.Add(prop)
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.eat(token.RBrace)
	obj.Span = obj.Span.Cover(end.Span)
	return obj
}
