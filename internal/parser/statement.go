package parser

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/token"
)

func (p *Parser) parseStatement() *ast.Node {
	doc := p.docOf(p.tok)
	var stmt *ast.Node
	switch p.tok.Kind {
	case token.KwVar:
		stmt = p.parseDeclList(ast.KindVar)
	case token.KwLet:
		stmt = p.parseDeclList(ast.KindLet)
	case token.KwConst:
		stmt = p.parseDeclList(ast.KindConst)
	case token.KwFunction:
		stmt = p.parseFunction(true)
	case token.KwClass:
		stmt = p.parseClass()
	case token.LBrace:
		stmt = p.parseBlock()
	case token.KwIf:
		stmt = p.parseIf()
	case token.KwWhile:
		stmt = p.parseWhile()
	case token.KwDo:
		stmt = p.parseDoWhile()
	case token.KwFor:
		stmt = p.parseFor()
	case token.KwReturn:
		stmt = p.parseReturn()
	case token.KwThrow:
		start := p.tok.Span
		p.advance()
		expr := p.parseExpression()
		stmt = ast.New(ast.KindThrow, start.Cover(expr.Span)).Add(expr)
		p.expectSemi()
	case token.KwTry:
		stmt = p.parseTry()
	case token.KwBreak:
		stmt = ast.New(ast.KindBreak, p.tok.Span)
		p.advance()
		p.expectSemi()
	case token.KwContinue:
		stmt = ast.New(ast.KindContinue, p.tok.Span)
		p.advance()
		p.expectSemi()
	case token.Semicolon:
		stmt = ast.New(ast.KindEmpty, p.tok.Span)
		p.advance()
	case token.EOF:
		return nil
	default:
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		stmt = ast.New(ast.KindExprStmt, expr.Span).Add(expr)
		p.expectSemi()
	}
	if stmt != nil && doc != "" && stmt.Doc == "" {
		stmt.Doc = doc
	}
	return stmt
}

// parseDeclList parses "var a = 1, b;" style declarations. Each declared name
// becomes a KindName child; an initializer hangs off its name node.
func (p *Parser) parseDeclList(kind ast.Kind) *ast.Node {
	start := p.tok.Span
	p.advance()
	decl := ast.New(kind, start)
	for {
		name := p.parseBindingName()
		if name == nil {
			break
		}
		if p.accept(token.Assign) {
			init := p.parseAssignExpr()
			name.Span = name.Span.Cover(init.Span)
			name.Add(init)
		}
		decl.Add(name)
		decl.Span = decl.Span.Cover(name.Span)
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expectSemi()
	return decl
}

func (p *Parser) parseBindingName() *ast.Node {
	if !p.at(token.Ident) {
		p.report(diag.SynExpectIdentifier, p.tok.Span, "expected identifier")
		return nil
	}
	n := ast.New(ast.KindName, p.tok.Span)
	n.Name = p.tok.Text
	p.advance()
	return n
}

// parseFunction parses a function declaration or expression.
// requireName is true in statement position.
func (p *Parser) parseFunction(requireName bool) *ast.Node {
	start := p.tok.Span
	doc := p.docOf(p.tok)
	p.eat(token.KwFunction)
	fn := ast.New(ast.KindFunction, start)
	fn.Doc = doc

	if p.at(token.Ident) {
		name := ast.New(ast.KindName, p.tok.Span)
		name.Name = p.tok.Text
		p.advance()
		fn.Add(name)
	} else if requireName {
		p.report(diag.SynExpectIdentifier, p.tok.Span, "function declaration needs a name")
	}

	fn.Add(p.parseParamList())
	body := p.parseBlock()
	fn.Add(body)
	fn.Span = fn.Span.Cover(body.Span)
	return fn
}

func (p *Parser) parseParamList() *ast.Node {
	params := ast.New(ast.KindParamList, p.tok.Span)
	p.eat(token.LParen)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		p.accept(token.Ellipsis) // rest parameter; arity handling lives in the type layer
		name := p.parseBindingName()
		if name == nil {
			break
		}
		if p.accept(token.Assign) {
			def := p.parseAssignExpr()
			name.Add(def)
		}
		params.Add(name)
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.eat(token.RParen)
	params.Span = params.Span.Cover(end.Span)
	return params
}

func (p *Parser) parseClass() *ast.Node {
	start := p.tok.Span
	doc := p.docOf(p.tok)
	p.eat(token.KwClass)
	cls := ast.New(ast.KindClass, start)
	cls.Doc = doc

	name := p.parseBindingName()
	if name != nil {
		cls.Add(name)
	}
	if p.accept(token.KwExtends) {
		cls.Add(p.parseLeftHandSide())
	}

	body := ast.New(ast.KindClassBody, p.tok.Span)
	p.eat(token.LBrace)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.accept(token.Semicolon) {
			continue
		}
		mdoc := p.docOf(p.tok)
		mname := p.parseBindingName()
		if mname == nil {
			p.advance()
			continue
		}
		method := ast.New(ast.KindMethod, mname.Span)
		method.Doc = mdoc
		method.Name = mname.Name
		fn := ast.New(ast.KindFunction, mname.Span)
		fn.Add(p.parseParamList())
		blk := p.parseBlock()
		fn.Add(blk)
		fn.Span = fn.Span.Cover(blk.Span)
		method.Add(mname, fn)
		method.Span = method.Span.Cover(fn.Span)
		body.Add(method)
	}
	end := p.eat(token.RBrace)
	body.Span = body.Span.Cover(end.Span)
	cls.Add(body)
	cls.Span = cls.Span.Cover(body.Span)
	return cls
}

func (p *Parser) parseBlock() *ast.Node {
	start := p.tok.Span
	p.eat(token.LBrace)
	blk := ast.New(ast.KindBlock, start)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			p.advance()
			continue
		}
		blk.Add(stmt)
	}
	end := p.eat(token.RBrace)
	blk.Span = blk.Span.Cover(end.Span)
	return blk
}

func (p *Parser) parseIf() *ast.Node {
	start := p.tok.Span
	p.advance()
	p.eat(token.LParen)
	cond := p.parseExpression()
	p.eat(token.RParen)
	then := p.parseStatement()
	n := ast.New(ast.KindIf, start).Add(cond, then)
	if then != nil {
		n.Span = n.Span.Cover(then.Span)
	}
	if p.accept(token.KwElse) {
		els := p.parseStatement()
		n.Add(els)
		if els != nil {
			n.Span = n.Span.Cover(els.Span)
		}
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	start := p.tok.Span
	p.advance()
	p.eat(token.LParen)
	cond := p.parseExpression()
	p.eat(token.RParen)
	body := p.parseStatement()
	n := ast.New(ast.KindWhile, start).Add(cond, body)
	if body != nil {
		n.Span = n.Span.Cover(body.Span)
	}
	return n
}

func (p *Parser) parseDoWhile() *ast.Node {
	start := p.tok.Span
	p.advance()
	body := p.parseStatement()
	p.eat(token.KwWhile)
	p.eat(token.LParen)
	cond := p.parseExpression()
	end := p.eat(token.RParen)
	p.expectSemi()
	return ast.New(ast.KindDoWhile, start.Cover(end.Span)).Add(body, cond)
}

func (p *Parser) parseFor() *ast.Node {
	start := p.tok.Span
	p.advance()
	p.eat(token.LParen)

	// Init clause: declaration, expression, or empty.
	var init *ast.Node
	switch p.tok.Kind {
	case token.Semicolon:
		init = ast.New(ast.KindEmpty, p.tok.Span)
	case token.KwVar, token.KwLet, token.KwConst:
		kind := ast.KindVar
		if p.tok.Kind == token.KwLet {
			kind = ast.KindLet
		} else if p.tok.Kind == token.KwConst {
			kind = ast.KindConst
		}
		declStart := p.tok.Span
		p.advance()
		name := p.parseBindingName()
		if name != nil && (p.at(token.KwIn) || p.at(token.KwOf)) {
			// for (var x in obj)
			decl := ast.New(kind, declStart).Add(name)
			p.advance()
			obj := p.parseExpression()
			p.eat(token.RParen)
			body := p.parseStatement()
			n := ast.New(ast.KindForIn, start).Add(decl, obj, body)
			if body != nil {
				n.Span = n.Span.Cover(body.Span)
			}
			return n
		}
		decl := ast.New(kind, declStart)
		if name != nil {
			if p.accept(token.Assign) {
				name.Add(p.parseAssignExpr())
			}
			decl.Add(name)
			for p.accept(token.Comma) {
				extra := p.parseBindingName()
				if extra == nil {
					break
				}
				if p.accept(token.Assign) {
					extra.Add(p.parseAssignExpr())
				}
				decl.Add(extra)
			}
		}
		init = decl
	default:
		expr := p.parseExpression()
		if p.at(token.KwIn) || p.at(token.KwOf) {
			p.advance()
			obj := p.parseExpression()
			p.eat(token.RParen)
			body := p.parseStatement()
			n := ast.New(ast.KindForIn, start).Add(expr, obj, body)
			if body != nil {
				n.Span = n.Span.Cover(body.Span)
			}
			return n
		}
		init = ast.New(ast.KindExprStmt, expr.Span).Add(expr)
	}
	p.eat(token.Semicolon)

	cond := p.emptyOr(token.Semicolon, p.parseExpressionIfPresent)
	p.eat(token.Semicolon)
	update := p.emptyOr(token.RParen, p.parseExpressionIfPresent)
	p.eat(token.RParen)

	body := p.parseStatement()
	n := ast.New(ast.KindFor, start).Add(init, cond, update, body)
	if body != nil {
		n.Span = n.Span.Cover(body.Span)
	}
	return n
}

func (p *Parser) emptyOr(stop token.Kind, parse func() *ast.Node) *ast.Node {
	if p.at(stop) {
		return ast.New(ast.KindEmpty, p.tok.Span)
	}
	return parse()
}

func (p *Parser) parseExpressionIfPresent() *ast.Node {
	return p.parseExpression()
}

func (p *Parser) parseReturn() *ast.Node {
	start := p.tok.Span
	p.advance()
	n := ast.New(ast.KindReturn, start)
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) && !p.startsOnNewLine() {
		expr := p.parseExpression()
		n.Add(expr)
		n.Span = n.Span.Cover(expr.Span)
	}
	p.expectSemi()
	return n
}

func (p *Parser) startsOnNewLine() bool {
	for _, tr := range p.tok.Leading {
		if tr.Kind == token.TriviaNewline {
			return true
		}
	}
	return false
}

func (p *Parser) parseTry() *ast.Node {
	start := p.tok.Span
	p.advance()
	try := ast.New(ast.KindTry, start)
	try.Add(p.parseBlock())

	if p.accept(token.KwCatch) {
		cstart := p.tok.Span
		p.eat(token.LParen)
		param := p.parseBindingName()
		p.eat(token.RParen)
		blk := p.parseBlock()
		c := ast.New(ast.KindCatch, cstart.Cover(blk.Span)).Add(param, blk)
		try.Add(c)
		try.Span = try.Span.Cover(c.Span)
	}
	if p.accept(token.KwFinally) {
		blk := p.parseBlock()
		try.Add(blk)
		try.Span = try.Span.Cover(blk.Span)
	}
	return try
}
