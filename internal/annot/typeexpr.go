package annot

import (
	"fmt"
	"strings"
)

// TypeExprKind discriminates parsed type expressions.
type TypeExprKind uint8

const (
	ExprName TypeExprKind = iota // possibly dotted name, with optional type args
	ExprUnion
	ExprFunction
	ExprAll // '*', the unknown/top type
)

// TypeExpr is a parsed type annotation. Nullability modifiers apply to the
// whole expression: NonNull for '!', Nullable for '?'; with neither set the
// registry applies the default for the named type.
type TypeExpr struct {
	Kind     TypeExprKind
	Name     string
	NonNull  bool
	Nullable bool
	Args     []*TypeExpr // type arguments of a parameterized name
	Members  []*TypeExpr // union members
	Params   []*TypeExpr // function parameter types
	Variadic bool        // function's last parameter is '...T'
	This     *TypeExpr   // function's declared receiver type
	Return   *TypeExpr
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "?"
	}
	prefix := ""
	if t.NonNull {
		prefix = "!"
	} else if t.Nullable {
		prefix = "?"
	}
	switch t.Kind {
	case ExprAll:
		return "*"
	case ExprUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return prefix + "(" + strings.Join(parts, "|") + ")"
	case ExprFunction:
		var b strings.Builder
		b.WriteString(prefix)
		b.WriteString("function(")
		first := true
		if t.This != nil {
			b.WriteString("this:")
			b.WriteString(t.This.String())
			first = false
		}
		for i, p := range t.Params {
			if !first {
				b.WriteString(", ")
			}
			first = false
			if t.Variadic && i == len(t.Params)-1 {
				b.WriteString("...")
			}
			b.WriteString(p.String())
		}
		b.WriteString(")")
		if t.Return != nil {
			b.WriteString(": ")
			b.WriteString(t.Return.String())
		}
		return b.String()
	default:
		s := prefix + t.Name
		if len(t.Args) > 0 {
			parts := make([]string, len(t.Args))
			for i, a := range t.Args {
				parts[i] = a.String()
			}
			s += "<" + strings.Join(parts, ",") + ">"
		}
		return s
	}
}

// ParseTypeExpr parses a single type expression like "!Foo", "?Bar|Baz",
// "function(this:Foo, number, ...string): boolean" or "Array<T>".
func ParseTypeExpr(s string) (*TypeExpr, error) {
	p := &typeParser{src: s}
	expr, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing characters in type expression %q", s)
	}
	return expr, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) parseUnion() (*TypeExpr, error) {
	first, err := p.parseSingle()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '|' {
		return first, nil
	}
	union := &TypeExpr{Kind: ExprUnion, Members: []*TypeExpr{first}}
	for p.peek() == '|' {
		p.pos++
		next, err := p.parseSingle()
		if err != nil {
			return nil, err
		}
		union.Members = append(union.Members, next)
		p.skipSpace()
	}
	return union, nil
}

func (p *typeParser) parseSingle() (*TypeExpr, error) {
	p.skipSpace()
	nonNull, nullable := false, false
	switch p.peek() {
	case '!':
		nonNull = true
		p.pos++
	case '?':
		nullable = true
		p.pos++
		p.skipSpace()
		if p.pos == len(p.src) || p.peek() == '|' || p.peek() == ')' || p.peek() == ',' {
			// Bare '?' is the unknown type.
			return &TypeExpr{Kind: ExprAll, Nullable: true}, nil
		}
	}
	p.skipSpace()

	switch {
	case p.peek() == '*':
		p.pos++
		return &TypeExpr{Kind: ExprAll, NonNull: nonNull, Nullable: nullable}, nil
	case p.peek() == '(':
		p.pos++
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("unclosed '(' in type expression %q", p.src)
		}
		p.pos++
		inner.NonNull = inner.NonNull || nonNull
		inner.Nullable = inner.Nullable || nullable
		return inner, nil
	}

	name := p.parseName()
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
	}
	if name == "function" && p.peek() == '(' {
		return p.parseFunctionTail(nonNull, nullable)
	}
	expr := &TypeExpr{Kind: ExprName, Name: name, NonNull: nonNull, Nullable: nullable}
	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			expr.Args = append(expr.Args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		if p.peek() != '>' {
			return nil, fmt.Errorf("unclosed '<' in type expression %q", p.src)
		}
		p.pos++
	}
	return expr, nil
}

func (p *typeParser) parseName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c == '$' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseFunctionTail(nonNull, nullable bool) (*TypeExpr, error) {
	fn := &TypeExpr{Kind: ExprFunction, NonNull: nonNull, Nullable: nullable}
	p.pos++ // '('
	p.skipSpace()
	for p.peek() != ')' {
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unclosed function type in %q", p.src)
		}
		if strings.HasPrefix(p.src[p.pos:], "this") {
			save := p.pos
			p.pos += len("this")
			p.skipSpace()
			if p.peek() == ':' {
				p.pos++
				this, err := p.parseUnion()
				if err != nil {
					return nil, err
				}
				fn.This = this
				p.skipSpace()
				if p.peek() == ',' {
					p.pos++
				}
				continue
			}
			p.pos = save
		}
		if strings.HasPrefix(p.src[p.pos:], "...") {
			p.pos += 3
			fn.Variadic = true
		}
		param, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		p.skipSpace()
		if fn.Variadic && p.peek() == ',' {
			return nil, fmt.Errorf("variadic parameter must be last in %q", p.src)
		}
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++ // ')'
	p.skipSpace()
	if p.peek() == ':' {
		p.pos++
		ret, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		fn.Return = ret
	}
	return fn, nil
}
