// Package annot parses the documentation-comment annotations that carry
// declared types: @type, @param, @return, @extends, @constructor, @struct,
// @dict, @override, @template and @this, with type expressions in the
// !T / ?T / A|B / function(this:T, A, ...B): R notation.
//
// Parsing is tolerant: an unparsable annotation yields an error for the
// registry to report as MALFORMED_ANNOTATION and the declaration degrades to
// unknown rather than aborting analysis.
package annot

import (
	"fmt"
	"strings"
)

// ParamAnn binds a declared parameter type to a parameter name.
// Variadic marks a {...T} tail parameter.
type ParamAnn struct {
	Name     string
	Type     *TypeExpr
	Variadic bool
}

// Info is a parsed doc comment.
type Info struct {
	Type        *TypeExpr
	Params      []ParamAnn
	Return      *TypeExpr
	Extends     *TypeExpr
	This        *TypeExpr
	Templates   []string
	Constructor bool
	Interface   bool
	Struct      bool // sealed: property access restricted to declared properties
	Dict        bool // unrestricted: arbitrary property assignment permitted
	Override    bool
}

// HasTags reports whether any recognized annotation was present.
func (i *Info) HasTags() bool {
	return i != nil && (i.Type != nil || len(i.Params) > 0 || i.Return != nil ||
		i.Extends != nil || i.This != nil || len(i.Templates) > 0 ||
		i.Constructor || i.Interface || i.Struct || i.Dict || i.Override)
}

// ParseDoc parses the body of a /** ... */ comment. It returns the collected
// info plus the first malformed-annotation error encountered; the info is
// still usable when err != nil (bad tags are skipped).
func ParseDoc(doc string) (*Info, error) {
	info := &Info{}
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	body := strings.TrimSuffix(strings.TrimPrefix(doc, "/**"), "*/")
	for _, raw := range strings.Split(body, "@") {
		tagText := strings.TrimSpace(trimCommentDecoration(raw))
		if tagText == "" {
			continue
		}
		tag, rest, _ := strings.Cut(tagText, " ")
		rest = strings.TrimSpace(rest)
		switch tag {
		case "type":
			typ, err := parseBraced(rest)
			if err != nil {
				fail(err)
				continue
			}
			info.Type = typ
		case "param":
			variadic := false
			if strings.HasPrefix(rest, "{...") {
				rest = "{" + rest[len("{..."):]
				variadic = true
			}
			typ, after, err := parseBracedWithRest(rest)
			if err != nil {
				fail(err)
				continue
			}
			name, _, _ := strings.Cut(strings.TrimSpace(after), " ")
			info.Params = append(info.Params, ParamAnn{Name: name, Type: typ, Variadic: variadic})
		case "return", "returns":
			typ, err := parseBraced(rest)
			if err != nil {
				fail(err)
				continue
			}
			info.Return = typ
		case "extends":
			typ, err := parseBraced(rest)
			if err != nil {
				fail(err)
				continue
			}
			info.Extends = typ
		case "this":
			typ, err := parseBraced(rest)
			if err != nil {
				fail(err)
				continue
			}
			info.This = typ
		case "template":
			for _, t := range strings.Split(rest, ",") {
				if name := strings.TrimSpace(t); name != "" {
					info.Templates = append(info.Templates, name)
				}
			}
		case "constructor":
			info.Constructor = true
		case "interface":
			info.Interface = true
		case "struct":
			info.Struct = true
		case "dict":
			info.Dict = true
		case "override":
			info.Override = true
		}
	}
	return info, firstErr
}

// trimCommentDecoration strips the leading "* " gutters inside doc bodies.
func trimCommentDecoration(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		ln = strings.TrimSpace(ln)
		ln = strings.TrimPrefix(ln, "*")
		lines[i] = strings.TrimSpace(ln)
	}
	return strings.Join(lines, " ")
}

func parseBraced(s string) (*TypeExpr, error) {
	typ, rest, err := parseBracedWithRest(s)
	if err != nil {
		return nil, err
	}
	_ = rest
	return typ, nil
}

func parseBracedWithRest(s string) (*TypeExpr, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, "", fmt.Errorf("annotation type must be enclosed in braces: %q", s)
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := s[1:i]
				typ, err := ParseTypeExpr(inner)
				if err != nil {
					return nil, "", err
				}
				return typ, s[i+1:], nil
			}
		}
	}
	return nil, "", fmt.Errorf("unclosed annotation braces: %q", s)
}
